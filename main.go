package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/menuqr/menuqr-api/config"
	"github.com/menuqr/menuqr-api/controllers"
	"github.com/menuqr/menuqr-api/middleware"
	"github.com/menuqr/menuqr-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting QR Menu API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect the analytics event database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize the stores and the QR collaborator
	if _, err := services.InitEventStore(config.GetDB()); err != nil {
		log.Fatalf("Failed to initialize event store: %v", err)
	}
	services.InitRecordStore(cfg.DataFile)
	services.InitQRService(cfg.BaseURL, cfg.QRDir)
	controllers.DefaultTheme = cfg.DefaultTheme

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())

	// QR images and other static assets
	router.Static("/static", "./static")

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Public tenant signup
		v1.POST("/signup", controllers.Signup)

		// Public menu and analytics ingestion
		v1.GET("/restaurants", controllers.ListRestaurants)
		v1.GET("/restaurants/:slug/menu", controllers.GetMenu)
		v1.POST("/restaurants/:slug/scan", controllers.RecordScan)
		v1.POST("/restaurants/:slug/click", controllers.RecordClick)
		v1.POST("/restaurants/:slug/items/:index/click", controllers.RecordItemClick)

		// Admin routes guarded by the shared admin password
		admin := v1.Group("/")
		admin.Use(middleware.AdminRequired(cfg))
		{
			admin.PATCH("/restaurants/:slug/items/:index", controllers.UpdateMenuItem)
			admin.PUT("/restaurants/:slug/theme", controllers.SetTheme)
			admin.DELETE("/restaurants/:slug", controllers.DeleteRestaurant)
			admin.GET("/restaurants/:slug/analytics", controllers.MonthlyAnalytics)
			admin.GET("/restaurants/:slug/analytics/top", controllers.TopItems)
			admin.GET("/restaurants/:slug/tables", controllers.ListTables)
			admin.POST("/restaurants/:slug/tables", controllers.AddTable)
			admin.DELETE("/restaurants/:slug/tables/:num", controllers.DeleteTable)
		}
	}

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "QR Menu API is running",
	})
}
