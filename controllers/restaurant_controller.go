package controllers

import (
	"log"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/menuqr/menuqr-api/models"
	"github.com/menuqr/menuqr-api/services"
)

// DefaultTheme is applied to signups that do not request a theme.
// Set from configuration in main; a package var so tests can override it.
var DefaultTheme = models.ThemeDefault

// SignupRequest represents the request body for creating a restaurant
type SignupRequest struct {
	Slug     string        `json:"slug" binding:"required"`
	Name     string        `json:"name"`
	NameUr   string        `json:"name_ur"`
	Whatsapp string        `json:"whatsapp"`
	Theme    string        `json:"theme"`
	Menu     []interface{} `json:"menu"`
}

// Signup handles POST /api/v1/signup - creates a new restaurant tenant
func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	theme := req.Theme
	if theme == "" {
		theme = DefaultTheme
	}

	draft := services.RestaurantDraft{
		Name:     req.Name,
		NameUr:   req.NameUr,
		Whatsapp: req.Whatsapp,
		Menu:     req.Menu,
	}

	report, err := services.GetRecordStore().CreateRestaurant(req.Slug, draft, theme)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"slug":          req.Slug,
			"theme":         report.Restaurant.Theme,
			"menu_count":    len(report.Restaurant.Menu),
			"dropped_items": report.DroppedItems,
		},
	})
}

// ListRestaurants handles GET /api/v1/restaurants - public directory of
// all tenants
func ListRestaurants(c *gin.Context) {
	restaurants := services.GetRecordStore().Load()

	listing := make([]gin.H, 0, len(restaurants))
	for slug, rest := range restaurants {
		listing = append(listing, gin.H{
			"slug":  slug,
			"name":  rest.Name,
			"theme": rest.Theme,
		})
	}
	sort.Slice(listing, func(i, j int) bool {
		return listing[i]["slug"].(string) < listing[j]["slug"].(string)
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    listing,
	})
}

// GetMenu handles GET /api/v1/restaurants/:slug/menu - public menu view.
// Viewing a menu records a scan and makes sure the restaurant-level QR
// code exists; both are best-effort and never fail the request.
func GetMenu(c *gin.Context) {
	slug := c.Param("slug")

	restaurant, err := services.GetRecordStore().GetRestaurant(slug)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if err := services.GetEventStore().RecordScan(slug); err != nil {
		log.Printf("Failed to record scan for %s: %v", slug, err)
	}

	qrPath, err := services.GetQRService().Generate(slug, 0)
	if err != nil {
		log.Printf("Failed to generate QR code for %s: %v", slug, err)
	}

	tableNum, _ := strconv.Atoi(c.Query("table"))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"slug":       slug,
			"restaurant": restaurant,
			"qr_path":    qrPath,
			"table_num":  tableNum,
		},
	})
}

// UpdateMenuItem handles PATCH /api/v1/restaurants/:slug/items/:index -
// applies a partial field patch to one menu item (admin only)
func UpdateMenuItem(c *gin.Context) {
	slug := c.Param("slug")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Item index must be an integer",
			},
		})
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	report, err := services.GetRecordStore().UpdateMenuItem(slug, index, fields)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

// SetThemeRequest represents the request body for switching a theme
type SetThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// SetTheme handles PUT /api/v1/restaurants/:slug/theme (admin only)
func SetTheme(c *gin.Context) {
	slug := c.Param("slug")

	var req SetThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Theme is required",
			},
		})
		return
	}

	if err := services.GetRecordStore().SetTheme(slug, req.Theme); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"slug":  slug,
			"theme": req.Theme,
		},
	})
}

// DeleteRestaurant handles DELETE /api/v1/restaurants/:slug (admin only).
// The record is removed first; QR artifacts for the restaurant and its
// tables are then cleaned up best-effort.
func DeleteRestaurant(c *gin.Context) {
	slug := c.Param("slug")
	store := services.GetRecordStore()

	restaurant, err := store.GetRestaurant(slug)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if err := store.DeleteRestaurant(slug); err != nil {
		respondStoreError(c, err)
		return
	}

	qr := services.GetQRService()
	if err := qr.Delete(slug, 0); err != nil {
		log.Printf("Failed to delete QR code for %s: %v", slug, err)
	}
	for _, table := range restaurant.Tables {
		if err := qr.Delete(slug, table.Num); err != nil {
			log.Printf("Failed to delete QR code for %s table %d: %v", slug, table.Num, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"slug": slug,
		},
	})
}

// respondStoreError maps a store failure onto the HTTP error envelope
func respondStoreError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case services.IsValidation(err):
		status = http.StatusBadRequest
	case services.IsNotFound(err):
		status = http.StatusNotFound
	}

	code := "INTERNAL_ERROR"
	if se, ok := err.(*services.StoreError); ok {
		code = se.Code
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": err.Error(),
		},
	})
}
