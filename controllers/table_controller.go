package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/menuqr/menuqr-api/services"
)

// AddTableRequest represents the request body for registering a table
type AddTableRequest struct {
	Num int `json:"num" binding:"required,gt=0"`
}

// ListTables handles GET /api/v1/restaurants/:slug/tables (admin only)
func ListTables(c *gin.Context) {
	slug := c.Param("slug")

	restaurant, err := services.GetRecordStore().GetRestaurant(slug)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"slug":   slug,
			"tables": restaurant.Tables,
		},
	})
}

// AddTable handles POST /api/v1/restaurants/:slug/tables (admin only).
// The QR image is generated before the record is updated; a generation
// failure is logged and the table is still added, with an empty path.
func AddTable(c *gin.Context) {
	slug := c.Param("slug")

	var req AddTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Table number must be a positive integer",
			},
		})
		return
	}

	store := services.GetRecordStore()
	if _, err := store.GetRestaurant(slug); err != nil {
		respondStoreError(c, err)
		return
	}

	qrPath, err := services.GetQRService().Generate(slug, req.Num)
	if err != nil {
		log.Printf("Failed to generate QR code for %s table %d: %v", slug, req.Num, err)
		qrPath = ""
	}

	if err := store.AddTable(slug, req.Num, qrPath); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"slug":    slug,
			"num":     req.Num,
			"qr_path": qrPath,
		},
	})
}

// DeleteTable handles DELETE /api/v1/restaurants/:slug/tables/:num (admin
// only). The record is updated first, then the QR artifact is removed
// best-effort.
func DeleteTable(c *gin.Context) {
	slug := c.Param("slug")
	num, err := strconv.Atoi(c.Param("num"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Table number must be an integer",
			},
		})
		return
	}

	if err := services.GetRecordStore().RemoveTable(slug, num); err != nil {
		respondStoreError(c, err)
		return
	}

	if err := services.GetQRService().Delete(slug, num); err != nil {
		log.Printf("Failed to delete QR code for %s table %d: %v", slug, num, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"slug": slug,
			"num":  num,
		},
	})
}
