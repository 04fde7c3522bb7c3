package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/menuqr/menuqr-api/models"
	"github.com/menuqr/menuqr-api/services"
)

// RecordScan handles POST /api/v1/restaurants/:slug/scan - logs a menu
// page view. Unknown slugs are accepted; events are not checked against
// the record store.
func RecordScan(c *gin.Context) {
	slug := c.Param("slug")

	if err := services.GetEventStore().RecordScan(slug); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RecordClick handles POST /api/v1/restaurants/:slug/click - logs a
// generic interaction with no item index
func RecordClick(c *gin.Context) {
	slug := c.Param("slug")

	if err := services.GetEventStore().RecordClick(slug, nil); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RecordItemClick handles POST /api/v1/restaurants/:slug/items/:index/click
func RecordItemClick(c *gin.Context) {
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

	if err := services.GetEventStore().RecordClick(slug, &index); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// rankedItem is one row of an analytics report with the menu item name
// resolved against the current menu.
type rankedItem struct {
	Index  *int   `json:"index"`
	Name   string `json:"name"`
	Clicks int64  `json:"clicks"`
}

// MonthlyAnalytics handles GET /api/v1/restaurants/:slug/analytics
// (?year=&month=) - monthly summary with item names joined from the menu
// (admin only)
func MonthlyAnalytics(c *gin.Context) {
	slug := c.Param("slug")

	restaurant, err := services.GetRecordStore().GetRestaurant(slug)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	year, ok := intQuery(c, "year")
	if !ok {
		return
	}
	month, ok := intQuery(c, "month")
	if !ok {
		return
	}

	report, err := services.GetEventStore().MonthlySummary(slug, year, month)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"slug":      slug,
			"year":      report.Year,
			"month":     report.Month,
			"scans":     report.Scans,
			"clicks":    report.Clicks,
			"top_items": resolveItemNames(restaurant, report.TopItems),
		},
	})
}

// TopItems handles GET /api/v1/restaurants/:slug/analytics/top (?days=) -
// trailing-window item ranking (admin only)
func TopItems(c *gin.Context) {
	slug := c.Param("slug")

	restaurant, err := services.GetRecordStore().GetRestaurant(slug)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	days, ok := intQuery(c, "days")
	if !ok {
		return
	}

	items, err := services.GetEventStore().TopItems(slug, days)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"slug":      slug,
			"top_items": resolveItemNames(restaurant, items),
		},
	})
}

// resolveItemNames joins click rankings against the current menu. A nil
// index is a generic click; an index past the end of the menu belongs to
// an item that has since been removed.
func resolveItemNames(restaurant *models.Restaurant, items []services.ItemClicks) []rankedItem {
	ranked := make([]rankedItem, 0, len(items))
	for _, item := range items {
		name := "General"
		if item.ItemIndex != nil {
			idx := *item.ItemIndex
			if idx >= 0 && idx < len(restaurant.Menu) {
				name = restaurant.Menu[idx].Name
			} else {
				name = fmt.Sprintf("Item %d", idx)
			}
		}
		ranked = append(ranked, rankedItem{Index: item.ItemIndex, Name: name, Clicks: item.Clicks})
	}
	return ranked
}

// intQuery parses an optional integer query parameter, responding with a
// validation error itself when the value is present but malformed.
func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": fmt.Sprintf("Query parameter %q must be an integer", name),
			},
		})
		return 0, false
	}
	return value, true
}
