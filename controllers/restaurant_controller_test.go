package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/menuqr/menuqr-api/models"
	"github.com/menuqr/menuqr-api/services"
)

// setupControllerTest wires fresh stores and a mock QR service behind the
// package-level service instances and returns a router with all routes
// registered without the admin middleware (which has its own tests).
func setupControllerTest(t *testing.T) (*gin.Engine, *services.MockQRService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	services.SetRecordStore(services.NewRecordStore(filepath.Join(t.TempDir(), "data.json")))

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Event{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	services.SetEventStore(services.NewEventStore(db))

	mock := services.NewMockQRService()
	mock.SetAsMockForTesting()

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/signup", Signup)
	v1.GET("/restaurants", ListRestaurants)
	v1.GET("/restaurants/:slug/menu", GetMenu)
	v1.POST("/restaurants/:slug/scan", RecordScan)
	v1.POST("/restaurants/:slug/click", RecordClick)
	v1.POST("/restaurants/:slug/items/:index/click", RecordItemClick)
	v1.PATCH("/restaurants/:slug/items/:index", UpdateMenuItem)
	v1.PUT("/restaurants/:slug/theme", SetTheme)
	v1.DELETE("/restaurants/:slug", DeleteRestaurant)
	v1.GET("/restaurants/:slug/analytics", MonthlyAnalytics)
	v1.GET("/restaurants/:slug/analytics/top", TopItems)
	v1.GET("/restaurants/:slug/tables", ListTables)
	v1.POST("/restaurants/:slug/tables", AddTable)
	v1.DELETE("/restaurants/:slug/tables/:num", DeleteTable)
	return router, mock
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	response := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

func signupTestRestaurant(t *testing.T, router *gin.Engine, slug string) {
	t.Helper()

	w, _ := performRequest(t, router, http.MethodPost, "/api/v1/signup", map[string]interface{}{
		"slug": slug,
		"name": "Test Cafe",
		"menu": []map[string]interface{}{
			{"name": "Samosa", "price": 50},
			{"name": "Chai", "price": 80},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name: "Successfully create restaurant",
			requestBody: map[string]interface{}{
				"slug":  "new-cafe",
				"name":  "New Cafe",
				"theme": "traditional",
				"menu": []interface{}{
					map[string]interface{}{"name": "Biryani", "price": 300},
					map[string]interface{}{"price": 10}, // no name, dropped
				},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.True(t, response["success"].(bool))
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "new-cafe", data["slug"])
				assert.Equal(t, "traditional", data["theme"])
				assert.Equal(t, float64(1), data["menu_count"])
				assert.Equal(t, []interface{}{float64(1)}, data["dropped_items"])
			},
		},
		{
			name: "Fail with malformed slug",
			requestBody: map[string]interface{}{
				"slug": "Bad Slug!",
				"name": "Broken",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail with missing slug",
			requestBody:    map[string]interface{}{"name": "No Slug"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Invalid theme falls back to default",
			requestBody: map[string]interface{}{
				"slug":  "fallback-cafe",
				"theme": "neon",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "default", data["theme"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupControllerTest(t)

			w, response := performRequest(t, router, http.MethodPost, "/api/v1/signup", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errData["code"])
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestSignupDuplicateSlug(t *testing.T) {
	router, _ := setupControllerTest(t)
	signupTestRestaurant(t, router, "taken-cafe")

	w, response := performRequest(t, router, http.MethodPost, "/api/v1/signup", map[string]interface{}{
		"slug": "taken-cafe",
		"name": "Imposter",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errData := response["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errData["code"])

	// The original record is untouched
	w, response = performRequest(t, router, http.MethodGet, "/api/v1/restaurants/taken-cafe/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	restaurant := data["restaurant"].(map[string]interface{})
	assert.Equal(t, "Test Cafe", restaurant["name"])
}

func TestListRestaurants(t *testing.T) {
	router, _ := setupControllerTest(t)

	w, response := performRequest(t, router, http.MethodGet, "/api/v1/restaurants", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, response["data"])

	signupTestRestaurant(t, router, "zeta-cafe")
	signupTestRestaurant(t, router, "alpha-cafe")

	w, response = performRequest(t, router, http.MethodGet, "/api/v1/restaurants", nil)
	require.Equal(t, http.StatusOK, w.Code)

	listing := response["data"].([]interface{})
	require.Len(t, listing, 2)
	assert.Equal(t, "alpha-cafe", listing[0].(map[string]interface{})["slug"], "Listing should be sorted by slug")
	assert.Equal(t, "zeta-cafe", listing[1].(map[string]interface{})["slug"])
}

func TestGetMenu(t *testing.T) {
	router, mock := setupControllerTest(t)
	signupTestRestaurant(t, router, "menu-cafe")

	w, response := performRequest(t, router, http.MethodGet, "/api/v1/restaurants/menu-cafe/menu?table=4", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "menu-cafe", data["slug"])
	assert.Equal(t, "qr/menu-cafe.png", data["qr_path"])
	assert.Equal(t, float64(4), data["table_num"])
	restaurant := data["restaurant"].(map[string]interface{})
	assert.Len(t, restaurant["menu"], 2)

	// Viewing the menu records a scan and generates the restaurant QR
	assert.True(t, mock.Generated("menu-cafe", 0))
	report, err := services.GetEventStore().MonthlySummary("menu-cafe", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Scans)
}

func TestGetMenuNotFound(t *testing.T) {
	router, _ := setupControllerTest(t)

	w, response := performRequest(t, router, http.MethodGet, "/api/v1/restaurants/nowhere/menu", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	errData := response["error"].(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", errData["code"])
}

func TestGetMenuSurvivesQRFailure(t *testing.T) {
	router, mock := setupControllerTest(t)
	signupTestRestaurant(t, router, "unlucky-cafe")

	mock.FailNextGenerate()
	w, response := performRequest(t, router, http.MethodGet, "/api/v1/restaurants/unlucky-cafe/menu", nil)
	require.Equal(t, http.StatusOK, w.Code, "A QR failure must not fail the menu request")

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "", data["qr_path"])
}

func TestUpdateMenuItemEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name: "Successfully patch an item",
			path: "/api/v1/restaurants/edit-cafe/items/0",
			requestBody: map[string]interface{}{
				"price":        "75.5",
				"is_available": "no",
				"secret":       "xyz",
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.ElementsMatch(t, []interface{}{"price", "is_available"}, data["applied"])
				assert.Equal(t, []interface{}{"secret"}, data["dropped"])
			},
		},
		{
			name:           "Fail with invalid price",
			path:           "/api/v1/restaurants/edit-cafe/items/0",
			requestBody:    map[string]interface{}{"price": "abc"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail with out of range index",
			path:           "/api/v1/restaurants/edit-cafe/items/9",
			requestBody:    map[string]interface{}{"name": "X"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail with non-integer index",
			path:           "/api/v1/restaurants/edit-cafe/items/abc",
			requestBody:    map[string]interface{}{"name": "X"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail with unknown slug",
			path:           "/api/v1/restaurants/nowhere/items/0",
			requestBody:    map[string]interface{}{"name": "X"},
			expectedStatus: http.StatusNotFound,
			expectedError:  "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupControllerTest(t)
			signupTestRestaurant(t, router, "edit-cafe")

			w, response := performRequest(t, router, http.MethodPatch, tt.path, tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				errData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errData["code"])
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestSetThemeEndpoint(t *testing.T) {
	router, _ := setupControllerTest(t)
	signupTestRestaurant(t, router, "theme-cafe")

	w, _ := performRequest(t, router, http.MethodPut, "/api/v1/restaurants/theme-cafe/theme", map[string]interface{}{"theme": "traditional"})
	assert.Equal(t, http.StatusOK, w.Code)

	_, response := performRequest(t, router, http.MethodGet, "/api/v1/restaurants/theme-cafe/menu", nil)
	restaurant := response["data"].(map[string]interface{})["restaurant"].(map[string]interface{})
	assert.Equal(t, "traditional", restaurant["theme"])

	w, _ = performRequest(t, router, http.MethodPut, "/api/v1/restaurants/theme-cafe/theme", map[string]interface{}{"theme": "neon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = performRequest(t, router, http.MethodPut, "/api/v1/restaurants/nowhere/theme", map[string]interface{}{"theme": "default"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRestaurantEndpoint(t *testing.T) {
	router, mock := setupControllerTest(t)
	signupTestRestaurant(t, router, "doomed-cafe")

	// Give it a table so the cascade has something to clean up
	w, _ := performRequest(t, router, http.MethodPost, "/api/v1/restaurants/doomed-cafe/tables", map[string]interface{}{"num": 3})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = performRequest(t, router, http.MethodDelete, "/api/v1/restaurants/doomed-cafe", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Record gone, QR artifacts cleaned up for restaurant and table
	w, _ = performRequest(t, router, http.MethodGet, "/api/v1/restaurants/doomed-cafe/menu", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, mock.Generated("doomed-cafe", 3))
	assert.Equal(t, 2, mock.DeleteCount())

	// Deleting again is a clean not-found
	w, _ = performRequest(t, router, http.MethodDelete, "/api/v1/restaurants/doomed-cafe", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
