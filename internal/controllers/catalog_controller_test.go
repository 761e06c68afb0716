package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/services"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func catalogRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	sanitizer := services.NewSanitizer()
	images := storage.NewLocalImageStore(t.TempDir(), "http://api.test")
	foods := NewFastFoodController(services.NewFastFoodService(db, sanitizer), images)
	combos := NewComboController(services.NewComboService(db, sanitizer), images)
	categories := NewCategoryController(services.NewCategoryService(db, sanitizer))

	router := newTestEngine()
	router.GET("/fastfoods", foods.GetActiveFastFoods)
	router.GET("/fastfoods/:id", foods.GetFastFoodByID)
	router.GET("/combos", combos.GetActiveCombos)
	router.GET("/combos/:id", combos.GetComboByID)
	router.GET("/categories", categories.GetCategories)

	admin := router.Group("/admin", asUser(1, models.RoleAdmin))
	admin.GET("/fastfoods", foods.GetAllFastFoods)
	admin.POST("/fastfoods", foods.CreateFastFood)
	admin.PUT("/fastfoods/:id", foods.UpdateFastFood)
	admin.PUT("/fastfoods/:id/lock", foods.ToggleFastFood)
	admin.POST("/fastfoods/:id/image", foods.UploadFastFoodImage)
	admin.DELETE("/fastfoods/:id", foods.DeleteFastFood)
	admin.GET("/combos", combos.GetAllCombos)
	admin.POST("/combos", combos.CreateCombo)
	admin.PUT("/combos/:id", combos.UpdateCombo)
	admin.PUT("/combos/:id/lock", combos.ToggleCombo)
	admin.POST("/combos/:id/image", combos.UploadComboImage)
	admin.DELETE("/combos/:id", combos.DeleteCombo)
	admin.POST("/categories", categories.CreateCategory)
	admin.PUT("/categories/:id", categories.UpdateCategory)
	admin.DELETE("/categories/:id", categories.DeleteCategory)
	return router
}

func TestFastFoodLifecycle(t *testing.T) {
	db := setupTestDB(t)
	router := catalogRouter(t, db)

	w := performJSON(router, http.MethodPost, "/admin/fastfoods", gin.H{
		"name":        "<b>Spicy</b> Burger",
		"description": "Hot <script>alert(1)</script>",
		"price":       "49000.50",
	})
	requireStatus(t, w, http.StatusCreated)
	var food models.FastFood
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &food))
	assert.Equal(t, "Spicy Burger", food.Name)
	assert.NotContains(t, food.Description, "<script>")
	assert.True(t, food.Price.Equal(decimal.RequireFromString("49000.5")))
	assert.True(t, food.IsActive)

	w = performJSON(router, http.MethodGet, "/fastfoods", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "Spicy Burger")

	w = performJSON(router, http.MethodPut, fmt.Sprintf("/admin/fastfoods/%d/lock", food.ID), nil)
	requireStatus(t, w, http.StatusOK)

	w = performJSON(router, http.MethodGet, fmt.Sprintf("/fastfoods/%d", food.ID), nil)
	requireStatus(t, w, http.StatusNotFound)
	assert.Equal(t, models.ErrNotFound, decodeAPIError(t, w).Code)

	w = performJSON(router, http.MethodGet, "/admin/fastfoods", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "Spicy Burger")

	w = performJSON(router, http.MethodPut, fmt.Sprintf("/admin/fastfoods/%d", food.ID), gin.H{
		"name": "Spicy Burger", "description": "Hot", "price": "52000",
	})
	requireStatus(t, w, http.StatusOK)

	w = performJSON(router, http.MethodDelete, fmt.Sprintf("/admin/fastfoods/%d", food.ID), nil)
	requireStatus(t, w, http.StatusNoContent)
}

func TestFastFoodValidation(t *testing.T) {
	db := setupTestDB(t)
	router := catalogRouter(t, db)

	w := performJSON(router, http.MethodPost, "/admin/fastfoods", gin.H{"price": "10"})
	requireStatus(t, w, http.StatusBadRequest)
	apiErr := decodeAPIError(t, w)
	assert.Equal(t, models.ErrValidationFailed, apiErr.Code)
	assert.Equal(t, "required", apiErr.Details["Name"])

	w = performJSON(router, http.MethodPost, "/admin/fastfoods", gin.H{"name": "Fries", "description": "x", "price": "1.005"})
	requireStatus(t, w, http.StatusBadRequest)

	w = performJSON(router, http.MethodPost, "/admin/fastfoods", gin.H{"name": "Fries", "description": "x", "price": "-1"})
	requireStatus(t, w, http.StatusBadRequest)

	w = performJSON(router, http.MethodGet, "/fastfoods?category_id=abc", nil)
	requireStatus(t, w, http.StatusBadRequest)
}

func TestDeleteReferencedFastFood(t *testing.T) {
	db := setupTestDB(t)
	router := catalogRouter(t, db)
	customer := createUser(t, db, "c@example.com", models.RoleCustomer)
	food := createFastFood(t, db, "Beef Burger", "55000")

	_, err := services.NewOrderService(db, services.NewSanitizer()).ComposeOrder(context.Background(), customer.ID,
		models.CustomerInfo{Name: "C", Address: "A", Phone: "1"},
		[]models.RequestedLine{{Kind: models.ItemKindFastFood, ReferenceID: food.ID, Quantity: 1}})
	require.NoError(t, err)

	w := performJSON(router, http.MethodDelete, fmt.Sprintf("/admin/fastfoods/%d", food.ID), nil)
	requireStatus(t, w, http.StatusConflict)
	assert.Equal(t, models.ErrCatalogItemReferenced, decodeAPIError(t, w).Code)
}

func uploadImage(router *gin.Engine, path, fileName string, content []byte) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("image", fileName)
	_, _ = part.Write(content)
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadFastFoodImage(t *testing.T) {
	db := setupTestDB(t)
	router := catalogRouter(t, db)
	food := createFastFood(t, db, "Beef Burger", "55000")
	path := fmt.Sprintf("/admin/fastfoods/%d/image", food.ID)

	w := uploadImage(router, path, "burger.jpg", []byte("jpeg"))
	requireStatus(t, w, http.StatusOK)
	var updated models.FastFood
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.NotNil(t, updated.ImageURL)
	assert.True(t, strings.HasPrefix(*updated.ImageURL, "http://api.test/images/foods/"), *updated.ImageURL)

	w = uploadImage(router, path, "burger.exe", []byte("nope"))
	requireStatus(t, w, http.StatusBadRequest)

	w = uploadImage(router, "/admin/fastfoods/9999/image", "burger.png", []byte("png"))
	requireStatus(t, w, http.StatusNotFound)

	w = performJSON(router, http.MethodPost, path, nil)
	requireStatus(t, w, http.StatusBadRequest)
}

func TestComboEndpoints(t *testing.T) {
	db := setupTestDB(t)
	router := catalogRouter(t, db)
	burger := createFastFood(t, db, "Beef Burger", "55000")
	cola := createFastFood(t, db, "Coca Cola", "15000")

	w := performJSON(router, http.MethodPost, "/admin/combos", gin.H{
		"name":        "Burger Combo",
		"description": "burger and cola",
		"price":       "59000",
		"items": []gin.H{
			{"fast_food_id": burger.ID, "quantity": 1},
			{"fast_food_id": cola.ID},
		},
	})
	requireStatus(t, w, http.StatusCreated)
	var combo models.Combo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &combo))
	require.Len(t, combo.Items, 2)
	assert.Equal(t, 1, combo.Items[1].Quantity)

	w = performJSON(router, http.MethodGet, fmt.Sprintf("/combos/%d", combo.ID), nil)
	requireStatus(t, w, http.StatusOK)

	w = performJSON(router, http.MethodPut, fmt.Sprintf("/admin/combos/%d", combo.ID), gin.H{
		"name": "Burger Combo", "description": "burger only", "price": "50000",
		"items": []gin.H{{"fast_food_id": burger.ID, "quantity": 2}},
	})
	requireStatus(t, w, http.StatusOK)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &combo))
	require.Len(t, combo.Items, 1)
	assert.Equal(t, 2, combo.Items[0].Quantity)

	w = performJSON(router, http.MethodPost, "/admin/combos", gin.H{
		"name": "Ghost Combo", "description": "x", "price": "1",
		"items": []gin.H{{"fast_food_id": 9999, "quantity": 1}},
	})
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, models.ErrReferenceNotFound, decodeAPIError(t, w).Code)

	w = performJSON(router, http.MethodPost, "/admin/combos", gin.H{"name": "Empty", "description": "x", "price": "1"})
	requireStatus(t, w, http.StatusBadRequest)

	w = performJSON(router, http.MethodPut, fmt.Sprintf("/admin/combos/%d/lock", combo.ID), nil)
	requireStatus(t, w, http.StatusOK)
	w = performJSON(router, http.MethodGet, "/combos", nil)
	requireStatus(t, w, http.StatusOK)
	assert.NotContains(t, w.Body.String(), "Burger Combo")

	w = uploadImage(router, fmt.Sprintf("/admin/combos/%d/image", combo.ID), "combo.webp", []byte("webp"))
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "/images/combos/")

	w = performJSON(router, http.MethodDelete, fmt.Sprintf("/admin/combos/%d", combo.ID), nil)
	requireStatus(t, w, http.StatusNoContent)
	w = performJSON(router, http.MethodGet, "/admin/combos", nil)
	requireStatus(t, w, http.StatusOK)
	var remaining []models.Combo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &remaining))
	assert.Empty(t, remaining)
}

func TestCategoryEndpoints(t *testing.T) {
	db := setupTestDB(t)
	router := catalogRouter(t, db)

	w := performJSON(router, http.MethodPost, "/admin/categories", gin.H{"name": "Burgers"})
	requireStatus(t, w, http.StatusCreated)
	var category models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))

	food := createFastFood(t, db, "Beef Burger", "55000")
	require.NoError(t, db.Model(food).Update("category_id", category.ID).Error)

	w = performJSON(router, http.MethodGet, fmt.Sprintf("/fastfoods?category_id=%d", category.ID), nil)
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "Beef Burger")

	w = performJSON(router, http.MethodPut, fmt.Sprintf("/admin/categories/%d", category.ID), gin.H{"name": "Hamburgers"})
	requireStatus(t, w, http.StatusOK)

	w = performJSON(router, http.MethodGet, "/categories", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "Hamburgers")

	w = performJSON(router, http.MethodDelete, fmt.Sprintf("/admin/categories/%d", category.ID), nil)
	requireStatus(t, w, http.StatusNoContent)

	var reloaded models.FastFood
	require.NoError(t, db.First(&reloaded, food.ID).Error)
	assert.Nil(t, reloaded.CategoryID)

	w = performJSON(router, http.MethodDelete, fmt.Sprintf("/admin/categories/%d", category.ID), nil)
	requireStatus(t, w, http.StatusNotFound)
}
