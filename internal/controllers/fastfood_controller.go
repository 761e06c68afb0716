package controllers

import (
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/services"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/storage"
	"github.com/gin-gonic/gin"
)

// FastFoodController handles HTTP requests related to menu items
type FastFoodController interface {
	// GetActiveFastFoods lists the orderable menu items
	GetActiveFastFoods(c *gin.Context)
	// GetFastFoodByID retrieves an active menu item
	GetFastFoodByID(c *gin.Context)
	// GetAllFastFoods lists every menu item (admin)
	GetAllFastFoods(c *gin.Context)
	CreateFastFood(c *gin.Context)
	UpdateFastFood(c *gin.Context)
	// ToggleFastFood locks or unlocks a menu item
	ToggleFastFood(c *gin.Context)
	UploadFastFoodImage(c *gin.Context)
	DeleteFastFood(c *gin.Context)
}

type fastFoodController struct {
	service services.FastFoodService
	images  storage.ImageStore
}

// NewFastFoodController creates a new instance of FastFoodController
func NewFastFoodController(service services.FastFoodService, images storage.ImageStore) FastFoodController {
	return &fastFoodController{service: service, images: images}
}

// GetActiveFastFoods godoc
// @Summary Get menu items
// @Description Get the active menu items, optionally filtered by category
// @Tags fastfoods
// @Produce json
// @Param category_id query int false "Filter by category ID"
// @Success 200 {array} models.FastFood
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/v1/public/fastfoods [get]
func (fc *fastFoodController) GetActiveFastFoods(c *gin.Context) {
	var categoryID *uint
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid category_id format",
				map[string]interface{}{"category_id": raw}))
			return
		}
		id := uint(parsed)
		categoryID = &id
	}

	foods, err := fc.service.ListActive(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

// GetFastFoodByID godoc
// @Summary Get menu item by ID
// @Description Get a single active menu item
// @Tags fastfoods
// @Produce json
// @Param id path int true "Menu item ID"
// @Success 200 {object} models.FastFood
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/v1/public/fastfoods/{id} [get]
func (fc *fastFoodController) GetFastFoodByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	food, err := fc.service.Resolve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

// GetAllFastFoods godoc
// @Summary Get all menu items
// @Description Get every menu item including locked ones
// @Tags admin
// @Produce json
// @Success 200 {array} models.FastFood
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/fastfoods [get]
func (fc *fastFoodController) GetAllFastFoods(c *gin.Context) {
	foods, err := fc.service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

// CreateFastFood godoc
// @Summary Create a menu item
// @Description Create a new menu item. Text fields are sanitized.
// @Tags admin
// @Accept json
// @Produce json
// @Param fastfood body models.FastFoodInput true "Menu item"
// @Success 201 {object} models.FastFood
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/fastfoods [post]
func (fc *fastFoodController) CreateFastFood(c *gin.Context) {
	var input models.FastFoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	food, err := fc.service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

// UpdateFastFood godoc
// @Summary Update a menu item
// @Description Update a menu item. Orders already placed keep their prices.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Menu item ID"
// @Param fastfood body models.FastFoodInput true "Menu item"
// @Success 200 {object} models.FastFood
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/fastfoods/{id} [put]
func (fc *fastFoodController) UpdateFastFood(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input models.FastFoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	food, err := fc.service.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

// ToggleFastFood godoc
// @Summary Lock or unlock a menu item
// @Description Flip the active flag. Locked items cannot be ordered.
// @Tags admin
// @Produce json
// @Param id path int true "Menu item ID"
// @Success 200 {object} models.FastFood
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/fastfoods/{id}/lock [put]
func (fc *fastFoodController) ToggleFastFood(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	food, err := fc.service.ToggleActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

// UploadFastFoodImage godoc
// @Summary Upload a menu item image
// @Description Store a png, jpg, gif or webp image and set it as the item's image
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Menu item ID"
// @Param image formData file true "Image file"
// @Success 200 {object} models.FastFood
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/fastfoods/{id}/image [post]
func (fc *fastFoodController) UploadFastFoodImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := fc.service.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	url, ok := saveUploadedImage(c, fc.images, storage.FolderFoods)
	if !ok {
		return
	}

	food, err := fc.service.SetImage(c.Request.Context(), id, url)
	if err != nil {
		_ = fc.images.Remove(c.Request.Context(), url)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

// DeleteFastFood godoc
// @Summary Delete a menu item
// @Description Delete a menu item. Items referenced by placed orders cannot be deleted; lock them instead.
// @Tags admin
// @Param id path int true "Menu item ID"
// @Success 204
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/fastfoods/{id} [delete]
func (fc *fastFoodController) DeleteFastFood(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := fc.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// saveUploadedImage stores the multipart "image" field and returns its URL
func saveUploadedImage(c *gin.Context, images storage.ImageStore, folder storage.Folder) (string, bool) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, "An image file is required",
			map[string]interface{}{"image": "required"}))
		return "", false
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return "", false
	}
	defer file.Close()

	url, err := images.Save(c.Request.Context(), folder, header.Filename, file)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return url, true
}
