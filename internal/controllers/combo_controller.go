package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/services"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/storage"
	"github.com/gin-gonic/gin"
)

// ComboController handles HTTP requests related to combos
type ComboController interface {
	GetActiveCombos(c *gin.Context)
	GetComboByID(c *gin.Context)
	GetAllCombos(c *gin.Context)
	CreateCombo(c *gin.Context)
	UpdateCombo(c *gin.Context)
	ToggleCombo(c *gin.Context)
	UploadComboImage(c *gin.Context)
	DeleteCombo(c *gin.Context)
}

type comboController struct {
	service services.ComboService
	images  storage.ImageStore
}

func NewComboController(service services.ComboService, images storage.ImageStore) ComboController {
	return &comboController{service: service, images: images}
}

// GetActiveCombos godoc
// @Summary Get combos
// @Description Get the active combos with their items
// @Tags combos
// @Produce json
// @Success 200 {array} models.Combo
// @Failure 500 {object} models.APIError
// @Router /api/v1/public/combos [get]
func (cc *comboController) GetActiveCombos(c *gin.Context) {
	combos, err := cc.service.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, combos)
}

// GetComboByID godoc
// @Summary Get combo by ID
// @Description Get a single active combo with its items
// @Tags combos
// @Produce json
// @Param id path int true "Combo ID"
// @Success 200 {object} models.Combo
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/v1/public/combos/{id} [get]
func (cc *comboController) GetComboByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	combo, err := cc.service.Resolve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, combo)
}

// GetAllCombos godoc
// @Summary Get all combos
// @Description Get every combo including locked ones
// @Tags admin
// @Produce json
// @Success 200 {array} models.Combo
// @Security BearerAuth
// @Router /api/v1/protected/admin/combos [get]
func (cc *comboController) GetAllCombos(c *gin.Context) {
	combos, err := cc.service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, combos)
}

// CreateCombo godoc
// @Summary Create a combo
// @Description Create a combo from existing menu items. A quantity of 0 counts as 1.
// @Tags admin
// @Accept json
// @Produce json
// @Param combo body models.ComboInput true "Combo"
// @Success 201 {object} models.Combo
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/combos [post]
func (cc *comboController) CreateCombo(c *gin.Context) {
	var input models.ComboInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	combo, err := cc.service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, combo)
}

// UpdateCombo godoc
// @Summary Update a combo
// @Description Update a combo. The item list replaces the current one.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Combo ID"
// @Param combo body models.ComboInput true "Combo"
// @Success 200 {object} models.Combo
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/combos/{id} [put]
func (cc *comboController) UpdateCombo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input models.ComboInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	combo, err := cc.service.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, combo)
}

// ToggleCombo godoc
// @Summary Lock or unlock a combo
// @Tags admin
// @Produce json
// @Param id path int true "Combo ID"
// @Success 200 {object} models.Combo
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/combos/{id}/lock [put]
func (cc *comboController) ToggleCombo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	combo, err := cc.service.ToggleActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, combo)
}

// UploadComboImage godoc
// @Summary Upload a combo image
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Combo ID"
// @Param image formData file true "Image file"
// @Success 200 {object} models.Combo
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/combos/{id}/image [post]
func (cc *comboController) UploadComboImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := cc.service.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	url, ok := saveUploadedImage(c, cc.images, storage.FolderCombos)
	if !ok {
		return
	}

	combo, err := cc.service.SetImage(c.Request.Context(), id, url)
	if err != nil {
		_ = cc.images.Remove(c.Request.Context(), url)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, combo)
}

// DeleteCombo godoc
// @Summary Delete a combo
// @Description Delete a combo and its item list. Combos referenced by placed orders cannot be deleted.
// @Tags admin
// @Param id path int true "Combo ID"
// @Success 204
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/combos/{id} [delete]
func (cc *comboController) DeleteCombo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := cc.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
