package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/middleware"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/services"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel adjusts the package logger, used by the CLI after config is loaded
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// errorMapping ties a service sentinel to its HTTP status and API code.
// Order matters: the first match wins.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{services.ErrEmptyOrder, http.StatusBadRequest, models.ErrEmptyOrder},
	{services.ErrInvalidQuantity, http.StatusBadRequest, models.ErrInvalidQuantity},
	{services.ErrInvalidItemKind, http.StatusBadRequest, models.ErrInvalidItemKind},
	{services.ErrInvalidStatus, http.StatusBadRequest, models.ErrInvalidStatus},
	{services.ErrReferenceNotFound, http.StatusBadRequest, models.ErrReferenceNotFound},
	{services.ErrValidation, http.StatusBadRequest, models.ErrValidationFailed},
	{storage.ErrUnsupportedImage, http.StatusBadRequest, models.ErrValidationFailed},
	{storage.ErrImageTooLarge, http.StatusRequestEntityTooLarge, models.ErrValidationFailed},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, models.ErrInvalidCredentials},
	{services.ErrAccountLocked, http.StatusForbidden, models.ErrAccountLocked},
	{services.ErrForbidden, http.StatusForbidden, models.ErrForbidden},
	{services.ErrNotFound, http.StatusNotFound, models.ErrNotFound},
	{services.ErrInvalidTransition, http.StatusConflict, models.ErrInvalidTransition},
	{services.ErrOptimisticLock, http.StatusConflict, models.ErrOrderModified},
	{services.ErrConflict, http.StatusConflict, models.ErrCatalogItemReferenced},
	{services.ErrAlreadyExists, http.StatusConflict, models.ErrUserAlreadyExists},
}

// respondError writes the API error envelope for err. Unknown errors are
// logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			c.JSON(m.status, models.NewAPIError(m.code, err.Error()))
			return
		}
	}

	log.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"error":  err.Error(),
	}).Error("Unhandled error")
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "An unexpected error occurred"))
}

// respondBindError reports request binding failures, with the failed rule
// per field when the validator produced them
func respondBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]interface{}, len(validationErrs))
		for _, fe := range validationErrs {
			details[fieldName(fe)] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, "Request validation failed", details))
		return
	}
	c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body: "+err.Error()))
}

// fieldName turns the validator namespace ("CreateOrderRequest.Items[0].Kind")
// into a path without the root struct name
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// parseIDParam reads a positive numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid "+name+" format",
			map[string]interface{}{name: raw}))
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the authenticated user id, answering 401 when absent
func currentUser(c *gin.Context) (uint, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "User not authenticated"))
		return 0, false
	}
	return id, true
}
