package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/middleware"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// OrderController handles HTTP requests related to orders
type OrderController interface {
	// CreateOrder composes and stores an order for the authenticated user
	CreateOrder(c *gin.Context)
	// GetOrder returns one order with its lines and history
	GetOrder(c *gin.Context)
	// GetOrdersByUser lists the orders of one user
	GetOrdersByUser(c *gin.Context)
	// GetRecentOrders lists the orders of the recent window (admin)
	GetRecentOrders(c *gin.Context)
	// UpdateOrderStatus moves an order through its lifecycle (admin)
	UpdateOrderStatus(c *gin.Context)
}

type orderController struct {
	service    services.OrderService
	recentDays int
	now        func() time.Time
}

// NewOrderController creates an OrderController. recentDays is the default
// window of the admin order list.
func NewOrderController(service services.OrderService, recentDays int) OrderController {
	return &orderController{service: service, recentDays: recentDays, now: time.Now}
}

// CreateOrder godoc
// @Summary Place an order
// @Description Compose an order from cart lines. Prices are read from the live catalog and snapshotted.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body models.CreateOrderRequest true "Customer details and cart lines"
// @Success 201 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.OAuth2Error
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/orders [post]
func (oc *orderController) CreateOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && strings.HasSuffix(typeErr.Field, "quantity") {
			c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrInvalidQuantity,
				"Quantity must be a whole number", map[string]interface{}{"quantity": typeErr.Value}))
			return
		}
		respondBindError(c, err)
		return
	}

	order, err := oc.service.ComposeOrder(c.Request.Context(), userID, req.CustomerInfo, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrder godoc
// @Summary Get order by ID
// @Description Get an order with its lines and status history. Customers only see their own orders.
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/orders/{id} [get]
func (oc *orderController) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := oc.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	// Foreign orders look missing to customers
	if !middleware.CanAccessUser(c, order.UserID) {
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrOrderNotFound, "Order not found"))
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetOrdersByUser godoc
// @Summary List orders of a user
// @Description List the orders placed by a user, newest first. Customers may only list their own.
// @Tags orders
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} models.Order
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/orders/user/{userId} [get]
func (oc *orderController) GetOrdersByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	if !middleware.CanAccessUser(c, userID) {
		c.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "You can only list your own orders"))
		return
	}

	orders, err := oc.service.GetOrdersByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetRecentOrders godoc
// @Summary List recent orders
// @Description List orders placed since midnight `days` days ago (default from configuration)
// @Tags admin
// @Produce json
// @Param days query int false "Window size in days"
// @Success 200 {array} models.Order
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/orders [get]
func (oc *orderController) GetRecentOrders(c *gin.Context) {
	days := oc.recentDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "days must be a non-negative integer",
				map[string]interface{}{"days": raw}))
			return
		}
		days = parsed
	}

	since := services.RecentWindowStart(oc.now(), days)
	orders, err := oc.service.GetRecentOrders(c.Request.Context(), since)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus godoc
// @Summary Update order status
// @Description Move an order forward (Pending, Preparing, Delivering, Completed) or cancel it. An optional version guards against concurrent edits.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param status body models.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/admin/orders/{id} [put]
func (oc *orderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := oc.service.UpdateStatus(c.Request.Context(), id, req, adminID)
	if err != nil {
		log.WithFields(logrus.Fields{"order_id": id, "status": req.Status, "error": err.Error()}).Debug("Status update refused")
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func respondOrderError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrOrderNotFound, err.Error()))
		return
	}
	respondError(c, err)
}
