package services

import (
	"context"
	"time"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OrderService turns carts into placed orders and drives their lifecycle
type OrderService interface {
	// ComposeOrder resolves every requested line against the live catalog,
	// snapshots name and unit price, and stores the order with its lines
	// in one transaction. Nothing is stored when any line is rejected.
	ComposeOrder(ctx context.Context, userID uint, customer models.CustomerInfo, lines []models.RequestedLine) (*models.Order, error)
	// GetOrder returns an order with its lines and status history
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	GetOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error)
	// GetRecentOrders returns orders placed at or after since, newest first
	GetRecentOrders(ctx context.Context, since time.Time) ([]models.Order, error)
	// UpdateStatus moves an order to a new status and records the change.
	// Setting the current status again is a no-op.
	UpdateStatus(ctx context.Context, id uint, req models.UpdateOrderStatusRequest, changedBy uint) (*models.Order, error)
}

type orderService struct {
	db        *gorm.DB
	sanitizer Sanitizer
	now       func() time.Time
}

func NewOrderService(db *gorm.DB, sanitizer Sanitizer) OrderService {
	return &orderService{db: db, sanitizer: sanitizer, now: time.Now}
}

func (s *orderService) ComposeOrder(ctx context.Context, userID uint, customer models.CustomerInfo, lines []models.RequestedLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	kinds := make([]models.OrderItemKind, len(lines))
	for i, line := range lines {
		if line.Quantity <= 0 || line.Quantity > models.MaxLineQuantity {
			return nil, errors.Wrapf(ErrInvalidQuantity, "line %d has quantity %d, allowed 1 to %d", i, line.Quantity, models.MaxLineQuantity)
		}
		kind, ok := models.ParseItemKind(string(line.Kind))
		if !ok {
			return nil, errors.Wrapf(ErrInvalidItemKind, "line %d has kind %q", i, line.Kind)
		}
		kinds[i] = kind
	}

	order := models.Order{
		UserID:        userID,
		OrderDate:     s.now(),
		CustomerName:  s.sanitizer.Sanitize(customer.Name),
		Address:       s.sanitizer.Sanitize(customer.Address),
		Phone:         s.sanitizer.Sanitize(customer.Phone),
		Notes:         sanitizePtr(s.sanitizer, customer.Notes),
		PaymentMethod: sanitizePtr(s.sanitizer, customer.PaymentMethod),
		Status:        models.StatusPending,
		IsPaid:        false,
		Version:       1,
	}
	if order.CustomerName == "" || order.Address == "" || order.Phone == "" {
		return nil, errors.Wrap(ErrValidation, "customer name, address and phone are required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		priced := make([]models.PricedLine, 0, len(lines))
		for i, line := range lines {
			p, err := priceLine(tx, kinds[i], line.ReferenceID, line.Quantity)
			if err != nil {
				return errors.WithMessagef(err, "line %d", i)
			}
			priced = append(priced, p)
		}

		total := decimal.Zero
		order.Items = make([]models.OrderItem, 0, len(priced))
		for _, p := range priced {
			total = total.Add(p.Subtotal())
			order.Items = append(order.Items, p.ToOrderItem())
		}
		if total.GreaterThan(models.MaxAmount) {
			return errors.Wrapf(ErrValidation, "order total %s exceeds %s", total.StringFixed(2), models.MaxAmount.StringFixed(2))
		}
		order.TotalAmount = total

		if err := tx.Create(&order).Error; err != nil {
			// a catalog row deleted after it was priced
			if isForeignKeyViolation(err) {
				return errors.Wrap(ErrReferenceNotFound, "referenced row removed while ordering")
			}
			return errors.Wrap(err, "store order")
		}
		return nil
	})
	if err != nil {
		log.WithFields(logrus.Fields{
			"user_id": userID,
			"lines":   len(lines),
			"error":   err.Error(),
		}).Warn("Order rejected")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"lines":    len(order.Items),
		"total":    order.TotalAmount.StringFixed(2),
	}).Info("Order placed")
	return &order, nil
}

// priceLine resolves one requested line inside the composing transaction.
// Unknown and inactive references both surface as ErrReferenceNotFound.
func priceLine(tx *gorm.DB, kind models.OrderItemKind, refID uint, quantity int) (models.PricedLine, error) {
	line := models.PricedLine{Kind: kind, ReferenceID: refID, Quantity: quantity}
	switch kind {
	case models.ItemKindFastFood:
		food, err := findFastFood(tx, refID, true)
		if err != nil {
			return line, referenceError(err, "menu item %d", refID)
		}
		line.Name = food.Name
		line.UnitPrice = food.Price
	case models.ItemKindCombo:
		combo, err := findCombo(tx, refID, true)
		if err != nil {
			return line, referenceError(err, "combo %d", refID)
		}
		line.Name = combo.Name
		line.UnitPrice = combo.Price
	default:
		return line, errors.Wrapf(ErrInvalidItemKind, "%q", kind)
	}
	return line, nil
}

func referenceError(err error, format string, args ...interface{}) error {
	if errors.Is(err, ErrNotFound) {
		return errors.Wrapf(ErrReferenceNotFound, format, args...)
	}
	return err
}

func (s *orderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return findOrder(s.db.WithContext(ctx), id)
}

func findOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	err := db.
		Preload("Items", orderByID).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("changed_at, id") }).
		First(&order, id).Error
	if err != nil {
		return nil, notFound(err, "order %d", id)
	}
	return &order, nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (s *orderService) GetOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", orderByID).
		Where("user_id = ?", userID).
		Order("order_date DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list orders of user %d", userID)
	}
	return orders, nil
}

func (s *orderService) GetRecentOrders(ctx context.Context, since time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", orderByID).
		Where("order_date >= ?", since).
		Order("order_date DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "list recent orders")
	}
	return orders, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id uint, req models.UpdateOrderStatusRequest, changedBy uint) (*models.Order, error) {
	next, ok := models.ParseOrderStatus(req.Status)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidStatus, "%q", req.Status)
	}

	var updated *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := findOrder(tx, id)
		if err != nil {
			return err
		}
		if req.Version != nil && *req.Version != order.Version {
			return errors.Wrapf(ErrOptimisticLock, "order %d is at version %d, not %d", id, order.Version, *req.Version)
		}
		current := order.Status
		if current == next {
			updated = order
			return nil
		}
		if !current.CanTransitionTo(next) {
			return errors.Wrapf(ErrInvalidTransition, "%s to %s", current, next)
		}

		now := s.now()
		result := tx.Model(&models.Order{}).
			Where("id = ? AND version = ?", id, order.Version).
			Updates(map[string]interface{}{
				"status":     next,
				"version":    order.Version + 1,
				"updated_at": now,
			})
		if result.Error != nil {
			return errors.Wrapf(result.Error, "update order %d", id)
		}
		if result.RowsAffected == 0 {
			return errors.Wrapf(ErrOptimisticLock, "order %d", id)
		}

		change := models.OrderStatusChange{
			OrderID:    id,
			FromStatus: current,
			ToStatus:   next,
			ChangedBy:  changedBy,
			ChangedAt:  now,
		}
		if err := tx.Create(&change).Error; err != nil {
			return errors.Wrap(err, "record status change")
		}

		updated, err = findOrder(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"order_id":   id,
		"status":     updated.Status,
		"version":    updated.Version,
		"changed_by": changedBy,
	}).Info("Order status updated")
	return updated, nil
}

// RecentWindowStart returns local midnight `days` days before now.
// With days=1 the window covers yesterday and today.
func RecentWindowStart(now time.Time, days int) time.Time {
	if days < 0 {
		days = 0
	}
	y, m, d := now.Date()
	return time.Date(y, m, d-days, 0, 0, 0, 0, now.Location())
}
