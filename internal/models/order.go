package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrOrderItemImmutable is returned by the OrderItem update hook
var ErrOrderItemImmutable = errors.New("order items are immutable once placed")

// MaxLineQuantity caps the quantity of a single order line
const MaxLineQuantity = 1000

// MaxAmount is the largest value a decimal(10,2) money column holds
var MaxAmount = decimal.RequireFromString("99999999.99")

// Order is the root of a purchase: it owns its items and status history.
// TotalAmount always equals the sum of quantity × unit price over Items.
type Order struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	UserID        uint                `gorm:"index;not null" json:"user_id"`
	User          *User               `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	OrderDate     time.Time           `gorm:"index;not null" json:"order_date"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	CustomerName  string              `gorm:"size:100;not null" json:"customer_name"`
	Status        OrderStatus         `gorm:"size:20;not null;index" json:"status"`
	Address       string              `gorm:"not null" json:"address"`
	Phone         string              `gorm:"size:20;not null" json:"phone"`
	PaymentMethod *string             `gorm:"size:50" json:"payment_method,omitempty"`
	IsPaid        bool                `gorm:"not null" json:"is_paid"`
	Notes         *string             `json:"notes,omitempty"`
	Version       int                 `gorm:"not null" json:"version"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	History       []OrderStatusChange `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"history,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ComputeTotal sums the line totals of the order's items
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// OrderItemKind tells which catalog entity an order line refers to
type OrderItemKind string

const (
	ItemKindFastFood OrderItemKind = "FastFood"
	ItemKindCombo    OrderItemKind = "Combo"
)

// ParseItemKind matches an item kind name, ignoring case
func ParseItemKind(name string) (OrderItemKind, bool) {
	name = strings.TrimSpace(name)
	for _, k := range []OrderItemKind{ItemKindFastFood, ItemKindCombo} {
		if strings.EqualFold(string(k), name) {
			return k, true
		}
	}
	return "", false
}

// OrderItem is a placed order line. UnitPrice and the name fields are copied
// from the catalog when the order is composed and are never re-read.
type OrderItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OrderID      uint            `gorm:"index;not null" json:"order_id"`
	ItemType     OrderItemKind   `gorm:"size:10;not null" json:"item_type"`
	FastFoodID   *uint           `gorm:"index" json:"fast_food_id,omitempty"`
	ComboID      *uint           `gorm:"index" json:"combo_id,omitempty"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	FastFoodName *string         `gorm:"size:100" json:"fast_food_name,omitempty"`
	ComboName    *string         `gorm:"size:100" json:"combo_name,omitempty"`

	// Catalog rows stay while any placed line points at them
	FastFood *FastFood `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Combo    *Combo    `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
}

// LineTotal returns quantity × unit price
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Name returns the snapshotted display name of the line
func (i OrderItem) Name() string {
	if i.ItemType == ItemKindCombo && i.ComboName != nil {
		return *i.ComboName
	}
	if i.FastFoodName != nil {
		return *i.FastFoodName
	}
	return ""
}

// BeforeUpdate keeps placed lines read-only
func (i *OrderItem) BeforeUpdate(tx *gorm.DB) error {
	return ErrOrderItemImmutable
}

// OrderStatusChange records one successful status transition
type OrderStatusChange struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	OrderID    uint        `gorm:"index;not null" json:"order_id"`
	FromStatus OrderStatus `gorm:"size:20;not null" json:"from_status"`
	ToStatus   OrderStatus `gorm:"size:20;not null" json:"to_status"`
	ChangedBy  uint        `json:"changed_by"`
	ChangedAt  time.Time   `gorm:"not null" json:"changed_at"`
}

// CustomerInfo carries the delivery details supplied with a new order
type CustomerInfo struct {
	Name          string  `json:"customer_name" binding:"required,max=100"`
	Address       string  `json:"address" binding:"required"`
	Phone         string  `json:"phone" binding:"required,max=20"`
	Notes         *string `json:"notes"`
	PaymentMethod *string `json:"payment_method" binding:"omitempty,max=50"`
}

// RequestedLine is one cart line submitted by a client
type RequestedLine struct {
	Kind        OrderItemKind `json:"kind" binding:"required"`
	ReferenceID uint          `json:"reference_id" binding:"required"`
	Quantity    int           `json:"quantity"`
}

// CreateOrderRequest is the body of POST /orders
type CreateOrderRequest struct {
	CustomerInfo
	Items []RequestedLine `json:"items" binding:"dive"`
}

// UpdateOrderStatusRequest is the body of PUT /admin/orders/:id.
// When Version is set the update only applies to that version of the order.
type UpdateOrderStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Version *int   `json:"version"`
}
