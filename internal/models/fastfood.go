package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FastFood is a single purchasable menu item.
// Price may change over time; placed orders keep their own snapshot.
type FastFood struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CategoryID  *uint           `gorm:"index" json:"category_id,omitempty"`
	Category    *Category       `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	ImageURL    *string         `gorm:"size:500" json:"image_url,omitempty"`
	IsActive    bool            `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FastFoodInput is the payload accepted when creating or editing a menu item
type FastFoodInput struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *uint           `json:"category_id"`
}
