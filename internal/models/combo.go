package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Combo is a bundle of menu items sold as one unit at its own price.
// The price is not derived from the contents.
type Combo struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    *string         `gorm:"size:500" json:"image_url,omitempty"`
	IsActive    bool            `gorm:"not null" json:"is_active"`
	Items       []ComboItem     `gorm:"foreignKey:ComboID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ComboItem is one (menu item, quantity) entry of a combo definition
type ComboItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ComboID    uint      `gorm:"index;not null" json:"combo_id"`
	FastFoodID uint      `gorm:"index;not null" json:"fast_food_id"`
	FastFood   *FastFood `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Quantity   int       `gorm:"not null" json:"quantity"`
}

// ComboInput is the payload accepted when creating or editing a combo.
// Items replace the existing list as a whole.
type ComboInput struct {
	Name        string           `json:"name" binding:"required,max=100"`
	Description string           `json:"description" binding:"required"`
	Price       decimal.Decimal  `json:"price"`
	Items       []ComboItemInput `json:"items" binding:"required,min=1,dive"`
}

type ComboItemInput struct {
	FastFoodID uint `json:"fast_food_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"gte=0"`
}
