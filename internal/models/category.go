package models

import (
	"time"
)

// Category groups menu items for browsing. Deleting a category detaches its items.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;not null" json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryInput is the payload accepted when creating or editing a category
type CategoryInput struct {
	Name        string  `json:"name" binding:"required,max=50"`
	Description *string `json:"description"`
}
