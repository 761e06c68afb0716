package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the capability tag checked at the HTTP boundary
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:50;not null" json:"username"`
	Email        string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FullName     string     `gorm:"size:100;not null" json:"full_name"`
	Phone        string     `gorm:"size:20" json:"phone"`
	Address      string     `json:"address"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Role         Role       `gorm:"size:20;not null" json:"role"`
	GoogleID     *string    `gorm:"size:100" json:"google_id,omitempty"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SetPassword stores the bcrypt hash of the plain password
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares a plain password against the stored hash
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Username    string     `json:"username" binding:"required,max=50"`
	Email       string     `json:"email" binding:"required,email,max=100"`
	Password    string     `json:"password" binding:"required,min=6"`
	FullName    string     `json:"full_name" binding:"required,max=100"`
	Phone       string     `json:"phone" binding:"required,max=20"`
	Address     string     `json:"address" binding:"required"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserInput is the admin payload for creating or editing an account.
// Password is optional on update.
type UserInput struct {
	Username    string     `json:"username" binding:"required,max=50"`
	Email       string     `json:"email" binding:"required,email,max=100"`
	Password    string     `json:"password" binding:"omitempty,min=6"`
	FullName    string     `json:"full_name" binding:"required,max=100"`
	Phone       string     `json:"phone" binding:"max=20"`
	Address     string     `json:"address"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Role        Role       `json:"role" binding:"omitempty,oneof=customer admin"`
}
