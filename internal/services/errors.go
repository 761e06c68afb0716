package services

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
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

// Sentinel errors returned (wrapped) by the services. Match them with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrReferenceNotFound  = errors.New("referenced item not found or inactive")
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer")
	ErrEmptyOrder         = errors.New("order has no lines")
	ErrInvalidItemKind    = errors.New("unknown item kind")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrOptimisticLock     = errors.New("order has been modified by another request")
	ErrConflict           = errors.New("still referenced by placed orders")
	ErrValidation         = errors.New("validation failed")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked")
	ErrForbidden          = errors.New("operation not permitted")
)

// notFound translates gorm's record-not-found into ErrNotFound with context
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrapf(ErrNotFound, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}

// isForeignKeyViolation recognises a rejected write on a foreign key, either
// translated by gorm or as reported by the sqlite and postgres drivers
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}
