package services

import (
	"context"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// FastFoodService manages the menu catalog
type FastFoodService interface {
	// ListActive returns the orderable menu items, optionally limited to one category
	ListActive(ctx context.Context, categoryID *uint) ([]models.FastFood, error)
	// ListAll returns every menu item including inactive ones
	ListAll(ctx context.Context) ([]models.FastFood, error)
	// GetByID returns a menu item regardless of its active flag
	GetByID(ctx context.Context, id uint) (*models.FastFood, error)
	// Resolve returns an active menu item or ErrNotFound
	Resolve(ctx context.Context, id uint) (*models.FastFood, error)
	Create(ctx context.Context, input models.FastFoodInput) (*models.FastFood, error)
	Update(ctx context.Context, id uint, input models.FastFoodInput) (*models.FastFood, error)
	// ToggleActive flips the active flag and returns the updated item
	ToggleActive(ctx context.Context, id uint) (*models.FastFood, error)
	SetImage(ctx context.Context, id uint, imageURL string) (*models.FastFood, error)
	// Delete removes a menu item and its combo entries. It fails with
	// ErrConflict while any placed order line references the item.
	Delete(ctx context.Context, id uint) error
}

type fastFoodService struct {
	db        *gorm.DB
	sanitizer Sanitizer
}

func NewFastFoodService(db *gorm.DB, sanitizer Sanitizer) FastFoodService {
	return &fastFoodService{db: db, sanitizer: sanitizer}
}

func (s *fastFoodService) ListActive(ctx context.Context, categoryID *uint) ([]models.FastFood, error) {
	var foods []models.FastFood
	query := s.db.WithContext(ctx).Where("is_active = ?", true)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if err := query.Order("id").Find(&foods).Error; err != nil {
		return nil, errors.Wrap(err, "list active menu items")
	}
	return foods, nil
}

func (s *fastFoodService) ListAll(ctx context.Context) ([]models.FastFood, error) {
	var foods []models.FastFood
	if err := s.db.WithContext(ctx).Order("id").Find(&foods).Error; err != nil {
		return nil, errors.Wrap(err, "list menu items")
	}
	return foods, nil
}

func (s *fastFoodService) GetByID(ctx context.Context, id uint) (*models.FastFood, error) {
	return findFastFood(s.db.WithContext(ctx), id, false)
}

func (s *fastFoodService) Resolve(ctx context.Context, id uint) (*models.FastFood, error) {
	return findFastFood(s.db.WithContext(ctx), id, true)
}

// findFastFood loads a menu item through db, which may be a transaction
func findFastFood(db *gorm.DB, id uint, activeOnly bool) (*models.FastFood, error) {
	var food models.FastFood
	query := db.Where("id = ?", id)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.First(&food).Error; err != nil {
		return nil, notFound(err, "menu item %d", id)
	}
	return &food, nil
}

func (s *fastFoodService) Create(ctx context.Context, input models.FastFoodInput) (*models.FastFood, error) {
	food := models.FastFood{IsActive: true}
	if err := s.apply(ctx, &food, input); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&food).Error; err != nil {
		return nil, errors.Wrap(err, "create menu item")
	}
	log.WithFields(logrus.Fields{"fastfood_id": food.ID, "price": food.Price.StringFixed(2)}).Info("Menu item created")
	return &food, nil
}

func (s *fastFoodService) Update(ctx context.Context, id uint, input models.FastFoodInput) (*models.FastFood, error) {
	food, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, food, input); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(&models.FastFood{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":        food.Name,
		"description": food.Description,
		"price":       food.Price,
		"category_id": food.CategoryID,
	}).Error
	if err != nil {
		return nil, errors.Wrapf(err, "update menu item %d", id)
	}
	log.WithFields(logrus.Fields{"fastfood_id": id, "price": food.Price.StringFixed(2)}).Info("Menu item updated")
	return s.GetByID(ctx, id)
}

// apply validates input and copies it onto food
func (s *fastFoodService) apply(ctx context.Context, food *models.FastFood, input models.FastFoodInput) error {
	if err := validatePrice(input.Price); err != nil {
		return err
	}
	name := s.sanitizer.Sanitize(input.Name)
	description := s.sanitizer.Sanitize(input.Description)
	if name == "" || description == "" {
		return errors.Wrap(ErrValidation, "name and description are required")
	}
	if input.CategoryID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", *input.CategoryID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "check category")
		}
		if count == 0 {
			return errors.Wrapf(ErrValidation, "category %d does not exist", *input.CategoryID)
		}
	}
	food.Name = name
	food.Description = description
	food.Price = input.Price.Round(2)
	food.CategoryID = input.CategoryID
	return nil
}

func (s *fastFoodService) ToggleActive(ctx context.Context, id uint) (*models.FastFood, error) {
	food, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.FastFood{}).Where("id = ?", id).Update("is_active", !food.IsActive).Error; err != nil {
		return nil, errors.Wrapf(err, "toggle menu item %d", id)
	}
	food.IsActive = !food.IsActive
	log.WithFields(logrus.Fields{"fastfood_id": id, "is_active": food.IsActive}).Info("Menu item availability changed")
	return food, nil
}

func (s *fastFoodService) SetImage(ctx context.Context, id uint, imageURL string) (*models.FastFood, error) {
	food, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.FastFood{}).Where("id = ?", id).Update("image_url", imageURL).Error; err != nil {
		return nil, errors.Wrapf(err, "set image of menu item %d", id)
	}
	food.ImageURL = &imageURL
	return food, nil
}

func (s *fastFoodService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findFastFood(tx, id, false); err != nil {
			return err
		}
		var refs int64
		if err := tx.Model(&models.OrderItem{}).Where("fast_food_id = ?", id).Count(&refs).Error; err != nil {
			return errors.Wrap(err, "count order references")
		}
		if refs > 0 {
			return errors.Wrapf(ErrConflict, "menu item %d is on %d order lines", id, refs)
		}
		if err := tx.Where("fast_food_id = ?", id).Delete(&models.ComboItem{}).Error; err != nil {
			return errors.Wrap(err, "delete combo entries")
		}
		if err := tx.Delete(&models.FastFood{}, id).Error; err != nil {
			if isForeignKeyViolation(err) {
				return errors.Wrapf(ErrConflict, "menu item %d is on an order line", id)
			}
			return errors.Wrapf(err, "delete menu item %d", id)
		}
		log.WithField("fastfood_id", id).Info("Menu item deleted")
		return nil
	})
}

// validatePrice accepts non-negative amounts with at most two fractional digits
func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errors.Wrap(ErrValidation, "price cannot be negative")
	}
	if price.GreaterThan(models.MaxAmount) {
		return errors.Wrapf(ErrValidation, "price cannot exceed %s", models.MaxAmount.StringFixed(2))
	}
	if !price.Equal(price.Round(2)) {
		return errors.Wrap(ErrValidation, "price has more than two fractional digits")
	}
	return nil
}
