package services

import (
	"context"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ComboService manages combo definitions. A combo is sold at its own price;
// the contents only describe what the bundle holds.
type ComboService interface {
	ListActive(ctx context.Context) ([]models.Combo, error)
	ListAll(ctx context.Context) ([]models.Combo, error)
	GetByID(ctx context.Context, id uint) (*models.Combo, error)
	// Resolve returns an active combo with its current items or ErrNotFound
	Resolve(ctx context.Context, id uint) (*models.Combo, error)
	Create(ctx context.Context, input models.ComboInput) (*models.Combo, error)
	// Update replaces the combo fields and its whole item list
	Update(ctx context.Context, id uint, input models.ComboInput) (*models.Combo, error)
	ToggleActive(ctx context.Context, id uint) (*models.Combo, error)
	SetImage(ctx context.Context, id uint, imageURL string) (*models.Combo, error)
	// Delete fails with ErrConflict while any placed order line references the combo
	Delete(ctx context.Context, id uint) error
}

type comboService struct {
	db        *gorm.DB
	sanitizer Sanitizer
}

func NewComboService(db *gorm.DB, sanitizer Sanitizer) ComboService {
	return &comboService{db: db, sanitizer: sanitizer}
}

func (s *comboService) ListActive(ctx context.Context) ([]models.Combo, error) {
	var combos []models.Combo
	if err := s.db.WithContext(ctx).Preload("Items").Where("is_active = ?", true).Order("id").Find(&combos).Error; err != nil {
		return nil, errors.Wrap(err, "list active combos")
	}
	return combos, nil
}

func (s *comboService) ListAll(ctx context.Context) ([]models.Combo, error) {
	var combos []models.Combo
	if err := s.db.WithContext(ctx).Preload("Items").Order("id").Find(&combos).Error; err != nil {
		return nil, errors.Wrap(err, "list combos")
	}
	return combos, nil
}

func (s *comboService) GetByID(ctx context.Context, id uint) (*models.Combo, error) {
	return findCombo(s.db.WithContext(ctx), id, false)
}

func (s *comboService) Resolve(ctx context.Context, id uint) (*models.Combo, error) {
	return findCombo(s.db.WithContext(ctx), id, true)
}

func findCombo(db *gorm.DB, id uint, activeOnly bool) (*models.Combo, error) {
	var combo models.Combo
	query := db.Preload("Items").Where("id = ?", id)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.First(&combo).Error; err != nil {
		return nil, notFound(err, "combo %d", id)
	}
	return &combo, nil
}

func (s *comboService) Create(ctx context.Context, input models.ComboInput) (*models.Combo, error) {
	combo := models.Combo{IsActive: true}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, err := s.apply(tx, &combo, input)
		if err != nil {
			return err
		}
		combo.Items = items
		return errors.Wrap(tx.Create(&combo).Error, "create combo")
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"combo_id": combo.ID,
		"items":    len(combo.Items),
		"price":    combo.Price.StringFixed(2),
	}).Info("Combo created")
	return &combo, nil
}

func (s *comboService) Update(ctx context.Context, id uint, input models.ComboInput) (*models.Combo, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		combo, err := findCombo(tx, id, false)
		if err != nil {
			return err
		}
		items, err := s.apply(tx, combo, input)
		if err != nil {
			return err
		}
		err = tx.Model(&models.Combo{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":        combo.Name,
			"description": combo.Description,
			"price":       combo.Price,
		}).Error
		if err != nil {
			return errors.Wrapf(err, "update combo %d", id)
		}
		if err := tx.Where("combo_id = ?", id).Delete(&models.ComboItem{}).Error; err != nil {
			return errors.Wrap(err, "discard combo items")
		}
		for i := range items {
			items[i].ComboID = id
		}
		return errors.Wrap(tx.Create(&items).Error, "store combo items")
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"combo_id": id, "items": len(input.Items)}).Info("Combo updated")
	return s.GetByID(ctx, id)
}

// apply validates input and copies the scalar fields onto combo.
// It returns the new item list; a zero quantity means one.
func (s *comboService) apply(tx *gorm.DB, combo *models.Combo, input models.ComboInput) ([]models.ComboItem, error) {
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}
	name := s.sanitizer.Sanitize(input.Name)
	description := s.sanitizer.Sanitize(input.Description)
	if name == "" || description == "" {
		return nil, errors.Wrap(ErrValidation, "name and description are required")
	}
	if len(input.Items) == 0 {
		return nil, errors.Wrap(ErrValidation, "a combo needs at least one item")
	}

	items := make([]models.ComboItem, 0, len(input.Items))
	for i, in := range input.Items {
		quantity := in.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 0 {
			return nil, errors.Wrapf(ErrInvalidQuantity, "combo item %d", i)
		}
		if _, err := findFastFood(tx, in.FastFoodID, false); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, errors.Wrapf(ErrReferenceNotFound, "combo item %d: menu item %d", i, in.FastFoodID)
			}
			return nil, err
		}
		items = append(items, models.ComboItem{FastFoodID: in.FastFoodID, Quantity: quantity})
	}

	combo.Name = name
	combo.Description = description
	combo.Price = input.Price.Round(2)
	return items, nil
}

func (s *comboService) ToggleActive(ctx context.Context, id uint) (*models.Combo, error) {
	combo, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Combo{}).Where("id = ?", id).Update("is_active", !combo.IsActive).Error; err != nil {
		return nil, errors.Wrapf(err, "toggle combo %d", id)
	}
	combo.IsActive = !combo.IsActive
	log.WithFields(logrus.Fields{"combo_id": id, "is_active": combo.IsActive}).Info("Combo availability changed")
	return combo, nil
}

func (s *comboService) SetImage(ctx context.Context, id uint, imageURL string) (*models.Combo, error) {
	combo, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Combo{}).Where("id = ?", id).Update("image_url", imageURL).Error; err != nil {
		return nil, errors.Wrapf(err, "set image of combo %d", id)
	}
	combo.ImageURL = &imageURL
	return combo, nil
}

func (s *comboService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var combo models.Combo
		if err := tx.First(&combo, id).Error; err != nil {
			return notFound(err, "combo %d", id)
		}
		var refs int64
		if err := tx.Model(&models.OrderItem{}).Where("combo_id = ?", id).Count(&refs).Error; err != nil {
			return errors.Wrap(err, "count order references")
		}
		if refs > 0 {
			return errors.Wrapf(ErrConflict, "combo %d is on %d order lines", id, refs)
		}
		// items are removed explicitly so drivers without FK enforcement behave the same
		if err := tx.Where("combo_id = ?", id).Delete(&models.ComboItem{}).Error; err != nil {
			return errors.Wrap(err, "delete combo items")
		}
		if err := tx.Delete(&combo).Error; err != nil {
			if isForeignKeyViolation(err) {
				return errors.Wrapf(ErrConflict, "combo %d is on an order line", id)
			}
			return errors.Wrapf(err, "delete combo %d", id)
		}
		log.WithField("combo_id", id).Info("Combo deleted")
		return nil
	})
}
