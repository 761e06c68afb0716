package services

import (
	"context"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, input models.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id uint, input models.CategoryInput) (*models.Category, error)
	// Delete removes the category and detaches its menu items
	Delete(ctx context.Context, id uint) error
}

type categoryService struct {
	db        *gorm.DB
	sanitizer Sanitizer
}

func NewCategoryService(db *gorm.DB, sanitizer Sanitizer) CategoryService {
	return &categoryService{db: db, sanitizer: sanitizer}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}

func (s *categoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, notFound(err, "category %d", id)
	}
	return &category, nil
}

func (s *categoryService) Create(ctx context.Context, input models.CategoryInput) (*models.Category, error) {
	category := models.Category{}
	if err := s.apply(&category, input); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, errors.Wrap(err, "create category")
	}
	log.WithField("category_id", category.ID).Info("Category created")
	return &category, nil
}

func (s *categoryService) Update(ctx context.Context, id uint, input models.CategoryInput) (*models.Category, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(category, input); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":        category.Name,
		"description": category.Description,
	}).Error
	if err != nil {
		return nil, errors.Wrapf(err, "update category %d", id)
	}
	return s.GetByID(ctx, id)
}

func (s *categoryService) apply(category *models.Category, input models.CategoryInput) error {
	name := s.sanitizer.Sanitize(input.Name)
	if name == "" {
		return errors.Wrap(ErrValidation, "category name is required")
	}
	category.Name = name
	category.Description = sanitizePtr(s.sanitizer, input.Description)
	return nil
}

func (s *categoryService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return notFound(err, "category %d", id)
		}
		if err := tx.Model(&models.FastFood{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return errors.Wrap(err, "detach menu items")
		}
		if err := tx.Delete(&category).Error; err != nil {
			return errors.Wrapf(err, "delete category %d", id)
		}
		log.WithField("category_id", id).Info("Category deleted")
		return nil
	})
}
