package services

import (
	"errors"

	"gorm.io/gorm"

	"cleanapp-server/errs"
	"cleanapp-server/models"
	"cleanapp-server/utils"
)

// CategoryService manages the service catalog's categories.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// ListActive returns active categories ordered by name.
func (s *CategoryService) ListActive() ([]models.ServiceCategory, error) {
	var categories []models.ServiceCategory
	err := s.db.Where("active = ?", true).Order("name ASC").Find(&categories).Error
	return categories, err
}

// Create adds a category; the slug defaults to a slugified name and must be
// unique.
func (s *CategoryService) Create(req models.CategoryCreateRequest) (*models.ServiceCategory, error) {
	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Name)
	}
	if slug == "" {
		return nil, errs.InvalidInput("category name does not produce a valid slug")
	}

	category := models.ServiceCategory{
		Name:   req.Name,
		Slug:   slug,
		Active: true,
	}
	if err := s.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.SlugTaken()
		}
		return nil, err
	}
	return &category, nil
}

// Delete removes a category unless any offer or job references it.
func (s *CategoryService) Delete(categoryID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category models.ServiceCategory
		if err := tx.First(&category, categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.CategoryNotFound()
			}
			return err
		}

		var offers int64
		if err := tx.Model(&models.ServiceOffer{}).
			Where("category_id = ?", categoryID).
			Count(&offers).Error; err != nil {
			return err
		}
		var jobs int64
		if err := tx.Model(&models.Job{}).
			Where("category_id = ?", categoryID).
			Count(&jobs).Error; err != nil {
			return err
		}
		if offers > 0 || jobs > 0 {
			return errs.CategoryInUse()
		}

		return tx.Delete(&category).Error
	})
}
