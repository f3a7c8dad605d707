package repositories

import (
	"errors"
	"rbs/src/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceRepository interface {
	GetByID(tx *gorm.DB, id uint) (*models.Resource, error)
	ListByCustomer(tx *gorm.DB, customerID uuid.UUID, skip, limit int) ([]models.Resource, error)
	Create(tx *gorm.DB, resource *models.Resource) error
	Update(tx *gorm.DB, id uint, patch *models.Resource) error
	Delete(tx *gorm.DB, id uint) error
}

type resourceRepository struct{}

func NewResourceRepository() ResourceRepository {
	return &resourceRepository{}
}

func (r *resourceRepository) GetByID(tx *gorm.DB, id uint) (*models.Resource, error) {
	var resource models.Resource
	err := tx.
		Model(&models.Resource{}).
		Where(&models.Resource{ID: id}).
		First(&resource).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *resourceRepository) ListByCustomer(tx *gorm.DB, customerID uuid.UUID, skip, limit int) ([]models.Resource, error) {
	if limit <= 0 {
		limit = 100
	}
	resources := make([]models.Resource, 0)
	err := tx.
		Model(&models.Resource{}).
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Offset(skip).
		Limit(limit).
		Find(&resources).
		Error
	if err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *resourceRepository) Create(tx *gorm.DB, resource *models.Resource) error {
	return tx.Create(resource).Error
}

// Update applies non-zero fields of patch. CustomerID is deliberately never
// updatable: a resource belongs to one tenant for its lifetime.
func (r *resourceRepository) Update(tx *gorm.DB, id uint, patch *models.Resource) error {
	patch.CustomerID = uuid.Nil
	return tx.
		Model(&models.Resource{}).
		Where(&models.Resource{ID: id}).
		Updates(patch).
		Error
}

func (r *resourceRepository) Delete(tx *gorm.DB, id uint) error {
	return tx.Delete(&models.Resource{}, id).Error
}
