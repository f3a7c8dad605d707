package repositories

import (
	"errors"
	"rbs/src/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	GetByID(tx *gorm.DB, id uuid.UUID) (*models.Customer, error)
	GetOwned(tx *gorm.DB, userID uint, customerID uuid.UUID) (*models.Customer, error)
	FirstOwnedBy(tx *gorm.DB, userID uint) (*models.Customer, error)
	GetAdmin(tx *gorm.DB, userID uint, customerID uuid.UUID) (*models.CustomerAdmin, error)
	FirstAdminFor(tx *gorm.DB, userID uint) (*models.CustomerAdmin, error)
	GetMember(tx *gorm.DB, userID uint, customerID uuid.UUID) (*models.CustomerMember, error)
	FirstMemberFor(tx *gorm.DB, userID uint) (*models.CustomerMember, error)
	Create(tx *gorm.DB, customer *models.Customer) error
	AddAdmin(tx *gorm.DB, userID uint, customerID uuid.UUID) error
	AddMember(tx *gorm.DB, userID uint, customerID uuid.UUID) error
}

type customerRepository struct{}

func NewCustomerRepository() CustomerRepository {
	return &customerRepository{}
}

func noRecord(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func (r *customerRepository) GetByID(tx *gorm.DB, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := tx.
		Model(&models.Customer{}).
		Where("id = ?", id).
		First(&customer).
		Error
	if noRecord(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) GetOwned(tx *gorm.DB, userID uint, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := tx.
		Model(&models.Customer{}).
		Where("id = ? AND owner_id = ?", customerID, userID).
		First(&customer).
		Error
	if noRecord(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FirstOwnedBy(tx *gorm.DB, userID uint) (*models.Customer, error) {
	var customer models.Customer
	err := tx.
		Model(&models.Customer{}).
		Where("owner_id = ?", userID).
		Order("created_at asc").
		First(&customer).
		Error
	if noRecord(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) GetAdmin(tx *gorm.DB, userID uint, customerID uuid.UUID) (*models.CustomerAdmin, error) {
	var admin models.CustomerAdmin
	err := tx.
		Model(&models.CustomerAdmin{}).
		Where("user_id = ? AND customer_id = ?", userID, customerID).
		First(&admin).
		Error
	if noRecord(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *customerRepository) FirstAdminFor(tx *gorm.DB, userID uint) (*models.CustomerAdmin, error) {
	var admin models.CustomerAdmin
	err := tx.
		Model(&models.CustomerAdmin{}).
		Where("user_id = ?", userID).
		Order("created_at asc").
		First(&admin).
		Error
	if noRecord(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *customerRepository) GetMember(tx *gorm.DB, userID uint, customerID uuid.UUID) (*models.CustomerMember, error) {
	var member models.CustomerMember
	err := tx.
		Model(&models.CustomerMember{}).
		Where("user_id = ? AND customer_id = ?", userID, customerID).
		First(&member).
		Error
	if noRecord(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *customerRepository) FirstMemberFor(tx *gorm.DB, userID uint) (*models.CustomerMember, error) {
	var member models.CustomerMember
	err := tx.
		Model(&models.CustomerMember{}).
		Where("user_id = ?", userID).
		Order("created_at asc").
		First(&member).
		Error
	if noRecord(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *customerRepository) Create(tx *gorm.DB, customer *models.Customer) error {
	return tx.Create(customer).Error
}

func (r *customerRepository) AddAdmin(tx *gorm.DB, userID uint, customerID uuid.UUID) error {
	return tx.Create(&models.CustomerAdmin{UserID: userID, CustomerID: customerID}).Error
}

func (r *customerRepository) AddMember(tx *gorm.DB, userID uint, customerID uuid.UUID) error {
	return tx.Create(&models.CustomerMember{UserID: userID, CustomerID: customerID}).Error
}
