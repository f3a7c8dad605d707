package repositories

import (
	"errors"
	"rbs/src/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingRepository is the only place that knows the overlap predicate.
// Every method takes the enclosing transaction handle explicitly; the
// repository never opens or commits transactions on its own.
type BookingRepository interface {
	GetByID(tx *gorm.DB, id uint) (*models.Booking, error)
	FindOverlapping(tx *gorm.DB, resourceID uint, start, end time.Time, forUpdate bool) ([]models.Booking, error)
	ListByUserAndCustomer(tx *gorm.DB, userID uint, customerID uuid.UUID) ([]models.Booking, error)
	Create(tx *gorm.DB, booking *models.Booking) error
	Delete(tx *gorm.DB, id uint) error
}

type bookingRepository struct{}

func NewBookingRepository() BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) GetByID(tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := tx.
		Model(&models.Booking{}).
		Where(&models.Booking{ID: id}).
		First(&booking).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindOverlapping returns bookings intersecting [start, end) on the resource.
// Half-open semantics: a booking ending exactly at start does not match.
func (r *bookingRepository) FindOverlapping(tx *gorm.DB, resourceID uint, start, end time.Time, forUpdate bool) ([]models.Booking, error) {
	q := tx.
		Model(&models.Booking{}).
		Where("resource_id = ?", resourceID).
		Where("start_time < ? AND end_time > ?", end, start).
		Order("start_time asc")
	if forUpdate {
		q = q.Clauses(clause.Locking{
			Strength: "UPDATE",
			Table:    clause.Table{Name: clause.CurrentTable},
		})
	}
	bookings := make([]models.Booking, 0)
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) ListByUserAndCustomer(tx *gorm.DB, userID uint, customerID uuid.UUID) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0)
	err := tx.
		Model(&models.Booking{}).
		Joins("JOIN resources ON resources.id = bookings.resource_id").
		Where("bookings.user_id = ?", userID).
		Where("resources.customer_id = ?", customerID).
		Order("bookings.start_time asc").
		Preload("Resource").
		Find(&bookings).
		Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) Create(tx *gorm.DB, booking *models.Booking) error {
	return tx.Create(booking).Error
}

func (r *bookingRepository) Delete(tx *gorm.DB, id uint) error {
	return tx.Delete(&models.Booking{}, id).Error
}
