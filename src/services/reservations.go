package services

import (
	"fmt"
	"log"
	"rbs/src/config"
	"rbs/src/models"
	"rbs/src/repositories"
	"rbs/src/types"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// MAX_BOOKING_HORIZON rejects far-future bookings.
const MAX_BOOKING_HORIZON = 3 * 365 * 24 * time.Hour

// Advisory lock class for booking serialization. pg_advisory_xact_lock is
// keyed (class, resource_id) so attempts on the same resource serialize while
// different resources stay fully independent. This closes the window where
// two transactions see an empty conflict set (no rows to lock) and both
// insert; the unique interval index is the backstop.
const bookingLockClass = 7001

type BookingParams struct {
	UserID     uint
	CustomerID uuid.UUID
	ResourceID uint
	StartTime  time.Time
	EndTime    time.Time
}

type ReservationService struct {
	db            *gorm.DB
	resources     repositories.ResourceRepository
	bookings      repositories.BookingRepository
	notifications repositories.NotificationRepository
	tenancy       *TenancyService
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{
		db:            db,
		resources:     repositories.NewResourceRepository(),
		bookings:      repositories.NewBookingRepository(),
		notifications: repositories.NewNotificationRepository(),
		tenancy:       NewTenancyService(repositories.NewCustomerRepository()),
	}
}

func (s *ReservationService) Tenancy() *TenancyService {
	return s.tenancy
}

// CheckAvailability reports whether [start, end) on the resource is free of
// conflicting bookings. When forUpdate is set the matched rows stay locked
// for the rest of the enclosing transaction.
func (s *ReservationService) CheckAvailability(tx *gorm.DB, resourceID uint, start, end time.Time, forUpdate bool) (bool, error) {
	overlapping, err := s.bookings.FindOverlapping(tx, resourceID, start, end, forUpdate)
	if err != nil {
		return false, translateDBError(err)
	}
	return len(overlapping) == 0, nil
}

// CreateBooking runs the attempt pipeline: validate, authorize, lock, check
// conflicts, insert. Each stage short-circuits with no partial effect.
func (s *ReservationService) CreateBooking(params *BookingParams) (*models.Booking, error) {
	if !params.EndTime.After(params.StartTime) {
		return nil, fmt.Errorf("%w: end_time must be after start_time", ErrValidation)
	}
	now := time.Now().UTC()
	if params.StartTime.Before(now) {
		return nil, fmt.Errorf("%w: start_time is in the past", ErrValidation)
	}
	if params.EndTime.After(now.Add(MAX_BOOKING_HORIZON)) {
		return nil, fmt.Errorf("%w: end_time exceeds the booking horizon", ErrValidation)
	}

	var booking *models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%s'", config.LOCK_TIMEOUT)).Error; err != nil {
			return err
		}

		resource, err := s.resources.GetByID(tx, params.ResourceID)
		if err != nil {
			return err
		}
		// Missing resource and cross-tenant resource reject identically:
		// the caller learns nothing about other tenants' inventory.
		if resource == nil || resource.CustomerID != params.CustomerID {
			return ErrNotFound
		}

		// Postgres only defines the (int, int) and (bigint) overloads, so the
		// keys must arrive as int4, not the driver's default int8.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?::int, ?::int)", bookingLockClass, int32(params.ResourceID)).Error; err != nil {
			return err
		}

		available, err := s.CheckAvailability(tx, params.ResourceID, params.StartTime, params.EndTime, true)
		if err != nil {
			return err
		}
		if !available {
			return ErrConflict
		}

		booking = &models.Booking{
			ResourceID: params.ResourceID,
			UserID:     params.UserID,
			StartTime:  params.StartTime,
			EndTime:    params.EndTime,
		}
		if err := s.bookings.Create(tx, booking); err != nil {
			return err
		}
		return s.scheduleReminders(tx, booking)
	})
	if err != nil {
		return nil, translateDBError(err)
	}
	log.Printf("Created booking [%d] on resource [%d] for user [%d]\n", booking.ID, booking.ResourceID, booking.UserID)
	return booking, nil
}

// CancelBooking hard-deletes a booking owned by the caller. The ownership
// check strictly precedes the delete. Reminder rows cascade with the booking.
func (s *ReservationService) CancelBooking(bookingID uint, userID uint) (bool, error) {
	ok := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookings.GetByID(tx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil || booking.UserID != userID {
			return nil
		}
		if err := s.bookings.Delete(tx, bookingID); err != nil {
			return err
		}
		ok = true
		return nil
	})
	if err != nil {
		return false, translateDBError(err)
	}
	return ok, nil
}

func (s *ReservationService) GetUserBookings(userID uint, customerID uuid.UUID) ([]models.Booking, error) {
	bookings, err := s.bookings.ListByUserAndCustomer(s.db, userID, customerID)
	if err != nil {
		return nil, translateDBError(err)
	}
	return bookings, nil
}

func (s *ReservationService) GetBooking(bookingID uint, userID uint) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(s.db, bookingID)
	if err != nil {
		return nil, translateDBError(err)
	}
	if booking == nil || booking.UserID != userID {
		return nil, ErrNotFound
	}
	return booking, nil
}

// GetFreeSlots answers an availability query. Advisory read: no locks taken,
// a subsequent CreateBooking re-validates authoritatively.
func (s *ReservationService) GetFreeSlots(resourceID uint, userID uint, params SlotParams) ([]Interval, error) {
	var slots []Interval
	err := s.db.Transaction(func(tx *gorm.DB) error {
		resource, err := s.resources.GetByID(tx, resourceID)
		if err != nil {
			return err
		}
		if resource == nil {
			return ErrNotFound
		}
		allowed, err := s.tenancy.IsMemberOrAdminOrOwner(tx, userID, resource.CustomerID)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrAuthorization
		}
		bookings, err := s.bookings.FindOverlapping(tx, resourceID, params.WindowStart, params.WindowEnd, false)
		if err != nil {
			return err
		}
		busy := make([]Interval, 0, len(bookings))
		for _, b := range bookings {
			busy = append(busy, Interval{Start: b.StartTime, End: b.EndTime})
		}
		slots, err = FreeSlots(params, busy)
		return err
	})
	if err != nil {
		return nil, translateDBError(err)
	}
	return slots, nil
}

// resolveCustomer picks the tenant to act for: the explicit one when the
// caller holds the needed role on it, otherwise the user's default tenant.
func (s *ReservationService) resolveCustomer(tx *gorm.DB, userID uint, customerID *uuid.UUID) (*uuid.UUID, error) {
	if customerID == nil {
		customer, err := s.tenancy.GetCustomerForUser(tx, userID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, ErrAuthorization
		}
		return &customer.ID, nil
	}
	allowed, err := s.tenancy.IsAdminOrOwner(tx, userID, *customerID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrAuthorization
	}
	return customerID, nil
}

func (s *ReservationService) CreateResource(userID uint, customerID *uuid.UUID, body *types.CreateResourceRequestBody) (*models.Resource, error) {
	var resource *models.Resource
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cid, err := s.resolveCustomer(tx, userID, customerID)
		if err != nil {
			return err
		}
		resource = &models.Resource{
			Name:         body.Name,
			Slug:         fmt.Sprintf("%s-%s", slug.Make(body.Name), uuid.NewString()[:8]),
			CustomerID:   *cid,
			Description:  body.Description,
			ResourceType: body.ResourceType,
			Location:     body.Location,
			PricePerHour: body.PricePerHour,
		}
		return s.resources.Create(tx, resource)
	})
	if err != nil {
		return nil, translateDBError(err)
	}
	return resource, nil
}

func (s *ReservationService) GetResourcesForCustomer(userID uint, customerID *uuid.UUID, skip, limit int) ([]models.Resource, error) {
	var resources []models.Resource
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cid, err := s.resolveCustomer(tx, userID, customerID)
		if err != nil {
			return err
		}
		resources, err = s.resources.ListByCustomer(tx, *cid, skip, limit)
		return err
	})
	if err != nil {
		return nil, translateDBError(err)
	}
	return resources, nil
}

func (s *ReservationService) GetResource(resourceID uint, userID uint) (*models.Resource, error) {
	var resource *models.Resource
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		resource, err = s.resources.GetByID(tx, resourceID)
		if err != nil {
			return err
		}
		if resource == nil {
			return ErrNotFound
		}
		allowed, err := s.tenancy.IsAdminOrOwner(tx, userID, resource.CustomerID)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrAuthorization
		}
		return nil
	})
	if err != nil {
		return nil, translateDBError(err)
	}
	return resource, nil
}

func (s *ReservationService) UpdateResource(resourceID uint, userID uint, body *types.UpdateResourceRequestBody) (*models.Resource, error) {
	var resource *models.Resource
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		resource, err = s.resources.GetByID(tx, resourceID)
		if err != nil {
			return err
		}
		if resource == nil {
			return ErrNotFound
		}
		allowed, err := s.tenancy.IsAdminOrOwner(tx, userID, resource.CustomerID)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrAuthorization
		}
		patch := &models.Resource{}
		if body.Name != nil {
			patch.Name = *body.Name
		}
		if body.Description != nil {
			patch.Description = body.Description
		}
		if body.ResourceType != nil {
			patch.ResourceType = *body.ResourceType
		}
		if body.Location != nil {
			patch.Location = body.Location
		}
		if body.PricePerHour != nil {
			patch.PricePerHour = body.PricePerHour
		}
		if err := s.resources.Update(tx, resourceID, patch); err != nil {
			return err
		}
		resource, err = s.resources.GetByID(tx, resourceID)
		return err
	})
	if err != nil {
		return nil, translateDBError(err)
	}
	return resource, nil
}

// DeleteResource is a hard delete; dependent bookings and their reminder rows
// cascade at the schema level.
func (s *ReservationService) DeleteResource(resourceID uint, userID uint) (bool, error) {
	ok := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		resource, err := s.resources.GetByID(tx, resourceID)
		if err != nil {
			return err
		}
		if resource == nil {
			return nil
		}
		allowed, err := s.tenancy.IsAdminOrOwner(tx, userID, resource.CustomerID)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrAuthorization
		}
		if err := s.resources.Delete(tx, resourceID); err != nil {
			return err
		}
		ok = true
		return nil
	})
	if err != nil {
		return false, translateDBError(err)
	}
	return ok, nil
}
