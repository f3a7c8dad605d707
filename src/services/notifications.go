package services

import (
	"fmt"
	"log"
	"os"
	"rbs/src/lib"
	"rbs/src/models"
	"rbs/src/repositories"
	"rbs/src/types"
	"time"

	"gorm.io/gorm"
)

// Reminder cadence relative to the booked interval, matching the reminder
// types persisted per booking.
var reminderOffsets = []struct {
	kind   types.NotificationType
	offset time.Duration
	atEnd  bool
}{
	{types.NOTIFICATION_BOOKING_24H, -24 * time.Hour, false},
	{types.NOTIFICATION_BOOKING_1H, -1 * time.Hour, false},
	{types.NOTIFICATION_BOOKING_START, 0, false},
	{types.NOTIFICATION_BOOKING_END, 0, true},
}

// scheduleReminders creates the reminder rows for a fresh booking inside the
// booking's own transaction. Reminders whose send time already passed are
// skipped rather than fired late.
func (s *ReservationService) scheduleReminders(tx *gorm.DB, booking *models.Booking) error {
	now := time.Now().UTC()
	rows := make([]models.Notification, 0, len(reminderOffsets))
	for _, r := range reminderOffsets {
		at := booking.StartTime.Add(r.offset)
		if r.atEnd {
			at = booking.EndTime
		}
		if at.Before(now) {
			continue
		}
		rows = append(rows, models.Notification{
			Type:        r.kind,
			Status:      types.NOTIFICATION_PENDING,
			BookingID:   booking.ID,
			UserID:      booking.UserID,
			ScheduledAt: at,
		})
	}
	return s.notifications.CreateAll(tx, rows)
}

// NotificationService delivers due reminders. It reads committed bookings
// only and is never on the engine's write path.
type NotificationService struct {
	db            *gorm.DB
	notifications repositories.NotificationRepository
	send          func(input *lib.SendMailInput) error
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		db:            db,
		notifications: repositories.NewNotificationRepository(),
		send:          lib.SendMail,
	}
}

// NewNotificationServiceWithSender swaps the delivery function, used by tests.
func NewNotificationServiceWithSender(db *gorm.DB, send func(input *lib.SendMailInput) error) *NotificationService {
	svc := NewNotificationService(db)
	svc.send = send
	return svc
}

// DispatchDue claims up to batchSize due reminders and delivers them. Claim
// and delivery run in separate transactions so a slow SMTP round-trip never
// holds row locks.
func (s *NotificationService) DispatchDue(batchSize int) (int, error) {
	var claimed []models.Notification
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		claimed, err = s.notifications.ClaimDue(tx, time.Now().UTC(), batchSize)
		return err
	})
	if err != nil {
		return 0, translateDBError(err)
	}
	if len(claimed) == 0 {
		return 0, nil
	}

	sent := 0
	for i := range claimed {
		n := &claimed[i]
		message, err := s.deliver(n)
		if err != nil {
			log.Printf("Failed to deliver notification [%s]: %s\n", n.ID.String(), err.Error())
			if err := s.notifications.MarkFailed(s.db, n.ID, err.Error()); err != nil {
				log.Printf("Failed to mark notification [%s] failed: %s\n", n.ID.String(), err.Error())
			}
			continue
		}
		if err := s.notifications.MarkSent(s.db, n.ID, message); err != nil {
			log.Printf("Failed to mark notification [%s] sent: %s\n", n.ID.String(), err.Error())
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *NotificationService) deliver(n *models.Notification) (string, error) {
	var booking models.Booking
	err := s.db.
		Model(&models.Booking{}).
		Where(&models.Booking{ID: n.BookingID}).
		Preload("Resource").
		Preload("User").
		First(&booking).
		Error
	if err != nil {
		return "", err
	}
	if booking.User == nil || booking.User.Email == "" {
		return "", fmt.Errorf("no delivery address for user [%d]", n.UserID)
	}

	resourceName := fmt.Sprintf("resource #%d", booking.ResourceID)
	if booking.Resource != nil {
		resourceName = booking.Resource.Name
	}
	message := renderReminder(n.Type, resourceName, &booking)
	input := &lib.SendMailInput{
		From:     os.Getenv("MAIL_FROM"),
		FromName: os.Getenv("MAIL_FROM_NAME"),
		To:       []string{booking.User.Email},
		Subject:  fmt.Sprintf("Booking reminder: %s", resourceName),
		Body:     message,
	}
	if err := s.send(input); err != nil {
		return "", err
	}
	return message, nil
}

func renderReminder(kind types.NotificationType, resourceName string, booking *models.Booking) string {
	start := booking.StartTime.UTC().Format(time.RFC1123)
	switch kind {
	case types.NOTIFICATION_BOOKING_24H:
		return fmt.Sprintf("Your booking of %s starts in 24 hours, at %s.", resourceName, start)
	case types.NOTIFICATION_BOOKING_1H:
		return fmt.Sprintf("Your booking of %s starts in 1 hour, at %s.", resourceName, start)
	case types.NOTIFICATION_BOOKING_START:
		return fmt.Sprintf("Your booking of %s starts now.", resourceName)
	case types.NOTIFICATION_BOOKING_END:
		return fmt.Sprintf("Your booking of %s has ended.", resourceName)
	default:
		return fmt.Sprintf("Update on your booking of %s.", resourceName)
	}
}
