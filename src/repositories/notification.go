package repositories

import (
	"rbs/src/models"
	"rbs/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository interface {
	CreateAll(tx *gorm.DB, notifications []models.Notification) error
	// ClaimDue locks up to limit due pending rows (SKIP LOCKED, so concurrent
	// dispatchers never double-send) and moves them to processing.
	ClaimDue(tx *gorm.DB, now time.Time, limit int) ([]models.Notification, error)
	MarkSent(tx *gorm.DB, id uuid.UUID, message string) error
	MarkFailed(tx *gorm.DB, id uuid.UUID, sendErr string) error
}

type notificationRepository struct{}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) CreateAll(tx *gorm.DB, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return tx.Create(&notifications).Error
}

func (r *notificationRepository) ClaimDue(tx *gorm.DB, now time.Time, limit int) ([]models.Notification, error) {
	notifications := make([]models.Notification, 0)
	err := tx.
		Model(&models.Notification{}).
		Clauses(clause.Locking{
			Strength: "UPDATE",
			Table:    clause.Table{Name: clause.CurrentTable},
			Options:  "SKIP LOCKED",
		}).
		Where("status = ?", types.NOTIFICATION_PENDING).
		Where("scheduled_at <= ?", now).
		Order("scheduled_at asc").
		Limit(limit).
		Find(&notifications).
		Error
	if err != nil {
		return nil, err
	}
	if len(notifications) == 0 {
		return notifications, nil
	}
	ids := make([]uuid.UUID, 0, len(notifications))
	for i := range notifications {
		ids = append(ids, notifications[i].ID)
	}
	err = tx.
		Model(&models.Notification{}).
		Where("id IN (?)", ids).
		Update("status", types.NOTIFICATION_PROCESSING).
		Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) MarkSent(tx *gorm.DB, id uuid.UUID, message string) error {
	now := time.Now().UTC()
	return tx.
		Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       types.NOTIFICATION_SENT,
			"processed_at": now,
			"message":      message,
		}).
		Error
}

func (r *notificationRepository) MarkFailed(tx *gorm.DB, id uuid.UUID, sendErr string) error {
	now := time.Now().UTC()
	return tx.
		Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       types.NOTIFICATION_FAILED,
			"processed_at": now,
			"error":        sendErr,
		}).
		Error
}
