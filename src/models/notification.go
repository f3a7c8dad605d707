package models

import (
	"rbs/src/types"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID          uuid.UUID                `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Type        types.NotificationType   `gorm:"size:20;index" json:"type"`
	Status      types.NotificationStatus `gorm:"size:20;index;default:'pending'" json:"status"`
	BookingID   uint                     `gorm:"index" json:"booking_id"`
	UserID      uint                     `gorm:"index" json:"user_id"`
	ScheduledAt time.Time                `gorm:"index" json:"scheduled_at"`
	ProcessedAt *time.Time               `json:"processed_at,omitempty"`
	Message     *string                  `json:"message,omitempty"`
	Error       *string                  `json:"error,omitempty"`

	Booking *Booking `gorm:"foreignKey:booking_id;constraint:OnDelete:CASCADE" json:"-"`
	User    *User    `gorm:"foreignKey:user_id;constraint:OnDelete:CASCADE" json:"-"`

	types.Timestamps
}
