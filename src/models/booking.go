package models

import (
	"rbs/src/types"
	"time"
)

// Booking holds an exclusive [StartTime, EndTime) interval on a Resource.
// The composite unique index is the backstop for the advisory-lock
// serialization done in the reservation service: two transactions that both
// pass an empty conflict check cannot both insert the same interval.
type Booking struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ResourceID uint      `gorm:"uniqueIndex:idx_booking_interval" json:"resource_id,omitempty"`
	UserID     uint      `json:"user_id,omitempty"`
	StartTime  time.Time `gorm:"uniqueIndex:idx_booking_interval" json:"start_time"`
	EndTime    time.Time `gorm:"uniqueIndex:idx_booking_interval" json:"end_time"`

	Resource      *Resource       `gorm:"foreignKey:resource_id;constraint:OnDelete:CASCADE" json:"resource,omitempty"`
	User          *User           `gorm:"foreignKey:user_id;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Notifications []*Notification `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}
