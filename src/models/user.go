package models

import (
	"rbs/src/types"

	"github.com/google/uuid"
)

type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	TlgID        *int64     `gorm:"uniqueIndex" json:"tlg_id,omitempty"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	Username     string     `json:"username,omitempty"`
	Email        string     `json:"email,omitempty"`
	LanguageCode string     `json:"language_code,omitempty"`
	APIToken     *uuid.UUID `gorm:"type:uuid;default:gen_random_uuid()" json:"-"`

	Bookings []Booking `gorm:"foreignKey:user_id" json:"bookings,omitempty"`

	types.Timestamps
}
