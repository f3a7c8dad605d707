package models

import (
	"rbs/src/types"

	"github.com/google/uuid"
)

type Resource struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"size:255" json:"name,omitempty"`
	Slug         string    `gorm:"uniqueIndex" json:"slug"`
	CustomerID   uuid.UUID `gorm:"type:uuid" json:"customer_id,omitempty"`
	Description  *string   `json:"description,omitempty"`
	ResourceType string    `json:"resource_type,omitempty"`
	Location     *string   `json:"location,omitempty"`
	PricePerHour *uint     `json:"price_per_hour,omitempty"`

	Customer *Customer `gorm:"foreignKey:customer_id;constraint:OnDelete:CASCADE" json:"-"`
	Bookings []Booking `gorm:"foreignKey:resource_id" json:"-"`

	types.Timestamps
}
