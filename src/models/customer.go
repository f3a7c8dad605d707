package models

import (
	"rbs/src/types"
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID      uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name    string    `gorm:"size:50" json:"name,omitempty"`
	OwnerID uint      `json:"owner_id,omitempty"`

	Owner     *User      `gorm:"foreignKey:owner_id" json:"-"`
	Resources []Resource `gorm:"foreignKey:customer_id" json:"-"`

	types.Timestamps
}

// CustomerAdmin and CustomerMember are plain association rows; role precedence
// (owner > admin > member) lives in the tenancy service, not the schema.
type CustomerAdmin struct {
	UserID     uint      `gorm:"primarykey" json:"user_id"`
	CustomerID uuid.UUID `gorm:"primarykey;type:uuid" json:"customer_id"`

	User     *User     `gorm:"foreignKey:user_id" json:"-"`
	Customer *Customer `gorm:"foreignKey:customer_id" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
}

type CustomerMember struct {
	UserID     uint      `gorm:"primarykey" json:"user_id"`
	CustomerID uuid.UUID `gorm:"primarykey;type:uuid" json:"customer_id"`

	User     *User     `gorm:"foreignKey:user_id" json:"-"`
	Customer *Customer `gorm:"foreignKey:customer_id" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
}
