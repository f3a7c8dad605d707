package types

import (
	"time"
)

type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
}

type NotificationType string

const (
	NOTIFICATION_BOOKING_24H   NotificationType = "booking_24h"
	NOTIFICATION_BOOKING_1H    NotificationType = "booking_1h"
	NOTIFICATION_BOOKING_START NotificationType = "booking_start"
	NOTIFICATION_BOOKING_END   NotificationType = "booking_end"
)

type NotificationStatus string

const (
	NOTIFICATION_PENDING    NotificationStatus = "pending"
	NOTIFICATION_PROCESSING NotificationStatus = "processing"
	NOTIFICATION_SENT       NotificationStatus = "sent"
	NOTIFICATION_FAILED     NotificationStatus = "failed"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateCustomerRequestBody struct {
	Name string `json:"name" binding:"required,max=50"`
}

type CustomerRoleRequestBody struct {
	UserID uint `json:"user_id" binding:"required"`
}

type CreateResourceRequestBody struct {
	Name         string  `json:"name" binding:"required,max=255"`
	Customer     *string `json:"customer,omitempty" binding:"omitempty,uuid"`
	Description  *string `json:"description,omitempty"`
	ResourceType string  `json:"resource_type,omitempty"`
	Location     *string `json:"location,omitempty"`
	PricePerHour *uint   `json:"price_per_hour,omitempty"`
}

type UpdateResourceRequestBody struct {
	Name         *string `json:"name,omitempty" binding:"omitempty,max=255"`
	Description  *string `json:"description,omitempty"`
	ResourceType *string `json:"resource_type,omitempty"`
	Location     *string `json:"location,omitempty"`
	PricePerHour *uint   `json:"price_per_hour,omitempty"`
}

type CreateBookingRequestBody struct {
	ResourceID uint    `json:"resource" binding:"required"`
	Customer   *string `json:"customer,omitempty" binding:"omitempty,uuid"`
	StartTime  string  `json:"start_time" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndTime    string  `json:"end_time" binding:"required,bookabledate,gtdate=StartTime" time_format:"2006-01-02 15:04:05 -07:00"`
}

type FreeSlotsRequestQuery struct {
	Start       string `form:"start" binding:"required"`
	End         string `form:"end" binding:"required"`
	SlotSeconds int    `form:"slot" binding:"required,min=60"`
}

type ListRequestQuery struct {
	Skip  int `form:"skip" binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}
