package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmcastillo/ofertazo-backend/pkg/enums"
)

// EngagementEvent is one recorded interaction with a discount. Rows are append-only:
// the analytics engine never updates or deletes them. The owning company is never
// denormalized onto the event; company roll-ups always join through discounts.
//
// All demographic columns are nullable; NULL means "unknown", never empty string.
type EngagementEvent struct {
	ID         uuid.UUID    `gorm:"column:id;type:uuid;primaryKey"`
	DiscountID uuid.UUID    `gorm:"column:discount_id;type:uuid;not null;index"`
	Action     enums.Action `gorm:"column:action;not null"`
	OccurredAt time.Time    `gorm:"column:occurred_at;not null;index"`
	UserID     *uuid.UUID   `gorm:"column:user_id;type:uuid"`
	DeviceType *string      `gorm:"column:device_type"`
	City       *string      `gorm:"column:city"`
	Region     *string      `gorm:"column:region"`
	AgeGroup   *string      `gorm:"column:age_group"`
	Gender     *string      `gorm:"column:gender"`
	CreatedAt  time.Time    `gorm:"column:created_at;autoCreateTime"`
}
