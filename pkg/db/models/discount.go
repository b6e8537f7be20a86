package models

import (
	"time"

	"github.com/google/uuid"
)

// Discount is the offer engagement events are recorded against. CompanyID is
// immutable for the lifetime of the discount; ownership transfer is not modeled.
type Discount struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;not null"`
	Title     string    `gorm:"column:title;not null"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	Company   *Company  `gorm:"foreignKey:CompanyID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
