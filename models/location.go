package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Location struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name          string       `gorm:"not null" json:"name"`
	Address       string       `gorm:"not null" json:"address"`
	City          string       `json:"city"`
	Phone         string       `gorm:"not null" json:"phone"`
	Email         *string      `json:"email"`
	OpeningHours  OpeningHours `gorm:"type:jsonb;default:'{}'" json:"opening_hours"`
	DeliveryZones StringList   `gorm:"type:jsonb;default:'[]'" json:"delivery_zones"`
	IsActive      bool         `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (l *Location) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
