package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusNoShow    ReservationStatus = "no_show"
)

const (
	CreatedViaChatbot = "chatbot"
	CreatedViaAdmin   = "admin"
)

type Reservation struct {
	ID              uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LocationID      uuid.UUID         `gorm:"type:uuid;index;not null" json:"location_id"`
	CustomerName    string            `gorm:"not null" json:"customer_name"`
	CustomerEmail   *string           `json:"customer_email"`
	CustomerPhone   string            `gorm:"not null" json:"customer_phone"`
	PartySize       int               `gorm:"not null" json:"party_size"`
	// ReservationDate and ReservationTime are kept as "YYYY-MM-DD" and "HH:MM" literals.
	ReservationDate string            `gorm:"type:varchar(10);index;not null" json:"reservation_date"`
	ReservationTime string            `gorm:"type:varchar(5);not null" json:"reservation_time"`
	Status          ReservationStatus `gorm:"type:varchar(20);not null;default:'confirmed'" json:"status"`
	Notes           *string           `json:"notes"`
	CreatedVia      string            `gorm:"type:varchar(20);not null;default:'chatbot'" json:"created_via"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
