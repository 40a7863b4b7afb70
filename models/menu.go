package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `json:"description"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (MenuCategory) TableName() string {
	return "menu_categories"
}

func (c *MenuCategory) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// MenuItem is never removed; "deleting" one flips IsAvailable so order history keeps resolving.
type MenuItem struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CategoryID    uuid.UUID     `gorm:"type:uuid;index;not null" json:"category_id"`
	Name          string        `gorm:"not null" json:"name"`
	Description   *string       `json:"description"`
	Price         float64       `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL      *string       `json:"image_url"`
	Allergens     StringList    `gorm:"type:jsonb;default:'[]'" json:"allergens"`
	DietaryLabels StringList    `gorm:"type:jsonb;default:'[]'" json:"dietary_labels"`
	IsAvailable   bool          `gorm:"not null" json:"is_available"`
	IsFeatured    bool          `gorm:"default:false" json:"is_featured"`
	SortOrder     int           `gorm:"default:0" json:"sort_order"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Category      *MenuCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
