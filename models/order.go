package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderType string

const (
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Order struct {
	ID                    uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LocationID            uuid.UUID     `gorm:"type:uuid;index;not null" json:"location_id"`
	CustomerName          string        `gorm:"not null" json:"customer_name"`
	CustomerEmail         *string       `json:"customer_email"`
	CustomerPhone         string        `gorm:"not null" json:"customer_phone"`
	OrderType             OrderType     `gorm:"type:varchar(20);not null" json:"order_type"`
	DeliveryAddress       *string       `json:"delivery_address"`
	Status                OrderStatus   `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`
	Subtotal              float64       `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DeliveryFee           float64       `gorm:"type:decimal(10,2);default:0.0" json:"delivery_fee"`
	Total                 float64       `gorm:"type:decimal(10,2);not null" json:"total"`
	PaymentStatus         PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	StripeSessionID       *string       `json:"stripe_session_id"`
	StripePaymentIntentID *string       `json:"stripe_payment_intent_id"`
	Notes                 *string       `json:"notes"`
	CreatedAt             time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// OrderItem copies name and price at order time; MenuItemID is a historical reference only.
type OrderItem struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderID             uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	MenuItemID          uuid.UUID `gorm:"type:uuid;index;not null" json:"menu_item_id"`
	ItemName            string    `gorm:"not null" json:"item_name"`
	ItemPrice           float64   `gorm:"type:decimal(10,2);not null" json:"item_price"`
	Quantity            int       `gorm:"not null" json:"quantity"`
	SpecialInstructions *string   `json:"special_instructions"`
	Position            int       `gorm:"not null;default:0" json:"-"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
