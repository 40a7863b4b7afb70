package services

import (
	"context"
	"time"

	"eataliano-backend/models"

	"github.com/google/uuid"
)

// Principal is the authenticated back-office user. Admin operations receive nil when no one is signed in.
type Principal struct {
	UserID string
	Email  string
}

type LocationFilter struct {
	NameContains string
	ActiveOnly   bool
}

type MenuFilter struct {
	AvailableOnly bool
	CategoryID    *uuid.UUID
	OrderByName   bool
}

type OrderFilter struct {
	LocationID *uuid.UUID
	Status     string
	From       *time.Time
	To         *time.Time
}

type ReservationFilter struct {
	LocationID *uuid.UUID
	Status     string
	DateFrom   string
	DateTo     string
}

type LocationStore interface {
	GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error)
	ListLocations(ctx context.Context, filter LocationFilter) ([]models.Location, error)
	CreateLocation(ctx context.Context, location *models.Location) error
	UpdateLocation(ctx context.Context, location *models.Location) error
}

type MenuStore interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	// GetMenuItems returns the items that exist among ids, in no particular order.
	GetMenuItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error)
	// ListMenuItems preloads Category.
	ListMenuItems(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	GetCategory(ctx context.Context, id uuid.UUID) (*models.MenuCategory, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]models.MenuCategory, error)
	CreateCategory(ctx context.Context, category *models.MenuCategory) error
}

type OrderStore interface {
	InsertOrder(ctx context.Context, order *models.Order) error
	InsertOrderItems(ctx context.Context, items []models.OrderItem) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	// GetOrder returns the order with its items in insertion order.
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// UpdateOrderStatus applies next only while the stored status still equals expected.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, expected, next models.OrderStatus) (bool, error)
	SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error
	// MarkOrderPaid settles an order that is not yet paid and still has status expected.
	// It reports false when nothing changed.
	MarkOrderPaid(ctx context.Context, id uuid.UUID, paymentIntentID string, expected, next models.OrderStatus) (bool, error)
}

type ReservationStore interface {
	InsertReservation(ctx context.Context, reservation *models.Reservation) error
	GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	ListReservations(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) error
}

type ChatSessionStore interface {
	FindChatSession(ctx context.Context, token string) (*models.ChatSession, error)
	InsertChatSession(ctx context.Context, session *models.ChatSession) error
	UpdateChatSession(ctx context.Context, id uuid.UUID, messages []models.ChatMessage) error
	DeleteChatSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type ReminderLogStore interface {
	HasReminder(ctx context.Context, reservationID uuid.UUID) (bool, error)
	InsertReminderLog(ctx context.Context, entry *models.ReminderLog) error
}

// ToolDeclaration describes one function the language model may call. Parameters is a JSON schema.
type ToolDeclaration struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// LanguageModel produces the next assistant message: final text, or a set of tool calls.
type LanguageModel interface {
	Complete(ctx context.Context, messages []models.ChatMessage, tools []ToolDeclaration) (models.ChatMessage, error)
}

type CheckoutRequest struct {
	OrderID     string
	Name        string
	Description string
	AmountMinor int64
	Metadata    map[string]string
	SuccessURL  string
	CancelURL   string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentEvent is a verified provider event reduced to the fields settlement needs.
type PaymentEvent struct {
	Type            string
	OrderID         string
	PaymentIntentID string
}

const EventCheckoutCompleted = "checkout.session.completed"

type CheckoutProvider interface {
	CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	VerifyEvent(payload []byte, signature string) (*PaymentEvent, error)
}

type SMSSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}
