package store

import (
	"context"
	"time"

	"eataliano-backend/models"
	"eataliano-backend/services"

	"github.com/google/uuid"
)

// restricted applies anonymous row-level rules on top of a privileged backend:
// only active locations and categories, only available menu items, and no access to anything else.
type restricted struct {
	b Backend
}

// Restricted returns the public store handle used for unauthenticated reads.
func Restricted(b Backend) Backend {
	return restricted{b: b}
}

func (r restricted) GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	l, err := r.b.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.IsActive {
		return nil, services.ErrNotFound
	}
	return l, nil
}

func (r restricted) ListLocations(ctx context.Context, filter services.LocationFilter) ([]models.Location, error) {
	filter.ActiveOnly = true
	return r.b.ListLocations(ctx, filter)
}

func (restricted) CreateLocation(context.Context, *models.Location) error {
	return services.ErrReadOnly
}

func (restricted) UpdateLocation(context.Context, *models.Location) error {
	return services.ErrReadOnly
}

func (r restricted) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := r.b.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsAvailable {
		return nil, services.ErrNotFound
	}
	return item, nil
}

func (r restricted) GetMenuItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	items, err := r.b.GetMenuItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, item := range items {
		if item.IsAvailable {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r restricted) ListMenuItems(ctx context.Context, filter services.MenuFilter) ([]models.MenuItem, error) {
	filter.AvailableOnly = true
	return r.b.ListMenuItems(ctx, filter)
}

func (restricted) CreateMenuItem(context.Context, *models.MenuItem) error {
	return services.ErrReadOnly
}

func (restricted) UpdateMenuItem(context.Context, uuid.UUID, map[string]interface{}) error {
	return services.ErrReadOnly
}

func (r restricted) GetCategory(ctx context.Context, id uuid.UUID) (*models.MenuCategory, error) {
	c, err := r.b.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, services.ErrNotFound
	}
	return c, nil
}

func (r restricted) ListCategories(ctx context.Context, _ bool) ([]models.MenuCategory, error) {
	return r.b.ListCategories(ctx, true)
}

func (restricted) CreateCategory(context.Context, *models.MenuCategory) error {
	return services.ErrReadOnly
}

func (restricted) InsertOrder(context.Context, *models.Order) error {
	return services.ErrReadOnly
}

func (restricted) InsertOrderItems(context.Context, []models.OrderItem) error {
	return services.ErrReadOnly
}

func (restricted) DeleteOrder(context.Context, uuid.UUID) error {
	return services.ErrReadOnly
}

func (restricted) GetOrder(context.Context, uuid.UUID) (*models.Order, error) {
	return nil, services.ErrReadOnly
}

func (restricted) ListOrders(context.Context, services.OrderFilter) ([]models.Order, error) {
	return nil, services.ErrReadOnly
}

func (restricted) UpdateOrderStatus(context.Context, uuid.UUID, models.OrderStatus, models.OrderStatus) (bool, error) {
	return false, services.ErrReadOnly
}

func (restricted) SetCheckoutSession(context.Context, uuid.UUID, string) error {
	return services.ErrReadOnly
}

func (restricted) MarkOrderPaid(context.Context, uuid.UUID, string, models.OrderStatus, models.OrderStatus) (bool, error) {
	return false, services.ErrReadOnly
}

func (restricted) InsertReservation(context.Context, *models.Reservation) error {
	return services.ErrReadOnly
}

func (restricted) GetReservation(context.Context, uuid.UUID) (*models.Reservation, error) {
	return nil, services.ErrReadOnly
}

func (restricted) ListReservations(context.Context, services.ReservationFilter) ([]models.Reservation, error) {
	return nil, services.ErrReadOnly
}

func (restricted) UpdateReservationStatus(context.Context, uuid.UUID, models.ReservationStatus) error {
	return services.ErrReadOnly
}

func (restricted) FindChatSession(context.Context, string) (*models.ChatSession, error) {
	return nil, services.ErrReadOnly
}

func (restricted) InsertChatSession(context.Context, *models.ChatSession) error {
	return services.ErrReadOnly
}

func (restricted) UpdateChatSession(context.Context, uuid.UUID, []models.ChatMessage) error {
	return services.ErrReadOnly
}

func (restricted) DeleteChatSessionsBefore(context.Context, time.Time) (int64, error) {
	return 0, services.ErrReadOnly
}

func (restricted) FindUserByEmail(context.Context, string) (*models.User, error) {
	return nil, services.ErrReadOnly
}

func (restricted) CreateUser(context.Context, *models.User) error {
	return services.ErrReadOnly
}

func (restricted) TouchLastLogin(context.Context, uuid.UUID, time.Time) error {
	return services.ErrReadOnly
}

func (restricted) HasReminder(context.Context, uuid.UUID) (bool, error) {
	return false, services.ErrReadOnly
}

func (restricted) InsertReminderLog(context.Context, *models.ReminderLog) error {
	return services.ErrReadOnly
}
