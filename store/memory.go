package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"eataliano-backend/models"
	"eataliano-backend/services"

	"github.com/google/uuid"
)

// Memory is an in-process store used when no database is configured and in tests.
// Every read returns copies so callers never share state with the store.
type Memory struct {
	mu sync.RWMutex

	seq          int64
	locations    map[uuid.UUID]models.Location
	categories   map[uuid.UUID]models.MenuCategory
	menuItems    map[uuid.UUID]models.MenuItem
	orders       map[uuid.UUID]models.Order
	orderSeq     map[uuid.UUID]int64
	orderItems   map[uuid.UUID][]models.OrderItem
	reservations map[uuid.UUID]models.Reservation
	sessions     map[uuid.UUID]models.ChatSession
	users        map[uuid.UUID]models.User
	reminders    []models.ReminderLog

	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		locations:    make(map[uuid.UUID]models.Location),
		categories:   make(map[uuid.UUID]models.MenuCategory),
		menuItems:    make(map[uuid.UUID]models.MenuItem),
		orders:       make(map[uuid.UUID]models.Order),
		orderSeq:     make(map[uuid.UUID]int64),
		orderItems:   make(map[uuid.UUID][]models.OrderItem),
		reservations: make(map[uuid.UUID]models.Reservation),
		sessions:     make(map[uuid.UUID]models.ChatSession),
		users:        make(map[uuid.UUID]models.User),
		now:          time.Now,
	}
}

// SetClock replaces the clock used for created_at and updated_at stamps.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Locations

func (m *Memory) GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.locations[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	return &l, nil
}

func (m *Memory) ListLocations(ctx context.Context, filter services.LocationFilter) ([]models.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	needle := strings.ToLower(filter.NameContains)
	out := []models.Location{}
	for _, l := range m.locations {
		if filter.ActiveOnly && !l.IsActive {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(l.Name), needle) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) CreateLocation(ctx context.Context, location *models.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = location.BeforeCreate(nil)
	now := m.now()
	location.CreatedAt, location.UpdatedAt = now, now
	m.locations[location.ID] = *location
	return nil
}

func (m *Memory) UpdateLocation(ctx context.Context, location *models.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.locations[location.ID]; !ok {
		return services.ErrNotFound
	}
	location.UpdatedAt = m.now()
	m.locations[location.ID] = *location
	return nil
}

// Menu

func (m *Memory) withCategory(item models.MenuItem) models.MenuItem {
	if c, ok := m.categories[item.CategoryID]; ok {
		item.Category = &c
	} else {
		item.Category = nil
	}
	return item
}

func (m *Memory) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.menuItems[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	item = m.withCategory(item)
	return &item, nil
}

func (m *Memory) GetMenuItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.MenuItem{}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if item, ok := m.menuItems[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *Memory) ListMenuItems(ctx context.Context, filter services.MenuFilter) ([]models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.MenuItem{}
	for _, item := range m.menuItems {
		if filter.AvailableOnly && !item.IsAvailable {
			continue
		}
		if filter.CategoryID != nil && item.CategoryID != *filter.CategoryID {
			continue
		}
		out = append(out, m.withCategory(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if !filter.OrderByName && out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *Memory) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = item.BeforeCreate(nil)
	now := m.now()
	item.CreatedAt, item.UpdatedAt = now, now
	stored := *item
	stored.Category = nil
	m.menuItems[item.ID] = stored
	return nil
}

func (m *Memory) UpdateMenuItem(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.menuItems[id]
	if !ok {
		return services.ErrNotFound
	}
	for column, value := range fields {
		switch column {
		case "name":
			item.Name = value.(string)
		case "description":
			v := value.(string)
			item.Description = &v
		case "price":
			item.Price = value.(float64)
		case "category_id":
			item.CategoryID = value.(uuid.UUID)
		case "image_url":
			v := value.(string)
			item.ImageURL = &v
		case "allergens":
			item.Allergens = value.(models.StringList)
		case "dietary_labels":
			item.DietaryLabels = value.(models.StringList)
		case "is_available":
			item.IsAvailable = value.(bool)
		case "is_featured":
			item.IsFeatured = value.(bool)
		case "sort_order":
			item.SortOrder = value.(int)
		}
	}
	item.UpdatedAt = m.now()
	m.menuItems[id] = item
	return nil
}

func (m *Memory) GetCategory(ctx context.Context, id uuid.UUID) (*models.MenuCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	return &c, nil
}

func (m *Memory) ListCategories(ctx context.Context, activeOnly bool) ([]models.MenuCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.MenuCategory{}
	for _, c := range m.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *Memory) CreateCategory(ctx context.Context, category *models.MenuCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = category.BeforeCreate(nil)
	category.CreatedAt = m.now()
	m.categories[category.ID] = *category
	return nil
}

// Orders

func (m *Memory) loadOrder(id uuid.UUID) (models.Order, bool) {
	o, ok := m.orders[id]
	if !ok {
		return o, false
	}
	items := append([]models.OrderItem{}, m.orderItems[id]...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	o.Items = items
	return o, true
}

func (m *Memory) InsertOrder(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = order.BeforeCreate(nil)
	now := m.now()
	order.CreatedAt, order.UpdatedAt = now, now
	stored := *order
	stored.Items = nil
	m.seq++
	m.orders[order.ID] = stored
	m.orderSeq[order.ID] = m.seq
	return nil
}

func (m *Memory) InsertOrderItems(ctx context.Context, items []models.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range items {
		if _, ok := m.orders[items[i].OrderID]; !ok {
			return services.ErrNotFound
		}
	}
	for i := range items {
		_ = items[i].BeforeCreate(nil)
		m.orderItems[items[i].OrderID] = append(m.orderItems[items[i].OrderID], items[i])
	}
	return nil
}

func (m *Memory) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return services.ErrNotFound
	}
	delete(m.orders, id)
	delete(m.orderSeq, id)
	delete(m.orderItems, id)
	return nil
}

func (m *Memory) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.loadOrder(id)
	if !ok {
		return nil, services.ErrNotFound
	}
	return &o, nil
}

func (m *Memory) ListOrders(ctx context.Context, filter services.OrderFilter) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Order{}
	for id := range m.orders {
		o, _ := m.loadOrder(id)
		if filter.LocationID != nil && o.LocationID != *filter.LocationID {
			continue
		}
		if filter.Status != "" && string(o.Status) != filter.Status {
			continue
		}
		if filter.From != nil && o.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && o.CreatedAt.After(*filter.To) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return m.orderSeq[out[i].ID] > m.orderSeq[out[j].ID]
	})
	return out, nil
}

func (m *Memory) UpdateOrderStatus(ctx context.Context, id uuid.UUID, expected, next models.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != expected {
		return false, nil
	}
	o.Status = next
	o.UpdatedAt = m.now()
	m.orders[id] = o
	return true, nil
}

func (m *Memory) SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return services.ErrNotFound
	}
	o.StripeSessionID = &sessionID
	o.UpdatedAt = m.now()
	m.orders[id] = o
	return nil
}

func (m *Memory) MarkOrderPaid(ctx context.Context, id uuid.UUID, paymentIntentID string, expected, next models.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.PaymentStatus == models.PaymentStatusPaid || o.Status != expected {
		return false, nil
	}
	o.PaymentStatus = models.PaymentStatusPaid
	o.Status = next
	o.StripePaymentIntentID = nil
	if paymentIntentID != "" {
		o.StripePaymentIntentID = &paymentIntentID
	}
	o.UpdatedAt = m.now()
	m.orders[id] = o
	return true, nil
}

// Reservations

func (m *Memory) InsertReservation(ctx context.Context, reservation *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = reservation.BeforeCreate(nil)
	now := m.now()
	reservation.CreatedAt, reservation.UpdatedAt = now, now
	m.reservations[reservation.ID] = *reservation
	return nil
}

func (m *Memory) GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	return &r, nil
}

func (m *Memory) ListReservations(ctx context.Context, filter services.ReservationFilter) ([]models.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Reservation{}
	for _, r := range m.reservations {
		if filter.LocationID != nil && r.LocationID != *filter.LocationID {
			continue
		}
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		if filter.DateFrom != "" && r.ReservationDate < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && r.ReservationDate > filter.DateTo {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReservationDate != out[j].ReservationDate {
			return out[i].ReservationDate < out[j].ReservationDate
		}
		return out[i].ReservationTime < out[j].ReservationTime
	})
	return out, nil
}

func (m *Memory) UpdateReservationStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return services.ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = m.now()
	m.reservations[id] = r
	return nil
}

// Chat sessions

func (m *Memory) FindChatSession(ctx context.Context, token string) (*models.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.SessionToken == token {
			s.Messages = append(s.Messages[:0:0], s.Messages...)
			return &s, nil
		}
	}
	return nil, services.ErrNotFound
}

func (m *Memory) InsertChatSession(ctx context.Context, session *models.ChatSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	now := m.now()
	session.CreatedAt, session.UpdatedAt = now, now
	stored := *session
	stored.Messages = append(stored.Messages[:0:0], session.Messages...)
	m.sessions[session.ID] = stored
	return nil
}

func (m *Memory) UpdateChatSession(ctx context.Context, id uuid.UUID, messages []models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return services.ErrNotFound
	}
	s.Messages = append([]models.ChatMessage{}, messages...)
	s.UpdatedAt = m.now()
	m.sessions[id] = s
	return nil
}

func (m *Memory) DeleteChatSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// Users

func (m *Memory) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, services.ErrNotFound
}

// CreateUser runs the model hook so the stored password is hashed, as the database path does.
func (m *Memory) CreateUser(ctx context.Context, user *models.User) error {
	if err := user.BeforeCreate(nil); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	user.CreatedAt, user.UpdatedAt = now, now
	m.users[user.ID] = *user
	return nil
}

func (m *Memory) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return services.ErrNotFound
	}
	u.LastLogin = &at
	m.users[id] = u
	return nil
}

// Reminder logs

func (m *Memory) HasReminder(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reminders {
		if r.ReservationID == reservationID && r.Status == models.ReminderStatusSent {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) InsertReminderLog(ctx context.Context, entry *models.ReminderLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = entry.BeforeCreate(nil)
	m.reminders = append(m.reminders, *entry)
	return nil
}

// ReminderLogs returns a copy of every logged reminder.
func (m *Memory) ReminderLogs() []models.ReminderLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.ReminderLog{}, m.reminders...)
}
