package store

import (
	"context"
	"errors"
	"time"

	"eataliano-backend/models"
	"eataliano-backend/services"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gorm is the PostgreSQL-backed store.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Migrate creates or updates every table the application uses.
func (g *Gorm) Migrate() error {
	return g.db.AutoMigrate(
		&models.User{},
		&models.Location{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Reservation{},
		&models.ChatSession{},
		&models.ReminderLog{},
	)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.ErrNotFound
	}
	return err
}

func affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return services.ErrNotFound
	}
	return nil
}

// Locations

func (g *Gorm) GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var location models.Location
	if err := g.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &location, nil
}

func (g *Gorm) ListLocations(ctx context.Context, filter services.LocationFilter) ([]models.Location, error) {
	query := g.db.WithContext(ctx).Order("name ASC")
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.NameContains != "" {
		query = query.Where("name ILIKE ?", "%"+filter.NameContains+"%")
	}
	var locations []models.Location
	if err := query.Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

func (g *Gorm) CreateLocation(ctx context.Context, location *models.Location) error {
	return g.db.WithContext(ctx).Create(location).Error
}

func (g *Gorm) UpdateLocation(ctx context.Context, location *models.Location) error {
	return g.db.WithContext(ctx).Save(location).Error
}

// Menu

func (g *Gorm) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := g.db.WithContext(ctx).Preload("Category").First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (g *Gorm) GetMenuItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	if err := g.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (g *Gorm) ListMenuItems(ctx context.Context, filter services.MenuFilter) ([]models.MenuItem, error) {
	query := g.db.WithContext(ctx).Preload("Category")
	if filter.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.OrderByName {
		query = query.Order("name ASC")
	} else {
		query = query.Order("sort_order ASC").Order("name ASC")
	}
	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (g *Gorm) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (g *Gorm) UpdateMenuItem(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return affected(g.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Updates(fields))
}

func (g *Gorm) GetCategory(ctx context.Context, id uuid.UUID) (*models.MenuCategory, error) {
	var category models.MenuCategory
	if err := g.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (g *Gorm) ListCategories(ctx context.Context, activeOnly bool) ([]models.MenuCategory, error) {
	query := g.db.WithContext(ctx).Order("sort_order ASC").Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var categories []models.MenuCategory
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (g *Gorm) CreateCategory(ctx context.Context, category *models.MenuCategory) error {
	return g.db.WithContext(ctx).Create(category).Error
}

// Orders

func itemsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (g *Gorm) InsertOrder(ctx context.Context, order *models.Order) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (g *Gorm) InsertOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return g.db.WithContext(ctx).Create(&items).Error
}

func (g *Gorm) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return affected(g.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id))
}

func (g *Gorm) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := g.db.WithContext(ctx).Preload("Items", itemsInOrder).First(&order, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (g *Gorm) ListOrders(ctx context.Context, filter services.OrderFilter) ([]models.Order, error) {
	query := g.db.WithContext(ctx).Preload("Items", itemsInOrder).Order("created_at DESC")
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (g *Gorm) UpdateOrderStatus(ctx context.Context, id uuid.UUID, expected, next models.OrderStatus) (bool, error) {
	res := g.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", next)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (g *Gorm) SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	return affected(g.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("stripe_session_id", sessionID))
}

func (g *Gorm) MarkOrderPaid(ctx context.Context, id uuid.UUID, paymentIntentID string, expected, next models.OrderStatus) (bool, error) {
	fields := map[string]interface{}{
		"payment_status":           models.PaymentStatusPaid,
		"status":                   next,
		"stripe_payment_intent_id": nil,
	}
	if paymentIntentID != "" {
		fields["stripe_payment_intent_id"] = paymentIntentID
	}
	res := g.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status <> ? AND status = ?", id, models.PaymentStatusPaid, expected).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Reservations

func (g *Gorm) InsertReservation(ctx context.Context, reservation *models.Reservation) error {
	return g.db.WithContext(ctx).Create(reservation).Error
}

func (g *Gorm) GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := g.db.WithContext(ctx).First(&reservation, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &reservation, nil
}

func (g *Gorm) ListReservations(ctx context.Context, filter services.ReservationFilter) ([]models.Reservation, error) {
	query := g.db.WithContext(ctx).Order("reservation_date ASC").Order("reservation_time ASC")
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != "" {
		query = query.Where("reservation_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("reservation_date <= ?", filter.DateTo)
	}
	var reservations []models.Reservation
	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (g *Gorm) UpdateReservationStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) error {
	return affected(g.db.WithContext(ctx).Model(&models.Reservation{}).Where("id = ?", id).Update("status", status))
}

// Chat sessions

func (g *Gorm) FindChatSession(ctx context.Context, token string) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := g.db.WithContext(ctx).First(&session, "session_token = ?", token).Error; err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

func (g *Gorm) InsertChatSession(ctx context.Context, session *models.ChatSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	return g.db.WithContext(ctx).Create(session).Error
}

func (g *Gorm) UpdateChatSession(ctx context.Context, id uuid.UUID, messages []models.ChatMessage) error {
	return affected(g.db.WithContext(ctx).Model(&models.ChatSession{}).Where("id = ?", id).Updates(map[string]interface{}{
		"messages":   datatypes.JSONSlice[models.ChatMessage](messages),
		"updated_at": time.Now(),
	}))
}

func (g *Gorm) DeleteChatSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := g.db.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&models.ChatSession{})
	return res.RowsAffected, res.Error
}

// Users

func (g *Gorm) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := g.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (g *Gorm) CreateUser(ctx context.Context, user *models.User) error {
	return g.db.WithContext(ctx).Create(user).Error
}

func (g *Gorm) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return affected(g.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", at))
}

// Reminder logs

func (g *Gorm) HasReminder(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.ReminderLog{}).
		Where("reservation_id = ? AND status = ?", reservationID, models.ReminderStatusSent).
		Count(&count).Error
	return count > 0, err
}

func (g *Gorm) InsertReminderLog(ctx context.Context, entry *models.ReminderLog) error {
	return g.db.WithContext(ctx).Create(entry).Error
}
