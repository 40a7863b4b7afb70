package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"eataliano-backend/models"
	"eataliano-backend/utils"

	"github.com/google/uuid"
)

// DeliveryFee is charged once per delivery order, in currency units.
const DeliveryFee = 2.50

const compensationAttempts = 3

type OrderItemInput struct {
	MenuItemID          string  `json:"menu_item_id"`
	Quantity            float64 `json:"quantity"`
	SpecialInstructions *string `json:"special_instructions"`
}

type CreateOrderInput struct {
	LocationID      string           `json:"location_id"`
	CustomerName    string           `json:"customer_name"`
	CustomerEmail   *string          `json:"customer_email"`
	CustomerPhone   string           `json:"customer_phone"`
	OrderType       string           `json:"order_type"`
	DeliveryAddress *string          `json:"delivery_address"`
	Notes           *string          `json:"notes"`
	Items           []OrderItemInput `json:"items"`
}

// OrderService owns order creation, pricing and the status state machine.
type OrderService struct {
	orders    OrderStore
	locations LocationStore
	menu      MenuStore
	logger    *slog.Logger
}

func NewOrderService(orders OrderStore, locations LocationStore, menu MenuStore, logger *slog.Logger) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		orders:    orders,
		locations: locations,
		menu:      menu,
		logger:    logger.With("component", "order_service"),
	}
}

// Create validates, prices and persists an order with its items.
// Validation is fail-fast in a fixed order; no row is written until every check passes.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if missing := missingOrderFields(in); len(missing) > 0 {
		return nil, ErrMissingFields.
			withMessage("Missing required fields: %s", strings.Join(missing, ", ")).
			withDetails(missing)
	}

	orderType := models.OrderType(in.OrderType)
	if orderType != models.OrderTypePickup && orderType != models.OrderTypeDelivery {
		return nil, ErrInvalidOrderType
	}

	var address string
	if in.DeliveryAddress != nil {
		address = strings.TrimSpace(*in.DeliveryAddress)
	}
	if orderType == models.OrderTypeDelivery && address == "" {
		return nil, ErrMissingDeliveryAddress
	}

	if len(in.Items) == 0 {
		return nil, ErrInvalidItems.withMessage("items must be a non-empty array")
	}
	for _, item := range in.Items {
		if strings.TrimSpace(item.MenuItemID) == "" || item.Quantity <= 0 || item.Quantity != math.Trunc(item.Quantity) {
			return nil, ErrInvalidItems
		}
	}

	location, err := s.activeLocation(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}

	if orderType == models.OrderTypeDelivery {
		prefix, err := utils.ExtractPostalPrefix(address)
		if err != nil {
			return nil, ErrUnprocessableAddress
		}
		if !utils.IsWithinZone(prefix, location.DeliveryZones) {
			return nil, ErrOutsideDeliveryZone.
				withMessage("Delivery address is outside the delivery zone for this location. Postal code %s is not serviced.", prefix).
				withDetails(map[string]string{"postal_prefix": prefix})
		}
	}

	menuItems, err := s.resolveMenuItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	items, subtotal := priceItems(in.Items, menuItems)
	fee := 0.0
	if orderType == models.OrderTypeDelivery {
		fee = DeliveryFee
	}
	subtotal = utils.Round2(subtotal)

	order := &models.Order{
		LocationID:    location.ID,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: trimmedOrNil(in.CustomerEmail),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		OrderType:     orderType,
		Status:        models.OrderStatusPending,
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		Total:         utils.Round2(subtotal + fee),
		PaymentStatus: models.PaymentStatusPending,
		Notes:         trimmedOrNil(in.Notes),
	}
	if orderType == models.OrderTypeDelivery {
		order.DeliveryAddress = &address
	}

	if err := s.orders.InsertOrder(ctx, order); err != nil {
		s.logger.Error("failed to insert order", "error", err)
		return nil, ErrPersistenceFailure.withMessage("Failed to create order").wrap(err)
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := s.orders.InsertOrderItems(ctx, items); err != nil {
		s.logger.Error("failed to insert order items, removing order", "order_id", order.ID, "error", err)
		if cerr := s.compensate(ctx, order.ID); cerr != nil {
			return nil, ErrPersistenceFailure.
				withMessage("Failed to create order items and could not remove the partial order").
				wrap(errors.Join(err, cerr))
		}
		return nil, ErrPersistenceFailure.withMessage("Failed to create order items").wrap(err)
	}

	order.Items = items
	s.logger.Info("order created",
		"order_id", order.ID,
		"location_id", order.LocationID,
		"order_type", order.OrderType,
		"total", order.Total)
	return order, nil
}

// compensate removes an order whose items could not be written. It survives caller cancellation.
func (s *OrderService) compensate(ctx context.Context, id uuid.UUID) error {
	ctx = context.WithoutCancel(ctx)
	var err error
	for attempt := 1; attempt <= compensationAttempts; attempt++ {
		if err = s.orders.DeleteOrder(ctx, id); err == nil || errors.Is(err, ErrNotFound) {
			return nil
		}
		s.logger.Warn("compensating delete failed", "order_id", id, "attempt", attempt, "error", err)
		time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
	}
	s.logger.Error("orphaned order left behind", "order_id", id, "error", err)
	return err
}

func (s *OrderService) activeLocation(ctx context.Context, rawID string) (*models.Location, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, ErrLocationNotFound
	}
	location, err := s.locations.GetLocation(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		s.logger.Error("failed to fetch location", "location_id", id, "error", err)
		return nil, ErrPersistenceFailure.withMessage("Failed to fetch location").wrap(err)
	}
	if !location.IsActive {
		return nil, ErrLocationInactive
	}
	return location, nil
}

// resolveMenuItems checks that every referenced item exists and is orderable.
func (s *OrderService) resolveMenuItems(ctx context.Context, in []OrderItemInput) (map[string]models.MenuItem, error) {
	var (
		ids     []uuid.UUID
		seen    = make(map[string]bool)
		missing []string
	)
	for _, item := range in {
		raw := strings.TrimSpace(item.MenuItemID)
		if seen[raw] {
			continue
		}
		seen[raw] = true
		id, err := uuid.Parse(raw)
		if err != nil {
			missing = append(missing, raw)
			continue
		}
		ids = append(ids, id)
	}

	found := make(map[string]models.MenuItem, len(ids))
	if len(ids) > 0 {
		rows, err := s.menu.GetMenuItems(ctx, ids)
		if err != nil {
			s.logger.Error("failed to fetch menu items", "error", err)
			return nil, ErrPersistenceFailure.withMessage("Failed to fetch menu items").wrap(err)
		}
		for _, row := range rows {
			found[row.ID.String()] = row
		}
	}

	for _, id := range ids {
		if _, ok := found[id.String()]; !ok {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return nil, ErrMenuItemsNotFound.
			withMessage("Menu items not found: %s", strings.Join(missing, ", ")).
			withDetails(missing)
	}

	var unavailable []string
	for _, id := range ids {
		if row := found[id.String()]; !row.IsAvailable {
			unavailable = append(unavailable, row.Name)
		}
	}
	if len(unavailable) > 0 {
		return nil, ErrMenuItemsUnavailable.
			withMessage("Menu items not available: %s", strings.Join(unavailable, ", ")).
			withDetails(unavailable)
	}

	// Re-key by the caller's spelling so lookups below match the input.
	byInput := make(map[string]models.MenuItem, len(in))
	for _, item := range in {
		raw := strings.TrimSpace(item.MenuItemID)
		id, _ := uuid.Parse(raw)
		byInput[raw] = found[id.String()]
	}
	return byInput, nil
}

// priceItems snapshots name and price per line. The returned subtotal is unrounded.
func priceItems(in []OrderItemInput, menu map[string]models.MenuItem) ([]models.OrderItem, float64) {
	items := make([]models.OrderItem, 0, len(in))
	subtotal := 0.0
	for i, item := range in {
		mi := menu[strings.TrimSpace(item.MenuItemID)]
		qty := int(item.Quantity)
		subtotal += mi.Price * float64(qty)
		items = append(items, models.OrderItem{
			MenuItemID:          mi.ID,
			ItemName:            mi.Name,
			ItemPrice:           mi.Price,
			Quantity:            qty,
			SpecialInstructions: trimmedOrNil(item.SpecialInstructions),
			Position:            i,
		})
	}
	return items, subtotal
}

func missingOrderFields(in CreateOrderInput) []string {
	var missing []string
	if strings.TrimSpace(in.LocationID) == "" {
		missing = append(missing, "location_id")
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(in.CustomerPhone) == "" {
		missing = append(missing, "customer_phone")
	}
	if strings.TrimSpace(in.OrderType) == "" {
		missing = append(missing, "order_type")
	}
	if in.Items == nil {
		missing = append(missing, "items")
	}
	return missing
}

// Get returns one order with its items. Admin only.
func (s *OrderService) Get(ctx context.Context, p *Principal, rawID string) (*models.Order, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}
	return s.load(ctx, rawID)
}

func (s *OrderService) load(ctx context.Context, rawID string) (*models.Order, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, ErrOrderNotFound
	}
	order, err := s.orders.GetOrder(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		s.logger.Error("failed to fetch order", "order_id", id, "error", err)
		return nil, ErrPersistenceFailure.withMessage("Failed to fetch order").wrap(err)
	}
	return order, nil
}

// List returns orders newest first. Admin only.
func (s *OrderService) List(ctx context.Context, p *Principal, filter OrderFilter) ([]models.Order, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}
	orders, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list orders", "error", err)
		return nil, ErrPersistenceFailure.withMessage("Failed to fetch orders").wrap(err)
	}
	return orders, nil
}

// UpdateStatus moves an order along the status graph. The current status is read fresh and
// the write only lands if no one else changed it in between.
func (s *OrderService) UpdateStatus(ctx context.Context, p *Principal, rawID, next string) (*models.Order, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(next) == "" {
		return nil, ErrMissingFields.withMessage("status is required").withDetails([]string{"status"})
	}

	order, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}

	from := string(order.Status)
	details := map[string]string{"from": from, "to": next}
	if !utils.CanTransition(utils.OrderTransitions, from, next) {
		return nil, ErrInvalidTransition.
			withMessage("Invalid status transition from '%s' to '%s'", from, next).
			withDetails(details)
	}
	if models.OrderStatus(next) == models.OrderStatusOutForDelivery && order.OrderType != models.OrderTypeDelivery {
		return nil, ErrInvalidTransition.
			withMessage("Only delivery orders can be set to '%s'", next).
			withDetails(details)
	}

	ok, err := s.orders.UpdateOrderStatus(ctx, order.ID, order.Status, models.OrderStatus(next))
	if err != nil {
		s.logger.Error("failed to update order status", "order_id", order.ID, "error", err)
		return nil, ErrPersistenceFailure.withMessage("Failed to update order").wrap(err)
	}
	if !ok {
		s.logger.Warn("order status changed concurrently", "order_id", order.ID, "expected", from, "to", next)
		return nil, ErrStatusConflict.withDetails(details)
	}

	s.logger.Info("order status updated", "order_id", order.ID, "from", from, "to", next, "by", p.Email)
	return s.load(ctx, order.ID.String())
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
