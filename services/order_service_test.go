package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"eataliano-backend/models"
	"eataliano-backend/services"
	"eataliano-backend/store"

	"github.com/google/uuid"
)

func pickupOrder(f *fixture, items ...services.OrderItemInput) services.CreateOrderInput {
	return services.CreateOrderInput{
		LocationID:    f.location.ID.String(),
		CustomerName:  "Jan de Vries",
		CustomerPhone: "+31612345678",
		OrderType:     "pickup",
		Items:         items,
	}
}

func deliveryOrder(f *fixture, address string, items ...services.OrderItemInput) services.CreateOrderInput {
	in := pickupOrder(f, items...)
	in.OrderType = "delivery"
	in.DeliveryAddress = ptr(address)
	return in
}

func line(item models.MenuItem, qty float64) services.OrderItemInput {
	return services.OrderItemInput{MenuItemID: item.ID.String(), Quantity: qty}
}

func TestCreatePickupOrderPricesItems(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService(nil)

	order, err := svc.Create(context.Background(), pickupOrder(f, line(f.margherita, 2)))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if order.Subtotal != 25.00 || order.DeliveryFee != 0 || order.Total != 25.00 {
		t.Fatalf("unexpected totals: subtotal=%v fee=%v total=%v", order.Subtotal, order.DeliveryFee, order.Total)
	}
	if order.Status != models.OrderStatusPending || order.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("unexpected status %s/%s", order.Status, order.PaymentStatus)
	}
	if len(order.Items) != 1 || order.Items[0].ItemName != "Margherita" || order.Items[0].ItemPrice != 12.50 {
		t.Fatalf("expected a snapshot of the menu item, got %+v", order.Items)
	}

	stored, err := f.store.GetOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("order was not persisted: %v", err)
	}
	if len(stored.Items) != 1 || stored.Items[0].Quantity != 2 {
		t.Fatalf("unexpected stored items: %+v", stored.Items)
	}
}

func TestCreateDeliveryOrderAddsFee(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService(nil)

	order, err := svc.Create(context.Background(), deliveryOrder(f, "Jansstraat 4, 6811 GJ Arnhem", line(f.margherita, 2)))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if order.DeliveryFee != 2.50 || order.Total != 27.50 {
		t.Fatalf("expected fee 2.50 and total 27.50, got fee=%v total=%v", order.DeliveryFee, order.Total)
	}
	if order.DeliveryAddress == nil || *order.DeliveryAddress != "Jansstraat 4, 6811 GJ Arnhem" {
		t.Fatalf("unexpected delivery address %v", order.DeliveryAddress)
	}
}

func TestCreateOrderKeepsLineOrder(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService(nil)

	order, err := svc.Create(context.Background(), pickupOrder(f, line(f.calzone, 1), line(f.margherita, 3)))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if order.Subtotal != 52.45 {
		t.Fatalf("expected subtotal 52.45, got %v", order.Subtotal)
	}

	stored, _ := f.store.GetOrder(context.Background(), order.ID)
	if stored.Items[0].ItemName != "Calzone" || stored.Items[1].ItemName != "Margherita" {
		t.Fatalf("expected items in request order, got %s, %s", stored.Items[0].ItemName, stored.Items[1].ItemName)
	}
}

func TestCreateDeliveryOrderOutsideZone(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService(nil)

	_, err := svc.Create(context.Background(), deliveryOrder(f, "Damrak 1, 1234 AB Amsterdam", line(f.margherita, 1)))
	e := expectError(t, err, services.ErrOutsideDeliveryZone)
	if e.Kind != services.KindUnprocessable {
		t.Fatalf("expected unprocessable kind, got %v", e.Kind)
	}
	if !strings.Contains(e.Message, "1234") {
		t.Fatalf("expected the message to name 1234, got %q", e.Message)
	}
	assertNoOrders(t, f)
}

func TestCreateDeliveryOrderWithoutPostalCode(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService(nil)

	_, err := svc.Create(context.Background(), deliveryOrder(f, "Jansstraat 4, Arnhem", line(f.margherita, 1)))
	expectError(t, err, services.ErrUnprocessableAddress)
}

func TestCreateOrderValidationOrder(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService(nil)

	tests := []struct {
		name   string
		mutate func(*services.CreateOrderInput)
		want   *services.Error
	}{
		{"missing name", func(in *services.CreateOrderInput) { in.CustomerName = " " }, services.ErrMissingFields},
		{"nil items", func(in *services.CreateOrderInput) { in.Items = nil }, services.ErrMissingFields},
		{"bad type", func(in *services.CreateOrderInput) { in.OrderType = "dine_in" }, services.ErrInvalidOrderType},
		{"delivery without address", func(in *services.CreateOrderInput) { in.OrderType = "delivery" }, services.ErrMissingDeliveryAddress},
		{"empty items", func(in *services.CreateOrderInput) { in.Items = []services.OrderItemInput{} }, services.ErrInvalidItems},
		{"zero quantity", func(in *services.CreateOrderInput) { in.Items[0].Quantity = 0 }, services.ErrInvalidItems},
		{"fractional quantity", func(in *services.CreateOrderInput) { in.Items[0].Quantity = 1.5 }, services.ErrInvalidItems},
		{"unknown location", func(in *services.CreateOrderInput) { in.LocationID = uuid.NewString() }, services.ErrLocationNotFound},
		{"malformed location", func(in *services.CreateOrderInput) { in.LocationID = "arnhem" }, services.ErrLocationNotFound},
		{"inactive location", func(in *services.CreateOrderInput) { in.LocationID = f.closed.ID.String() }, services.ErrLocationInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := pickupOrder(f, line(f.margherita, 1))
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			expectError(t, err, tt.want)
		})
	}
	assertNoOrders(t, f)
}

func TestCreateOrderReportsAllMissingFields(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService(nil)

	_, err := svc.Create(context.Background(), services.CreateOrderInput{})
	e := expectError(t, err, services.ErrMissingFields)
	missing, ok := e.Details.([]string)
	if !ok || len(missing) != 5 {
		t.Fatalf("expected five missing fields, got %v", e.Details)
	}
}

func TestCreateOrderRejectsUnknownAndUnavailableItems(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService(nil)

	ghost := uuid.NewString()
	_, err := svc.Create(context.Background(), pickupOrder(f,
		line(f.margherita, 1),
		services.OrderItemInput{MenuItemID: ghost, Quantity: 1},
	))
	e := expectError(t, err, services.ErrMenuItemsNotFound)
	if !strings.Contains(e.Message, ghost) {
		t.Fatalf("expected the missing id in the message, got %q", e.Message)
	}

	_, err = svc.Create(context.Background(), pickupOrder(f, line(f.margherita, 1), line(f.tiramisu, 1)))
	e = expectError(t, err, services.ErrMenuItemsUnavailable)
	if !strings.Contains(e.Message, "Tiramisu") {
		t.Fatalf("expected the unavailable item name in the message, got %q", e.Message)
	}

	assertNoOrders(t, f)
}

type failingItems struct {
	*store.Memory
	deleteFailures int

	mu      sync.Mutex
	deletes int
}

func (s *failingItems) InsertOrderItems(ctx context.Context, items []models.OrderItem) error {
	return errors.New("disk full")
}

func (s *failingItems) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	s.deletes++
	n := s.deletes
	s.mu.Unlock()
	if n <= s.deleteFailures {
		return errors.New("connection reset")
	}
	return s.Memory.DeleteOrder(ctx, id)
}

func TestCreateOrderRemovesOrderWhenItemsFail(t *testing.T) {
	f := newFixture(t)
	orders := &failingItems{Memory: f.store, deleteFailures: 1}
	svc := f.orderService(orders)

	_, err := svc.Create(context.Background(), pickupOrder(f, line(f.margherita, 1)))
	expectError(t, err, services.ErrPersistenceFailure)
	if orders.deletes != 2 {
		t.Fatalf("expected the compensating delete to be retried once, got %d attempts", orders.deletes)
	}
	assertNoOrders(t, f)
}

func TestCreateOrderSurfacesFailedCompensation(t *testing.T) {
	f := newFixture(t)
	orders := &failingItems{Memory: f.store, deleteFailures: 100}
	svc := f.orderService(orders)

	_, err := svc.Create(context.Background(), pickupOrder(f, line(f.margherita, 1)))
	e := expectError(t, err, services.ErrPersistenceFailure)
	if !strings.Contains(e.Error(), "connection reset") || !strings.Contains(e.Error(), "disk full") {
		t.Fatalf("expected both failures to be reported, got %q", e.Error())
	}
	if orders.deletes != 3 {
		t.Fatalf("expected three delete attempts, got %d", orders.deletes)
	}
}

func TestUpdateOrderStatusFollowsStateMachine(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService(nil)
	ctx := context.Background()

	order, err := svc.Create(ctx, pickupOrder(f, line(f.margherita, 1)))
	must(t, err)

	_, err = svc.UpdateStatus(ctx, admin, order.ID.String(), "completed")
	e := expectError(t, err, services.ErrInvalidTransition)
	if e.Kind != services.KindInvalid {
		t.Fatalf("expected invalid kind, got %v", e.Kind)
	}
	stored, _ := f.store.GetOrder(ctx, order.ID)
	if stored.Status != models.OrderStatusPending {
		t.Fatalf("expected order to stay pending, got %s", stored.Status)
	}

	for _, next := range []string{"confirmed", "preparing", "ready", "completed"} {
		updated, err := svc.UpdateStatus(ctx, admin, order.ID.String(), next)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
		if string(updated.Status) != next {
			t.Fatalf("expected %s, got %s", next, updated.Status)
		}
	}

	_, err = svc.UpdateStatus(ctx, admin, order.ID.String(), "cancelled")
	expectError(t, err, services.ErrInvalidTransition)
}

func TestOutForDeliveryRequiresDeliveryOrder(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService(nil)
	ctx := context.Background()

	pickup, err := svc.Create(ctx, pickupOrder(f, line(f.margherita, 1)))
	must(t, err)
	delivery, err := svc.Create(ctx, deliveryOrder(f, "Jansstraat 4, 6812 AB Arnhem", line(f.margherita, 1)))
	must(t, err)

	for _, order := range []*models.Order{pickup, delivery} {
		for _, next := range []string{"confirmed", "preparing", "ready"} {
			_, err := svc.UpdateStatus(ctx, admin, order.ID.String(), next)
			must(t, err)
		}
	}

	_, err = svc.UpdateStatus(ctx, admin, pickup.ID.String(), "out_for_delivery")
	expectError(t, err, services.ErrInvalidTransition)

	updated, err := svc.UpdateStatus(ctx, admin, delivery.ID.String(), "out_for_delivery")
	if err != nil {
		t.Fatalf("delivery order could not go out for delivery: %v", err)
	}
	if updated.Status != models.OrderStatusOutForDelivery {
		t.Fatalf("unexpected status %s", updated.Status)
	}
}

// racingOrders lets another writer change the status between the read and the write.
type racingOrders struct {
	*store.Memory
}

func (s *racingOrders) UpdateOrderStatus(ctx context.Context, id uuid.UUID, expected, next models.OrderStatus) (bool, error) {
	if _, err := s.Memory.UpdateOrderStatus(ctx, id, expected, models.OrderStatusCancelled); err != nil {
		return false, err
	}
	return s.Memory.UpdateOrderStatus(ctx, id, expected, next)
}

func TestUpdateOrderStatusLosesRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, err := f.orderService(nil).Create(ctx, pickupOrder(f, line(f.margherita, 1)))
	must(t, err)

	svc := f.orderService(&racingOrders{Memory: f.store})
	_, err = svc.UpdateStatus(ctx, admin, order.ID.String(), "confirmed")
	e := expectError(t, err, services.ErrStatusConflict)
	if e.Kind != services.KindConflict {
		t.Fatalf("expected conflict kind, got %v", e.Kind)
	}

	stored, _ := f.store.GetOrder(ctx, order.ID)
	if stored.Status != models.OrderStatusCancelled {
		t.Fatalf("expected the concurrent write to win, got %s", stored.Status)
	}
}

func TestOrderAdminOperationsRequirePrincipal(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService(nil)
	ctx := context.Background()

	if _, err := svc.List(ctx, nil, services.OrderFilter{}); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expected Unauthorized from List, got %v", err)
	}
	if _, err := svc.Get(ctx, nil, uuid.NewString()); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expected Unauthorized from Get, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, nil, uuid.NewString(), "confirmed"); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expected Unauthorized from UpdateStatus, got %v", err)
	}
	if _, err := svc.Get(ctx, admin, uuid.NewString()); !errors.Is(err, services.ErrOrderNotFound) {
		t.Fatalf("expected OrderNotFound, got %v", err)
	}
}

func TestListOrdersFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService(nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, pickupOrder(f, line(f.margherita, 1)))
	must(t, err)
	_, err = svc.Create(ctx, pickupOrder(f, line(f.calzone, 1)))
	must(t, err)
	_, err = svc.UpdateStatus(ctx, admin, first.ID.String(), "confirmed")
	must(t, err)

	all, err := svc.List(ctx, admin, services.OrderFilter{})
	must(t, err)
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}
	if all[1].ID != first.ID {
		t.Fatal("expected newest order first")
	}

	confirmed, err := svc.List(ctx, admin, services.OrderFilter{Status: "confirmed"})
	must(t, err)
	if len(confirmed) != 1 || confirmed[0].ID != first.ID {
		t.Fatalf("expected only the confirmed order, got %d", len(confirmed))
	}
}

func assertNoOrders(t *testing.T, f *fixture) {
	t.Helper()
	orders, err := f.store.ListOrders(context.Background(), services.OrderFilter{})
	must(t, err)
	if len(orders) != 0 {
		t.Fatalf("expected no persisted orders, found %d", len(orders))
	}
}
