package services_test

import (
	"context"
	"testing"
	"time"

	"eataliano-backend/models"
	"eataliano-backend/services"
)

func TestDashboardOverview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	today := now.Format("2006-01-02")
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	f.seedOrder(t, now, "+31600000001", 20, true)
	f.seedOrder(t, now, "+31600000002", 12.5, false)
	cancelled := f.seedOrder(t, now, "+31600000003", 30, false)
	_, err := f.store.UpdateOrderStatus(ctx, cancelled.ID, models.OrderStatusPending, models.OrderStatusCancelled)
	must(t, err)
	f.seedOrder(t, now.AddDate(0, 0, -3), "+31600000004", 40, true)

	f.seedReservation(t, "+31611111111", today, models.ReservationStatusConfirmed)
	f.seedReservation(t, "+31622222222", today, models.ReservationStatusCancelled)
	f.seedReservation(t, "+31633333333", tomorrow, models.ReservationStatusConfirmed)

	dashboard := services.NewDashboardService(f.store, f.store, time.UTC, quietLogger())
	overview, err := dashboard.Overview(ctx, admin)
	must(t, err)

	if overview.OrdersToday != 3 || overview.RevenueToday != 20 {
		t.Fatalf("unexpected order figures: %d / %v", overview.OrdersToday, overview.RevenueToday)
	}
	// Paid orders sit in confirmed, which is still open.
	if overview.OpenOrders != 3 {
		t.Fatalf("expected 3 open orders, got %d", overview.OpenOrders)
	}
	if len(overview.RecentOrders) != 4 {
		t.Fatalf("expected 4 recent orders, got %d", len(overview.RecentOrders))
	}
	if overview.ReservationsToday != 1 || overview.GuestsToday != 4 {
		t.Fatalf("unexpected reservation figures: %d / %d", overview.ReservationsToday, overview.GuestsToday)
	}
	if len(overview.UpcomingBookings) != 2 || overview.UpcomingBookings[0].ReservationDate != today {
		t.Fatalf("unexpected upcoming reservations: %+v", overview.UpcomingBookings)
	}
}

func TestDashboardRequiresPrincipal(t *testing.T) {
	f := newFixture(t)
	dashboard := services.NewDashboardService(f.store, f.store, time.UTC, quietLogger())
	_, err := dashboard.Overview(context.Background(), nil)
	expectError(t, err, services.ErrUnauthorized)
}
