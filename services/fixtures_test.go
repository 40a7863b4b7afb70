package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"eataliano-backend/models"
	"eataliano-backend/services"
	"eataliano-backend/store"
)

var admin = &services.Principal{UserID: "admin-1", Email: "admin@eataliano.nl"}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store      *store.Memory
	category   models.MenuCategory
	location   models.Location
	closed     models.Location
	margherita models.MenuItem
	calzone    models.MenuItem
	tiramisu   models.MenuItem
}

// newFixture seeds one active location in Arnhem (zones 6811 and 6812, closed on Sunday), one inactive
// location, two available items and one unavailable item.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: store.NewMemory()}

	hours := models.OpeningHours{}
	for _, day := range []string{"dinsdag", "woensdag", "donderdag", "vrijdag", "zaterdag"} {
		hours[day] = models.DayHours{Open: "12:00", Close: "22:00"}
	}
	hours["maandag"] = models.DayHours{Open: "16:00", Close: "22:00"}
	f.location = models.Location{
		Name:          "Arnhem Centrum",
		Address:       "Korenmarkt 1, 6811 GW Arnhem",
		City:          "Arnhem",
		Phone:         "+31261234567",
		OpeningHours:  hours,
		DeliveryZones: models.StringList{"6811", "6812"},
		IsActive:      true,
	}
	f.closed = models.Location{
		Name:          "Nijmegen",
		Address:       "Grote Markt 2, 6511 KB Nijmegen",
		Phone:         "+31241234567",
		OpeningHours:  hours,
		DeliveryZones: models.StringList{"6511"},
		IsActive:      false,
	}
	f.category = models.MenuCategory{Name: "Pizza", IsActive: true}

	must(t, f.store.CreateLocation(ctx, &f.location))
	must(t, f.store.CreateLocation(ctx, &f.closed))
	must(t, f.store.CreateCategory(ctx, &f.category))

	f.margherita = models.MenuItem{
		CategoryID:    f.category.ID,
		Name:          "Margherita",
		Price:         12.50,
		DietaryLabels: models.StringList{"vegetarisch"},
		IsAvailable:   true,
	}
	f.calzone = models.MenuItem{CategoryID: f.category.ID, Name: "Calzone", Price: 14.95, IsAvailable: true, SortOrder: 1}
	f.tiramisu = models.MenuItem{CategoryID: f.category.ID, Name: "Tiramisu", Price: 6.50, IsAvailable: false}
	must(t, f.store.CreateMenuItem(ctx, &f.margherita))
	must(t, f.store.CreateMenuItem(ctx, &f.calzone))
	must(t, f.store.CreateMenuItem(ctx, &f.tiramisu))
	return f
}

func (f *fixture) orderService(orders services.OrderStore) *services.OrderService {
	if orders == nil {
		orders = f.store
	}
	return services.NewOrderService(orders, f.store, f.store, quietLogger())
}

func (f *fixture) reservationService(now time.Time) *services.ReservationService {
	return services.NewReservationService(f.store, f.store, services.ReservationConfig{
		RestaurantName: "Eataliano",
		Timezone:       time.UTC,
		Now:            func() time.Time { return now },
	}, quietLogger())
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func ptr[T any](v T) *T {
	return &v
}

func expectError(t *testing.T, err error, want *services.Error) *services.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", want.Code)
	}
	got, ok := services.AsError(err)
	if !ok || got.Code != want.Code {
		t.Fatalf("expected %s, got %v", want.Code, err)
	}
	return got
}
