package services_test

import (
	"context"
	"testing"
	"time"

	"eataliano-backend/models"
	"eataliano-backend/services"
)

func (f *fixture) seedOrder(t *testing.T, at time.Time, phone string, total float64, paid bool, items ...models.OrderItem) models.Order {
	t.Helper()
	ctx := context.Background()
	f.store.SetClock(func() time.Time { return at })
	o := models.Order{
		LocationID:    f.location.ID,
		CustomerName:  "Klant " + phone,
		CustomerPhone: phone,
		OrderType:     models.OrderTypePickup,
		Status:        models.OrderStatusPending,
		Subtotal:      total,
		Total:         total,
		PaymentStatus: models.PaymentStatusPending,
	}
	if paid {
		o.PaymentStatus = models.PaymentStatusPaid
		o.Status = models.OrderStatusConfirmed
	}
	must(t, f.store.InsertOrder(ctx, &o))
	for i := range items {
		items[i].OrderID = o.ID
		items[i].MenuItemID = f.margherita.ID
		items[i].Position = i
	}
	if len(items) > 0 {
		must(t, f.store.InsertOrderItems(ctx, items))
	}
	return o
}

func TestQuarterStart(t *testing.T) {
	cases := map[time.Month]time.Month{
		time.January:  time.January,
		time.March:    time.January,
		time.April:    time.April,
		time.August:   time.July,
		time.December: time.October,
	}
	for month, want := range cases {
		got := services.QuarterStart(time.Date(2025, month, 17, 15, 30, 0, 0, time.UTC))
		if got.Month() != want || got.Day() != 1 || got.Hour() != 0 {
			t.Fatalf("QuarterStart(%s) = %s", month, got)
		}
	}
}

func TestGrowthPercentage(t *testing.T) {
	cases := []struct {
		current, previous, want float64
	}{
		{0, 0, 0},
		{50, 0, 100},
		{150, 100, 50},
		{50, 100, -50},
		{10, 3, 233.33},
	}
	for _, tc := range cases {
		if got := services.GrowthPercentage(tc.current, tc.previous); got != tc.want {
			t.Fatalf("GrowthPercentage(%v, %v) = %v, want %v", tc.current, tc.previous, got, tc.want)
		}
	}
}

func TestAnalyticsRevenueAndGrowth(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)

	f.seedOrder(t, time.Date(2025, 5, 2, 18, 0, 0, 0, time.UTC), "+31600000001", 30, true,
		models.OrderItem{ItemName: "Margherita", ItemPrice: 12.50, Quantity: 2},
		models.OrderItem{ItemName: "Tiramisu", ItemPrice: 5, Quantity: 1},
	)
	f.seedOrder(t, time.Date(2025, 5, 10, 18, 0, 0, 0, time.UTC), "+31600000002", 14.95, true,
		models.OrderItem{ItemName: "Calzone", ItemPrice: 14.95, Quantity: 1},
	)
	f.seedOrder(t, time.Date(2025, 5, 11, 18, 0, 0, 0, time.UTC), "+31600000003", 99, false)
	f.seedOrder(t, time.Date(2025, 4, 15, 18, 0, 0, 0, time.UTC), "+31600000001", 25, true)
	f.seedOrder(t, time.Date(2025, 2, 15, 18, 0, 0, 0, time.UTC), "+31600000001", 50, true)
	f.seedOrder(t, time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC), "+31600000002", 50, true)
	f.seedOrder(t, time.Date(2023, 6, 1, 18, 0, 0, 0, time.UTC), "+31600000002", 1000, true)

	reports := services.NewReportService(f.store, time.UTC, func() time.Time { return now }, quietLogger())
	summary, err := reports.Analytics(context.Background(), admin)
	must(t, err)

	if summary.CurrentMonthRevenue != 44.95 {
		t.Fatalf("expected month revenue 44.95, got %v", summary.CurrentMonthRevenue)
	}
	if summary.MonthGrowth != 79.8 {
		t.Fatalf("expected month growth 79.8, got %v", summary.MonthGrowth)
	}
	if summary.CurrentQuarterRevenue != 69.95 || summary.QuarterGrowth != 39.9 {
		t.Fatalf("unexpected quarter figures: %v / %v", summary.CurrentQuarterRevenue, summary.QuarterGrowth)
	}
	if summary.CurrentYearRevenue != 119.95 || summary.YearGrowth != 139.9 {
		t.Fatalf("unexpected year figures: %v / %v", summary.CurrentYearRevenue, summary.YearGrowth)
	}

	if len(summary.TopItems) != 3 || summary.TopItems[0].Name != "Margherita" || summary.TopItems[0].Revenue != 25 {
		t.Fatalf("unexpected top items: %+v", summary.TopItems)
	}
	if summary.TopItems[0].Count != 2 || summary.TopItems[1].Name != "Calzone" {
		t.Fatalf("unexpected top items: %+v", summary.TopItems)
	}
	if len(summary.TopCustomers) != 2 || summary.TopCustomers[0].Phone != "+31600000001" || summary.TopCustomers[0].Spent != 30 {
		t.Fatalf("unexpected top customers: %+v", summary.TopCustomers)
	}

	// The 2023 order falls outside the window that is loaded.
	stats := summary.QuickStats
	if stats.TotalOrders != 6 || stats.PaidOrders != 5 || stats.DeliveryShare != 0 {
		t.Fatalf("unexpected quick stats: %+v", stats)
	}
	if stats.AvgOrderValue != 33.99 {
		t.Fatalf("expected average 33.99, got %v", stats.AvgOrderValue)
	}
}

func TestAnalyticsRequiresPrincipal(t *testing.T) {
	f := newFixture(t)
	reports := services.NewReportService(f.store, time.UTC, nil, quietLogger())
	_, err := reports.Analytics(context.Background(), nil)
	expectError(t, err, services.ErrUnauthorized)
}
