package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"eataliano-backend/models"
	"eataliano-backend/services"
	"eataliano-backend/store"
)

func mustNil(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMemoryOrderStatusCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	o := &models.Order{CustomerName: "Anna", Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPending}
	mustNil(t, m.InsertOrder(ctx, o))

	ok, err := m.UpdateOrderStatus(ctx, o.ID, models.OrderStatusPending, models.OrderStatusConfirmed)
	mustNil(t, err)
	if !ok {
		t.Fatalf("expected first swap to succeed")
	}
	ok, err = m.UpdateOrderStatus(ctx, o.ID, models.OrderStatusPending, models.OrderStatusCancelled)
	mustNil(t, err)
	if ok {
		t.Fatalf("expected stale swap to fail")
	}
	got, err := m.GetOrder(ctx, o.ID)
	mustNil(t, err)
	if got.Status != models.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", got.Status)
	}
}

func TestMemoryMarkOrderPaidOnce(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	o := &models.Order{Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPending}
	mustNil(t, m.InsertOrder(ctx, o))

	first, err := m.MarkOrderPaid(ctx, o.ID, "pi_1", models.OrderStatusPending, models.OrderStatusConfirmed)
	mustNil(t, err)
	second, err := m.MarkOrderPaid(ctx, o.ID, "pi_2", models.OrderStatusPending, models.OrderStatusConfirmed)
	mustNil(t, err)
	if !first || second {
		t.Fatalf("expected exactly one settlement, got %v then %v", first, second)
	}
	got, _ := m.GetOrder(ctx, o.ID)
	if got.StripePaymentIntentID == nil || *got.StripePaymentIntentID != "pi_1" {
		t.Fatalf("expected pi_1 to be kept, got %v", got.StripePaymentIntentID)
	}
}

func TestMemoryListOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	base := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)

	for i, offset := range []time.Duration{0, time.Hour, time.Hour, 2 * time.Hour} {
		at := base.Add(offset)
		m.SetClock(func() time.Time { return at })
		o := &models.Order{CustomerName: string(rune('A' + i))}
		mustNil(t, m.InsertOrder(ctx, o))
	}

	orders, err := m.ListOrders(ctx, services.OrderFilter{})
	mustNil(t, err)
	var got []string
	for _, o := range orders {
		got = append(got, o.CustomerName)
	}
	want := []string{"D", "C", "B", "A"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	from := base.Add(30 * time.Minute)
	to := base.Add(90 * time.Minute)
	window, err := m.ListOrders(ctx, services.OrderFilter{From: &from, To: &to})
	mustNil(t, err)
	if len(window) != 2 {
		t.Fatalf("expected 2 orders in window, got %d", len(window))
	}
}

func TestMemoryOrderItemsKeepPosition(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	o := &models.Order{}
	mustNil(t, m.InsertOrder(ctx, o))
	mustNil(t, m.InsertOrderItems(ctx, []models.OrderItem{
		{OrderID: o.ID, ItemName: "second", Position: 1},
		{OrderID: o.ID, ItemName: "first", Position: 0},
	}))
	got, _ := m.GetOrder(ctx, o.ID)
	if len(got.Items) != 2 || got.Items[0].ItemName != "first" {
		t.Fatalf("unexpected item order: %+v", got.Items)
	}

	mustNil(t, m.DeleteOrder(ctx, o.ID))
	if _, err := m.GetOrder(ctx, o.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	err := m.InsertOrderItems(ctx, []models.OrderItem{{OrderID: o.ID}})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected items for a missing order to be rejected, got %v", err)
	}
}

func TestMemoryChatSessionPurge(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.SetClock(func() time.Time { return old })
	stale := &models.ChatSession{SessionToken: "stale"}
	mustNil(t, m.InsertChatSession(ctx, stale))

	m.SetClock(func() time.Time { return old.AddDate(0, 1, 0) })
	fresh := &models.ChatSession{SessionToken: "fresh"}
	mustNil(t, m.InsertChatSession(ctx, fresh))

	n, err := m.DeleteChatSessionsBefore(ctx, old.AddDate(0, 0, 7))
	mustNil(t, err)
	if n != 1 {
		t.Fatalf("expected 1 purged session, got %d", n)
	}
	if _, err := m.FindChatSession(ctx, "stale"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected stale session gone, got %v", err)
	}
	if _, err := m.FindChatSession(ctx, "fresh"); err != nil {
		t.Fatalf("expected fresh session kept, got %v", err)
	}
}

func TestMemoryMarkOrderPaidRequiresExpectedStatus(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	o := &models.Order{Status: models.OrderStatusPreparing, PaymentStatus: models.PaymentStatusPending}
	mustNil(t, m.InsertOrder(ctx, o))

	ok, err := m.MarkOrderPaid(ctx, o.ID, "pi_1", models.OrderStatusConfirmed, models.OrderStatusConfirmed)
	mustNil(t, err)
	if ok {
		t.Fatalf("expected a stale status to block settlement")
	}
	got, _ := m.GetOrder(ctx, o.ID)
	if got.PaymentStatus != models.PaymentStatusPending || got.Status != models.OrderStatusPreparing {
		t.Fatalf("expected order untouched, got %s/%s", got.PaymentStatus, got.Status)
	}
}
