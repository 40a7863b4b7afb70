package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"eataliano-backend/services"

	"github.com/stripe/stripe-go/v76/webhook"
)

const testWebhookSecret = "whsec_test"

func sign(payload string) string {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Header
}

func TestVerifyEventCheckoutCompleted(t *testing.T) {
	s := NewStripe(Config{WebhookSecret: testWebhookSecret})
	payload := `{
		"id": "evt_1",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_1",
			"object": "checkout.session",
			"payment_intent": "pi_123",
			"metadata": {"order_id": "6f1c2b1e-1111-4a4a-9c9c-123456789abc"}
		}}
	}`

	event, err := s.VerifyEvent([]byte(payload), sign(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Type != services.EventCheckoutCompleted {
		t.Fatalf("unexpected type %q", event.Type)
	}
	if event.OrderID != "6f1c2b1e-1111-4a4a-9c9c-123456789abc" || event.PaymentIntentID != "pi_123" {
		t.Fatalf("unexpected event fields: %+v", event)
	}
}

func TestVerifyEventOtherTypes(t *testing.T) {
	s := NewStripe(Config{WebhookSecret: testWebhookSecret})
	payload := `{"id":"evt_2","object":"event","type":"payment_intent.created","data":{"object":{"id":"pi_9"}}}`

	event, err := s.VerifyEvent([]byte(payload), sign(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Type != "payment_intent.created" || event.OrderID != "" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestVerifyEventRejectsBadSignature(t *testing.T) {
	s := NewStripe(Config{WebhookSecret: testWebhookSecret})
	payload := `{"id":"evt_3","object":"event","type":"checkout.session.completed","data":{"object":{}}}`

	if _, err := s.VerifyEvent([]byte(payload), "t=1,v1=deadbeef"); err == nil {
		t.Fatalf("expected signature error")
	}
	tampered := sign(payload)
	if _, err := s.VerifyEvent([]byte(payload+" "), tampered); err == nil {
		t.Fatalf("expected error for modified payload")
	}

	unconfigured := NewStripe(Config{})
	if _, err := unconfigured.VerifyEvent([]byte(payload), sign(payload)); err == nil {
		t.Fatalf("expected error without webhook secret")
	}
}

func TestCreateSessionWithoutKey(t *testing.T) {
	s := NewStripe(Config{})
	_, err := s.CreateSession(context.Background(), services.CheckoutRequest{AmountMinor: 100})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if s.cfg.Currency != "eur" {
		t.Fatalf("expected eur default, got %q", s.cfg.Currency)
	}
}
