package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eataliano-backend/models"
	"eataliano-backend/utils"

	"github.com/google/uuid"
)

const settleAttempts = 3

type PaymentConfig struct {
	RestaurantName string
	AppURL         string
	Timeout        time.Duration
}

// PaymentService starts checkouts and settles orders from provider webhooks.
type PaymentService struct {
	orders   OrderStore
	provider CheckoutProvider
	cfg      PaymentConfig
	logger   *slog.Logger
}

func NewPaymentService(orders OrderStore, provider CheckoutProvider, cfg PaymentConfig, logger *slog.Logger) *PaymentService {
	if cfg.RestaurantName == "" {
		cfg.RestaurantName = "Eataliano"
	}
	if cfg.AppURL == "" {
		cfg.AppURL = "http://localhost:3000"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentService{
		orders:   orders,
		provider: provider,
		cfg:      cfg,
		logger:   logger.With("component", "payment_service"),
	}
}

// CreateCheckout opens a hosted payment session covering the order total.
func (s *PaymentService) CreateCheckout(ctx context.Context, rawOrderID string) (*CheckoutSession, error) {
	if strings.TrimSpace(rawOrderID) == "" {
		return nil, ErrMissingFields.withMessage("order_id is required").withDetails([]string{"order_id"})
	}
	id, err := uuid.Parse(strings.TrimSpace(rawOrderID))
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
	if order.PaymentStatus != models.PaymentStatusPending {
		return nil, ErrPaymentAlreadyProcessed.withMessage("Order payment is already '%s'", order.PaymentStatus)
	}

	fulfilment := "Afhalen"
	if order.OrderType == models.OrderTypeDelivery {
		fulfilment = "Bezorging"
	}
	orderID := order.ID.String()
	appURL := strings.TrimRight(s.cfg.AppURL, "/")
	req := CheckoutRequest{
		OrderID:     orderID,
		Name:        fmt.Sprintf("%s bestelling #%s", s.cfg.RestaurantName, orderID[:8]),
		Description: fmt.Sprintf("%d item(s) - %s", len(order.Items), fulfilment),
		AmountMinor: utils.ToMinorUnits(order.Total),
		Metadata:    map[string]string{"order_id": orderID},
		SuccessURL:  appURL + "/order/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   appURL + "/order/cancel",
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	session, err := s.provider.CreateSession(callCtx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			s.logger.Error("checkout session timed out", "order_id", orderID, "timeout", s.cfg.Timeout)
			return nil, ErrUpstreamTimeout.withMessage("Payment service timed out").wrap(err)
		}
		s.logger.Error("failed to create checkout session", "order_id", orderID, "error", err)
		return nil, ErrPaymentFailed.wrap(err)
	}

	// The session id is informational; settlement correlates on metadata instead.
	if err := s.orders.SetCheckoutSession(ctx, order.ID, session.ID); err != nil {
		s.logger.Warn("failed to store checkout session id", "order_id", orderID, "session_id", session.ID, "error", err)
	}

	s.logger.Info("checkout session created", "order_id", orderID, "session_id", session.ID, "amount_minor", req.AmountMinor)
	return session, nil
}

// HandleWebhook verifies a provider event and settles the referenced order at most once.
// Only a missing or invalid signature is reported as an error; every other outcome is acknowledged.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if strings.TrimSpace(signature) == "" {
		return ErrMissingSignature
	}
	event, err := s.provider.VerifyEvent(payload, signature)
	if err != nil {
		s.logger.Warn("webhook signature verification failed", "error", err)
		return ErrSignatureVerificationFailed.withMessage("Webhook signature verification failed: %s", err.Error())
	}

	if event.Type != EventCheckoutCompleted {
		s.logger.Debug("ignoring webhook event", "type", event.Type)
		return nil
	}
	if event.OrderID == "" {
		s.logger.Warn("checkout completed without order id")
		return nil
	}
	id, err := uuid.Parse(event.OrderID)
	if err != nil {
		s.logger.Warn("checkout completed with malformed order id", "order_id", event.OrderID)
		return nil
	}

	// The write is guarded on the status read, so an admin change in between forces a fresh read.
	for attempt := 1; attempt <= settleAttempts; attempt++ {
		order, err := s.orders.GetOrder(ctx, id)
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("checkout completed for unknown order", "order_id", id)
			return nil
		}
		if err != nil {
			s.logger.Error("failed to load order for settlement", "order_id", id, "error", err)
			return nil
		}
		if order.PaymentStatus == models.PaymentStatusPaid {
			s.logger.Info("duplicate payment event ignored", "order_id", id)
			return nil
		}

		status := order.Status
		if utils.CanTransition(utils.OrderTransitions, string(order.Status), string(models.OrderStatusConfirmed)) {
			status = models.OrderStatusConfirmed
		} else if order.Status != models.OrderStatusConfirmed {
			s.logger.Warn("payment received for order that cannot be confirmed", "order_id", id, "status", order.Status)
		}

		settled, err := s.orders.MarkOrderPaid(ctx, id, event.PaymentIntentID, order.Status, status)
		if err != nil {
			s.logger.Error("failed to settle order", "order_id", id, "error", err)
			return nil
		}
		if settled {
			s.logger.Info("order paid", "order_id", id, "status", status, "payment_intent", event.PaymentIntentID)
			return nil
		}
		s.logger.Info("order changed during settlement, retrying", "order_id", id, "attempt", attempt)
	}

	s.logger.Error("gave up settling order", "order_id", id, "attempts", settleAttempts)
	return nil
}
