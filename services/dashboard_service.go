package services

import (
	"context"
	"log/slog"
	"time"

	"eataliano-backend/models"
	"eataliano-backend/utils"

	"golang.org/x/sync/errgroup"
)

const recentOrdersLimit = 5

type DashboardOverview struct {
	OrdersToday       int                  `json:"ordersToday"`
	RevenueToday      float64              `json:"revenueToday"`
	OpenOrders        int                  `json:"openOrders"`
	ReservationsToday int                  `json:"reservationsToday"`
	GuestsToday       int                  `json:"guestsToday"`
	RecentOrders      []models.Order       `json:"recentOrders"`
	UpcomingBookings  []models.Reservation `json:"upcomingReservations"`
}

type DashboardService struct {
	orders       OrderStore
	reservations ReservationStore
	timezone     *time.Location
	logger       *slog.Logger
}

func NewDashboardService(orders OrderStore, reservations ReservationStore, timezone *time.Location, logger *slog.Logger) *DashboardService {
	if timezone == nil {
		timezone = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		orders:       orders,
		reservations: reservations,
		timezone:     timezone,
		logger:       logger.With("component", "dashboard_service"),
	}
}

// Overview gathers today's figures. The independent queries run concurrently.
func (s *DashboardService) Overview(ctx context.Context, p *Principal) (*DashboardOverview, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}

	now := time.Now().In(s.timezone)
	start := utils.BeginningOfDay(now)
	end := utils.EndOfDay(now)
	today := now.Format(utils.DateLayout)

	var (
		todays   []models.Order
		all      []models.Order
		bookings []models.Reservation
		upcoming []models.Reservation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		todays, err = s.orders.ListOrders(gctx, OrderFilter{From: &start, To: &end})
		return err
	})
	g.Go(func() error {
		var err error
		all, err = s.orders.ListOrders(gctx, OrderFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		bookings, err = s.reservations.ListReservations(gctx, ReservationFilter{DateFrom: today, DateTo: today})
		return err
	})
	g.Go(func() error {
		var err error
		upcoming, err = s.reservations.ListReservations(gctx, ReservationFilter{
			DateFrom: today,
			Status:   string(models.ReservationStatusConfirmed),
		})
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to build dashboard", "error", err)
		return nil, ErrPersistenceFailure.withMessage("Failed to load dashboard").wrap(err)
	}

	out := &DashboardOverview{
		OrdersToday:      len(todays),
		RecentOrders:     []models.Order{},
		UpcomingBookings: []models.Reservation{},
	}
	for _, o := range todays {
		if o.PaymentStatus == models.PaymentStatusPaid {
			out.RevenueToday += o.Total
		}
	}
	out.RevenueToday = utils.Round2(out.RevenueToday)

	for _, o := range all {
		if o.Status != models.OrderStatusCompleted && o.Status != models.OrderStatusCancelled {
			out.OpenOrders++
		}
	}
	if len(all) > recentOrdersLimit {
		out.RecentOrders = all[:recentOrdersLimit]
	} else if len(all) > 0 {
		out.RecentOrders = all
	}

	for _, r := range bookings {
		if r.Status == models.ReservationStatusCancelled {
			continue
		}
		out.ReservationsToday++
		out.GuestsToday += r.PartySize
	}
	if len(upcoming) > 7 {
		upcoming = upcoming[:7]
	}
	if len(upcoming) > 0 {
		out.UpcomingBookings = upcoming
	}
	return out, nil
}
