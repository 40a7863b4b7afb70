// services/reminder_service.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"eataliano-backend/models"
	"eataliano-backend/utils"

	"golang.org/x/sync/errgroup"
)

const reminderWorkers = 4

type ReminderConfig struct {
	RestaurantName string
	Timezone       *time.Location
	Now            func() time.Time
}

// ReminderService texts guests the day before a confirmed reservation.
type ReminderService struct {
	reservations ReservationStore
	locations    LocationStore
	logs         ReminderLogStore
	sms          SMSSender
	cfg          ReminderConfig
	logger       *slog.Logger
}

func NewReminderService(reservations ReservationStore, locations LocationStore, logs ReminderLogStore, sms SMSSender, cfg ReminderConfig, logger *slog.Logger) *ReminderService {
	if cfg.RestaurantName == "" {
		cfg.RestaurantName = "Eataliano"
	}
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReminderService{
		reservations: reservations,
		locations:    locations,
		logs:         logs,
		sms:          sms,
		cfg:          cfg,
		logger:       logger.With("component", "reminder_service"),
	}
}

// SendDailyReminders notifies every confirmed reservation for tomorrow that has not been reminded yet.
// It returns how many messages were delivered.
func (s *ReminderService) SendDailyReminders(ctx context.Context) (int, error) {
	tomorrow := s.cfg.Now().In(s.cfg.Timezone).AddDate(0, 0, 1).Format(utils.DateLayout)
	s.logger.Info("starting daily reminder processing", "date", tomorrow)

	reservations, err := s.reservations.ListReservations(ctx, ReservationFilter{
		DateFrom: tomorrow,
		DateTo:   tomorrow,
		Status:   string(models.ReservationStatusConfirmed),
	})
	if err != nil {
		return 0, fmt.Errorf("fetch reservations: %w", err)
	}
	if len(reservations) == 0 {
		s.logger.Info("no reservations to remind", "date", tomorrow)
		return 0, nil
	}

	locations, err := s.locations.ListLocations(ctx, LocationFilter{})
	if err != nil {
		return 0, fmt.Errorf("fetch locations: %w", err)
	}
	names := make(map[string]string, len(locations))
	for _, l := range locations {
		names[l.ID.String()] = l.Name
	}

	var sent atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reminderWorkers)
	for _, r := range reservations {
		g.Go(func() error {
			if s.remind(gctx, r, names[r.LocationID.String()]) {
				sent.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(sent.Load()), err
	}

	s.logger.Info("daily reminder processing completed", "date", tomorrow, "sent", sent.Load(), "candidates", len(reservations))
	return int(sent.Load()), nil
}

func (s *ReminderService) remind(ctx context.Context, r models.Reservation, locationName string) bool {
	done, err := s.logs.HasReminder(ctx, r.ID)
	if err != nil {
		s.logger.Error("failed to check reminder log", "reservation_id", r.ID, "error", err)
		return false
	}
	if done {
		return false
	}

	message := fmt.Sprintf("Hoi %s, een herinnering aan je reservering bij %s %s morgen (%s) om %s voor %d personen. Tot dan!",
		r.CustomerName, s.cfg.RestaurantName, locationName, r.ReservationDate, r.ReservationTime, r.PartySize)

	entry := &models.ReminderLog{
		ReservationID: r.ID,
		Message:       message,
		Channel:       "sms",
		SentAt:        s.cfg.Now(),
	}

	phone := strings.TrimSpace(r.CustomerPhone)
	if !utils.ValidatePhone(phone) {
		entry.Status = models.ReminderStatusFailed
		entry.ErrorMessage = "invalid phone number"
		s.logger.Warn("skipping reminder, invalid phone", "reservation_id", r.ID)
	} else if sid, err := s.sms.Send(ctx, phone, message); err != nil {
		entry.Status = models.ReminderStatusFailed
		entry.ErrorMessage = err.Error()
		s.logger.Error("failed to send reminder", "reservation_id", r.ID, "error", err)
	} else {
		entry.Status = models.ReminderStatusSent
		entry.ProviderSID = sid
		s.logger.Info("reminder sent", "reservation_id", r.ID, "sid", sid)
	}

	if err := s.logs.InsertReminderLog(ctx, entry); err != nil {
		s.logger.Error("failed to log reminder", "reservation_id", r.ID, "error", err)
	}
	return entry.Status == models.ReminderStatusSent
}
