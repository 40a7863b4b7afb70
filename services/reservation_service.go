package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"eataliano-backend/models"
	"eataliano-backend/utils"

	"github.com/google/uuid"
)

const (
	minPartySize = 1
	maxPartySize = 20
)

type CreateReservationInput struct {
	LocationID      string   `json:"location_id"`
	CustomerName    string   `json:"customer_name"`
	CustomerEmail   *string  `json:"customer_email"`
	CustomerPhone   string   `json:"customer_phone"`
	PartySize       *float64 `json:"party_size"`
	ReservationDate string   `json:"reservation_date"`
	ReservationTime string   `json:"reservation_time"`
	Notes           *string  `json:"notes"`
	CreatedVia      string   `json:"created_via"`
}

// ReservationResult carries the stored reservation and the confirmation text shown to the guest.
type ReservationResult struct {
	Reservation *models.Reservation
	Message     string
}

type ReservationConfig struct {
	RestaurantName string
	// Timezone anchors "today" for the past-date check.
	Timezone *time.Location
	Now      func() time.Time
}

type ReservationService struct {
	reservations ReservationStore
	locations    LocationStore
	cfg          ReservationConfig
	logger       *slog.Logger
}

func NewReservationService(reservations ReservationStore, locations LocationStore, cfg ReservationConfig, logger *slog.Logger) *ReservationService {
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
	return &ReservationService{
		reservations: reservations,
		locations:    locations,
		cfg:          cfg,
		logger:       logger.With("component", "reservation_service"),
	}
}

// Create validates a booking against the location's opening hours and stores it as confirmed.
// Missing fields are reported all at once; every later check fails fast.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*ReservationResult, error) {
	if missing := missingReservationFields(in); len(missing) > 0 {
		return nil, ErrMissingFields.withKind(KindUnprocessable).withDetails(missing)
	}

	size := *in.PartySize
	if size != math.Trunc(size) || size < minPartySize || size > maxPartySize {
		return nil, ErrInvalidPartySize
	}

	date := strings.TrimSpace(in.ReservationDate)
	at := strings.TrimSpace(in.ReservationTime)
	if !utils.IsDateLiteral(date) {
		return nil, ErrInvalidDateFormat
	}
	day, err := utils.DayNameFor(date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if !utils.IsTimeLiteral(at) {
		return nil, ErrInvalidTimeFormat
	}
	if date < utils.TodayIn(s.cfg.Now(), s.cfg.Timezone) {
		return nil, ErrDateInPast
	}

	createdVia := strings.TrimSpace(in.CreatedVia)
	if createdVia == "" {
		createdVia = models.CreatedViaChatbot
	}
	if createdVia != models.CreatedViaChatbot && createdVia != models.CreatedViaAdmin {
		return nil, ErrInvalidCreatedVia.withDetails(
			fmt.Sprintf("Must be one of: %s, %s", models.CreatedViaChatbot, models.CreatedViaAdmin))
	}

	location, err := s.activeLocation(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}

	hours, open := location.OpeningHours[day]
	if !open {
		return nil, ErrLocationClosedThatDay.
			withMessage("The location is closed on %s", day).
			withDetails(map[string]string{"day": day})
	}
	if !utils.IsTimeInRange(at, hours.Open, hours.Close) {
		return nil, ErrOutsideOpeningHours.
			withMessage("Reservation time must be between %s and %s on %s", hours.Open, hours.Close, day).
			withDetails(map[string]string{"day": day, "open": hours.Open, "close": hours.Close})
	}

	reservation := &models.Reservation{
		LocationID:      location.ID,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   trimmedOrNil(in.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		PartySize:       int(size),
		ReservationDate: date,
		ReservationTime: at,
		Status:          models.ReservationStatusConfirmed,
		Notes:           trimmedOrNil(in.Notes),
		CreatedVia:      createdVia,
	}
	if err := s.reservations.InsertReservation(ctx, reservation); err != nil {
		s.logger.Error("failed to insert reservation", "location_id", location.ID, "error", err)
		return nil, ErrPersistenceFailure.withMessage("Failed to create reservation").wrap(err)
	}

	s.logger.Info("reservation created",
		"reservation_id", reservation.ID,
		"location_id", location.ID,
		"date", date,
		"time", at,
		"party_size", reservation.PartySize,
		"created_via", createdVia)

	return &ReservationResult{
		Reservation: reservation,
		Message: fmt.Sprintf("Reservation confirmed for %d guests at %s %s on %s at %s",
			reservation.PartySize, s.cfg.RestaurantName, location.Name, date, at),
	}, nil
}

func (s *ReservationService) activeLocation(ctx context.Context, rawID string) (*models.Location, error) {
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
		return nil, ErrLocationInactive.withMessage("This location is currently not active")
	}
	return location, nil
}

func missingReservationFields(in CreateReservationInput) []string {
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
	if in.PartySize == nil {
		missing = append(missing, "party_size")
	}
	if strings.TrimSpace(in.ReservationDate) == "" {
		missing = append(missing, "reservation_date")
	}
	if strings.TrimSpace(in.ReservationTime) == "" {
		missing = append(missing, "reservation_time")
	}
	return missing
}

// List returns reservations by date then time. Admin only.
func (s *ReservationService) List(ctx context.Context, p *Principal, filter ReservationFilter) ([]models.Reservation, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}
	reservations, err := s.reservations.ListReservations(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list reservations", "error", err)
		return nil, ErrPersistenceFailure.withMessage("Failed to fetch reservations").wrap(err)
	}
	return reservations, nil
}

// UpdateStatus sets any valid reservation status regardless of the current one.
func (s *ReservationService) UpdateStatus(ctx context.Context, p *Principal, rawID, status string) (*models.Reservation, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(status) == "" {
		return nil, ErrMissingFields.withMessage("Status is required").withDetails([]string{"status"})
	}
	if !utils.IsReservationStatus(status) {
		return nil, ErrInvalidStatus.withDetails(
			"Must be one of: " + strings.Join(utils.ReservationStatuses, ", "))
	}

	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, ErrReservationNotFound
	}
	if _, err := s.reservations.GetReservation(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, ErrPersistenceFailure.withMessage("Failed to fetch reservation").wrap(err)
	}

	if err := s.reservations.UpdateReservationStatus(ctx, id, models.ReservationStatus(status)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("failed to update reservation", "reservation_id", id, "error", err)
		return nil, ErrPersistenceFailure.withMessage("Failed to update reservation").wrap(err)
	}

	updated, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, ErrPersistenceFailure.withMessage("Failed to fetch reservation").wrap(err)
	}
	s.logger.Info("reservation status updated", "reservation_id", id, "status", status, "by", p.Email)
	return updated, nil
}
