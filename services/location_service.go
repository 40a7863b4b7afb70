package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"eataliano-backend/models"
	"eataliano-backend/utils"

	"github.com/google/uuid"
)

type LocationInput struct {
	Name          string              `json:"name"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
	Phone         string              `json:"phone"`
	Email         *string             `json:"email"`
	OpeningHours  models.OpeningHours `json:"opening_hours"`
	DeliveryZones []string            `json:"delivery_zones"`
	IsActive      *bool               `json:"is_active"`
}

type LocationService struct {
	public LocationStore
	admin  LocationStore
	logger *slog.Logger
}

func NewLocationService(public, admin LocationStore, logger *slog.Logger) *LocationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationService{public: public, admin: admin, logger: logger.With("component", "location_service")}
}

// List returns active locations.
func (s *LocationService) List(ctx context.Context) ([]models.Location, error) {
	locations, err := s.public.ListLocations(ctx, LocationFilter{ActiveOnly: true})
	if err != nil {
		return nil, ErrPersistenceFailure.withMessage("Failed to fetch locations").wrap(err)
	}
	return locations, nil
}

func (s *LocationService) AdminList(ctx context.Context, p *Principal) ([]models.Location, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}
	locations, err := s.admin.ListLocations(ctx, LocationFilter{})
	if err != nil {
		return nil, ErrPersistenceFailure.withMessage("Failed to fetch locations").wrap(err)
	}
	return locations, nil
}

func (s *LocationService) Create(ctx context.Context, p *Principal, in LocationInput) (*models.Location, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}
	if err := validateLocation(in); err != nil {
		return nil, err
	}
	location := &models.Location{IsActive: true}
	applyLocation(location, in)
	if err := s.admin.CreateLocation(ctx, location); err != nil {
		s.logger.Error("failed to create location", "error", err)
		return nil, ErrPersistenceFailure.withMessage("Failed to create location").wrap(err)
	}
	s.logger.Info("location created", "location_id", location.ID, "by", p.Email)
	return location, nil
}

func (s *LocationService) Update(ctx context.Context, p *Principal, rawID string, in LocationInput) (*models.Location, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrLocationNotFound
	}
	if err := validateLocation(in); err != nil {
		return nil, err
	}
	location, err := s.admin.GetLocation(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, ErrPersistenceFailure.withMessage("Failed to fetch location").wrap(err)
	}
	applyLocation(location, in)
	if err := s.admin.UpdateLocation(ctx, location); err != nil {
		return nil, ErrPersistenceFailure.withMessage("Failed to update location").wrap(err)
	}
	s.logger.Info("location updated", "location_id", location.ID, "by", p.Email)
	return location, nil
}

func applyLocation(l *models.Location, in LocationInput) {
	l.Name = strings.TrimSpace(in.Name)
	l.Address = strings.TrimSpace(in.Address)
	l.City = strings.TrimSpace(in.City)
	l.Phone = strings.TrimSpace(in.Phone)
	l.Email = trimmedOrNil(in.Email)
	l.OpeningHours = in.OpeningHours
	if l.OpeningHours == nil {
		l.OpeningHours = models.OpeningHours{}
	}
	l.DeliveryZones = models.StringList(in.DeliveryZones)
	if l.DeliveryZones == nil {
		l.DeliveryZones = models.StringList{}
	}
	if in.IsActive != nil {
		l.IsActive = *in.IsActive
	}
}

// validateLocation enforces known day keys, HH:MM windows with open before close, and four-digit zones.
func validateLocation(in LocationInput) error {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(in.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return ErrMissingFields.
			withMessage("Missing required fields: %s", strings.Join(missing, ", ")).
			withDetails(missing)
	}

	for day, hours := range in.OpeningHours {
		if !utils.IsDayName(day) {
			return ErrInvalidInput.withMessage("Unknown day in opening_hours: %s", day)
		}
		if !utils.IsTimeLiteral(hours.Open) || !utils.IsTimeLiteral(hours.Close) {
			return ErrInvalidInput.withMessage("Opening hours for %s must use HH:MM", day)
		}
		if hours.Open >= hours.Close {
			return ErrInvalidInput.withMessage("Opening time must be before closing time on %s", day)
		}
	}
	for _, zone := range in.DeliveryZones {
		if !utils.IsZoneLiteral(zone) {
			return ErrInvalidInput.withMessage("Delivery zone %q must be a 4-digit postal prefix", zone)
		}
	}
	return nil
}
