package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"eataliano-backend/models"
)

const (
	ToolLookupMenu        = "lookup_menu"
	ToolCreateReservation = "create_reservation"
	ToolCreateOrder       = "create_order"
	ToolGetLocationInfo   = "get_location_info"
)

// ToolDeclarations lists the functions offered to the language model on every call.
func ToolDeclarations() []ToolDeclaration {
	str := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "string", "description": desc}
	}
	num := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "number", "description": desc}
	}
	object := func(props map[string]interface{}, required ...string) map[string]interface{} {
		if required == nil {
			required = []string{}
		}
		return map[string]interface{}{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		}
	}

	return []ToolDeclaration{
		{
			Name:        ToolLookupMenu,
			Description: "Zoek menu-items op basis van zoekterm, categorie of dieetwens. Gebruik dit om gasten te helpen met het menu.",
			Parameters: object(map[string]interface{}{
				"search_term":    str("Zoekterm voor het menu (bijv. 'pizza', 'vegetarisch', 'margherita')"),
				"category":       str("Categorienaam om op te filteren (bijv. 'Pizza', 'Pasta', 'Desserts')"),
				"dietary_filter": str("Dieetlabel om op te filteren (bijv. 'vegetarisch', 'vegan', 'glutenvrij')"),
			}),
		},
		{
			Name:        ToolCreateReservation,
			Description: "Maak een reservering aan voor een gast. Alle velden zijn vereist.",
			Parameters: object(map[string]interface{}{
				"customer_name":    str("Naam van de gast"),
				"customer_phone":   str("Telefoonnummer van de gast"),
				"party_size":       num("Aantal personen (1-20)"),
				"reservation_date": str("Datum van de reservering in YYYY-MM-DD formaat"),
				"reservation_time": str("Tijd van de reservering in HH:MM formaat"),
				"location_id":      str("UUID van de locatie"),
				"customer_email":   str("E-mailadres van de gast (optioneel)"),
				"notes":            str("Eventuele opmerkingen (optioneel)"),
			}, "customer_name", "customer_phone", "party_size", "reservation_date", "reservation_time", "location_id"),
		},
		{
			Name:        ToolCreateOrder,
			Description: "Plaats een bestelling voor een gast. Items moeten menu_item_id en quantity bevatten.",
			Parameters: object(map[string]interface{}{
				"customer_name":  str("Naam van de klant"),
				"customer_phone": str("Telefoonnummer van de klant"),
				"order_type": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"pickup", "delivery"},
					"description": "Type bestelling: afhalen (pickup) of bezorgen (delivery)",
				},
				"location_id": str("UUID van de locatie"),
				"items": map[string]interface{}{
					"type":        "array",
					"description": "Lijst met bestelde items",
					"items": object(map[string]interface{}{
						"menu_item_id":         str("UUID van het menu-item"),
						"quantity":             num("Aantal"),
						"special_instructions": str("Speciale instructies (optioneel)"),
					}, "menu_item_id", "quantity"),
				},
				"delivery_address": str("Bezorgadres (verplicht bij delivery, inclusief postcode)"),
				"customer_email":   str("E-mailadres van de klant (optioneel)"),
			}, "customer_name", "customer_phone", "order_type", "location_id", "items"),
		},
		{
			Name:        ToolGetLocationInfo,
			Description: "Haal informatie op over een locatie: adres, telefoonnummer, openingstijden. Gebruik 'all' of laat location_name leeg voor alle locaties.",
			Parameters: object(map[string]interface{}{
				"location_name": str("Naam van de locatie, of 'all' voor alle locaties"),
			}),
		},
	}
}

// toolInvocation is one decoded tool call, tagged by its argument type.
type toolInvocation interface {
	run(ctx context.Context, r *ToolRunner) interface{}
}

type lookupMenuArgs struct {
	SearchTerm    string `json:"search_term"`
	Category      string `json:"category"`
	DietaryFilter string `json:"dietary_filter"`
}

type createReservationArgs struct {
	CustomerName    string   `json:"customer_name"`
	CustomerPhone   string   `json:"customer_phone"`
	PartySize       *float64 `json:"party_size"`
	ReservationDate string   `json:"reservation_date"`
	ReservationTime string   `json:"reservation_time"`
	LocationID      string   `json:"location_id"`
	CustomerEmail   *string  `json:"customer_email"`
	Notes           *string  `json:"notes"`
}

type createOrderArgs struct {
	CustomerName    string           `json:"customer_name"`
	CustomerPhone   string           `json:"customer_phone"`
	OrderType       string           `json:"order_type"`
	LocationID      string           `json:"location_id"`
	Items           []OrderItemInput `json:"items"`
	DeliveryAddress *string          `json:"delivery_address"`
	CustomerEmail   *string          `json:"customer_email"`
}

type locationInfoArgs struct {
	LocationName string `json:"location_name"`
}

func decodeToolCall(name, arguments string) (toolInvocation, error) {
	var inv toolInvocation
	switch name {
	case ToolLookupMenu:
		inv = &lookupMenuArgs{}
	case ToolCreateReservation:
		inv = &createReservationArgs{}
	case ToolCreateOrder:
		inv = &createOrderArgs{}
	case ToolGetLocationInfo:
		inv = &locationInfoArgs{}
	default:
		return nil, fmt.Errorf("unknown function: %s", name)
	}
	if strings.TrimSpace(arguments) == "" {
		arguments = "{}"
	}
	if err := json.Unmarshal([]byte(arguments), inv); err != nil {
		return nil, fmt.Errorf("invalid arguments for %s", name)
	}
	return inv, nil
}

// ToolRunner executes model-requested tools. Lookups go through the restricted store handle;
// bookings go through the same services the HTTP routes use.
type ToolRunner struct {
	menu         MenuStore
	locations    LocationStore
	orders       *OrderService
	reservations *ReservationService
	logger       *slog.Logger
}

func NewToolRunner(menu MenuStore, locations LocationStore, orders *OrderService, reservations *ReservationService, logger *slog.Logger) *ToolRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToolRunner{
		menu:         menu,
		locations:    locations,
		orders:       orders,
		reservations: reservations,
		logger:       logger.With("component", "chat_tools"),
	}
}

// Run executes one tool call and returns its JSON-encoded result. Failures become {"error": ...}.
func (r *ToolRunner) Run(ctx context.Context, name, arguments string) string {
	inv, err := decodeToolCall(name, arguments)
	var result interface{}
	if err != nil {
		r.logger.Warn("rejected tool call", "tool", name, "error", err)
		result = map[string]string{"error": err.Error()}
	} else {
		result = inv.run(ctx, r)
	}
	b, err := json.Marshal(result)
	if err != nil {
		return `{"error":"internal error"}`
	}
	return string(b)
}

func toolError(err error, fallback string) map[string]string {
	if e, ok := AsError(err); ok && e.Kind != KindInternal {
		return map[string]string{"error": e.Message}
	}
	return map[string]string{"error": fallback}
}

type menuItemResult struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	Price         float64  `json:"price"`
	DietaryLabels []string `json:"dietary_labels"`
	Allergens     []string `json:"allergens"`
	Category      *string  `json:"category"`
}

func (a *lookupMenuArgs) run(ctx context.Context, r *ToolRunner) interface{} {
	items, err := r.menu.ListMenuItems(ctx, MenuFilter{AvailableOnly: true, OrderByName: true})
	if err != nil {
		r.logger.Error("menu lookup failed", "error", err)
		return map[string]string{"error": "Kon menu niet ophalen"}
	}

	term := strings.ToLower(strings.TrimSpace(a.SearchTerm))
	category := strings.TrimSpace(a.Category)
	dietary := strings.ToLower(strings.TrimSpace(a.DietaryFilter))

	var results []menuItemResult
	for _, item := range items {
		if !item.IsAvailable {
			continue
		}
		if category != "" && (item.Category == nil || !strings.EqualFold(item.Category.Name, category)) {
			continue
		}
		if term != "" && !matchesTerm(item, term) {
			continue
		}
		if dietary != "" && !hasLabel(item.DietaryLabels, dietary) {
			continue
		}
		res := menuItemResult{
			ID:            item.ID.String(),
			Name:          item.Name,
			Description:   item.Description,
			Price:         item.Price,
			DietaryLabels: item.DietaryLabels,
			Allergens:     item.Allergens,
		}
		if item.Category != nil {
			name := item.Category.Name
			res.Category = &name
		}
		results = append(results, res)
	}

	if len(results) == 0 {
		return map[string]string{"message": "Geen menu-items gevonden met deze zoekcriteria."}
	}
	return map[string]interface{}{"items": results}
}

func matchesTerm(item models.MenuItem, term string) bool {
	if strings.Contains(strings.ToLower(item.Name), term) {
		return true
	}
	return item.Description != nil && strings.Contains(strings.ToLower(*item.Description), term)
}

func hasLabel(labels []string, filter string) bool {
	for _, l := range labels {
		if strings.Contains(strings.ToLower(l), filter) {
			return true
		}
	}
	return false
}

func (a *createReservationArgs) run(ctx context.Context, r *ToolRunner) interface{} {
	res, err := r.reservations.Create(ctx, CreateReservationInput{
		LocationID:      a.LocationID,
		CustomerName:    a.CustomerName,
		CustomerEmail:   a.CustomerEmail,
		CustomerPhone:   a.CustomerPhone,
		PartySize:       a.PartySize,
		ReservationDate: a.ReservationDate,
		ReservationTime: a.ReservationTime,
		Notes:           a.Notes,
		CreatedVia:      models.CreatedViaChatbot,
	})
	if err != nil {
		return toolError(err, "Reservering kon niet worden aangemaakt")
	}
	return map[string]interface{}{
		"success":        true,
		"message":        res.Message,
		"reservation_id": res.Reservation.ID.String(),
		"date":           res.Reservation.ReservationDate,
		"time":           res.Reservation.ReservationTime,
		"party_size":     res.Reservation.PartySize,
	}
}

func (a *createOrderArgs) run(ctx context.Context, r *ToolRunner) interface{} {
	order, err := r.orders.Create(ctx, CreateOrderInput{
		LocationID:      a.LocationID,
		CustomerName:    a.CustomerName,
		CustomerEmail:   a.CustomerEmail,
		CustomerPhone:   a.CustomerPhone,
		OrderType:       a.OrderType,
		DeliveryAddress: a.DeliveryAddress,
		Items:           a.Items,
	})
	if err != nil {
		return toolError(err, "Bestelling kon niet worden geplaatst")
	}
	return map[string]interface{}{
		"success":    true,
		"order_id":   order.ID.String(),
		"total":      order.Total,
		"order_type": order.OrderType,
		"status":     order.Status,
	}
}

type locationResult struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Address      string              `json:"address"`
	City         string              `json:"city"`
	Phone        string              `json:"phone"`
	Email        *string             `json:"email"`
	OpeningHours models.OpeningHours `json:"opening_hours"`
}

func (a *locationInfoArgs) run(ctx context.Context, r *ToolRunner) interface{} {
	filter := LocationFilter{ActiveOnly: true}
	if name := strings.TrimSpace(a.LocationName); name != "" && !strings.EqualFold(name, "all") {
		filter.NameContains = name
	}
	locations, err := r.locations.ListLocations(ctx, filter)
	if err != nil {
		r.logger.Error("location lookup failed", "error", err)
		return map[string]string{"error": "Kon locatie-informatie niet ophalen"}
	}
	if len(locations) == 0 {
		return map[string]string{"message": "Geen locaties gevonden."}
	}
	results := make([]locationResult, 0, len(locations))
	for _, l := range locations {
		results = append(results, locationResult{
			ID:           l.ID.String(),
			Name:         l.Name,
			Address:      l.Address,
			City:         l.City,
			Phone:        l.Phone,
			Email:        l.Email,
			OpeningHours: l.OpeningHours,
		})
	}
	return map[string]interface{}{"locations": results}
}
