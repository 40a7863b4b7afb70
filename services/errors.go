package services

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for the transport layer.
type Kind int

const (
	KindInvalid Kind = iota + 1
	KindUnauthorized
	KindNotFound
	KindConflict
	KindUnprocessable
	KindInternal
	KindUnavailable
	KindTimeout
)

// Error is a domain failure with a stable Code. Two Errors match under errors.Is when their codes are equal.
type Error struct {
	Code    string
	Kind    Kind
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func (e *Error) withMessage(format string, args ...interface{}) *Error {
	c := *e
	c.Message = fmt.Sprintf(format, args...)
	return &c
}

func (e *Error) withDetails(details interface{}) *Error {
	c := *e
	c.Details = details
	return &c
}

func (e *Error) withKind(kind Kind) *Error {
	c := *e
	c.Kind = kind
	return &c
}

func (e *Error) wrap(err error) *Error {
	c := *e
	c.Err = err
	return &c
}

// Order lifecycle
var (
	ErrMissingFields          = &Error{Code: "MissingFields", Kind: KindInvalid, Message: "Missing required fields"}
	ErrInvalidOrderType       = &Error{Code: "InvalidOrderType", Kind: KindInvalid, Message: "order_type must be 'pickup' or 'delivery'"}
	ErrMissingDeliveryAddress = &Error{Code: "MissingDeliveryAddress", Kind: KindInvalid, Message: "delivery_address is required for delivery orders"}
	ErrInvalidItems           = &Error{Code: "InvalidItems", Kind: KindInvalid, Message: "Each item must have a valid menu_item_id and quantity > 0"}
	ErrLocationNotFound       = &Error{Code: "LocationNotFound", Kind: KindNotFound, Message: "Location not found"}
	ErrLocationInactive       = &Error{Code: "LocationInactive", Kind: KindInvalid, Message: "Location is not active"}
	ErrUnprocessableAddress   = &Error{Code: "UnprocessableAddress", Kind: KindUnprocessable, Message: "Could not determine postal code from delivery address"}
	ErrOutsideDeliveryZone    = &Error{Code: "OutsideDeliveryZone", Kind: KindUnprocessable, Message: "Delivery address is outside the delivery zone for this location"}
	ErrMenuItemsNotFound      = &Error{Code: "MenuItemsNotFound", Kind: KindNotFound, Message: "Menu items not found"}
	ErrMenuItemsUnavailable   = &Error{Code: "MenuItemsUnavailable", Kind: KindInvalid, Message: "Menu items not available"}
	ErrPersistenceFailure     = &Error{Code: "PersistenceFailure", Kind: KindInternal, Message: "Failed to save record"}
	ErrOrderNotFound          = &Error{Code: "OrderNotFound", Kind: KindNotFound, Message: "Order not found"}
	ErrInvalidTransition      = &Error{Code: "InvalidTransition", Kind: KindInvalid, Message: "Invalid status transition"}
	ErrStatusConflict         = &Error{Code: "StatusConflict", Kind: KindConflict, Message: "Order status was changed concurrently, reload and retry"}
	ErrUnauthorized           = &Error{Code: "Unauthorized", Kind: KindUnauthorized, Message: "Unauthorized"}
)

// Reservations
var (
	ErrInvalidPartySize      = &Error{Code: "InvalidPartySize", Kind: KindUnprocessable, Message: "Party size must be a whole number between 1 and 20"}
	ErrInvalidDateFormat     = &Error{Code: "InvalidDateFormat", Kind: KindUnprocessable, Message: "Reservation date must be in YYYY-MM-DD format"}
	ErrInvalidTimeFormat     = &Error{Code: "InvalidTimeFormat", Kind: KindUnprocessable, Message: "Reservation time must be in HH:MM format"}
	ErrDateInPast            = &Error{Code: "DateInPast", Kind: KindUnprocessable, Message: "Reservation date cannot be in the past"}
	ErrInvalidCreatedVia     = &Error{Code: "InvalidCreatedVia", Kind: KindUnprocessable, Message: "Invalid created_via value"}
	ErrLocationClosedThatDay = &Error{Code: "LocationClosedThatDay", Kind: KindUnprocessable, Message: "The location is closed on that day"}
	ErrOutsideOpeningHours   = &Error{Code: "OutsideOpeningHours", Kind: KindUnprocessable, Message: "Reservation time is outside opening hours"}
	ErrReservationNotFound   = &Error{Code: "ReservationNotFound", Kind: KindNotFound, Message: "Reservation not found"}
	ErrInvalidStatus         = &Error{Code: "InvalidStatus", Kind: KindInvalid, Message: "Invalid status value"}
)

// Payments
var (
	ErrPaymentAlreadyProcessed     = &Error{Code: "PaymentAlreadyProcessed", Kind: KindInvalid, Message: "Order payment is already processed"}
	ErrMissingSignature            = &Error{Code: "MissingSignature", Kind: KindInvalid, Message: "Missing stripe-signature header"}
	ErrSignatureVerificationFailed = &Error{Code: "SignatureVerificationFailed", Kind: KindInvalid, Message: "Webhook signature verification failed"}
	ErrPaymentFailed               = &Error{Code: "PaymentFailed", Kind: KindUnavailable, Message: "Payment service error"}
)

// Chat and upstream collaborators
var (
	ErrInvalidMessage       = &Error{Code: "InvalidMessage", Kind: KindInvalid, Message: "Message is required"}
	ErrServiceMisconfigured = &Error{Code: "ServiceMisconfigured", Kind: KindUnavailable, Message: "Chat service configuration error"}
	ErrChatFailed           = &Error{Code: "ChatFailed", Kind: KindInternal, Message: "Failed to process chat message"}
	ErrUpstreamTimeout      = &Error{Code: "UpstreamTimeout", Kind: KindTimeout, Message: "Upstream service timed out"}
)

// Back office
var (
	ErrInvalidCredentials = &Error{Code: "InvalidCredentials", Kind: KindUnauthorized, Message: "Invalid credentials"}
	ErrInvalidInput       = &Error{Code: "InvalidInput", Kind: KindInvalid, Message: "Invalid input"}
	ErrMenuItemNotFound   = &Error{Code: "MenuItemNotFound", Kind: KindNotFound, Message: "Menu item not found"}
	ErrCategoryNotFound   = &Error{Code: "CategoryNotFound", Kind: KindNotFound, Message: "Category not found"}
)

// Store and collaborator sentinels.
var (
	ErrNotFound  = errors.New("record not found")
	ErrReadOnly  = errors.New("operation not permitted on restricted store")
	ErrModelAuth = errors.New("language model rejected credentials")
)

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
