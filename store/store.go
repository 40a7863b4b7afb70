// Package store holds the record-store implementations behind the service ports.
package store

import "eataliano-backend/services"

// Backend is the full privileged store handle.
type Backend interface {
	services.LocationStore
	services.MenuStore
	services.OrderStore
	services.ReservationStore
	services.ChatSessionStore
	services.UserStore
	services.ReminderLogStore
}

var (
	_ Backend = (*Gorm)(nil)
	_ Backend = (*Memory)(nil)
	_ Backend = restricted{}
)
