package utils

// TransitionTable is a static adjacency map of allowed status changes.
type TransitionTable map[string][]string

var OrderTransitions = TransitionTable{
	"pending":          {"confirmed", "cancelled"},
	"confirmed":        {"preparing", "cancelled"},
	"preparing":        {"ready", "cancelled"},
	"ready":            {"completed", "out_for_delivery", "cancelled"},
	"out_for_delivery": {"completed", "cancelled"},
	"completed":        {},
	"cancelled":        {},
}

// ReservationStatuses is the set of values a reservation may be moved to, from any state.
var ReservationStatuses = []string{"confirmed", "cancelled", "completed", "no_show"}

// CanTransition checks if from->to is an edge of table.
func CanTransition(table TransitionTable, from, to string) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsReservationStatus(s string) bool {
	for _, v := range ReservationStatuses {
		if v == s {
			return true
		}
	}
	return false
}
