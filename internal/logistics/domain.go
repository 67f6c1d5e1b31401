package logistics

import (
	"time"
)

// ============================================================================
// ROUTE STATUS
// ============================================================================

// RouteStatus represents the lifecycle of a delivery route.
type RouteStatus string

const (
	RouteStatusPending    RouteStatus = "pending"     // Created but not yet booked
	RouteStatusScheduled  RouteStatus = "scheduled"   // Vehicle, crew and window committed
	RouteStatusInProgress RouteStatus = "in_progress" // Truck left the yard
	RouteStatusCompleted  RouteStatus = "completed"   // Arrived at the customer
	RouteStatusCancelled  RouteStatus = "cancelled"   // Booking withdrawn
)

// IsValid checks if the status is valid.
func (s RouteStatus) IsValid() bool {
	switch s {
	case RouteStatusPending, RouteStatusScheduled, RouteStatusInProgress, RouteStatusCompleted, RouteStatusCancelled:
		return true
	default:
		return false
	}
}

// IsCommitted reports whether a route in this status blocks its vehicle and
// crew for the scheduled window. Cancelled and completed routes release
// their resources.
func (s RouteStatus) IsCommitted() bool {
	switch s {
	case RouteStatusPending, RouteStatusScheduled, RouteStatusInProgress:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are allowed.
func (s RouteStatus) IsTerminal() bool {
	return s == RouteStatusCompleted || s == RouteStatusCancelled
}

// CanTransitionTo enforces the forward-only route lifecycle: no skipping
// states and no regressing. Cancellation is allowed from any non-terminal
// status.
func (s RouteStatus) CanTransitionTo(next RouteStatus) bool {
	if next == RouteStatusCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case RouteStatusPending:
		return next == RouteStatusScheduled
	case RouteStatusScheduled:
		return next == RouteStatusInProgress
	case RouteStatusInProgress:
		return next == RouteStatusCompleted
	default:
		return false
	}
}

// ============================================================================
// DERIVED LOGISTICS STATUS
// ============================================================================

// LogisticsStatus is the delivery-stage label of a service order. It is a
// pure function of the order's route statuses and is never set directly by
// callers.
type LogisticsStatus string

const (
	LogisticsAwaitingScheduling LogisticsStatus = "awaiting_scheduling"
	LogisticsScheduled          LogisticsStatus = "scheduled"
	LogisticsInTransit          LogisticsStatus = "in_transit"
	LogisticsCompleted          LogisticsStatus = "completed"
)

// Delivered reports whether the order has reached the arrival stage that
// unlocks delivery confirmation.
func (s LogisticsStatus) Delivered() bool {
	return s == LogisticsCompleted
}

// ============================================================================
// DELIVERY ROUTE ENTITY
// ============================================================================

// DeliveryRoute is a scheduled trip binding one service order to a vehicle,
// a crew and a time window.
type DeliveryRoute struct {
	ID             int64       `json:"id" db:"id"`
	ServiceOrderID int64       `json:"service_order_id" db:"service_order_id"`
	VehicleID      int64       `json:"vehicle_id" db:"vehicle_id"`
	TeamIDs        []int64     `json:"team_ids" db:"team_ids"`
	ScheduledStart time.Time   `json:"scheduled_start" db:"scheduled_start"`
	ScheduledEnd   time.Time   `json:"scheduled_end" db:"scheduled_end"`
	Status         RouteStatus `json:"status" db:"status"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// Window returns the scheduled time window of the route.
func (r DeliveryRoute) Window() Window {
	return Window{Start: r.ScheduledStart, End: r.ScheduledEnd}
}

// HasTeamMember reports whether the employee is part of the route's crew.
func (r DeliveryRoute) HasTeamMember(employeeID int64) bool {
	for _, id := range r.TeamIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}
