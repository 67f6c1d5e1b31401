package logistics

import "errors"

// Domain errors for the scheduling core. All of them are recoverable and
// carry enough detail for the caller to show a specific message.
var (
	// ErrInvalidWindow indicates a delivery window whose start is not
	// strictly before its end.
	ErrInvalidWindow = errors.New("delivery window start must be before end")
	// ErrVehicleUnavailable indicates the vehicle is in maintenance,
	// inactive or already committed to an overlapping route.
	ErrVehicleUnavailable = errors.New("no vehicle available for this window")
	// ErrNoTeamAssigned indicates scheduling was attempted without a crew.
	ErrNoTeamAssigned = errors.New("at least one team member is required")
	// ErrRouteNotFound indicates the route does not exist.
	ErrRouteNotFound = errors.New("delivery route not found")
	// ErrOrderNotFound indicates the service order does not exist.
	ErrOrderNotFound = errors.New("service order not found")
	// ErrInvalidTransition indicates a route lifecycle action that would
	// skip or regress a state.
	ErrInvalidTransition = errors.New("invalid route status transition")
)
