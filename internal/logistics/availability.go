package logistics

import (
	"github.com/petra-erp/petra-erp/internal/fleet"
	"github.com/petra-erp/petra-erp/internal/workforce"
)

// AvailableVehicles filters the fleet down to vehicles that can take the
// candidate window. Vehicles in maintenance or inactive are excluded
// outright, independent of calendar. For the remainder a vehicle is
// excluded when any committed route (pending, scheduled or in_progress)
// overlaps the candidate window. excludeRouteID lets a route being edited
// ignore its own prior commitment; pass 0 to exclude nothing.
//
// A window missing either endpoint returns every bookable vehicle so the
// UI can render a full picklist while the operator is still filling in the
// fields. A complete but inverted window returns ErrInvalidWindow.
//
// The result preserves input order and the inputs are never mutated.
func AvailableVehicles(pool []fleet.Vehicle, routes []DeliveryRoute, win Window, excludeRouteID int64) ([]fleet.Vehicle, error) {
	bookable := make([]fleet.Vehicle, 0, len(pool))
	for _, v := range pool {
		if v.Bookable() {
			bookable = append(bookable, v)
		}
	}

	if !win.Complete() {
		return bookable, nil
	}
	if !win.Valid() {
		return nil, ErrInvalidWindow
	}

	available := bookable[:0:0]
	for _, v := range bookable {
		if !vehicleConflicts(v.ID, routes, win, excludeRouteID) {
			available = append(available, v)
		}
	}
	return available, nil
}

// AvailableCrew filters the employee pool to those without a committed
// route membership overlapping the candidate window. Same contract as
// AvailableVehicles, keyed on route team membership instead of vehicle id.
func AvailableCrew(pool []workforce.Employee, routes []DeliveryRoute, win Window, excludeRouteID int64) ([]workforce.Employee, error) {
	if !win.Complete() {
		return append([]workforce.Employee(nil), pool...), nil
	}
	if !win.Valid() {
		return nil, ErrInvalidWindow
	}

	available := make([]workforce.Employee, 0, len(pool))
	for _, e := range pool {
		if !crewConflicts(e.ID, routes, win, excludeRouteID) {
			available = append(available, e)
		}
	}
	return available, nil
}

func vehicleConflicts(vehicleID int64, routes []DeliveryRoute, win Window, excludeRouteID int64) bool {
	for _, r := range routes {
		if r.ID == excludeRouteID || r.VehicleID != vehicleID || !r.Status.IsCommitted() {
			continue
		}
		if r.Window().Overlaps(win) {
			return true
		}
	}
	return false
}

func crewConflicts(employeeID int64, routes []DeliveryRoute, win Window, excludeRouteID int64) bool {
	for _, r := range routes {
		if r.ID == excludeRouteID || !r.Status.IsCommitted() || !r.HasTeamMember(employeeID) {
			continue
		}
		if r.Window().Overlaps(win) {
			return true
		}
	}
	return false
}
