package logistics

import (
	"errors"
	"testing"

	"github.com/petra-erp/petra-erp/internal/fleet"
	"github.com/petra-erp/petra-erp/internal/workforce"
)

func fleetPool() []fleet.Vehicle {
	return []fleet.Vehicle{
		{ID: 1, Name: "Fiorino", Status: fleet.VehicleAvailable},
		{ID: 2, Name: "HR", Status: fleet.VehicleAvailable},
		{ID: 3, Name: "Munck", Status: fleet.VehicleMaintenance},
		{ID: 4, Name: "Saveiro", Status: fleet.VehicleInactive},
	}
}

func window(startHour, endHour int) Window {
	return Window{Start: at(startHour), End: at(endHour)}
}

func vehicleIDs(vs []fleet.Vehicle) []int64 {
	ids := make([]int64, 0, len(vs))
	for _, v := range vs {
		ids = append(ids, v.ID)
	}
	return ids
}

func TestAvailableVehiclesExcludesMaintenanceAndInactive(t *testing.T) {
	got, err := AvailableVehicles(fleetPool(), nil, window(8, 10), 0)
	if err != nil {
		t.Fatal(err)
	}
	if ids := vehicleIDs(got); len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("unexpected fleet %v", ids)
	}
}

func TestAvailableVehiclesZeroWindowReturnsAllBookable(t *testing.T) {
	routes := []DeliveryRoute{
		{ID: 10, VehicleID: 1, ScheduledStart: at(8), ScheduledEnd: at(10), Status: RouteStatusScheduled},
	}
	got, err := AvailableVehicles(fleetPool(), routes, Window{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Calendar is ignored without a window; only the status filter applies.
	if len(got) != 2 {
		t.Fatalf("expected 2 bookable vehicles, got %d", len(got))
	}
}

func TestAvailableVehiclesHalfSetWindowReturnsAllBookable(t *testing.T) {
	routes := []DeliveryRoute{
		{ID: 10, VehicleID: 1, ScheduledStart: at(6), ScheduledEnd: at(7), Status: RouteStatusScheduled},
	}

	// Only the start picked so far: no conflict check yet.
	got, err := AvailableVehicles(fleetPool(), routes, Window{Start: at(8)}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ids := vehicleIDs(got); len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("start-only window must return the bookable pool, got %v", ids)
	}

	// Only the end picked: a route entirely before it must not block.
	got, err = AvailableVehicles(fleetPool(), routes, Window{End: at(10)}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ids := vehicleIDs(got); len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("end-only window must return the bookable pool, got %v", ids)
	}
}

func TestAvailableCrewHalfSetWindowReturnsPool(t *testing.T) {
	crew := []workforce.Employee{
		{ID: 1, Name: "João", Role: workforce.RoleDeliverer, Active: true},
		{ID: 2, Name: "Pedro", Role: workforce.RoleDeliverer, Active: true},
	}
	routes := []DeliveryRoute{
		{ID: 10, VehicleID: 5, TeamIDs: []int64{1}, ScheduledStart: at(6), ScheduledEnd: at(7), Status: RouteStatusScheduled},
	}

	got, err := AvailableCrew(crew, routes, Window{End: at(10)}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("end-only window must return the full pool, got %+v", got)
	}
}

func TestAvailableVehiclesInvalidWindow(t *testing.T) {
	_, err := AvailableVehicles(fleetPool(), nil, window(10, 10), 0)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestAvailableVehiclesOverlapExcludesVehicle(t *testing.T) {
	routes := []DeliveryRoute{
		{ID: 10, VehicleID: 1, ScheduledStart: at(9), ScheduledEnd: at(11), Status: RouteStatusScheduled},
	}
	got, err := AvailableVehicles(fleetPool(), routes, window(8, 10), 0)
	if err != nil {
		t.Fatal(err)
	}
	if ids := vehicleIDs(got); len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("expected only vehicle 2, got %v", ids)
	}
}

func TestAvailableVehiclesReleasedRoutesDoNotBlock(t *testing.T) {
	routes := []DeliveryRoute{
		{ID: 10, VehicleID: 1, ScheduledStart: at(9), ScheduledEnd: at(11), Status: RouteStatusCompleted},
		{ID: 11, VehicleID: 2, ScheduledStart: at(9), ScheduledEnd: at(11), Status: RouteStatusCancelled},
	}
	got, err := AvailableVehicles(fleetPool(), routes, window(8, 10), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("completed/cancelled routes must not block, got %v", vehicleIDs(got))
	}
}

func TestAvailableVehiclesTouchingWindowsDoNotConflict(t *testing.T) {
	routes := []DeliveryRoute{
		{ID: 10, VehicleID: 1, ScheduledStart: at(8), ScheduledEnd: at(10), Status: RouteStatusScheduled},
	}
	got, err := AvailableVehicles(fleetPool(), routes, window(10, 12), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("back-to-back booking must be allowed, got %v", vehicleIDs(got))
	}
}

func TestAvailableVehiclesExcludeRouteIgnoresOwnBooking(t *testing.T) {
	routes := []DeliveryRoute{
		{ID: 10, VehicleID: 1, ScheduledStart: at(9), ScheduledEnd: at(11), Status: RouteStatusScheduled},
	}
	got, err := AvailableVehicles(fleetPool(), routes, window(9, 11), 10)
	if err != nil {
		t.Fatal(err)
	}
	if ids := vehicleIDs(got); len(ids) != 2 {
		t.Fatalf("route editing its own window must see its vehicle, got %v", ids)
	}
}

func TestAvailableVehiclesDoesNotMutateInput(t *testing.T) {
	pool := fleetPool()
	routes := []DeliveryRoute{
		{ID: 10, VehicleID: 1, ScheduledStart: at(9), ScheduledEnd: at(11), Status: RouteStatusScheduled},
	}
	if _, err := AvailableVehicles(pool, routes, window(8, 10), 0); err != nil {
		t.Fatal(err)
	}
	if pool[0].ID != 1 || pool[1].ID != 2 || pool[2].ID != 3 || pool[3].ID != 4 {
		t.Fatal("input pool was reordered")
	}
}

func TestAvailableCrewFiltersByMembership(t *testing.T) {
	crew := []workforce.Employee{
		{ID: 1, Name: "João", Role: workforce.RoleDeliverer, Active: true},
		{ID: 2, Name: "Pedro", Role: workforce.RoleDeliverer, Active: true},
	}
	routes := []DeliveryRoute{
		{ID: 10, VehicleID: 5, TeamIDs: []int64{1}, ScheduledStart: at(9), ScheduledEnd: at(11), Status: RouteStatusInProgress},
	}

	got, err := AvailableCrew(crew, routes, window(10, 12), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected only employee 2, got %+v", got)
	}

	// The busy member's own route can be re-planned.
	got, err = AvailableCrew(crew, routes, window(10, 12), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both employees when excluding route 10, got %+v", got)
	}
}

func TestAvailableCrewZeroWindowCopiesPool(t *testing.T) {
	crew := []workforce.Employee{{ID: 1, Name: "João", Role: workforce.RoleDeliverer, Active: true}}
	got, err := AvailableCrew(crew, nil, Window{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected full pool, got %d", len(got))
	}
	got[0].Name = "changed"
	if crew[0].Name != "João" {
		t.Fatal("result aliases the input pool")
	}
}
