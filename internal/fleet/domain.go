package fleet

import "time"

// VehicleStatus marks a fleet asset's standing. Vehicles in maintenance or
// marked inactive never appear in availability results, regardless of
// calendar.
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "disponivel"
	VehicleMaintenance VehicleStatus = "em_manutencao"
	VehicleInactive    VehicleStatus = "indisponivel"
)

// IsValid checks if the status is valid.
func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleAvailable, VehicleMaintenance, VehicleInactive:
		return true
	default:
		return false
	}
}

// Vehicle is a fleet asset.
type Vehicle struct {
	ID           int64         `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	LicensePlate string        `json:"license_plate" db:"license_plate"`
	CapacityKg   float64       `json:"capacity_kg" db:"capacity_kg"`
	Status       VehicleStatus `json:"status" db:"status"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// Bookable reports whether the vehicle may be offered for scheduling at all.
func (v Vehicle) Bookable() bool {
	return v.Status == VehicleAvailable
}
