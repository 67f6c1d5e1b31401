package fleet

import (
	"context"
	"errors"
)

// Service provides business logic for fleet management.
type Service struct {
	repo Repository
}

// NewService constructs a fleet service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns vehicles matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Vehicle, error) {
	return s.repo.List(ctx, filters)
}

// Get returns one vehicle.
func (s *Service) Get(ctx context.Context, id int64) (Vehicle, error) {
	if id <= 0 {
		return Vehicle{}, errors.New("invalid vehicle ID")
	}
	return s.repo.Get(ctx, id)
}

// Create registers a new vehicle. Status defaults to available.
func (s *Service) Create(ctx context.Context, vehicle Vehicle) (Vehicle, error) {
	if err := s.validate(vehicle); err != nil {
		return Vehicle{}, err
	}
	if vehicle.Status == "" {
		vehicle.Status = VehicleAvailable
	}
	return s.repo.Create(ctx, vehicle)
}

// Update replaces vehicle master data.
func (s *Service) Update(ctx context.Context, id int64, vehicle Vehicle) error {
	if id <= 0 {
		return errors.New("invalid vehicle ID")
	}
	if err := s.validate(vehicle); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, vehicle)
}

// SetStatus flips a vehicle between available, maintenance and inactive.
func (s *Service) SetStatus(ctx context.Context, id int64, status VehicleStatus) error {
	if id <= 0 {
		return errors.New("invalid vehicle ID")
	}
	if !status.IsValid() {
		return errors.New("invalid vehicle status")
	}
	return s.repo.SetStatus(ctx, id, status)
}

func (s *Service) validate(vehicle Vehicle) error {
	if vehicle.Name == "" {
		return errors.New("vehicle name is required")
	}
	if vehicle.LicensePlate == "" {
		return errors.New("license plate is required")
	}
	if vehicle.CapacityKg < 0 {
		return errors.New("capacity cannot be negative")
	}
	if vehicle.Status != "" && !vehicle.Status.IsValid() {
		return errors.New("invalid vehicle status")
	}
	return nil
}
