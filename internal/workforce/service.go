package workforce

import (
	"context"
	"errors"
)

// Service provides business logic for workforce lookups and maintenance.
type Service struct {
	repo Repository
}

// NewService constructs a workforce service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns employees matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Employee, error) {
	return s.repo.List(ctx, filters)
}

// DeliveryCrew returns the pool of active employees eligible for delivery
// team assignment.
func (s *Service) DeliveryCrew(ctx context.Context) ([]Employee, error) {
	return s.repo.List(ctx, ListFilters{Role: RoleDeliverer, OnlyActive: true})
}

// Get returns one employee.
func (s *Service) Get(ctx context.Context, id int64) (Employee, error) {
	if id <= 0 {
		return Employee{}, errors.New("invalid employee ID")
	}
	return s.repo.Get(ctx, id)
}

// Create registers a new employee.
func (s *Service) Create(ctx context.Context, employee Employee) (Employee, error) {
	if employee.Name == "" {
		return Employee{}, errors.New("employee name is required")
	}
	if employee.Role == "" {
		return Employee{}, errors.New("employee role is required")
	}
	return s.repo.Create(ctx, employee)
}

// Update replaces employee master data.
func (s *Service) Update(ctx context.Context, id int64, employee Employee) error {
	if id <= 0 {
		return errors.New("invalid employee ID")
	}
	if employee.Name == "" {
		return errors.New("employee name is required")
	}
	return s.repo.Update(ctx, id, employee)
}
