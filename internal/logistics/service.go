package logistics

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/petra-erp/petra-erp/internal/fleet"
	"github.com/petra-erp/petra-erp/internal/observability"
	"github.com/petra-erp/petra-erp/internal/shared"
	"github.com/petra-erp/petra-erp/internal/workforce"
)

// VehicleDirectory supplies the fleet pool for availability checks.
type VehicleDirectory interface {
	List(ctx context.Context, filters fleet.ListFilters) ([]fleet.Vehicle, error)
}

// CrewDirectory supplies the delivery-eligible employee pool.
type CrewDirectory interface {
	DeliveryCrew(ctx context.Context) ([]workforce.Employee, error)
}

// Service is the delivery route scheduler. It owns every mutation of
// DeliveryRoute records and of the derived logistics status stored on
// service orders.
type Service struct {
	repo     Repository
	vehicles VehicleDirectory
	crew     CrewDirectory
	locker   *shared.OrderLocker
	audit    *shared.AuditLogger
	metrics  *observability.Metrics
	logger   *slog.Logger
	validate *validator.Validate
}

// NewService constructs the scheduler. Locker, audit and metrics are
// optional; a nil locker degrades to the single-writer assumption.
func NewService(
	repo Repository,
	vehicles VehicleDirectory,
	crew CrewDirectory,
	locker *shared.OrderLocker,
	audit *shared.AuditLogger,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		vehicles: vehicles,
		crew:     crew,
		locker:   locker,
		audit:    audit,
		metrics:  metrics,
		logger:   logger,
		validate: validator.New(),
	}
}

// ============================================================================
// SCHEDULING
// ============================================================================

// Schedule books the delivery of a service order: it validates the window,
// the crew and the vehicle's availability, then creates a new route (status
// scheduled) or rebooks the order's existing pending or scheduled route. An
// order whose route is already in transit cannot be rescheduled. The
// denormalized schedule fields and the re-derived logistics status are
// written onto the order in the same transaction, so the caller never sees
// a half-applied booking.
func (s *Service) Schedule(ctx context.Context, serviceOrderID int64, req ScheduleRequest) (DeliveryRoute, error) {
	win := Window{Start: req.Start, End: req.End}
	if !win.Valid() {
		return DeliveryRoute{}, ErrInvalidWindow
	}
	if len(req.TeamIDs) == 0 {
		return DeliveryRoute{}, ErrNoTeamAssigned
	}
	if req.VehicleID <= 0 {
		return DeliveryRoute{}, ErrVehicleUnavailable
	}
	if err := s.validate.Struct(req); err != nil {
		return DeliveryRoute{}, fmt.Errorf("validate schedule request: %w", err)
	}

	exists, err := s.repo.OrderExists(ctx, serviceOrderID)
	if err != nil {
		return DeliveryRoute{}, fmt.Errorf("check service order: %w", err)
	}
	if !exists {
		return DeliveryRoute{}, ErrOrderNotFound
	}

	release, err := s.locker.Acquire(ctx, serviceOrderID)
	if err != nil {
		return DeliveryRoute{}, err
	}
	defer release()

	active, err := s.repo.ActiveRouteForOrder(ctx, serviceOrderID)
	if err != nil {
		return DeliveryRoute{}, fmt.Errorf("load active route: %w", err)
	}
	var excludeRouteID int64
	if active != nil {
		// Only a booking that has not left the yard can be replanned. A
		// route already in transit must be cancelled or completed through
		// the lifecycle endpoints before the order is rescheduled.
		if active.Status == RouteStatusInProgress {
			return DeliveryRoute{}, fmt.Errorf("%w: cannot rebook a route already %s", ErrInvalidTransition, active.Status)
		}
		excludeRouteID = active.ID
	}

	if err := s.checkVehicleAvailable(ctx, req.VehicleID, win, excludeRouteID); err != nil {
		return DeliveryRoute{}, err
	}

	route := DeliveryRoute{
		ServiceOrderID: serviceOrderID,
		VehicleID:      req.VehicleID,
		TeamIDs:        req.TeamIDs,
		ScheduledStart: req.Start,
		ScheduledEnd:   req.End,
		Status:         RouteStatusScheduled,
	}
	if active != nil {
		route.ID = active.ID
		route.CreatedAt = active.CreatedAt
	}

	derived, err := s.deriveAfterScheduling(ctx, serviceOrderID, route)
	if err != nil {
		return DeliveryRoute{}, err
	}

	saved, err := s.repo.SaveSchedule(ctx, route, derived)
	if err != nil {
		return DeliveryRoute{}, err
	}

	s.metrics.RouteTransition(string(RouteStatusScheduled))
	s.recordAudit(ctx, "route.schedule", saved)
	return saved, nil
}

// deriveAfterScheduling recomputes the derived status over the order's
// route set with the new booking applied. A failed read aborts the booking:
// guessing here could overwrite an in-transit truth carried by a sibling
// route. A freshly scheduled route always dominates pending and cancelled
// siblings, so the indeterminate fallback only covers the empty read.
func (s *Service) deriveAfterScheduling(ctx context.Context, serviceOrderID int64, route DeliveryRoute) (LogisticsStatus, error) {
	routes, err := s.repo.RoutesForOrder(ctx, serviceOrderID)
	if err != nil {
		return "", fmt.Errorf("load routes for derivation: %w", err)
	}
	replaced := false
	for i := range routes {
		if routes[i].ID == route.ID && route.ID != 0 {
			routes[i] = route
			replaced = true
		}
	}
	if !replaced {
		routes = append(routes, route)
	}
	derived, ok := DeriveLogisticsStatus(RouteStatuses(routes))
	if !ok {
		return LogisticsScheduled, nil
	}
	return derived, nil
}

func (s *Service) checkVehicleAvailable(ctx context.Context, vehicleID int64, win Window, excludeRouteID int64) error {
	pool, err := s.vehicles.List(ctx, fleet.ListFilters{})
	if err != nil {
		return fmt.Errorf("load fleet: %w", err)
	}
	committed, err := s.repo.CommittedRoutes(ctx)
	if err != nil {
		return fmt.Errorf("load committed routes: %w", err)
	}
	available, err := AvailableVehicles(pool, committed, win, excludeRouteID)
	if err != nil {
		return err
	}
	for _, v := range available {
		if v.ID == vehicleID {
			return nil
		}
	}
	return ErrVehicleUnavailable
}

// ============================================================================
// ROUTE LIFECYCLE
// ============================================================================

// StartRoute moves a scheduled route into transit.
func (s *Service) StartRoute(ctx context.Context, routeID int64) (DeliveryRoute, error) {
	return s.UpdateRouteStatus(ctx, routeID, RouteStatusInProgress)
}

// ArriveRoute marks an in-transit route as arrived at the customer.
func (s *Service) ArriveRoute(ctx context.Context, routeID int64) (DeliveryRoute, error) {
	return s.UpdateRouteStatus(ctx, routeID, RouteStatusCompleted)
}

// CancelRoute withdraws a booking prior to completion.
func (s *Service) CancelRoute(ctx context.Context, routeID int64) (DeliveryRoute, error) {
	return s.UpdateRouteStatus(ctx, routeID, RouteStatusCancelled)
}

// UpdateRouteStatus performs one forward lifecycle transition and re-derives
// the owning order's logistics status from the full route set. When the set
// is indeterminate the stored status is retained and the mix is logged, so
// an ambiguous combination never overwrites a correct value.
func (s *Service) UpdateRouteStatus(ctx context.Context, routeID int64, next RouteStatus) (DeliveryRoute, error) {
	if !next.IsValid() {
		return DeliveryRoute{}, ErrInvalidTransition
	}

	current, err := s.repo.GetRoute(ctx, routeID)
	if err != nil {
		return DeliveryRoute{}, err
	}

	release, err := s.locker.Acquire(ctx, current.ServiceOrderID)
	if err != nil {
		return DeliveryRoute{}, err
	}
	defer release()

	// Reload under the lock; another writer may have advanced the route.
	current, err = s.repo.GetRoute(ctx, routeID)
	if err != nil {
		return DeliveryRoute{}, err
	}
	if !current.Status.CanTransitionTo(next) {
		return DeliveryRoute{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
	}

	routes, err := s.repo.RoutesForOrder(ctx, current.ServiceOrderID)
	if err != nil {
		return DeliveryRoute{}, fmt.Errorf("load routes for derivation: %w", err)
	}
	for i := range routes {
		if routes[i].ID == routeID {
			routes[i].Status = next
		}
	}

	var derivedPtr *LogisticsStatus
	if derived, ok := DeriveLogisticsStatus(RouteStatuses(routes)); ok {
		derivedPtr = &derived
	} else {
		s.logger.Warn("indeterminate route status mix, keeping stored logistics status",
			slog.Int64("service_order_id", current.ServiceOrderID),
			slog.Int64("route_id", routeID))
	}

	updated, err := s.repo.UpdateRouteStatus(ctx, routeID, next, current.ServiceOrderID, derivedPtr)
	if err != nil {
		return DeliveryRoute{}, err
	}

	s.metrics.RouteTransition(string(next))
	s.recordAudit(ctx, "route."+string(next), updated)
	return updated, nil
}

// ============================================================================
// QUERIES
// ============================================================================

// RoutesForOrder lists every route tied to the service order.
func (s *Service) RoutesForOrder(ctx context.Context, serviceOrderID int64) ([]DeliveryRoute, error) {
	return s.repo.RoutesForOrder(ctx, serviceOrderID)
}

// AvailableVehicles resolves the fleet pool against committed routes for
// the candidate window.
func (s *Service) AvailableVehicles(ctx context.Context, q AvailabilityQuery) ([]fleet.Vehicle, error) {
	pool, err := s.vehicles.List(ctx, fleet.ListFilters{})
	if err != nil {
		return nil, fmt.Errorf("load fleet: %w", err)
	}
	committed, err := s.repo.CommittedRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load committed routes: %w", err)
	}
	return AvailableVehicles(pool, committed, q.Window, q.ExcludeRouteID)
}

// AvailableCrew resolves the delivery-eligible employee pool against
// committed routes for the candidate window.
func (s *Service) AvailableCrew(ctx context.Context, q AvailabilityQuery) ([]workforce.Employee, error) {
	pool, err := s.crew.DeliveryCrew(ctx)
	if err != nil {
		return nil, fmt.Errorf("load crew: %w", err)
	}
	committed, err := s.repo.CommittedRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load committed routes: %w", err)
	}
	return AvailableCrew(pool, committed, q.Window, q.ExcludeRouteID)
}

func (s *Service) recordAudit(ctx context.Context, action string, route DeliveryRoute) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "delivery_route",
		EntityID: strconv.FormatInt(route.ID, 10),
		Meta: map[string]any{
			"service_order_id": route.ServiceOrderID,
			"vehicle_id":       route.VehicleID,
			"status":           route.Status,
		},
	})
	if err != nil {
		s.logger.Warn("record audit log", slog.Any("error", err))
	}
}
