package serviceorders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/petra-erp/petra-erp/internal/logistics"
	"github.com/petra-erp/petra-erp/internal/observability"
	"github.com/petra-erp/petra-erp/internal/shared"
)

// Service owns the service order lifecycle outside of route scheduling:
// creation, the production board, the finalization state machine and the
// departure checklist.
type Service struct {
	repo     Repository
	locker   *shared.OrderLocker
	audit    *shared.AuditLogger
	metrics  *observability.Metrics
	logger   *slog.Logger
	validate *validator.Validate
}

// NewService constructs the service. Locker, audit and metrics are
// optional.
func NewService(
	repo Repository,
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
		locker:   locker,
		audit:    audit,
		metrics:  metrics,
		logger:   logger,
		validate: validator.New(),
	}
}

// List returns the orders matching the kanban view filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]ServiceOrder, error) {
	return s.repo.List(ctx, filters)
}

// Get loads one order with its line items.
func (s *Service) Get(ctx context.Context, id int64) (ServiceOrder, error) {
	return s.repo.Get(ctx, id)
}

// Create opens a service order at the start of both boards: production
// cutting, logistics awaiting_scheduling.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (ServiceOrder, error) {
	if err := s.validate.Struct(req); err != nil {
		return ServiceOrder{}, fmt.Errorf("validate create request: %w", err)
	}

	order := ServiceOrder{
		ClientName:       req.ClientName,
		DeliveryAddress:  req.DeliveryAddress,
		DeliveryDueDate:  req.DeliveryDueDate,
		Priority:         req.Priority,
		ProductionStatus: ProductionCutting,
		LogisticsStatus:  logistics.LogisticsAwaitingScheduling,
		AllocatedSlabID:  req.AllocatedSlabID,
		AttachmentURL:    req.AttachmentURL,
	}
	if order.Priority == "" {
		order.Priority = PriorityNormal
	}

	var total float64
	for _, it := range req.Items {
		order.Items = append(order.Items, OrderItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
		total += it.Quantity * it.UnitPrice
	}
	order.TotalValue = total

	for _, text := range req.Checklist {
		order.Checklist = append(order.Checklist, ChecklistItem{
			ID:   uuid.NewString(),
			Text: text,
		})
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return ServiceOrder{}, err
	}
	s.recordAudit(ctx, "service_order.create", created)
	return created, nil
}

// ============================================================================
// FINALIZATION
// ============================================================================

// SetFinalizationType runs the "Finalizar Produção" action: finalization
// type chosen once, production moved to completed.
func (s *Service) SetFinalizationType(ctx context.Context, id int64, t FinalizationType) (ServiceOrder, error) {
	return s.mutate(ctx, id, "service_order.finalize", func(o *ServiceOrder) error {
		return o.ApplyFinalizationType(t)
	})
}

// ConfirmDelivery marks the client's acceptance of an arrived delivery.
func (s *Service) ConfirmDelivery(ctx context.Context, id int64) (ServiceOrder, error) {
	return s.mutate(ctx, id, "service_order.confirm_delivery", func(o *ServiceOrder) error {
		return o.ApplyDeliveryConfirmation()
	})
}

// ConfirmInstallation marks the on-site installation as done.
func (s *Service) ConfirmInstallation(ctx context.Context, id int64) (ServiceOrder, error) {
	return s.mutate(ctx, id, "service_order.confirm_installation", func(o *ServiceOrder) error {
		return o.ApplyInstallationConfirmation()
	})
}

// mutate loads the order under its mutation lock, applies the state machine
// step and persists the result. A guard violation persists nothing and
// bumps the violation counter.
func (s *Service) mutate(ctx context.Context, id int64, action string, apply func(*ServiceOrder) error) (ServiceOrder, error) {
	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return ServiceOrder{}, err
	}
	defer release()

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return ServiceOrder{}, err
	}

	if err := apply(&order); err != nil {
		if errors.Is(err, ErrGuardViolation) {
			s.metrics.GuardViolation(action)
		}
		return ServiceOrder{}, err
	}

	if err := s.repo.SaveFinalization(ctx, order); err != nil {
		return ServiceOrder{}, err
	}
	s.recordAudit(ctx, action, order)
	return order, nil
}

// ============================================================================
// PRODUCTION BOARD
// ============================================================================

// AdvanceProduction moves the order one production column forward.
func (s *Service) AdvanceProduction(ctx context.Context, id int64, next ProductionStatus) (ServiceOrder, error) {
	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return ServiceOrder{}, err
	}
	defer release()

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return ServiceOrder{}, err
	}

	if err := order.AdvanceProduction(next); err != nil {
		if errors.Is(err, ErrGuardViolation) {
			s.metrics.GuardViolation("service_order.advance_production")
		}
		return ServiceOrder{}, err
	}

	if err := s.repo.UpdateProductionStatus(ctx, id, order.ProductionStatus); err != nil {
		return ServiceOrder{}, err
	}
	s.recordAudit(ctx, "service_order.advance_production", order)
	return order, nil
}

// ============================================================================
// CHECKLIST
// ============================================================================

// ToggleChecklistItem flips one departure checklist line.
func (s *Service) ToggleChecklistItem(ctx context.Context, id int64, itemID string) (ServiceOrder, error) {
	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return ServiceOrder{}, err
	}
	defer release()

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return ServiceOrder{}, err
	}

	if err := order.ToggleChecklistItem(itemID); err != nil {
		return ServiceOrder{}, err
	}

	if err := s.repo.UpdateChecklist(ctx, id, order.Checklist); err != nil {
		return ServiceOrder{}, err
	}
	return order, nil
}

func (s *Service) recordAudit(ctx context.Context, action string, order ServiceOrder) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "service_order",
		EntityID: strconv.FormatInt(order.ID, 10),
		Meta: map[string]any{
			"production_status":      order.ProductionStatus,
			"logistics_status":       order.LogisticsStatus,
			"finalization_type":      order.FinalizationType,
			"delivery_confirmed":     order.DeliveryConfirmed,
			"installation_confirmed": order.InstallationConfirmed,
		},
	})
	if err != nil {
		s.logger.Warn("record audit log", slog.Any("error", err))
	}
}
