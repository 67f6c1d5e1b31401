package serviceorders

import (
	"time"

	"github.com/petra-erp/petra-erp/internal/logistics"
)

// ============================================================================
// PRIORITY
// ============================================================================

// Priority orders the production and logistics kanban columns.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "alta"
	PriorityUrgent Priority = "urgente"
)

// IsValid checks if the priority is valid.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// ============================================================================
// PRODUCTION STATUS
// ============================================================================

// ProductionStatus tracks the shop-floor stage of a service order.
type ProductionStatus string

const (
	ProductionCutting        ProductionStatus = "cutting"
	ProductionFinishing      ProductionStatus = "finishing"
	ProductionAwaitingPickup ProductionStatus = "awaiting_pickup"
	ProductionCompleted      ProductionStatus = "completed"
)

// IsValid checks if the status is valid.
func (s ProductionStatus) IsValid() bool {
	switch s {
	case ProductionCutting, ProductionFinishing, ProductionAwaitingPickup, ProductionCompleted:
		return true
	default:
		return false
	}
}

// CanAdvanceTo enforces the forward-only production board: one column at a
// time, no regressing. The final step to completed happens through
// finalization, not through this transition.
func (s ProductionStatus) CanAdvanceTo(next ProductionStatus) bool {
	switch s {
	case ProductionCutting:
		return next == ProductionFinishing
	case ProductionFinishing:
		return next == ProductionAwaitingPickup
	default:
		return false
	}
}

// ReadyForFinalization reports whether production is far enough along for
// the finalization type to be chosen.
func (s ProductionStatus) ReadyForFinalization() bool {
	return s == ProductionFinishing || s == ProductionAwaitingPickup
}

// ============================================================================
// FINALIZATION TYPE
// ============================================================================

// FinalizationType states how a finished piece leaves the shop: the client
// picks it up, the shop delivers it, or the shop delivers and installs it.
type FinalizationType string

const (
	FinalizationPickup               FinalizationType = "pickup"
	FinalizationDeliveryOnly         FinalizationType = "delivery_only"
	FinalizationDeliveryInstallation FinalizationType = "delivery_installation"
)

// IsValid checks if the finalization type is valid.
func (t FinalizationType) IsValid() bool {
	switch t {
	case FinalizationPickup, FinalizationDeliveryOnly, FinalizationDeliveryInstallation:
		return true
	default:
		return false
	}
}

// RequiresDelivery reports whether a delivery confirmation step applies.
func (t FinalizationType) RequiresDelivery() bool {
	return t == FinalizationDeliveryOnly || t == FinalizationDeliveryInstallation
}

// RequiresInstallation reports whether an installation confirmation step
// applies.
func (t FinalizationType) RequiresInstallation() bool {
	return t == FinalizationDeliveryInstallation
}

// ============================================================================
// SERVICE ORDER ENTITY
// ============================================================================

// ChecklistItem is one line of the departure checklist. Items keep their
// insertion order.
type ChecklistItem struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// OrderItem is one fabricated piece on the service order.
type OrderItem struct {
	ID             int64   `json:"id" db:"id"`
	ServiceOrderID int64   `json:"service_order_id" db:"service_order_id"`
	Description    string  `json:"description" db:"description"`
	Quantity       float64 `json:"quantity" db:"quantity"`
	UnitPrice      float64 `json:"unit_price" db:"unit_price"`
}

// ServiceOrder is a production plus delivery work unit built from an
// approved order's line items. The logistics fields (status, vehicle,
// window, team) are owned by the scheduler and are never writable through
// this package's endpoints.
type ServiceOrder struct {
	ID              int64       `json:"id" db:"id"`
	ClientName      string      `json:"client_name" db:"client_name"`
	DeliveryAddress string      `json:"delivery_address" db:"delivery_address"`
	Items           []OrderItem `json:"items"`
	TotalValue      float64     `json:"total_value" db:"total_value"`
	DeliveryDueDate *time.Time  `json:"delivery_due_date,omitempty" db:"delivery_due_date"`
	Priority        Priority    `json:"priority" db:"priority"`

	ProductionStatus ProductionStatus `json:"production_status" db:"production_status"`
	FinalizationType FinalizationType `json:"finalization_type,omitempty" db:"finalization_type"`

	LogisticsStatus       logistics.LogisticsStatus `json:"logistics_status" db:"logistics_status"`
	DeliveryConfirmed     bool                      `json:"delivery_confirmed" db:"delivery_confirmed"`
	InstallationConfirmed bool                      `json:"installation_confirmed" db:"installation_confirmed"`

	AllocatedSlabID *int64          `json:"allocated_slab_id,omitempty" db:"allocated_slab_id"`
	AttachmentURL   *string         `json:"attachment_url,omitempty" db:"attachment_url"`
	Checklist       []ChecklistItem `json:"checklist,omitempty"`

	// Active-route cache maintained by the scheduler.
	VehicleID       *int64     `json:"vehicle_id,omitempty" db:"vehicle_id"`
	DeliveryStart   *time.Time `json:"delivery_start,omitempty" db:"delivery_start"`
	DeliveryEnd     *time.Time `json:"delivery_end,omitempty" db:"delivery_end"`
	DeliveryTeamIDs []int64    `json:"delivery_team_ids,omitempty" db:"delivery_team_ids"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Archivable reports whether every stage the order's finalization type
// demands has been confirmed.
func (o ServiceOrder) Archivable() bool {
	if o.ProductionStatus != ProductionCompleted || o.FinalizationType == "" {
		return false
	}
	if o.FinalizationType.RequiresDelivery() && !o.DeliveryConfirmed {
		return false
	}
	if o.FinalizationType.RequiresInstallation() && !o.InstallationConfirmed {
		return false
	}
	return true
}
