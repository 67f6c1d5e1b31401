package serviceorders

import "time"

// CreateOrderRequest is the payload for opening a service order. Production
// starts at cutting and logistics at awaiting_scheduling regardless of the
// payload.
type CreateOrderRequest struct {
	ClientName      string      `json:"client_name" validate:"required"`
	DeliveryAddress string      `json:"delivery_address"`
	Items           []ItemInput `json:"items" validate:"required,min=1,dive"`
	DeliveryDueDate *time.Time  `json:"delivery_due_date"`
	Priority        Priority    `json:"priority" validate:"omitempty,oneof=normal alta urgente"`
	AllocatedSlabID *int64      `json:"allocated_slab_id"`
	AttachmentURL   *string     `json:"attachment_url"`
	Checklist       []string    `json:"checklist"`
}

// ItemInput is one line item on a create request.
type ItemInput struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// FinalizeRequest chooses the finalization type.
type FinalizeRequest struct {
	Type FinalizationType `json:"finalization_type" validate:"required,oneof=pickup delivery_only delivery_installation"`
}

// AdvanceProductionRequest moves the order one production column forward.
type AdvanceProductionRequest struct {
	Status ProductionStatus `json:"production_status" validate:"required"`
}
