package logistics

import "time"

// ScheduleRequest books or rebooks the delivery route of a service order.
type ScheduleRequest struct {
	VehicleID int64     `json:"vehicle_id" validate:"required,gt=0"`
	Start     time.Time `json:"start" validate:"required"`
	End       time.Time `json:"end" validate:"required"`
	TeamIDs   []int64   `json:"team_ids" validate:"required,min=1,dive,gt=0"`
}

// UpdateRouteStatusRequest advances or cancels a route.
type UpdateRouteStatusRequest struct {
	Status RouteStatus `json:"status" validate:"required,oneof=scheduled in_progress completed cancelled"`
}

// AvailabilityQuery is the parsed form of an availability lookup. A zero
// window means the caller has not picked one yet.
type AvailabilityQuery struct {
	Window         Window
	ExcludeRouteID int64
}
