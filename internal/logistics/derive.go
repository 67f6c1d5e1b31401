package logistics

// DeriveLogisticsStatus maps the set of route statuses belonging to one
// service order to a single derived logistics status. Pure, deterministic
// and order-independent.
//
// Rule precedence, first match wins:
//  1. no routes            -> not ok (caller keeps its stored default)
//  2. all completed        -> completed
//  3. any in_progress      -> in_transit
//  4. any scheduled        -> scheduled
//  5. all cancelled        -> awaiting_scheduling (order needs a fresh booking)
//  6. all pending          -> awaiting_scheduling
//  7. anything else        -> not ok (indeterminate mix; caller must keep
//     the prior status rather than guess)
func DeriveLogisticsStatus(statuses []RouteStatus) (LogisticsStatus, bool) {
	if len(statuses) == 0 {
		return "", false
	}

	var completed, inProgress, scheduled, cancelled, pending int
	for _, s := range statuses {
		switch s {
		case RouteStatusCompleted:
			completed++
		case RouteStatusInProgress:
			inProgress++
		case RouteStatusScheduled:
			scheduled++
		case RouteStatusCancelled:
			cancelled++
		case RouteStatusPending:
			pending++
		}
	}

	total := len(statuses)
	switch {
	case completed == total:
		return LogisticsCompleted, true
	case inProgress > 0:
		return LogisticsInTransit, true
	case scheduled > 0:
		return LogisticsScheduled, true
	case cancelled == total:
		return LogisticsAwaitingScheduling, true
	case pending == total:
		return LogisticsAwaitingScheduling, true
	default:
		return "", false
	}
}

// RouteStatuses extracts the status set from a slice of routes.
func RouteStatuses(routes []DeliveryRoute) []RouteStatus {
	statuses := make([]RouteStatus, 0, len(routes))
	for _, r := range routes {
		statuses = append(statuses, r.Status)
	}
	return statuses
}
