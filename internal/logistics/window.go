package logistics

import "time"

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Complete reports whether both endpoints have been chosen. Availability
// lookups treat an incomplete window as "no window yet" rather than
// conflict-checking against an endpoint the operator has not picked.
func (w Window) Complete() bool {
	return !w.Start.IsZero() && !w.End.IsZero()
}

// Valid reports whether the window is well formed: start strictly before end.
func (w Window) Valid() bool {
	return w.Start.Before(w.End)
}

// Overlaps reports whether two half-open intervals share any instant.
// Exactly-touching windows (w.End == o.Start) do not overlap, so a vehicle
// can be booked back to back.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// Overlaps is the interval primitive used for all conflict detection.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return Window{Start: aStart, End: aEnd}.Overlaps(Window{Start: bStart, End: bEnd})
}
