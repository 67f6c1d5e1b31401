package logistics

import (
	"testing"
	"time"
)

func at(hour int) time.Time {
	return time.Date(2025, 3, 10, hour, 0, 0, 0, time.UTC)
}

func TestOverlapsSelf(t *testing.T) {
	if !Overlaps(at(10), at(12), at(10), at(12)) {
		t.Fatal("an interval must overlap itself")
	}
}

func TestOverlapsSymmetry(t *testing.T) {
	cases := [][4]time.Time{
		{at(10), at(12), at(11), at(13)},
		{at(10), at(12), at(12), at(14)},
		{at(8), at(9), at(10), at(11)},
		{at(8), at(20), at(10), at(11)},
	}
	for _, c := range cases {
		if Overlaps(c[0], c[1], c[2], c[3]) != Overlaps(c[2], c[3], c[0], c[1]) {
			t.Errorf("overlap not symmetric for %v", c)
		}
	}
}

func TestTouchingIntervalsDoNotOverlap(t *testing.T) {
	if Overlaps(at(10), at(12), at(12), at(14)) {
		t.Fatal("half-open intervals touching at a boundary must not overlap")
	}
	if Overlaps(at(8), at(9), at(10), at(11)) {
		t.Fatal("disjoint intervals must not overlap")
	}
}

func TestContainedIntervalOverlaps(t *testing.T) {
	if !Overlaps(at(8), at(20), at(10), at(11)) {
		t.Fatal("contained interval must overlap")
	}
}

func TestWindowValid(t *testing.T) {
	if (Window{Start: at(12), End: at(12)}).Valid() {
		t.Fatal("zero-length window must be invalid")
	}
	if (Window{Start: at(13), End: at(12)}).Valid() {
		t.Fatal("reversed window must be invalid")
	}
	if !(Window{Start: at(12), End: at(13)}).Valid() {
		t.Fatal("ordered window must be valid")
	}
}

func TestWindowComplete(t *testing.T) {
	if (Window{}).Complete() {
		t.Fatal("empty window must not be complete")
	}
	if (Window{Start: at(1)}).Complete() {
		t.Fatal("start-only window must not be complete")
	}
	if (Window{End: at(2)}).Complete() {
		t.Fatal("end-only window must not be complete")
	}
	if !(Window{Start: at(1), End: at(2)}).Complete() {
		t.Fatal("window with both endpoints must be complete")
	}
}
