package scheduler

import (
	"fmt"
	"time"
)

// Busy describes whether a slot is taken. The zero value is free.
type Busy struct {
	occupied bool
	label    string
}

// Free returns an unoccupied Busy value.
func Free() Busy {
	return Busy{}
}

// Occupied returns a Busy value with no label.
func Occupied() Busy {
	return Busy{occupied: true}
}

// OccupiedBy returns a Busy value labelled with the item holding the slot.
// An empty label is the same as Occupied().
func OccupiedBy(label string) Busy {
	return Busy{occupied: true, label: label}
}

// IsBusy reports whether the slot is taken.
func (b Busy) IsBusy() bool {
	return b.occupied
}

// Label returns the occupying item's name, if it has one.
func (b Busy) Label() (string, bool) {
	return b.label, b.occupied && b.label != ""
}

func (b Busy) String() string {
	switch {
	case !b.occupied:
		return "free"
	case b.label == "":
		return "busy"
	default:
		return fmt.Sprintf("busy(%s)", b.label)
	}
}

// TimeSlot is one fixed-size cell of a day grid.
// Index is the slot's position in the full grid and survives filtering,
// which is how gaps are detected after busy slots have been removed.
type TimeSlot struct {
	Start Clock
	Busy  Busy
	Index int
}

// Grid is an ordered run of slots, strictly increasing in Index.
type Grid []TimeSlot

// CreateIntervalMap returns one slot per step minutes from start up to and
// including end. A non-positive step yields an empty grid.
//
// When end falls exactly on a step boundary it is included, so a range that
// ends at the following midnight produces a trailing "00:00" slot.
func CreateIntervalMap(start, end time.Time, initial Busy, step int) Grid {
	if step <= 0 || end.Before(start) {
		return Grid{}
	}
	start = start.Truncate(time.Minute)
	interval := time.Duration(step) * time.Minute

	grid := make(Grid, 0, int(end.Sub(start)/interval)+1)
	for t, i := start, 0; !t.After(end); t, i = t.Add(interval), i+1 {
		grid = append(grid, TimeSlot{Start: ClockOf(t), Busy: initial, Index: i})
	}
	return grid
}

// BlankDayMap returns a free grid covering the whole of day.
func BlankDayMap(day time.Time, intervalMins int) Grid {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return CreateIntervalMap(start, end, Free(), intervalMins)
}

// Clone returns a copy of the grid that shares no memory with g.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	copy(out, g)
	return out
}
