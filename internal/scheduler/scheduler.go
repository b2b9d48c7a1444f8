// Package scheduler builds time-block schedules for a single day.
//
// A day is modelled as a grid of fixed-size slots. Calendar events mark slots
// busy, the free slots inside the working day are coalesced into open blocks,
// and tasks are greedily placed into those blocks, split across several when
// allowed. Every function here is pure: inputs are never modified and each
// call returns fresh slices.
package scheduler

import (
	"strings"
	"time"
)

// Workdays tracks which days of the week are planned.
type Workdays struct {
	days map[time.Weekday]bool
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// NewWorkdays creates Workdays from weekday names such as "monday".
// Unknown names are ignored.
func NewWorkdays(names []string) Workdays {
	wd := Workdays{days: make(map[time.Weekday]bool)}
	for _, n := range names {
		if d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(n))]; ok {
			wd.days[d] = true
		}
	}
	return wd
}

// IsWorkday returns true if t falls on a configured workday.
func (w Workdays) IsWorkday(t time.Time) bool {
	return w.days[t.Weekday()]
}

// NextWorkday returns the first workday strictly after from, truncated to
// midnight. If no workdays are configured it returns the following day.
func (w Workdays) NextWorkday(from time.Time) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day()+1, 0, 0, 0, 0, from.Location())
	for range 7 {
		if w.IsWorkday(next) {
			return next
		}
		next = next.AddDate(0, 0, 1)
	}
	return time.Date(from.Year(), from.Month(), from.Day()+1, 0, 0, 0, 0, from.Location())
}

// IsWeekdayName reports whether name is a valid weekday name.
func IsWeekdayName(name string) bool {
	_, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// WorkingMinutes returns the length of the working day in cfg.
func WorkingMinutes(cfg Config) int {
	if cfg.WorkDayEnd <= cfg.WorkDayStart {
		return 0
	}
	return cfg.WorkDayEnd.Sub(cfg.WorkDayStart)
}
