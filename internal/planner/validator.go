package planner

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/timeblock/internal/scheduler"
	"github.com/javiermolinar/timeblock/internal/summary"
)

// ValidationError describes one schedule line that breaks a constraint.
type ValidationError struct {
	Line    int    // index into the schedule lines
	Field   string // "format", "work_day", "past", "overlap" or "conflict"
	Message string
}

// String returns a formatted error message.
func (e ValidationError) String() string {
	return fmt.Sprintf("line %d: %s - %s", e.Line+1, e.Field, e.Message)
}

// ValidationResult contains the result of checking a schedule.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// FormatErrors returns the errors one per line, or "" when valid.
func (r ValidationResult) FormatErrors() string {
	if len(r.Errors) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "- %s\n", e.String())
	}
	return b.String()
}

// Validator checks schedule lines against the working day and busy time.
type Validator struct {
	cfg  scheduler.Config
	busy []scheduler.BlockData
	now  *scheduler.Clock // nil unless the day is today
}

// NewValidator creates a Validator. busy holds the events and blocks the
// schedule had to avoid.
func NewValidator(cfg scheduler.Config, busy []scheduler.BlockData, now *scheduler.Clock) *Validator {
	return &Validator{cfg: cfg, busy: busy, now: now}
}

// Validate checks every line and returns all violations found.
func (v *Validator) Validate(lines []string) ValidationResult {
	var errs []ValidationError
	var placed []summary.ScheduledBlock
	dayEnd := v.lastSlotEnd()

	for i, line := range lines {
		b, ok := summary.ParseLine(line, v.cfg)
		if !ok || b.End <= b.Start {
			errs = append(errs, ValidationError{Line: i, Field: "format", Message: fmt.Sprintf("cannot read %q", line)})
			continue
		}

		if b.Start < v.cfg.WorkDayStart || b.End > dayEnd {
			errs = append(errs, ValidationError{
				Line:    i,
				Field:   "work_day",
				Message: fmt.Sprintf("%s-%s is outside %s-%s", b.Start, b.End, v.cfg.WorkDayStart, v.cfg.WorkDayEnd),
			})
		}

		if v.now != nil && b.Start < *v.now {
			errs = append(errs, ValidationError{
				Line:    i,
				Field:   "past",
				Message: fmt.Sprintf("%s starts before now (%s)", b.Start, *v.now),
			})
		}

		for _, p := range placed {
			if b.Start < p.End && p.Start < b.End {
				errs = append(errs, ValidationError{
					Line:    i,
					Field:   "overlap",
					Message: fmt.Sprintf("%q overlaps %q", b.Label, p.Label),
				})
			}
		}

		for _, busy := range v.busy {
			if v.sharesSlot(b.Start, b.End, busy.Start, busy.End) {
				errs = append(errs, ValidationError{
					Line:    i,
					Field:   "conflict",
					Message: fmt.Sprintf("%q conflicts with %q (%s-%s)", b.Label, busy.Title, busy.Start, busy.End),
				})
			}
		}

		placed = append(placed, b)
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// lastSlotEnd returns where the last slot of the working day ends. Slots
// starting before WorkDayEnd are open, so when the day does not end on the
// grid the last block runs past it.
func (v *Validator) lastSlotEnd() scheduler.Clock {
	step := scheduler.Clock(max(v.cfg.IntervalMins, 1))
	return (v.cfg.WorkDayEnd + step - 1) / step * step
}

// sharesSlot reports whether two ranges cover a common grid slot start.
// Busy time only claims the slots starting inside it, so an event at
// 09:32 leaves the 09:30 slot free.
func (v *Validator) sharesSlot(s1, e1, s2, e2 scheduler.Clock) bool {
	lo, hi := max(s1, s2), min(e1, e2)
	if hi <= lo {
		return false
	}
	step := scheduler.Clock(max(v.cfg.IntervalMins, 1))
	first := (lo + step - 1) / step * step
	return first < hi
}
