package scheduler

import "strings"

// Mode selects how tasks are ordered before they are placed.
type Mode int

const (
	// ModeNone places nothing. Scheduling with it always returns an empty schedule.
	ModeNone Mode = iota
	// ModePriorityFirst orders by priority (high first), then shortest first.
	ModePriorityFirst
	// ModeLargestFirst orders by duration (long first), then priority.
	ModeLargestFirst
)

// ParseMode maps a mode name to a Mode. Unknown names map to ModeNone.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "priority-split", "priority_first", "priority-first":
		return ModePriorityFirst
	case "place-largest-first", "largest_first", "largest-first":
		return ModeLargestFirst
	default:
		return ModeNone
	}
}

func (m Mode) String() string {
	switch m {
	case ModePriorityFirst:
		return "priority-split"
	case ModeLargestFirst:
		return "place-largest-first"
	default:
		return ""
	}
}

// Modes returns the names accepted by ParseMode, in dashed form.
func Modes() []string {
	return []string{ModePriorityFirst.String(), ModeLargestFirst.String()}
}

// Config holds the options for one scheduling run. It is never modified by
// the engine.
type Config struct {
	TodoChar         string // bullet prefix of generated lines, e.g. "*"
	TimeBlockTag     string // marker appended to generated lines
	TimeBlockHeading string // heading generated lines are inserted under
	WorkDayStart     Clock
	WorkDayEnd       Clock
	DurationMarker   string // character preceding an inline duration, e.g. "'"
	IntervalMins     int    // grid granularity
	RemoveDuration   bool   // strip the duration annotation from generated lines
	DefaultDuration  int    // minutes assumed for tasks without a duration
	Mode             Mode
	AllowEventSplits bool

	// NowOverride pins "now" instead of the time passed by the caller.
	NowOverride *Clock
}

// DefaultConfig returns the stock time blocking options.
func DefaultConfig() Config {
	return Config{
		TodoChar:         "*",
		TimeBlockTag:     "#🕑",
		TimeBlockHeading: "Time Blocks",
		WorkDayStart:     NewClock(8, 0),
		WorkDayEnd:       NewClock(18, 0),
		DurationMarker:   "'",
		IntervalMins:     5,
		RemoveDuration:   true,
		DefaultDuration:  15,
		Mode:             ModePriorityFirst,
		AllowEventSplits: true,
	}
}

// WithNow returns a copy of c with now pinned.
func (c Config) WithNow(now Clock) Config {
	c.NowOverride = &now
	return c
}

func (c Config) resolveNow(now Clock) Clock {
	if c.NowOverride != nil {
		return *c.NowOverride
	}
	return now
}
