package scheduler

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidClock is returned when a time of day is not in HH:MM format.
var ErrInvalidClock = errors.New("time must be in HH:MM format")

const minutesPerDay = 24 * 60

// Clock is a time of day expressed as minutes since midnight.
// Its String form is zero-padded "HH:MM", so ordering Clocks and ordering
// their formatted strings always agree.
type Clock int

const (
	// Midnight is the first minute of the day.
	Midnight Clock = 0
	// LastMinute is 23:59, the latest representable time of day.
	LastMinute Clock = minutesPerDay - 1
)

// NewClock builds a Clock from hours and minutes.
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock parses "HH:MM" into a Clock.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 23 || mins > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return NewClock(hours, mins), nil
}

// MustParseClock is like ParseClock but panics on malformed input.
// Intended for constants and tests.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockOf returns the wall-clock time of day of t, truncated to the minute.
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute())
}

// String formats the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Add returns c moved by mins minutes.
// Results past the end of the day are clamped to 23:59 so that a block
// ending at midnight never wraps around to 00:00.
func (c Clock) Add(mins int) Clock {
	m := int(c) + mins
	if m < 0 {
		return Midnight
	}
	if m >= minutesPerDay {
		return LastMinute
	}
	return Clock(m)
}

// Sub returns the number of minutes between o and c.
func (c Clock) Sub(o Clock) int {
	return int(c) - int(o)
}

// Before reports whether c is strictly earlier than o.
func (c Clock) Before(o Clock) bool {
	return c < o
}

// MarshalText implements encoding.TextMarshaler.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
