package scheduler

import (
	"errors"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input string
		want  Clock
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"12:30", 750},
		{"17:00", 1020},
		{"23:59", 1439},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseClock(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseClock(%s) = %d, want %d", tc.input, got, tc.want)
			}
			if got.String() != tc.input {
				t.Errorf("String() = %s, want %s", got.String(), tc.input)
			}
		})
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, input := range []string{"", "9:00", "09-00", "24:00", "12:60", "ab:cd", "09:000"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseClock(input)
			if !errors.Is(err, ErrInvalidClock) {
				t.Errorf("expected ErrInvalidClock, got %v", err)
			}
		})
	}
}

func TestClockAdd(t *testing.T) {
	tests := []struct {
		start string
		mins  int
		want  string
	}{
		{"00:00", 21, "00:21"},
		{"00:00", 180, "03:00"},
		{"00:50", 20, "01:10"},
		{"23:55", 5, "23:59"}, // would wrap to 00:00
		{"23:00", 120, "23:59"},
		{"00:10", -20, "00:00"},
	}

	for _, tc := range tests {
		t.Run(tc.start, func(t *testing.T) {
			got := MustParseClock(tc.start).Add(tc.mins).String()
			if got != tc.want {
				t.Errorf("Add(%d) = %s, want %s", tc.mins, got, tc.want)
			}
		})
	}
}

func TestClockOrderingMatchesStrings(t *testing.T) {
	times := []string{"00:00", "00:05", "07:59", "08:00", "12:30", "23:59"}
	for i := range times {
		for j := range times {
			a, b := MustParseClock(times[i]), MustParseClock(times[j])
			if (a < b) != (times[i] < times[j]) {
				t.Errorf("ordering mismatch for %s and %s", times[i], times[j])
			}
		}
	}
}

func TestClockOf(t *testing.T) {
	got := ClockOf(time.Date(2020, 1, 1, 23, 59, 45, 0, time.Local))
	if got.String() != "23:59" {
		t.Errorf("expected 23:59, got %s", got)
	}
}

func TestClockText(t *testing.T) {
	var c Clock
	if err := c.UnmarshalText([]byte("08:15")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := c.MarshalText()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "08:15" {
		t.Errorf("expected 08:15, got %s", b)
	}
	if err := c.UnmarshalText([]byte("8:15")); err == nil {
		t.Error("expected error for malformed clock")
	}
}
