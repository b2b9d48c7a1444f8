package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2025-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := ParseDate("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		today := TruncateToDay(time.Now())
		if !got.Equal(today) {
			t.Errorf("got %v, want %v", got, today)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("01-15-2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestTruncateToDay(t *testing.T) {
	input := time.Date(2025, 1, 15, 14, 30, 45, 123456789, time.UTC)
	got := TruncateToDay(input)
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEndOfDay(t *testing.T) {
	got := EndOfDay(time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
	want := time.Date(2025, 1, 15, 23, 59, 59, 999999999, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !SameDay(a, a.Add(23*time.Hour)) {
		t.Error("expected same day")
	}
	if SameDay(a, a.Add(24*time.Hour)) {
		t.Error("expected different days")
	}
}

func TestParseDay(t *testing.T) {
	// Reference date: Friday, January 10, 2025
	friday := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"empty returns today", "", day(10)},
		{"today keyword", "today", day(10)},
		{"TODAY uppercase", "TODAY", day(10)},
		{"tomorrow", "tomorrow", day(11)},
		{"yesterday", "yesterday", day(9)},
		{"positive offset", "+3", day(13)},
		{"negative offset", "-2", day(8)},
		{"saturday from friday", "saturday", day(11)},
		{"monday from friday", "monday", day(13)},
		{"friday from friday returns next friday", "friday", day(17)},
		{"next-tuesday", "next-tuesday", day(14)},
		{"next-week", "next-week", day(17)},
		{"absolute future", "2025-01-20", day(20)},
		{"absolute past allowed", "2025-01-02", day(2)},
		{"whitespace trimmed", "  tomorrow ", day(11)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.input, friday)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDay(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDay_Errors(t *testing.T) {
	friday := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)

	tests := []string{"someday", "next-month", "+x", "2025/01/20", "2025-13-01"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDay(input, friday)
			if !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("ParseDay(%q) error = %v, want %v", input, err, ErrInvalidDateFormat)
			}
		})
	}
}
