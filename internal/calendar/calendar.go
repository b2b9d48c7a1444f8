// Package calendar loads the events that block time on a day.
package calendar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/timeblock/internal/dateutil"
	"github.com/javiermolinar/timeblock/internal/scheduler"
)

// Errors returned while loading an events file.
var (
	ErrUnsupportedFormat = errors.New("events file must be .toml, .yaml or .yml")
	ErrInvalidEvent      = errors.New("invalid event")
)

// Entry is an event as written in the events file. Times are local and
// written as "2006-01-02 15:04" (or RFC 3339); all-day entries may give a
// bare date.
type Entry struct {
	Title  string `toml:"title" yaml:"title"`
	Start  string `toml:"start" yaml:"start"`
	End    string `toml:"end,omitempty" yaml:"end,omitempty"`
	AllDay bool   `toml:"all_day,omitempty" yaml:"all_day,omitempty"`
	RRule  string `toml:"rrule,omitempty" yaml:"rrule,omitempty"`
}

type file struct {
	Events []Entry `toml:"events" yaml:"events"`
}

// Calendar holds the parsed entries of an events file.
type Calendar struct {
	entries []entry
}

type entry struct {
	Entry
	start time.Time
	end   *time.Time
	rule  *rrule.RRule
}

var timeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	dateutil.DateLayout,
}

// Load reads an events file. The format is chosen by extension. An empty
// path yields an empty calendar.
func Load(path string, loc *time.Location) (*Calendar, error) {
	if path == "" {
		return &Calendar{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading events file: %w", err)
	}

	var f file
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing events file: %w", err)
	}

	return New(f.Events, loc)
}

// New validates entries and builds a Calendar in loc.
func New(entries []Entry, loc *time.Location) (*Calendar, error) {
	c := &Calendar{entries: make([]entry, 0, len(entries))}
	for i, e := range entries {
		parsed, err := parseEntry(e, loc)
		if err != nil {
			return nil, fmt.Errorf("event %d (%q): %w", i+1, e.Title, err)
		}
		c.entries = append(c.entries, parsed)
	}
	return c, nil
}

func parseEntry(e Entry, loc *time.Location) (entry, error) {
	out := entry{Entry: e}
	if strings.TrimSpace(e.Title) == "" {
		return out, fmt.Errorf("%w: missing title", ErrInvalidEvent)
	}

	start, err := parseTime(e.Start, loc)
	if err != nil {
		return out, fmt.Errorf("%w: start: %v", ErrInvalidEvent, err)
	}
	out.start = start

	if e.End != "" {
		end, err := parseTime(e.End, loc)
		if err != nil {
			return out, fmt.Errorf("%w: end: %v", ErrInvalidEvent, err)
		}
		if end.Before(start) {
			return out, fmt.Errorf("%w: end before start", ErrInvalidEvent)
		}
		out.end = &end
	}

	if e.RRule != "" {
		rule, err := rrule.StrToRRule(e.RRule)
		if err != nil {
			return out, fmt.Errorf("%w: rrule: %v", ErrInvalidEvent, err)
		}
		rule.DTStart(start)
		out.rule = rule
	}
	return out, nil
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// Len returns the number of entries.
func (c *Calendar) Len() int {
	return len(c.entries)
}

// Occurrences returns every event overlapping day, recurring entries
// expanded, ordered by start. Events are returned as written; see ForDay
// for the timed, clipped view.
func (c *Calendar) Occurrences(day time.Time) []scheduler.Event {
	dayStart := dateutil.TruncateToDay(day)
	dayEnd := dateutil.EndOfDay(day)

	var out []scheduler.Event
	for _, e := range c.entries {
		var length time.Duration
		if e.end != nil {
			length = e.end.Sub(e.start)
		}

		starts := []time.Time{e.start}
		if e.rule != nil {
			// Occurrences starting before the day can still run into it.
			starts = e.rule.Between(dayStart.Add(-length), dayEnd, true)
		}

		for _, s := range starts {
			ev := scheduler.Event{Title: e.Title, Start: s, AllDay: e.AllDay}
			if e.end != nil {
				end := s.Add(length)
				ev.End = &end
			}
			if overlapsDay(ev, dayStart, dayEnd) {
				out = append(out, ev)
			}
		}
	}

	slices.SortStableFunc(out, func(a, b scheduler.Event) int {
		return a.Start.Compare(b.Start)
	})
	return out
}

// ForDay returns the timed events of day, clipped to the day.
func (c *Calendar) ForDay(day time.Time) []scheduler.Event {
	return KeepDayPortionOnly(GetTimedEntries(c.Occurrences(day)), day)
}

func overlapsDay(ev scheduler.Event, dayStart, dayEnd time.Time) bool {
	if ev.Start.After(dayEnd) {
		return false
	}
	if ev.End == nil {
		return !ev.Start.Before(dayStart)
	}
	return ev.End.After(dayStart)
}

// GetTimedEntries drops all-day events.
func GetTimedEntries(events []scheduler.Event) []scheduler.Event {
	out := make([]scheduler.Event, 0, len(events))
	for _, ev := range events {
		if !ev.AllDay {
			out = append(out, ev)
		}
	}
	return out
}

// KeepDayPortionOnly clips events spanning several days to day: a start
// before the day moves to midnight and an end after it moves to the last
// instant of the day. Events are copied; the input is not modified.
func KeepDayPortionOnly(events []scheduler.Event, day time.Time) []scheduler.Event {
	dayStart := dateutil.TruncateToDay(day)
	dayEnd := dateutil.EndOfDay(day)

	out := make([]scheduler.Event, 0, len(events))
	for _, ev := range events {
		if ev.Start.Before(dayStart) {
			ev.Start = dayStart
		}
		if ev.End != nil && ev.End.After(dayEnd) {
			end := dayEnd
			ev.End = &end
		}
		out = append(out, ev)
	}
	return out
}
