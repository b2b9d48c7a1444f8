// Package task defines the stored records of planning runs.
package task

import (
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/timeblock/internal/dateutil"
	"github.com/javiermolinar/timeblock/internal/scheduler"
)

// Validation errors.
var (
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrInvalidKind      = errors.New("kind must be 'event', 'task' or 'manual'")
	ErrEndBeforeStart   = errors.New("end time must be after start time")
)

// Domain errors.
var (
	ErrBlockOverlap = errors.New("time block overlaps with existing block")
	ErrRunNotFound  = errors.New("run not found")
)

// Kind tells where a block came from.
type Kind string

const (
	KindEvent  Kind = "event"  // calendar event
	KindTask   Kind = "task"   // placed by the scheduler
	KindManual Kind = "manual" // hand-written time block found in the note
)

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindEvent, KindTask, KindManual:
		return Kind(s), nil
	default:
		return "", ErrInvalidKind
	}
}

// Run is one invocation of the planner for a day.
type Run struct {
	ID        string // uuid
	Date      time.Time
	Mode      string
	Source    string // note path the tasks were read from, if any
	CreatedAt time.Time
}

// Block is a busy stretch of a day, either an event or a placed task.
type Block struct {
	ID          int64
	RunID       string
	Description string
	Kind        Kind
	Date        time.Time
	Start       scheduler.Clock
	End         scheduler.Clock
	Tag         string
	CreatedAt   time.Time
}

// NewBlock creates a Block with validation.
// date can be empty (defaults to today) or in YYYY-MM-DD format.
// start and end must be in HH:MM format, with end after start.
func NewBlock(description, kind, date, start, end string) (*Block, error) {
	if description == "" {
		return nil, ErrEmptyDescription
	}

	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}

	day, err := dateutil.ParseDate(date)
	if err != nil {
		return nil, err
	}

	s, err := scheduler.ParseClock(start)
	if err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}
	e, err := scheduler.ParseClock(end)
	if err != nil {
		return nil, fmt.Errorf("end time: %w", err)
	}
	if e <= s {
		return nil, ErrEndBeforeStart
	}

	return &Block{
		Description: description,
		Kind:        k,
		Date:        day,
		Start:       s,
		End:         e,
		CreatedAt:   time.Now(),
	}, nil
}

// Duration returns the block length in minutes.
func (b *Block) Duration() int {
	return b.End.Sub(b.Start)
}

// IsTask returns true if the block was placed by the scheduler.
func (b *Block) IsTask() bool {
	return b.Kind == KindTask
}

// OverlapsWith returns true if both blocks are on the same day and their
// time ranges intersect.
func (b *Block) OverlapsWith(other *Block) bool {
	if other == nil {
		return false
	}
	if !b.Date.Equal(other.Date) {
		return false
	}
	return TimesOverlap(b.Start, b.End, other.Start, other.End)
}

// BlockData converts b into the scheduler's blocking request.
func (b *Block) BlockData() scheduler.BlockData {
	return scheduler.BlockData{Start: b.Start, End: b.End, Title: b.Description}
}

// FromBlockData builds a Block from a placed or blocked range.
func FromBlockData(bd scheduler.BlockData, kind Kind, date time.Time, tag string) *Block {
	return &Block{
		Description: bd.Title,
		Kind:        kind,
		Date:        dateutil.TruncateToDay(date),
		Start:       bd.Start,
		End:         bd.End,
		Tag:         tag,
		CreatedAt:   time.Now(),
	}
}

// TimesOverlap returns true if [start1, end1) and [start2, end2) intersect.
func TimesOverlap(start1, end1, start2, end2 scheduler.Clock) bool {
	return start1 < end2 && start2 < end1
}

// OverlapMinutes returns how many minutes two ranges share.
func OverlapMinutes(start1, end1, start2, end2 scheduler.Clock) int {
	s := max(start1, start2)
	e := min(end1, end2)
	if e <= s {
		return 0
	}
	return e.Sub(s)
}
