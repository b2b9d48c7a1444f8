package task

import (
	"fmt"
	"slices"
	"time"

	"github.com/javiermolinar/timeblock/internal/dateutil"
	"github.com/javiermolinar/timeblock/internal/scheduler"
)

// Day holds all stored blocks for a single day.
type Day struct {
	Date   time.Time
	blocks []*Block // sorted by Start
}

// NewDay creates a Day for the given date.
func NewDay(date time.Time) *Day {
	return &Day{
		Date:   dateutil.TruncateToDay(date),
		blocks: make([]*Block, 0),
	}
}

// NewDayWithBlocks creates a Day from a slice of blocks.
// Returns an error if two task blocks overlap.
func NewDayWithBlocks(date time.Time, blocks []*Block) (*Day, error) {
	d := NewDay(date)
	for _, b := range blocks {
		if err := d.AddBlock(b); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Blocks returns a copy of the block slice.
func (d *Day) Blocks() []*Block {
	return slices.Clone(d.blocks)
}

// AddBlock adds a block to the day, keeping the blocks sorted by start time.
// Task blocks may not overlap other task blocks; events and manual blocks
// are allowed to overlap anything.
func (d *Day) AddBlock(b *Block) error {
	if b == nil {
		return nil
	}

	if b.IsTask() {
		if overlap := d.FindOverlappingTask(b.Start, b.End); overlap != nil {
			return fmt.Errorf("%w: %q (%s-%s) conflicts with %q (%s-%s)",
				ErrBlockOverlap,
				b.Description, b.Start, b.End,
				overlap.Description, overlap.Start, overlap.End,
			)
		}
	}

	d.blocks = append(d.blocks, b)
	slices.SortStableFunc(d.blocks, func(x, y *Block) int {
		return int(x.Start - y.Start)
	})
	return nil
}

// FindOverlappingTask returns the first task block that overlaps the range.
// Returns nil if no overlap is found.
func (d *Day) FindOverlappingTask(start, end scheduler.Clock) *Block {
	for _, b := range d.blocks {
		if !b.IsTask() {
			continue
		}
		if TimesOverlap(start, end, b.Start, b.End) {
			return b
		}
	}
	return nil
}

// HasOverlap returns true if any block overlaps the range.
func (d *Day) HasOverlap(start, end scheduler.Clock) bool {
	for _, b := range d.blocks {
		if TimesOverlap(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}

// Busy returns the blocks whose tag differs from tag as blocking requests.
// Blocks carrying tag are the ones a new run replaces.
func (d *Day) Busy(tag string) []scheduler.BlockData {
	var out []scheduler.BlockData
	for _, b := range d.blocks {
		if b.Tag == tag {
			continue
		}
		out = append(out, b.BlockData())
	}
	return out
}

// Len returns the number of blocks in the day.
func (d *Day) Len() int {
	return len(d.blocks)
}

// DayStats holds statistics for a single day.
type DayStats struct {
	EventMinutes  int
	TaskMinutes   int
	ManualMinutes int
	TotalBlocks   int
}

// BusyMinutes returns the sum of all blocked minutes.
func (s DayStats) BusyMinutes() int {
	return s.EventMinutes + s.TaskMinutes + s.ManualMinutes
}

// Stats calculates statistics for the day.
func (d *Day) Stats() DayStats {
	var stats DayStats
	for _, b := range d.blocks {
		stats.TotalBlocks++
		switch b.Kind {
		case KindEvent:
			stats.EventMinutes += b.Duration()
		case KindManual:
			stats.ManualMinutes += b.Duration()
		default:
			stats.TaskMinutes += b.Duration()
		}
	}
	return stats
}

// BookedMinutesWithin returns how many block minutes of any kind fall inside
// [start, end), typically the working day.
func (d *Day) BookedMinutesWithin(start, end scheduler.Clock) int {
	total := 0
	for _, b := range d.blocks {
		total += OverlapMinutes(b.Start, b.End, start, end)
	}
	return total
}
