package scheduler

import (
	"cmp"
	"slices"
	"time"

	"github.com/javiermolinar/timeblock/internal/dateutil"
)

// GetTimeBlockTimesForEvents orders tasks according to cfg.Mode and places
// them into the open time of grid. With nothing open, no tasks, or
// ModeNone, the result carries no lines.
func GetTimeBlockTimesForEvents(grid Grid, tasks []Task, cfg Config, now Clock) Result {
	open := FilterTimeMapToOpenSlots(grid, cfg, now)
	if len(open) == 0 {
		return Result{Grid: grid, Blocks: []OpenBlock{}}
	}

	blocks := FindTimeBlocks(open, cfg)
	unplaced := Result{Grid: open, Blocks: blocks}
	if len(tasks) == 0 || len(blocks) == 0 {
		return unplaced
	}

	sorted, ok := SortTasks(tasks, cfg)
	if !ok {
		return unplaced
	}
	return MatchTasksToSlots(sorted, State{Grid: open, Blocks: blocks}, cfg, now)
}

// SortTasks returns a copy of tasks ordered for cfg.Mode. The sort is stable
// so equal tasks keep the caller's order. It reports false for ModeNone.
func SortTasks(tasks []Task, cfg Config) ([]Task, bool) {
	sorted := slices.Clone(tasks)
	switch cfg.Mode {
	case ModePriorityFirst:
		slices.SortStableFunc(sorted, func(a, b Task) int {
			return cmp.Or(
				cmp.Compare(b.Priority, a.Priority),
				cmp.Compare(taskDuration(a, cfg), taskDuration(b, cfg)),
			)
		})
	case ModeLargestFirst:
		slices.SortStableFunc(sorted, func(a, b Task) int {
			return cmp.Or(
				cmp.Compare(taskDuration(b, cfg), taskDuration(a, cfg)),
				cmp.Compare(b.Priority, a.Priority),
			)
		})
	default:
		return nil, false
	}
	return sorted, true
}

// Engine runs whole-day scheduling with a wall clock.
type Engine struct {
	Config Config
	Now    func() time.Time
}

// New creates an Engine that reads the current time from time.Now.
func New(cfg Config) *Engine {
	return &Engine{Config: cfg, Now: time.Now}
}

// Schedule builds a blank grid for day, blocks out events and places tasks.
// Only today is cut off at the current time; other days are scheduled from
// the start of the working day.
func (e *Engine) Schedule(day time.Time, events []Event, tasks []Task) Result {
	return e.ScheduleOnto(day, e.EventGrid(day, events), tasks)
}

// ScheduleOnto places tasks into a grid the caller has already blocked out,
// e.g. with events and time blocks written by hand.
func (e *Engine) ScheduleOnto(day time.Time, grid Grid, tasks []Task) Result {
	tasks = AddDurationToTasks(tasks, e.Config)
	now, _ := e.NowFor(day)
	return GetTimeBlockTimesForEvents(grid, tasks, e.Config, now)
}

// EventGrid returns the day grid with events blocked out, for display.
func (e *Engine) EventGrid(day time.Time, events []Event) Grid {
	return BlockOutEvents(events, BlankDayMap(day, e.Config.IntervalMins), e.Config)
}

// NowFor returns the cut-off used when scheduling day: the wall clock when
// day is today, otherwise Midnight. The bool reports whether day is today.
func (e *Engine) NowFor(day time.Time) (Clock, bool) {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	t := now().In(day.Location())
	if dateutil.SameDay(t, day) {
		return ClockOf(t), true
	}
	return Midnight, false
}
