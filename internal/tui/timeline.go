package tui

import (
	"time"

	"github.com/javiermolinar/timeblock/internal/scheduler"
	"github.com/javiermolinar/timeblock/internal/summary"
)

// Preview is everything the preview shows for one run.
type Preview struct {
	Day    time.Time
	Config scheduler.Config
	// Grid is the day grid with events and hand-written blocks marked busy.
	Grid    scheduler.Grid
	Lines   []string
	Summary *summary.Summary
	// Now is set when Day is today.
	Now *scheduler.Clock
}

// RowKind is what fills a timeline row.
type RowKind int

const (
	RowFree RowKind = iota
	RowEvent
	RowTask
	RowPast
)

// Row is one line of the timeline.
type Row struct {
	Start scheduler.Clock
	Kind  RowKind
	Label string
	First bool // first row of a run with the same label
	Alt   bool // alternate shade for back-to-back placed blocks
	IsNow bool
}

// BuildTimeline lays the working day out in rows of rowMins minutes. A row
// shows a placed block if one overlaps it, else the first busy slot of the
// grid inside it.
func BuildTimeline(p Preview, rowMins int) []Row {
	cfg := p.Config
	rowMins = max(rowMins, cfg.IntervalMins, 1)

	var placed []summary.ScheduledBlock
	for _, line := range p.Lines {
		if b, ok := summary.ParseLine(line, cfg); ok {
			placed = append(placed, b)
		}
	}

	var rows []Row
	alt := false
	for r := cfg.WorkDayStart; r < cfg.WorkDayEnd; r += scheduler.Clock(rowMins) {
		end := min(r+scheduler.Clock(rowMins), cfg.WorkDayEnd)
		row := Row{Start: r}

		if b, ok := placedIn(placed, r, end); ok {
			row.Kind, row.Label = RowTask, b.Label
		} else if label, ok := busyIn(p.Grid, r, end); ok {
			row.Kind, row.Label = RowEvent, label
		} else if p.Now != nil && end <= *p.Now {
			row.Kind = RowPast
		}
		if p.Now != nil {
			row.IsNow = r <= *p.Now && *p.Now < end
		}

		prev := len(rows) - 1
		row.First = prev < 0 || rows[prev].Kind != row.Kind || rows[prev].Label != row.Label
		if row.Kind == RowTask && row.First {
			if prev >= 0 && rows[prev].Kind == RowTask {
				alt = !alt
			} else {
				alt = false
			}
		}
		row.Alt = row.Kind == RowTask && alt

		rows = append(rows, row)
	}
	return rows
}

func placedIn(blocks []summary.ScheduledBlock, start, end scheduler.Clock) (summary.ScheduledBlock, bool) {
	for _, b := range blocks {
		if b.Start < end && start < b.End {
			return b, true
		}
	}
	return summary.ScheduledBlock{}, false
}

func busyIn(grid scheduler.Grid, start, end scheduler.Clock) (string, bool) {
	for _, s := range grid {
		if s.Start < start || s.Start >= end || !s.Busy.IsBusy() {
			continue
		}
		if label, ok := s.Busy.Label(); ok {
			return label, true
		}
		return "busy", true
	}
	return "", false
}
