// Package summary reports how much of each task a schedule actually placed.
package summary

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/javiermolinar/timeblock/internal/scheduler"
)

// TaskSummary compares what a task asked for with what it got.
type TaskSummary struct {
	Title     string
	Requested int // minutes
	Scheduled int // minutes
	Fragments int // schedule lines the task was placed in
}

// Shortfall returns the minutes that could not be placed.
func (t TaskSummary) Shortfall() int {
	return max(t.Requested-t.Scheduled, 0)
}

// Summary holds the per-task view of one scheduling run.
type Summary struct {
	Tasks            []TaskSummary
	RequestedMinutes int
	ScheduledMinutes int
	FreeMinutes      int // open time left after the run
}

// Shortfalls returns the tasks that were not fully placed, in input order.
func (s *Summary) Shortfalls() []TaskSummary {
	var out []TaskSummary
	for _, t := range s.Tasks {
		if t.Shortfall() > 0 {
			out = append(out, t)
		}
	}
	return out
}

// Complete reports whether every task was placed in full.
func (s *Summary) Complete() bool {
	return len(s.Shortfalls()) == 0
}

// ScheduledBlock is one parsed schedule line.
type ScheduledBlock struct {
	Label    string // text between the times and the tag
	Title    string // Label without the fragment number
	Fragment int    // 0 when the task was placed whole
	Start    scheduler.Clock
	End      scheduler.Clock
}

// Minutes returns the length of the block.
func (b ScheduledBlock) Minutes() int {
	return b.End.Sub(b.Start)
}

var (
	lineRe     = regexp.MustCompile(`^([0-9]{2}:[0-9]{2})-([0-9]{2}:[0-9]{2}) (.*)$`)
	fragmentRe = regexp.MustCompile(`^(.*) \(([0-9]+)\)$`)
)

// ParseLine reads back a line produced by scheduler.CreateTimeBlockLine.
// The todo char may span several words, e.g. "- [ ]"; lines using another
// single-word bullet are read too.
func ParseLine(line string, cfg scheduler.Config) (ScheduledBlock, bool) {
	line = strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(line, cfg.TodoChar+" ")
	if !ok {
		if _, rest, ok = strings.Cut(line, " "); !ok {
			return ScheduledBlock{}, false
		}
	}
	m := lineRe.FindStringSubmatch(rest)
	if m == nil {
		return ScheduledBlock{}, false
	}
	start, err := scheduler.ParseClock(m[1])
	if err != nil {
		return ScheduledBlock{}, false
	}
	end, err := scheduler.ParseClock(m[2])
	if err != nil {
		return ScheduledBlock{}, false
	}

	b := ScheduledBlock{Label: stripTag(m[3], cfg.TimeBlockTag), Start: start, End: end}
	b.Title = b.Label
	if f := fragmentRe.FindStringSubmatch(b.Label); f != nil {
		b.Title = f[1]
		b.Fragment, _ = strconv.Atoi(f[2])
	}
	return b, true
}

// Summarize matches the lines of res back to tasks. Tasks are given as
// passed to the engine; durations are resolved the same way it does.
func Summarize(tasks []scheduler.Task, res scheduler.Result, cfg scheduler.Config) *Summary {
	var blocks []ScheduledBlock
	for _, line := range res.Lines {
		if b, ok := ParseLine(line, cfg); ok {
			blocks = append(blocks, b)
		}
	}

	placed := make(map[string]int)
	fragments := make(map[string]int)
	for _, t := range tasks {
		title := LineTitle(t, cfg)
		if _, seen := placed[title]; seen {
			continue
		}
		placed[title] = 0
		for _, b := range blocks {
			// A whole task whose title ends in "(N)" is matched on its label.
			if b.Label == title || (b.Fragment > 0 && b.Title == title) {
				placed[title] += b.Minutes()
				fragments[title]++
			}
		}
	}

	s := &Summary{FreeMinutes: scheduler.TotalMinutes(res.Blocks)}
	for _, t := range scheduler.AddDurationToTasks(tasks, cfg) {
		title := LineTitle(t, cfg)
		got := min(placed[title], t.Duration)
		// Tasks sharing a title share the placed minutes in input order.
		placed[title] -= got
		frags := 0
		if got > 0 {
			frags = fragments[title]
			fragments[title] = 0
		}

		s.Tasks = append(s.Tasks, TaskSummary{
			Title:     title,
			Requested: t.Duration,
			Scheduled: got,
			Fragments: frags,
		})
		s.RequestedMinutes += t.Duration
		s.ScheduledMinutes += got
	}
	return s
}

// LineTitle returns the title a task gets on its schedule lines, without
// tag or fragment number.
func LineTitle(t scheduler.Task, cfg scheduler.Config) string {
	title := scheduler.RemoveDateTags(t.Content)
	if cfg.RemoveDuration {
		title = scheduler.RemoveDurationParameter(title, cfg.DurationMarker)
	}
	return stripTag(title, cfg.TimeBlockTag)
}

func stripTag(s, tag string) string {
	if tag != "" {
		s = strings.ReplaceAll(s, " "+tag, "")
	}
	return strings.TrimSpace(s)
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	switch {
	case hours == 0:
		return strconv.Itoa(mins) + "m"
	case mins == 0:
		return strconv.Itoa(hours) + "h"
	default:
		return strconv.Itoa(hours) + "h" + strconv.Itoa(mins) + "m"
	}
}
