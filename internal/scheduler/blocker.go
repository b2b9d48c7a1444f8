package scheduler

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// BlockData is a time range to mark as busy, optionally named.
type BlockData struct {
	Start Clock
	End   Clock // exclusive
	Title string
}

// Event is a calendar entry as supplied by the caller. All-day events and
// multi-day clipping are the caller's job; see the calendar package.
type Event struct {
	Title  string
	Start  time.Time
	End    *time.Time
	AllDay bool
}

// BlockTimeFor marks every slot starting inside [block.Start, block.End) as
// occupied and returns the new grid along with the schedule line for the
// block. The input grid is left untouched. Untitled blocks occupy their slots
// without a label and produce an empty line.
func BlockTimeFor(grid Grid, block BlockData, cfg Config) (Grid, string) {
	busy := OccupiedBy(block.Title)
	out := grid.Clone()
	for i := range out {
		if out[i].Start >= block.Start && out[i].Start < block.End {
			out[i].Busy = busy
		}
	}
	return out, CreateTimeBlockLine(block, cfg)
}

// BlockOutEvents folds events into the grid in input order. Events without an
// end are skipped. Where events overlap, the later one's label wins.
func BlockOutEvents(events []Event, grid Grid, cfg Config) Grid {
	out := grid
	for _, e := range events {
		if e.End == nil {
			continue
		}
		out, _ = BlockTimeFor(out, BlockData{
			Start: ClockOf(e.Start),
			End:   ClockOf(*e.End),
			Title: e.Title,
		}, cfg)
	}
	return out
}

// CreateTimeBlockLine renders a block as "<todoChar> HH:MM-HH:MM <title> <tag>".
// It returns "" for an untitled block.
func CreateTimeBlockLine(block BlockData, cfg Config) string {
	if block.Title == "" {
		return ""
	}
	content := block.Title
	if cfg.RemoveDuration {
		content = RemoveDurationParameter(content, cfg.DurationMarker)
	}
	content = AttachTimeblockTag(content, cfg.TimeBlockTag)
	if strings.TrimSpace(content) == "" {
		content = block.Title
	}
	return fmt.Sprintf("%s %s-%s %s", cfg.TodoChar, block.Start, block.End, content)
}

// AttachTimeblockTag appends tag to content, dropping any copy of the tag
// already present so the result carries it exactly once.
func AttachTimeblockTag(content, tag string) string {
	if tag == "" {
		return content
	}
	re := regexp.MustCompile(" " + regexp.QuoteMeta(tag))
	for re.MatchString(content) {
		content = re.ReplaceAllString(content, "")
	}
	return content + " " + tag
}
