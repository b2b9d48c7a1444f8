package scheduler

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DurationRegexp matches an inline duration such as "'2h5m" or "'1.5h"
// introduced by marker, together with the whitespace before it.
func DurationRegexp(marker string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(
		`\s*%s(([0-9]+\.?[0-9]*|\.[0-9]+)h)*(([0-9]+\.?[0-9]*|\.[0-9]+)m)*`,
		regexp.QuoteMeta(marker),
	))
}

// GetDurationFromLine returns the minutes of the first inline duration in
// text, rounded up to a whole minute. A marker with no hours or minutes after
// it does not count. Returns 0 when there is none.
func GetDurationFromLine(text, marker string) int {
	if marker == "" {
		return 0
	}
	for _, m := range DurationRegexp(marker).FindAllStringSubmatch(text, -1) {
		if m[2] == "" && m[4] == "" {
			continue
		}
		hours := parseAmount(m[2])
		mins := parseAmount(m[4])
		return int(math.Ceil(hours*60 + mins))
	}
	return 0
}

func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// RemoveDurationParameter strips inline durations (and the whitespace before
// them) from text.
func RemoveDurationParameter(text, marker string) string {
	if marker == "" {
		return strings.TrimSpace(text)
	}
	re := DurationRegexp(marker)
	out := re.ReplaceAllStringFunc(text, func(match string) string {
		sub := re.FindStringSubmatch(match)
		if sub[2] == "" && sub[4] == "" {
			return match
		}
		return ""
	})
	return strings.TrimSpace(out)
}

// AddDurationToTasks returns copies of tasks with Duration filled in from the
// inline annotation, or cfg.DefaultDuration when there is none.
func AddDurationToTasks(tasks []Task, cfg Config) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		t.Duration = GetDurationFromLine(t.Content, cfg.DurationMarker)
		if t.Duration == 0 {
			t.Duration = cfg.DefaultDuration
		}
		out[i] = t
	}
	return out
}

func taskDuration(t Task, cfg Config) int {
	if t.Duration > 0 {
		return t.Duration
	}
	if d := GetDurationFromLine(t.Content, cfg.DurationMarker); d > 0 {
		return d
	}
	return cfg.DefaultDuration
}
