package scheduler

import (
	"regexp"
	"strings"
)

// Task is an item waiting to be placed on the day.
type Task struct {
	Content  string // raw text, may carry a duration annotation and date tags
	Priority int    // higher is more important
	Duration int    // minutes; 0 until AddDurationToTasks or the allocator fills it
}

var (
	dateTagRe     = regexp.MustCompile(`\s*[>@](today|tomorrow|yesterday|[0-9]{4}(-((0[1-9]|1[0-2])(-(0[1-9]|[12][0-9]|3[01]))?|Q[1-4]|W0[1-9]|W[1-4][0-9]|W5[0-3]))?)\+?`)
	doubleSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// RemoveDateTags strips scheduling references such as ">today",
// ">2021-11-09" or ">2024-W07" from text.
func RemoveDateTags(text string) string {
	out := dateTagRe.ReplaceAllString(text, "")
	out = doubleSpaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
