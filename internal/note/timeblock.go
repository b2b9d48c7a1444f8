package note

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/javiermolinar/timeblock/internal/scheduler"
)

const (
	timePart  = `[0-9]{1,2}:[0-9]{2}(?:\s?[aApP][mM])?`
	hourPart  = `[0-9]{1,2}(?::[0-9]{2})?(?:\s?[aApP][mM])?`
	rangeSep  = `\s?-\s?`
	blockTail = `(?:$|[\s.,;:!?)])`
)

var (
	// "12:30", "12:30-14:45", "12:30AM-2:45pm"
	clockBlockRe = regexp.MustCompile(`(?:^|\s)(` + timePart + `(?:` + rangeSep + timePart + `)?)` + blockTail)
	// "at 4", "at 2-3pm", "at 9-11:30"
	atBlockRe = regexp.MustCompile(`(?i)(?:^|\s)(at ` + hourPart + `(?:` + rangeSep + hourPart + `)?)` + blockTail)

	timeOfDayRe = regexp.MustCompile(`^([0-9]{1,2})(?::([0-9]{2}))?\s?([aApP][mM])?$`)
)

// IsTimeBlockLine reports whether content carries a time or time range.
func IsTimeBlockLine(content string) bool {
	return TimeBlockString(content) != ""
}

// TimeBlockString returns the longest time block found in content, or "".
func TimeBlockString(content string) string {
	longest := ""
	for _, re := range []*regexp.Regexp{clockBlockRe, atBlockRe} {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			if len(m[1]) > len(longest) {
				longest = m[1]
			}
		}
	}
	return longest
}

// ParseTimeBlock converts a time block string into a range. A block without
// an end lasts defaultMins. A meridiem written only on the end applies to
// the start too when that keeps the range in order, so "at 2-3pm" is
// 14:00-15:00.
func ParseTimeBlock(block string, defaultMins int) (start, end scheduler.Clock, ok bool) {
	s := strings.TrimSpace(block)
	if len(s) > 3 && strings.EqualFold(s[:3], "at ") {
		s = s[3:]
	}

	from, to, hasEnd := strings.Cut(s, "-")
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)

	sh, sm, smer, ok := parseTimeOfDay(from)
	if !ok {
		return 0, 0, false
	}
	if !hasEnd {
		start = to24(sh, sm, smer)
		return start, start.Add(defaultMins), true
	}

	eh, em, emer, ok := parseTimeOfDay(to)
	if !ok {
		return 0, 0, false
	}
	end = to24(eh, em, emer)
	start = to24(sh, sm, smer)
	if smer == "" && emer != "" {
		if withEnd := to24(sh, sm, emer); withEnd < end {
			start = withEnd
		}
	}
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

func parseTimeOfDay(s string) (hour, minute int, meridiem string, ok bool) {
	m := timeOfDayRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, "", false
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	meridiem = strings.ToLower(m[3])
	if minute > 59 || hour > 23 || (meridiem != "" && (hour < 1 || hour > 12)) {
		return 0, 0, "", false
	}
	return hour, minute, meridiem, true
}

func to24(hour, minute int, meridiem string) scheduler.Clock {
	switch meridiem {
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour != 12 {
			hour += 12
		}
	}
	return scheduler.NewClock(hour, minute)
}

// TimeBlocks returns the hand-written time blocks of the note as busy
// ranges. Lines carrying tag were generated by an earlier run and are
// skipped, as are done and cancelled items.
func (n *Note) TimeBlocks(tag string, defaultMins int) []scheduler.BlockData {
	var out []scheduler.BlockData
	for _, l := range n.Lines() {
		switch l.Type {
		case TypeEmpty, TypeTitle, TypeDone, TypeCancelled:
			continue
		}
		if tag != "" && strings.Contains(l.Content, tag) {
			continue
		}
		block := TimeBlockString(l.Content)
		if block == "" {
			continue
		}
		start, end, ok := ParseTimeBlock(block, defaultMins)
		if !ok {
			continue
		}
		title := strings.Join(strings.Fields(strings.Replace(l.Content, block, "", 1)), " ")
		out = append(out, scheduler.BlockData{Start: start, End: end, Title: title})
	}
	return out
}
