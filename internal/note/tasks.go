package note

import (
	"strings"

	"github.com/javiermolinar/timeblock/internal/scheduler"
)

// TaskOptions controls which lines OpenTasks picks up.
type TaskOptions struct {
	// Tag marks generated lines, which are never tasks.
	Tag string
	// AllItems also treats list bullets and plain text as tasks.
	AllItems bool
}

// OpenTasks returns the note's open items as tasks, in note order.
// Lines that already carry a time block are busy time, not tasks.
func (n *Note) OpenTasks(opts TaskOptions) []scheduler.Task {
	var tasks []scheduler.Task
	for _, l := range n.Lines() {
		if !isCandidate(l, opts.AllItems) {
			continue
		}
		if opts.Tag != "" && strings.Contains(l.Content, opts.Tag) {
			continue
		}
		if IsTimeBlockLine(l.Content) {
			continue
		}
		content := scheduler.RemoveDateTags(l.Content)
		if content == "" {
			continue
		}
		tasks = append(tasks, scheduler.Task{
			Content:  content,
			Priority: Priority(content),
		})
	}
	return tasks
}

func isCandidate(l Line, allItems bool) bool {
	switch l.Type {
	case TypeOpen, TypeChecklist:
		return true
	case TypeList, TypeText:
		return allItems
	default:
		return false
	}
}

// Priority reads the priority marker at the start of content:
// "!" is 1, "!!" is 2, "!!!" is 3 and ">>" (working on) is 4.
func Priority(content string) int {
	switch {
	case strings.HasPrefix(content, ">>"):
		return 4
	case strings.HasPrefix(content, "!!!"):
		return 3
	case strings.HasPrefix(content, "!!"):
		return 2
	case strings.HasPrefix(content, "!"):
		return 1
	default:
		return 0
	}
}
