package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/timeblock/internal/planner"
	"github.com/javiermolinar/timeblock/internal/summary"
	"github.com/javiermolinar/timeblock/internal/task"
)

const separatorWidth = 60

// kindLabel returns the colored marker of a stored block's kind.
func kindLabel(k task.Kind) string {
	switch k {
	case task.KindEvent:
		return colorEvent.Sprint("[E]")
	case task.KindManual:
		return colorManual.Sprint("[M]")
	default:
		return colorTask.Sprint("[T]")
	}
}

// printBlockRow prints one stored block.
func printBlockRow(w io.Writer, b *task.Block, maxDescWidth int) {
	desc := ansi.Truncate(b.Description, maxDescWidth, "...")
	fmt.Fprintf(w, "  %s-%s  %s  %-*s  %s\n",
		b.Start, b.End, kindLabel(b.Kind), maxDescWidth, desc,
		formatMuted(summary.FormatDuration(b.Duration())))
}

// printDayStats prints the stats summary line of a stored day.
func printDayStats(w io.Writer, stats task.DayStats) {
	fmt.Fprintf(w, "%s | %s | %s | Total: %d blocks\n",
		colorEvent.Sprintf("Events: %s", summary.FormatDuration(stats.EventMinutes)),
		colorTask.Sprintf("Tasks: %s", summary.FormatDuration(stats.TaskMinutes)),
		colorManual.Sprintf("Manual: %s", summary.FormatDuration(stats.ManualMinutes)),
		stats.TotalBlocks)
}

// BookedBar creates an ASCII progress bar showing how much of the working
// day is booked.
func BookedBar(busyMinutes, totalMinutes, width int) string {
	if totalMinutes <= 0 {
		return "[" + strings.Repeat("░", width) + "] (0% booked)"
	}
	busyMinutes = min(max(busyMinutes, 0), totalMinutes)

	pct := (busyMinutes * 100) / totalMinutes
	filled := (busyMinutes * width) / totalMinutes

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", colorTask.Sprint(bar), formatStats(fmt.Sprintf("(%d%% booked)", pct)))
}

// summaryLine renders the totals of a plan.
func summaryLine(s *summary.Summary) string {
	return fmt.Sprintf("Scheduled %s of %s · %s free",
		summary.FormatDuration(s.ScheduledMinutes),
		summary.FormatDuration(s.RequestedMinutes),
		summary.FormatDuration(s.FreeMinutes))
}

// printPlan shows a planning result.
func printPlan(w io.Writer, res *planner.PlanResult) {
	if res.IsNonWorkday {
		fmt.Fprintln(w, formatWarning(fmt.Sprintf("Note: %s is not a configured workday (next: %s)",
			res.Day.Format("Monday"), res.NextWorkday.Format("Monday, January 2"))))
	}

	fmt.Fprintf(w, "=== %s ===\n", formatHeader(res.Day.Format("Monday, January 2, 2006")))
	fmt.Fprintln(w, formatMuted(res.NotePath))
	fmt.Fprintf(w, "Working day: %s - %s", res.Config.WorkDayStart, res.Config.WorkDayEnd)
	if res.Now != nil {
		fmt.Fprintf(w, " (now %s)", *res.Now)
	}
	fmt.Fprintln(w)

	if len(res.Tasks) == 0 {
		fmt.Fprintln(w, "\nNo open tasks in the note.")
		return
	}

	sep := strings.Repeat("-", min(separatorWidth, termWidth()))
	fmt.Fprintln(w)
	fmt.Fprintln(w, sep)
	if len(res.Lines()) == 0 {
		fmt.Fprintln(w, "Nothing placed.")
	}
	for _, line := range res.Lines() {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, sep)

	fmt.Fprintln(w, summaryLine(res.Summary))
	for _, t := range res.Summary.Shortfalls() {
		fmt.Fprintln(w, formatWarning(fmt.Sprintf("  ! %s: %s short", t.Title, summary.FormatDuration(t.Shortfall()))))
	}
}

// printValidationErrors lists the constraints the schedule broke.
func printValidationErrors(w io.Writer, errs []planner.ValidationError) {
	fmt.Fprintln(w, "\nValidation errors:")
	for _, ve := range errs {
		fmt.Fprintf(w, "  - %s\n", ve.String())
	}
}
