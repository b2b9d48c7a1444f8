package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/timeblock/internal/summary"
)

const (
	timeColumnWidth = 7 // "HH:MM │"
	minCellWidth    = 20
	defaultWidth    = 60
)

// View renders the timeline, the schedule lines and the summary.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.TitleStyle.Render("Time blocks · " + m.preview.Day.Format("Mon 02 Jan 2006")))
	b.WriteString("\n\n")

	rows := m.rows
	if visible := m.visibleRows(); visible < len(rows) {
		rows = rows[m.offset:min(m.offset+visible, len(rows))]
	}
	for _, r := range rows {
		b.WriteString(m.truncate(m.renderRow(r)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, line := range m.footerLines() {
		b.WriteString(m.truncate(line))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderRow(r Row) string {
	timeStyle := m.styles.TimeStyle
	if r.IsNow {
		timeStyle = m.styles.TimeNowStyle
	}

	label := "·"
	if r.First && r.Label != "" {
		label = r.Label
	}
	cellWidth := m.cellWidth()
	label = ansi.Truncate(label, cellWidth-2, "…")

	cell := m.styles.rowStyle(r).Width(cellWidth).Render(label)
	return timeStyle.Render(r.Start.String()) + "│" + cell
}

func (m Model) footerLines() []string {
	var lines []string
	lines = append(lines, m.styles.HeaderStyle.Render("Schedule"))
	if len(m.preview.Lines) == 0 {
		lines = append(lines, m.styles.HelpStyle.Render("nothing to place"))
	}
	for _, l := range m.preview.Lines {
		lines = append(lines, m.styles.LineStyle.Render(l))
	}

	if s := m.preview.Summary; s != nil {
		lines = append(lines, "", m.styles.StatsStyle.Render(fmt.Sprintf(
			"Scheduled %s of %s · %s free",
			summary.FormatDuration(s.ScheduledMinutes),
			summary.FormatDuration(s.RequestedMinutes),
			summary.FormatDuration(s.FreeMinutes),
		)))
		for _, t := range s.Shortfalls() {
			lines = append(lines, m.styles.WarningStyle.Render(fmt.Sprintf(
				"! %s: %s short", t.Title, summary.FormatDuration(t.Shortfall()),
			)))
		}
	}
	return lines
}

// visibleRows returns how many timeline rows fit; all of them until the
// terminal size is known.
func (m Model) visibleRows() int {
	if m.height <= 0 {
		return len(m.rows)
	}
	chrome := 2 + 1 + len(m.footerLines()) + lipgloss.Height(m.help.View(m.keys))
	return max(m.height-chrome, 1)
}

func (m Model) cellWidth() int {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	return max(width-timeColumnWidth, minCellWidth)
}

func (m Model) truncate(s string) string {
	if m.width <= 0 {
		return s
	}
	return ansi.Truncate(s, m.width, "")
}
