// Package tui provides the interactive schedule preview.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/timeblock/internal/tui/theme"
)

// Styles holds all lipgloss styles for the preview, derived from a theme.
type Styles struct {
	TitleStyle   lipgloss.Style
	HeaderStyle  lipgloss.Style
	TimeStyle    lipgloss.Style
	TimeNowStyle lipgloss.Style

	// Timeline cells
	EventStyle   lipgloss.Style
	TaskStyle    lipgloss.Style
	TaskAltStyle lipgloss.Style // adjacent placed blocks
	FreeStyle    lipgloss.Style
	PastStyle    lipgloss.Style

	LineStyle    lipgloss.Style
	StatsStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	HelpStyle    lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	s.HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Fg)

	s.TimeStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Width(6)

	s.TimeNowStyle = s.TimeStyle.
		Foreground(p.Current).
		Bold(true)

	cell := lipgloss.NewStyle().Padding(0, 1)

	s.EventStyle = cell.
		Background(p.EventBg).
		Foreground(p.TextOnEvent)

	s.TaskStyle = cell.
		Background(p.TaskBg).
		Foreground(p.TextOnTask).
		Bold(true)

	s.TaskAltStyle = s.TaskStyle.
		Background(p.TaskBgAlt)

	s.FreeStyle = cell.
		Background(p.BgHighlight).
		Foreground(p.FgMuted)

	s.PastStyle = cell.
		Background(p.BgSelection).
		Foreground(p.FgMuted).
		Faint(true)

	s.LineStyle = lipgloss.NewStyle().
		Foreground(p.Task)

	s.StatsStyle = lipgloss.NewStyle().
		Foreground(p.Fg)

	s.WarningStyle = lipgloss.NewStyle().
		Foreground(p.Warning).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted)

	return s
}

func (s *Styles) rowStyle(r Row) lipgloss.Style {
	switch r.Kind {
	case RowEvent:
		return s.EventStyle
	case RowTask:
		if r.Alt {
			return s.TaskAltStyle
		}
		return s.TaskStyle
	case RowPast:
		return s.PastStyle
	default:
		return s.FreeStyle
	}
}
