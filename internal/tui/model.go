package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timeblock/internal/tui/theme"
)

const defaultRowMinutes = 15

// Model is the preview model. The user either accepts the schedule or
// cancels; nothing is written from here.
type Model struct {
	preview Preview
	rows    []Row

	theme  *theme.Theme
	styles *Styles
	keys   keyMap
	help   help.Model

	rowMins int
	offset  int // first visible timeline row
	width   int
	height  int

	accepted bool
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithTheme selects the color theme by name.
func WithTheme(name string) ModelOption {
	return func(m *Model) {
		m.theme = theme.Load(name)
	}
}

// New creates a preview model.
func New(p Preview, opts ...ModelOption) Model {
	m := Model{
		preview: p,
		theme:   theme.Load(theme.DefaultName),
		keys:    defaultKeyMap(),
		help:    help.New(),
		rowMins: defaultRowMinutes,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.styles = NewStyles(m.theme)
	m.help.Styles.ShortKey = m.styles.HelpStyle.Bold(true)
	m.help.Styles.ShortDesc = m.styles.HelpStyle
	m.help.Styles.FullKey = m.styles.HelpStyle.Bold(true)
	m.help.Styles.FullDesc = m.styles.HelpStyle
	m.rows = BuildTimeline(p, m.rowMins)
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles window resizes and keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.offset = m.clampOffset(m.offset)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Accept):
			m.accepted = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Cancel):
			m.accepted = false
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.offset = m.clampOffset(m.offset - 1)
		case key.Matches(msg, m.keys.Down):
			m.offset = m.clampOffset(m.offset + 1)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

// Accepted reports whether the user accepted the schedule.
func (m Model) Accepted() bool {
	return m.accepted
}

func (m Model) clampOffset(offset int) int {
	maxOffset := max(len(m.rows)-m.visibleRows(), 0)
	return min(max(offset, 0), maxOffset)
}

// Run shows the preview full screen and reports whether it was accepted.
func Run(p Preview, opts ...ModelOption) (bool, error) {
	final, err := tea.NewProgram(New(p, opts...), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.Accepted(), nil
}
