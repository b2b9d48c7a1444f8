package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/timeblock/internal/summary"
)

func plainColors(t *testing.T) {
	t.Helper()
	prevProfile := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(prevProfile)
	})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestUpdate_Accept(t *testing.T) {
	m, cmd := update(t, New(testPreview()), runes("a"))

	if !m.Accepted() {
		t.Error("expected the schedule to be accepted")
	}
	if !isQuit(cmd) {
		t.Error("expected accept to quit")
	}
}

func TestUpdate_Cancel(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		t.Run(msg.String(), func(t *testing.T) {
			m, cmd := update(t, New(testPreview()), msg)
			if m.Accepted() {
				t.Error("expected the schedule to be rejected")
			}
			if !isQuit(cmd) {
				t.Error("expected cancel to quit")
			}
		})
	}
}

func TestUpdate_Scroll(t *testing.T) {
	plainColors(t)

	m := New(testPreview(
		"* 09:00-09:15 inbox #tb",
		"* 09:15-09:30 write (1) #tb",
		"* 09:45-10:00 write (2) #tb",
	))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})

	if got := m.visibleRows(); got != 2 {
		t.Fatalf("visibleRows = %d, want 2", got)
	}
	for range 3 {
		m, _ = update(t, m, runes("j"))
	}
	if m.offset != 2 {
		t.Errorf("offset = %d, want 2 (clamped)", m.offset)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.offset != 1 {
		t.Errorf("offset = %d, want 1", m.offset)
	}
	if !strings.Contains(m.View(), "standup") || strings.Contains(m.View(), "09:00 │") {
		t.Errorf("expected the scrolled view to show the event:\n%s", m.View())
	}
}

func TestUpdate_ToggleHelp(t *testing.T) {
	m, _ := update(t, New(testPreview()), runes("?"))
	if !m.help.ShowAll {
		t.Error("expected full help")
	}
}

func TestView(t *testing.T) {
	plainColors(t)

	p := testPreview(
		"* 09:00-09:15 inbox #tb",
		"* 09:15-09:30 write (1) #tb",
	)
	p.Summary = &summary.Summary{
		Tasks: []summary.TaskSummary{
			{Title: "inbox", Requested: 15, Scheduled: 15, Fragments: 1},
			{Title: "write", Requested: 60, Scheduled: 15, Fragments: 1},
		},
		RequestedMinutes: 75,
		ScheduledMinutes: 30,
		FreeMinutes:      15,
	}

	out := New(p, WithTheme("latte")).View()

	for _, want := range []string{
		"Time blocks · Mon 06 Jan 2025",
		"09:00 │ inbox",
		"09:30 │ standup",
		"* 09:15-09:30 write (1) #tb",
		"Scheduled 30m of 1h15m · 15m free",
		"! write: 45m short",
		"accept",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestView_TruncatesLongLabels(t *testing.T) {
	plainColors(t)

	p := testPreview("* 09:00-09:15 " + strings.Repeat("x", 100) + " #tb")
	m, _ := update(t, New(p), tea.WindowSizeMsg{Width: 40, Height: 40})

	for _, line := range strings.Split(m.View(), "\n") {
		if w := lipgloss.Width(line); w > 40 {
			t.Errorf("line wider than the terminal (%d): %q", w, line)
		}
	}
}

func TestView_NothingToPlace(t *testing.T) {
	plainColors(t)

	if out := New(testPreview()).View(); !strings.Contains(out, "nothing to place") {
		t.Errorf("expected an empty schedule notice:\n%s", out)
	}
}
