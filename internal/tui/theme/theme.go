// Package theme provides color themes for the preview.
package theme

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultName is used when no theme is configured.
const DefaultName = "mocha"

// Theme holds all colors for a preview theme.
type Theme struct {
	Name        string
	Bg          string // Base background
	BgHighlight string // Free time, subtle highlight
	BgSelection string // Past time
	Fg          string // Primary foreground
	FgMuted     string // Muted elements, off hours
	Accent      string // Title, time column
	Event       string // Calendar events and hand-written blocks
	Task        string // Blocks placed by this run
	Current     string // Current time marker
	Warning     string // Shortfalls
}

// Catppuccin flavours plus a plain light theme.
var builtin = map[string]Theme{
	"mocha": {
		Name: "mocha", Bg: "#1e1e2e", BgHighlight: "#313244", BgSelection: "#45475a",
		Fg: "#cdd6f4", FgMuted: "#7f849c", Accent: "#cba6f7",
		Event: "#89b4fa", Task: "#a6e3a1", Current: "#f9e2af", Warning: "#fab387",
	},
	"macchiato": {
		Name: "macchiato", Bg: "#24273a", BgHighlight: "#363a4f", BgSelection: "#494d64",
		Fg: "#cad3f5", FgMuted: "#8087a2", Accent: "#c6a0f6",
		Event: "#8aadf4", Task: "#a6da95", Current: "#eed49f", Warning: "#f5a97f",
	},
	"frappe": {
		Name: "frappe", Bg: "#303446", BgHighlight: "#414559", BgSelection: "#51576d",
		Fg: "#c6d0f5", FgMuted: "#838ba7", Accent: "#ca9ee6",
		Event: "#8caaee", Task: "#a6d189", Current: "#e5c890", Warning: "#ef9f76",
	},
	"latte": {
		Name: "latte", Bg: "#eff1f5", BgHighlight: "#ccd0da", BgSelection: "#bcc0cc",
		Fg: "#4c4f69", FgMuted: "#8c8fa1", Accent: "#8839ef",
		Event: "#1e66f5", Task: "#40a02b", Current: "#df8e1d", Warning: "#fe640b",
	},
	"light": {
		Name: "light", Bg: "#f5f5f5", BgHighlight: "#eeeeee", BgSelection: "#e0e0e0",
		Fg: "#222222", FgMuted: "#555555", Accent: "#2f6feb",
		Event: "#1d8a8a", Task: "#2f8f2f", Current: "#c97b00", Warning: "#c2410c",
	},
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load returns the theme called name, case-insensitively.
// Falls back to mocha if the theme is not found.
func Load(name string) *Theme {
	t, ok := builtin[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		t = builtin[DefaultName]
	}
	return &t
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte", "light"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}
