// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/timeblock/internal/scheduler"
)

// Config holds the application configuration.
type Config struct {
	TimeBlock TimeBlockConfig `toml:"timeblock"`
	Notes     NotesConfig     `toml:"notes"`
	Calendar  CalendarConfig  `toml:"calendar"`
	Storage   StorageConfig   `toml:"storage"`
	UI        UIConfig        `toml:"ui"`
}

// TimeBlockConfig holds the scheduling options.
type TimeBlockConfig struct {
	TodoChar        string   `toml:"todo_char"`        // bullet of generated lines, e.g. "*"
	Tag             string   `toml:"tag"`              // marker appended to generated lines
	Heading         string   `toml:"heading"`          // note heading lines are written under
	WorkDayStart    string   `toml:"work_day_start"`   // e.g., "08:00"
	WorkDayEnd      string   `toml:"work_day_end"`     // e.g., "18:00"
	DurationMarker  string   `toml:"duration_marker"`  // e.g., "'" as in "task '30m"
	IntervalMins    int      `toml:"interval_mins"`    // grid granularity
	RemoveDuration  bool     `toml:"remove_duration"`  // strip durations from generated lines
	DefaultDuration int      `toml:"default_duration"` // minutes for tasks without a duration
	Mode            string   `toml:"mode"`             // "priority-split", "place-largest-first" or "none"
	AllowSplits     bool     `toml:"allow_splits"`
	Workdays        []string `toml:"workdays"` // e.g., ["monday", "tuesday", ...]
}

// NotesConfig locates the daily notes.
type NotesConfig struct {
	Dir            string `toml:"dir"`
	FilenameFormat string `toml:"filename_format"` // Go time layout, e.g. "2006-01-02.md"
	AllItems       bool   `toml:"all_items"`       // treat list bullets and plain text as tasks too
}

// CalendarConfig locates the events of a day.
type CalendarConfig struct {
	EventsFile    string `toml:"events_file"`    // .toml, .yaml or .yml; empty means no events
	IncludeStored bool   `toml:"include_stored"` // treat blocks stored by other runs as busy
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// Default returns the default configuration.
func Default() *Config {
	engine := scheduler.DefaultConfig()
	return &Config{
		TimeBlock: TimeBlockConfig{
			TodoChar:        engine.TodoChar,
			Tag:             engine.TimeBlockTag,
			Heading:         engine.TimeBlockHeading,
			WorkDayStart:    engine.WorkDayStart.String(),
			WorkDayEnd:      engine.WorkDayEnd.String(),
			DurationMarker:  engine.DurationMarker,
			IntervalMins:    engine.IntervalMins,
			RemoveDuration:  engine.RemoveDuration,
			DefaultDuration: engine.DefaultDuration,
			Mode:            engine.Mode.String(),
			AllowSplits:     engine.AllowEventSplits,
			Workdays:        []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		},
		Notes: NotesConfig{
			Dir:            "~/notes",
			FilenameFormat: "2006-01-02.md",
		},
		Calendar: CalendarConfig{
			IncludeStored: true,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "timeblock.db"
	}
	return filepath.Join(home, ".local", "share", "timeblock", "timeblock.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "timeblock", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Notes.Dir = expandPath(cfg.Notes.Dir)
	cfg.Calendar.EventsFile = expandPath(cfg.Calendar.EventsFile)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	tb := &cfg.TimeBlock
	if v := os.Getenv("TIMEBLOCK_WORK_DAY_START"); v != "" {
		tb.WorkDayStart = v
	}
	if v := os.Getenv("TIMEBLOCK_WORK_DAY_END"); v != "" {
		tb.WorkDayEnd = v
	}
	if v := os.Getenv("TIMEBLOCK_WORKDAYS"); v != "" {
		tb.Workdays = strings.Split(v, ",")
	}
	if v := os.Getenv("TIMEBLOCK_TAG"); v != "" {
		tb.Tag = v
	}
	if v := os.Getenv("TIMEBLOCK_MODE"); v != "" {
		tb.Mode = v
	}
	if v := os.Getenv("TIMEBLOCK_INTERVAL_MINS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TIMEBLOCK_INTERVAL_MINS: %w", err)
		}
		tb.IntervalMins = n
	}
	if v := os.Getenv("TIMEBLOCK_DEFAULT_DURATION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TIMEBLOCK_DEFAULT_DURATION: %w", err)
		}
		tb.DefaultDuration = n
	}

	if v := os.Getenv("TIMEBLOCK_NOTES_DIR"); v != "" {
		cfg.Notes.Dir = v
	}
	if v := os.Getenv("TIMEBLOCK_EVENTS_FILE"); v != "" {
		cfg.Calendar.EventsFile = v
	}
	if v := os.Getenv("TIMEBLOCK_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("TIMEBLOCK_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	tb := c.TimeBlock
	start, err := scheduler.ParseClock(tb.WorkDayStart)
	if err != nil {
		return fmt.Errorf("work_day_start: %w", err)
	}
	end, err := scheduler.ParseClock(tb.WorkDayEnd)
	if err != nil {
		return fmt.Errorf("work_day_end: %w", err)
	}
	if !start.Before(end) {
		return errors.New("work_day_start must be before work_day_end")
	}

	if tb.IntervalMins <= 0 || tb.IntervalMins > 60 {
		return fmt.Errorf("interval_mins must be between 1 and 60, got %d", tb.IntervalMins)
	}
	if tb.DefaultDuration <= 0 {
		return fmt.Errorf("default_duration must be positive, got %d", tb.DefaultDuration)
	}
	if tb.TodoChar == "" {
		return errors.New("todo_char must be set")
	}
	if tb.DurationMarker == "" {
		return errors.New("duration_marker must be set")
	}
	if !isValidMode(tb.Mode) {
		return fmt.Errorf("invalid mode: %s (want one of %s or none)", tb.Mode, strings.Join(scheduler.Modes(), ", "))
	}

	if len(tb.Workdays) == 0 {
		return errors.New("at least one workday must be configured")
	}
	for _, day := range tb.Workdays {
		if !scheduler.IsWeekdayName(day) {
			return fmt.Errorf("invalid workday: %s", day)
		}
	}

	if c.Notes.FilenameFormat == "" {
		return errors.New("notes filename_format must be set")
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// isValidMode accepts the scheduler's mode names plus "none", which
// deliberately disables placement.
func isValidMode(mode string) bool {
	m := strings.ToLower(strings.TrimSpace(mode))
	return m == "none" || scheduler.ParseMode(m) != scheduler.ModeNone
}

// Engine converts the file settings into scheduler options.
// It assumes the config has been validated.
func (c *Config) Engine() scheduler.Config {
	tb := c.TimeBlock
	start, _ := scheduler.ParseClock(tb.WorkDayStart)
	end, _ := scheduler.ParseClock(tb.WorkDayEnd)
	return scheduler.Config{
		TodoChar:         tb.TodoChar,
		TimeBlockTag:     tb.Tag,
		TimeBlockHeading: tb.Heading,
		WorkDayStart:     start,
		WorkDayEnd:       end,
		DurationMarker:   tb.DurationMarker,
		IntervalMins:     tb.IntervalMins,
		RemoveDuration:   tb.RemoveDuration,
		DefaultDuration:  tb.DefaultDuration,
		Mode:             scheduler.ParseMode(tb.Mode),
		AllowEventSplits: tb.AllowSplits,
	}
}

// Workdays returns the configured workdays.
func (c *Config) Workdays() scheduler.Workdays {
	return scheduler.NewWorkdays(c.TimeBlock.Workdays)
}

// NotePath returns the daily note file for day.
func (c *Config) NotePath(day time.Time) string {
	return filepath.Join(c.Notes.Dir, day.Format(c.Notes.FilenameFormat))
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
