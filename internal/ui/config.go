package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/timeblock/internal/config"
	"github.com/javiermolinar/timeblock/internal/scheduler"
	"github.com/javiermolinar/timeblock/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.
Press Tab to complete modes, themes and weekdays.

Example:
  timeblock config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.OutOrStdout())
		},
	}
}

func runConfigInteractive(out io.Writer) error {
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	p := newPrompter(out)
	defer func() { _ = p.Close() }()

	err = p.edit(cfg)
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		fmt.Fprintln(out, "\nConfiguration unchanged.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	tb := cfg.TimeBlock
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[timeblock]")
	fmt.Fprintf(w, "  work_day_start   = %s\n", tb.WorkDayStart)
	fmt.Fprintf(w, "  work_day_end     = %s\n", tb.WorkDayEnd)
	fmt.Fprintf(w, "  workdays         = %s\n", strings.Join(tb.Workdays, ", "))
	fmt.Fprintf(w, "  mode             = %s\n", tb.Mode)
	fmt.Fprintf(w, "  allow_splits     = %t\n", tb.AllowSplits)
	fmt.Fprintf(w, "  interval_mins    = %d\n", tb.IntervalMins)
	fmt.Fprintf(w, "  default_duration = %d\n", tb.DefaultDuration)
	fmt.Fprintf(w, "  duration_marker  = %s\n", tb.DurationMarker)
	fmt.Fprintf(w, "  remove_duration  = %t\n", tb.RemoveDuration)
	fmt.Fprintf(w, "  todo_char        = %s\n", tb.TodoChar)
	fmt.Fprintf(w, "  tag              = %s\n", tb.Tag)
	fmt.Fprintf(w, "  heading          = %s\n", tb.Heading)
	fmt.Fprintln(w, "\n[notes]")
	fmt.Fprintf(w, "  dir              = %s\n", cfg.Notes.Dir)
	fmt.Fprintf(w, "  filename_format  = %s\n", cfg.Notes.FilenameFormat)
	fmt.Fprintf(w, "  all_items        = %t\n", cfg.Notes.AllItems)
	fmt.Fprintln(w, "\n[calendar]")
	fmt.Fprintf(w, "  events_file      = %s\n", cfg.Calendar.EventsFile)
	fmt.Fprintf(w, "  include_stored   = %t\n", cfg.Calendar.IncludeStored)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
}

// prompter reads config values with line editing and Tab completion.
// The first error stops all further prompts and is returned by Err.
type prompter struct {
	line *liner.State
	out  io.Writer
	err  error
}

func newPrompter(out io.Writer) *prompter {
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	return &prompter{line: l, out: out}
}

func (p *prompter) Close() error {
	return p.line.Close()
}

// Err returns the first error met while prompting.
func (p *prompter) Err() error {
	return p.err
}

func (p *prompter) edit(cfg *config.Config) error {
	ok, err := p.yesNo("\nWould you like to edit the configuration?")
	if err != nil || !ok {
		return err
	}

	tb := &cfg.TimeBlock
	p.text("Work day start", &tb.WorkDayStart)
	p.text("Work day end", &tb.WorkDayEnd)
	p.list("Workdays (comma-separated)", &tb.Workdays, weekdayNames)
	p.choice("Mode", &tb.Mode, append(scheduler.Modes(), "none"))
	p.number("Interval minutes", &tb.IntervalMins)
	p.number("Default duration (minutes)", &tb.DefaultDuration)
	p.text("Tag", &tb.Tag)
	p.text("Heading", &tb.Heading)
	p.text("Notes directory", &cfg.Notes.Dir)
	p.text("Events file (empty to keep, - to disable)", &cfg.Calendar.EventsFile)
	p.text("Database path", &cfg.Storage.DBPath)
	p.choice("UI theme", &cfg.UI.Theme, theme.Available())
	if err := p.Err(); err != nil {
		return err
	}
	if cfg.Calendar.EventsFile == "-" {
		cfg.Calendar.EventsFile = ""
	}

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

var weekdayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// completeFrom completes the last comma-separated word of a line.
func completeFrom(options []string) liner.Completer {
	return func(line string) []string {
		head, word := "", line
		if i := strings.LastIndex(line, ","); i >= 0 {
			head, word = line[:i+1]+" ", strings.TrimSpace(line[i+1:])
		}
		var out []string
		for _, o := range options {
			if strings.HasPrefix(o, strings.ToLower(word)) {
				out = append(out, head+o)
			}
		}
		return out
	}
}

// prompt shows current as an editable suggestion. An empty answer keeps it.
func (p *prompter) prompt(label, current string, options []string) string {
	if p.err != nil {
		return current
	}
	p.line.SetCompleter(completeFrom(options))
	input, err := p.line.PromptWithSuggestion(fmt.Sprintf("  %s: ", label), current, -1)
	if err != nil {
		p.err = err
		return current
	}
	if input = strings.TrimSpace(input); input == "" {
		return current
	}
	return input
}

func (p *prompter) text(label string, dst *string) {
	*dst = p.prompt(label, *dst, nil)
}

func (p *prompter) list(label string, dst *[]string, options []string) {
	if result := splitList(p.prompt(label, strings.Join(*dst, ", "), options)); len(result) > 0 {
		*dst = result
	}
}

func (p *prompter) choice(label string, dst *string, options []string) {
	full := fmt.Sprintf("%s (%s)", label, strings.Join(options, ", "))
	for p.err == nil {
		value := strings.ToLower(p.prompt(full, *dst, options))
		if slices.Contains(options, value) {
			*dst = value
			return
		}
		fmt.Fprintf(p.out, "  Invalid value %q. Available: %s\n", value, strings.Join(options, ", "))
	}
}

func (p *prompter) number(label string, dst *int) {
	for p.err == nil {
		value := p.prompt(label, strconv.Itoa(*dst), nil)
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			*dst = n
			return
		}
		fmt.Fprintf(p.out, "  Invalid number %q\n", value)
	}
}

func (p *prompter) yesNo(question string) (bool, error) {
	input, err := p.line.Prompt(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes", nil
}

func splitList(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
