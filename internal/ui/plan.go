package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/javiermolinar/timeblock/internal/dateutil"
	"github.com/javiermolinar/timeblock/internal/planner"
	"github.com/javiermolinar/timeblock/internal/scheduler"
	"github.com/javiermolinar/timeblock/internal/tui"
)

// modeValue is a --mode flag restricted to the scheduler's modes and "none".
type modeValue struct {
	name string
}

var _ pflag.Value = (*modeValue)(nil)

func (m *modeValue) String() string { return m.name }

func (m *modeValue) Set(s string) error {
	name := strings.ToLower(strings.TrimSpace(s))
	if name != "none" && scheduler.ParseMode(name) == scheduler.ModeNone {
		return fmt.Errorf("want one of %s or none", strings.Join(scheduler.Modes(), ", "))
	}
	m.name = name
	return nil
}

func (m *modeValue) Type() string { return "mode" }

type planOptions struct {
	date        string
	note        string
	events      string
	mode        modeValue
	write       bool
	save        bool
	copy        bool
	interactive bool
	dryRun      bool
}

func (a *App) planCmd() *cobra.Command {
	opts := planOptions{write: true}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Place the open tasks of a daily note into free time",
		Long: `Read the daily note, block out calendar events and hand-written time
blocks, then place the open tasks into the free time of the working day.

Durations are written inline after the duration marker, e.g. "write report '1h30m".
Tasks without one get the default duration.

Dates:
  - "today", "tomorrow", "yesterday", "+2", "-1"
  - "monday" ... "sunday", "next-monday", "next-week"
  - "2025-01-15" (explicit YYYY-MM-DD)

Examples:
  timeblock plan
  timeblock plan --date tomorrow --dry-run
  timeblock plan --mode place-largest-first --save
  timeblock plan --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPlan(cmd, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.date, "date", "d", "today", "Day to plan")
	f.StringVar(&opts.note, "note", "", "Note file (default: the configured daily note)")
	f.StringVar(&opts.events, "events", "", "Events file, .toml or .yaml (default: from config)")
	f.Var(&opts.mode, "mode", "Placement mode: "+strings.Join(scheduler.Modes(), ", ")+" or none (default: from config)")
	f.BoolVar(&opts.write, "write", opts.write, "Write the schedule into the note")
	f.BoolVar(&opts.save, "save", false, "Record the run and its blocks in the database")
	f.BoolVar(&opts.copy, "copy", false, "Copy the schedule lines to the clipboard")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "Preview the schedule before writing it")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Show the schedule without writing anything")

	_ = cmd.RegisterFlagCompletionFunc("mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return append(scheduler.Modes(), "none"), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (a *App) runPlan(cmd *cobra.Command, opts *planOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	day, err := dateutil.ParseDay(opts.date, a.now())
	if err != nil {
		return fmt.Errorf("--date %q: %w", opts.date, err)
	}
	if opts.interactive && !isTerminal() {
		return errors.New("--interactive needs a terminal")
	}

	if opts.save || a.config.Calendar.IncludeStored {
		if err := a.ensureRepo(); err != nil {
			return err
		}
	}

	p := a.planner()
	res, err := p.Plan(ctx, planner.PlanRequest{
		Day:        day,
		NotePath:   opts.note,
		EventsFile: opts.events,
		Mode:       opts.mode.String(),
	})
	if err != nil {
		return fmt.Errorf("planning: %w", err)
	}

	printPlan(out, res)
	if res.HasValidationErrors() {
		printValidationErrors(out, res.ValidationErrors)
		return planner.ErrInvalidSchedule
	}

	if opts.copy && len(res.Lines()) > 0 {
		if err := clipboard.WriteAll(strings.Join(res.Lines(), "\n")); err != nil {
			a.console.Warn().Err(err).Msg("could not copy to clipboard")
		} else {
			fmt.Fprintln(out, formatMuted("Copied to clipboard."))
		}
	}

	if opts.dryRun {
		fmt.Fprintln(out, "\n(Dry run - nothing written)")
		return nil
	}

	if opts.interactive {
		accepted, err := tui.Run(tui.Preview{
			Day:     res.Day,
			Config:  res.Config,
			Grid:    res.Grid,
			Lines:   res.Lines(),
			Summary: res.Summary,
			Now:     res.Now,
		}, tui.WithTheme(a.config.UI.Theme))
		if err != nil {
			return fmt.Errorf("running preview: %w", err)
		}
		if !accepted {
			fmt.Fprintln(out, "Planning cancelled.")
			return nil
		}
	}

	run, err := p.Save(ctx, res, planner.SaveOptions{Note: opts.write, Store: opts.save})
	if err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	if opts.write {
		fmt.Fprintf(out, "\nWrote %d lines to %s\n", len(res.Lines()), res.NotePath)
	}
	if run != nil {
		fmt.Fprintf(out, "Stored run %s\n", run.ID)
	}
	return nil
}
