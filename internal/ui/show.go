package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timeblock/internal/dateutil"
	"github.com/javiermolinar/timeblock/internal/scheduler"
)

func (a *App) showCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the time blocks stored for a day",
		Long: `Display the events, hand-written blocks and placed tasks recorded
by 'timeblock plan --save' for a day.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			day, err := dateutil.ParseDay(date, a.now())
			if err != nil {
				return fmt.Errorf("--date %q: %w", date, err)
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			d, err := a.planner().Day(cmd.Context(), day)
			if err != nil {
				return err
			}
			if d.Len() == 0 {
				fmt.Fprintf(out, "No time blocks stored for %s.\n", day.Format("Monday, January 2"))
				return nil
			}

			fmt.Fprintf(out, "=== %s ===\n\n", formatHeader(day.Format("Monday, January 2, 2006")))

			maxDescWidth := max(20, min(50, termWidth()-30))
			for _, b := range d.Blocks() {
				printBlockRow(out, b, maxDescWidth)
			}

			fmt.Fprintln(out)
			stats := d.Stats()
			printDayStats(out, stats)

			cfg := a.config.Engine()
			booked := d.BookedMinutesWithin(cfg.WorkDayStart, cfg.WorkDayEnd)
			fmt.Fprintf(out, "Day: %s\n", BookedBar(booked, scheduler.WorkingMinutes(cfg), 20))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "today", "Day to show")
	return cmd
}
