package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timeblock/internal/dateutil"
)

func (a *App) clearCmd() *cobra.Command {
	var date, notePath string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the generated schedule of a day",
		Long: `Remove the tagged schedule lines from the daily note and delete the
blocks stored with the same tag. Hand-written lines are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := dateutil.ParseDay(date, a.now())
			if err != nil {
				return fmt.Errorf("--date %q: %w", date, err)
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			res, err := a.planner().Clear(cmd.Context(), day, notePath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d lines and %d stored blocks for %s\n",
				res.LinesRemoved, res.BlocksRemoved, day.Format(dateutil.DateLayout))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "today", "Day to clear")
	cmd.Flags().StringVar(&notePath, "note", "", "Note file (default: the configured daily note)")
	return cmd
}
