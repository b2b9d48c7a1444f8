package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/timeblock/internal/config"
	"github.com/javiermolinar/timeblock/internal/db"
	"github.com/javiermolinar/timeblock/internal/logging"
	"github.com/javiermolinar/timeblock/internal/planner"
	"github.com/javiermolinar/timeblock/internal/task"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo    task.Repository
	config  *config.Config
	root    *cobra.Command
	debug   bool // Enable debug logging
	noColor bool

	log      zerolog.Logger // debug log
	console  zerolog.Logger // warnings on stderr
	closeLog func()
	now      func() time.Time
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repo is opened from the configured path on first use.
func NewApp(repo task.Repository, cfg *config.Config) *App {
	a := &App{
		repo:     repo,
		config:   cfg,
		log:      zerolog.Nop(),
		console:  zerolog.Nop(),
		closeLog: func() {},
		now:      time.Now,
	}

	a.root = &cobra.Command{
		Use:   "timeblock",
		Short: "Time block a daily note",
		Long: `timeblock reads the open tasks of a daily note, blocks out calendar
events and hand-written time blocks, and places the tasks into the free
time of the working day.

The schedule is written back under a heading of the note, one tagged
line per block, and can be recorded in a local database.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.noColor || termenv.EnvNoColor() {
				DisableColor()
			}
			a.console = logging.Console(cmd.ErrOrStderr(), color.NoColor)
			logger, closeLog, err := logging.Setup(a.debug)
			if err != nil {
				return err
			}
			a.log, a.closeLog = logger, closeLog
			return nil
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+logging.DebugLogPath+")")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.planCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.clearCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "timeblock %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensureRepo opens the database on first use.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	dbPath := a.config.Storage.DBPath
	if dbPath == "" {
		return fmt.Errorf("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	a.repo = repo
	a.log.Debug().Str("db", dbPath).Msg("opened database")
	return nil
}

func (a *App) planner() *planner.Planner {
	return planner.New(a.config, a.repo, planner.WithLogger(a.log), planner.WithClock(a.now))
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database and the debug log.
func (a *App) Close() error {
	a.closeLog()
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
