// Package planner provides high-level time block planning orchestration.
// It coordinates the daily note, the calendar, the repository and the
// scheduling engine for one day. Both CLI and TUI use this package.
package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/timeblock/internal/calendar"
	"github.com/javiermolinar/timeblock/internal/config"
	"github.com/javiermolinar/timeblock/internal/dateutil"
	"github.com/javiermolinar/timeblock/internal/note"
	"github.com/javiermolinar/timeblock/internal/scheduler"
	"github.com/javiermolinar/timeblock/internal/summary"
	"github.com/javiermolinar/timeblock/internal/task"
)

var (
	// ErrInvalidSchedule is returned by Save when the plan failed validation.
	ErrInvalidSchedule = errors.New("schedule failed validation")
	// ErrNoRepository is returned when storage is requested without a repository.
	ErrNoRepository = errors.New("no repository configured")
)

// Planner orchestrates note parsing, calendar lookup, scheduling and storage.
type Planner struct {
	config *config.Config
	repo   task.Repository // may be nil
	now    func() time.Time
	log    zerolog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the debug logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Planner) { p.log = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// New creates a Planner. repo may be nil, in which case stored blocks are
// neither read nor written.
func New(cfg *config.Config, repo task.Repository, opts ...Option) *Planner {
	p := &Planner{
		config: cfg,
		repo:   repo,
		now:    time.Now,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlanRequest contains the input for planning one day.
type PlanRequest struct {
	Day        time.Time // zero means today
	NotePath   string    // empty means the configured daily note
	EventsFile string    // empty means the configured events file
	Mode       string    // empty means the configured mode
}

// PlanResult contains everything a caller needs to show or save a plan.
type PlanResult struct {
	Day      time.Time
	NotePath string
	Config   scheduler.Config

	Tasks   []scheduler.Task
	Events  []scheduler.Event     // timed events clipped to the day
	Manual  []scheduler.BlockData // time blocks written by hand in the note
	Stored  []scheduler.BlockData // blocks saved by runs with other tags
	Grid    scheduler.Grid        // day grid before placement
	Result  scheduler.Result
	Summary *summary.Summary

	// Now is the cut-off applied to today, nil for other days.
	Now          *scheduler.Clock
	IsNonWorkday bool
	NextWorkday  time.Time // set for non-workdays

	ValidationErrors []ValidationError

	note *note.Note
}

// Lines returns the generated schedule lines.
func (r *PlanResult) Lines() []string {
	return r.Result.Lines
}

// HasValidationErrors returns true if the schedule broke a constraint.
func (r *PlanResult) HasValidationErrors() bool {
	return len(r.ValidationErrors) > 0
}

// Busy returns every range the schedule had to avoid.
func (r *PlanResult) Busy() []scheduler.BlockData {
	return slices.Concat(eventBlocks(r.Events), r.Manual, r.Stored)
}

// Plan reads the day's note and calendar, places the open tasks and checks
// the outcome. Nothing is written.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	day := req.Day
	if day.IsZero() {
		day = p.now()
	}
	day = dateutil.TruncateToDay(day)

	cfg := p.config.Engine()
	if req.Mode != "" {
		cfg.Mode = scheduler.ParseMode(req.Mode)
	}

	notePath := req.NotePath
	if notePath == "" {
		notePath = p.config.NotePath(day)
	}
	n, err := note.Load(notePath)
	if err != nil {
		return nil, fmt.Errorf("loading note: %w", err)
	}

	eventsFile := req.EventsFile
	if eventsFile == "" {
		eventsFile = p.config.Calendar.EventsFile
	}
	cal, err := calendar.Load(eventsFile, day.Location())
	if err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}

	stored, err := p.storedBusy(ctx, day, cfg.TimeBlockTag)
	if err != nil {
		return nil, err
	}

	result := &PlanResult{
		Day:      day,
		NotePath: notePath,
		Config:   cfg,
		Tasks:    n.OpenTasks(note.TaskOptions{Tag: cfg.TimeBlockTag, AllItems: p.config.Notes.AllItems}),
		Events:   cal.ForDay(day),
		Manual:   n.TimeBlocks(cfg.TimeBlockTag, cfg.DefaultDuration),
		Stored:   stored,
		note:     n,
	}
	if wd := p.config.Workdays(); !wd.IsWorkday(day) {
		result.IsNonWorkday = true
		result.NextWorkday = wd.NextWorkday(day)
	}

	engine := &scheduler.Engine{Config: cfg, Now: p.now}
	grid := engine.EventGrid(day, result.Events)
	for _, b := range slices.Concat(result.Manual, result.Stored) {
		grid, _ = scheduler.BlockTimeFor(grid, b, cfg)
	}
	result.Grid = grid
	result.Result = engine.ScheduleOnto(day, grid.Clone(), result.Tasks)
	if now, today := engine.NowFor(day); today {
		result.Now = &now
	}
	result.Summary = summary.Summarize(result.Tasks, result.Result, cfg)

	v := NewValidator(cfg, result.Busy(), result.Now)
	result.ValidationErrors = v.Validate(result.Lines()).Errors

	p.log.Debug().
		Str("day", day.Format(dateutil.DateLayout)).
		Str("note", notePath).
		Str("mode", modeName(cfg.Mode)).
		Int("tasks", len(result.Tasks)).
		Int("events", len(result.Events)).
		Int("manual", len(result.Manual)).
		Int("stored", len(result.Stored)).
		Int("lines", len(result.Lines())).
		Int("validation_errors", len(result.ValidationErrors)).
		Msg("planned day")

	return result, nil
}

// storedBusy returns the blocks other runs stored for day, when enabled.
func (p *Planner) storedBusy(ctx context.Context, day time.Time, tag string) ([]scheduler.BlockData, error) {
	if p.repo == nil || !p.config.Calendar.IncludeStored {
		return nil, nil
	}
	d, err := p.Day(ctx, day)
	if err != nil {
		return nil, err
	}
	return d.Busy(tag), nil
}

// Day returns the blocks stored for day.
func (p *Planner) Day(ctx context.Context, day time.Time) (*task.Day, error) {
	if p.repo == nil {
		return nil, ErrNoRepository
	}
	blocks, err := p.repo.ListBlocksByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("loading stored blocks: %w", err)
	}
	d, err := task.NewDayWithBlocks(day, blocks)
	if err != nil {
		return nil, fmt.Errorf("loading stored blocks: %w", err)
	}
	return d, nil
}

// SaveOptions selects where a plan is written.
type SaveOptions struct {
	Note  bool // replace the generated lines in the note
	Store bool // record the run and its blocks in the repository
}

// Save writes a validated plan. Lines from an earlier run with the same tag
// are replaced, so saving twice leaves a single copy.
func (p *Planner) Save(ctx context.Context, result *PlanResult, opts SaveOptions) (*task.Run, error) {
	if result.HasValidationErrors() {
		return nil, ErrInvalidSchedule
	}

	if opts.Note {
		if err := p.writeNote(result); err != nil {
			return nil, err
		}
	}

	if !opts.Store {
		return nil, nil
	}
	return p.store(ctx, result)
}

func (p *Planner) writeNote(result *PlanResult) error {
	tag := result.Config.TimeBlockTag
	n := result.note
	if n == nil {
		loaded, err := note.Load(result.NotePath)
		if err != nil {
			return fmt.Errorf("loading note: %w", err)
		}
		n = loaded
	}

	removed := n.RemoveLinesContaining(tag)
	n.InsertUnderHeading(result.Config.TimeBlockHeading, result.Lines())
	if err := n.Save(result.NotePath); err != nil {
		return err
	}

	p.log.Debug().
		Str("note", result.NotePath).
		Int("removed", removed).
		Int("written", len(result.Lines())).
		Msg("wrote note")
	return nil
}

func (p *Planner) store(ctx context.Context, result *PlanResult) (*task.Run, error) {
	if p.repo == nil {
		return nil, ErrNoRepository
	}
	tag := result.Config.TimeBlockTag

	if _, err := p.repo.DeleteBlocksByTag(ctx, result.Day, tag); err != nil {
		return nil, fmt.Errorf("clearing previous blocks: %w", err)
	}

	run := &task.Run{
		Date:      result.Day,
		Mode:      modeName(result.Config.Mode),
		Source:    result.NotePath,
		CreatedAt: p.now(),
	}
	if err := p.repo.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("recording run: %w", err)
	}

	blocks := result.Blocks()
	if err := p.repo.CreateBlocks(ctx, run.ID, blocks); err != nil {
		return nil, fmt.Errorf("storing blocks: %w", err)
	}

	p.log.Debug().
		Str("run", run.ID).
		Int("blocks", len(blocks)).
		Msg("stored run")
	return run, nil
}

// Blocks converts the plan into storable blocks: events, hand-written
// blocks and placed tasks, all carrying the run's tag.
func (r *PlanResult) Blocks() []*task.Block {
	tag := r.Config.TimeBlockTag
	var out []*task.Block
	add := func(bd scheduler.BlockData, kind task.Kind) {
		if bd.End <= bd.Start {
			return
		}
		if bd.Title == "" {
			bd.Title = string(kind)
		}
		out = append(out, task.FromBlockData(bd, kind, r.Day, tag))
	}

	for _, bd := range eventBlocks(r.Events) {
		add(bd, task.KindEvent)
	}
	for _, bd := range r.Manual {
		add(bd, task.KindManual)
	}
	for _, line := range r.Lines() {
		b, ok := summary.ParseLine(line, r.Config)
		if !ok {
			continue
		}
		add(scheduler.BlockData{Start: b.Start, End: b.End, Title: b.Label}, task.KindTask)
	}
	return out
}

// ClearResult reports what Clear removed.
type ClearResult struct {
	LinesRemoved  int
	BlocksRemoved int64
}

// Clear removes the generated lines from the day's note and the stored
// blocks carrying the configured tag. A missing note is not an error.
func (p *Planner) Clear(ctx context.Context, day time.Time, notePath string) (ClearResult, error) {
	var res ClearResult
	day = dateutil.TruncateToDay(day)
	tag := p.config.TimeBlock.Tag
	if notePath == "" {
		notePath = p.config.NotePath(day)
	}

	n, err := note.Load(notePath)
	switch {
	case errors.Is(err, note.ErrNoteNotFound):
		// nothing written yet
	case err != nil:
		return res, fmt.Errorf("loading note: %w", err)
	default:
		res.LinesRemoved = n.RemoveLinesContaining(tag)
		if res.LinesRemoved > 0 {
			if err := n.Save(notePath); err != nil {
				return res, err
			}
		}
	}

	if p.repo != nil {
		res.BlocksRemoved, err = p.repo.DeleteBlocksByTag(ctx, day, tag)
		if err != nil {
			return res, fmt.Errorf("clearing stored blocks: %w", err)
		}
	}

	p.log.Debug().
		Str("note", notePath).
		Int("lines", res.LinesRemoved).
		Int64("blocks", res.BlocksRemoved).
		Msg("cleared day")
	return res, nil
}

func eventBlocks(events []scheduler.Event) []scheduler.BlockData {
	var out []scheduler.BlockData
	for _, ev := range events {
		if ev.End == nil {
			continue
		}
		out = append(out, scheduler.BlockData{
			Start: scheduler.ClockOf(ev.Start),
			End:   scheduler.ClockOf(*ev.End),
			Title: ev.Title,
		})
	}
	return out
}

func modeName(m scheduler.Mode) string {
	if m == scheduler.ModeNone {
		return "none"
	}
	return m.String()
}
