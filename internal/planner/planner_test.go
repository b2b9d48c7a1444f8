package planner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/javiermolinar/timeblock/internal/config"
	"github.com/javiermolinar/timeblock/internal/db"
	"github.com/javiermolinar/timeblock/internal/note"
	"github.com/javiermolinar/timeblock/internal/scheduler"
	"github.com/javiermolinar/timeblock/internal/task"
)

const testNote = `# 2025-01-07
* !! write report '1h
* inbox '20m
* 10:00-10:30 dentist
* [x] done thing
`

const testEvents = `
[[events]]
title = "standup"
start = "2025-01-06 09:00"
end = "2025-01-06 09:15"
rrule = "FREQ=DAILY"
`

// Tuesday; the clock is set to the day before so no cut-off applies.
var (
	testDay = time.Date(2025, 1, 7, 0, 0, 0, 0, time.Local)
	testNow = time.Date(2025, 1, 6, 12, 0, 0, 0, time.Local)
)

type fixture struct {
	cfg      *config.Config
	repo     *db.SQLite
	notePath string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.TimeBlock.WorkDayStart = "09:00"
	cfg.TimeBlock.WorkDayEnd = "12:00"
	cfg.TimeBlock.Tag = "#tb"
	cfg.Notes.Dir = dir
	cfg.Calendar.EventsFile = filepath.Join(dir, "events.toml")
	cfg.Storage.DBPath = filepath.Join(dir, "timeblock.db")

	if err := os.WriteFile(cfg.Calendar.EventsFile, []byte(testEvents), 0o644); err != nil {
		t.Fatalf("failed to write events: %v", err)
	}
	notePath := cfg.NotePath(testDay)
	if err := os.WriteFile(notePath, []byte(testNote), 0o644); err != nil {
		t.Fatalf("failed to write note: %v", err)
	}

	repo, err := db.New(cfg.Storage.DBPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	return fixture{cfg: cfg, repo: repo, notePath: notePath}
}

func (f fixture) planner(opts ...Option) *Planner {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return New(f.cfg, f.repo, opts...)
}

func TestPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.planner().Plan(ctx, PlanRequest{Day: testDay})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	want := []string{
		"* 09:15-10:00 !! write report (1) #tb",
		"* 10:30-10:45 !! write report (2) #tb",
		"* 10:45-11:05 inbox #tb",
	}
	if diff := cmp.Diff(want, res.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	if res.NotePath != f.notePath {
		t.Errorf("expected note path %s, got %s", f.notePath, res.NotePath)
	}
	if len(res.Tasks) != 2 {
		t.Errorf("expected 2 tasks, got %+v", res.Tasks)
	}
	if len(res.Events) != 1 || res.Events[0].Title != "standup" {
		t.Errorf("expected the standup event, got %+v", res.Events)
	}
	if len(res.Manual) != 1 || res.Manual[0].Title != "dentist" {
		t.Errorf("expected the dentist block, got %+v", res.Manual)
	}
	if res.Now != nil {
		t.Errorf("expected no cut-off for another day, got %v", *res.Now)
	}
	if res.IsNonWorkday {
		t.Error("Tuesday is a workday")
	}
	if res.HasValidationErrors() {
		t.Errorf("unexpected validation errors: %+v", res.ValidationErrors)
	}
	if !res.Summary.Complete() {
		t.Errorf("expected every task placed, got %+v", res.Summary.Shortfalls())
	}
	if res.Summary.ScheduledMinutes != 80 {
		t.Errorf("expected 80 scheduled minutes, got %d", res.Summary.ScheduledMinutes)
	}
	if res.Summary.FreeMinutes != 55 {
		t.Errorf("expected 55 free minutes, got %d", res.Summary.FreeMinutes)
	}
}

func TestPlan_Today(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2025, 1, 7, 9, 2, 0, 0, time.Local)

	res, err := New(f.cfg, nil, WithClock(func() time.Time { return now })).
		Plan(context.Background(), PlanRequest{Day: testDay})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if res.Now == nil || *res.Now != scheduler.MustParseClock("09:02") {
		t.Fatalf("expected cut-off at 09:02, got %v", res.Now)
	}
	// The standup already blocks 09:00-09:15, so the cut-off changes nothing.
	if got := res.Lines()[0]; got != "* 09:15-10:00 !! write report (1) #tb" {
		t.Errorf("unexpected first line %q", got)
	}
}

func TestPlan_ModeOverride(t *testing.T) {
	f := newFixture(t)

	res, err := f.planner().Plan(context.Background(), PlanRequest{Day: testDay, Mode: "none"})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(res.Lines()) != 0 {
		t.Errorf("expected no lines, got %v", res.Lines())
	}
	if got := len(res.Summary.Shortfalls()); got != 2 {
		t.Errorf("expected 2 shortfalls, got %d", got)
	}

	res, err = f.planner().Plan(context.Background(), PlanRequest{Day: testDay, Mode: "place-largest-first"})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if res.Config.Mode != scheduler.ModeLargestFirst {
		t.Errorf("expected largest-first mode, got %v", res.Config.Mode)
	}
}

func TestPlan_StoredBlocksAreBusy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	run := &task.Run{Date: testDay, Mode: "priority-split"}
	if err := f.repo.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	other := task.FromBlockData(scheduler.BlockData{
		Start: scheduler.MustParseClock("11:00"),
		End:   scheduler.MustParseClock("11:30"),
		Title: "focus",
	}, task.KindTask, testDay, "#other")
	if err := f.repo.CreateBlocks(ctx, run.ID, []*task.Block{other}); err != nil {
		t.Fatalf("CreateBlocks failed: %v", err)
	}

	res, err := f.planner().Plan(ctx, PlanRequest{Day: testDay})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	want := []string{
		"* 09:15-10:00 !! write report (1) #tb",
		"* 10:30-10:45 !! write report (2) #tb",
		"* 10:45-11:00 inbox (1) #tb",
		"* 11:30-11:35 inbox (2) #tb",
	}
	if diff := cmp.Diff(want, res.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	f.cfg.Calendar.IncludeStored = false
	res, err = f.planner().Plan(ctx, PlanRequest{Day: testDay})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(res.Stored) != 0 {
		t.Errorf("expected stored blocks to be ignored, got %+v", res.Stored)
	}
}

func TestPlan_NoteNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.planner().Plan(context.Background(), PlanRequest{
		Day:      testDay,
		NotePath: filepath.Join(t.TempDir(), "missing.md"),
	})
	if !errors.Is(err, note.ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestPlan_NonWorkday(t *testing.T) {
	f := newFixture(t)
	saturday := time.Date(2025, 1, 11, 0, 0, 0, 0, time.Local)
	if err := os.WriteFile(f.cfg.NotePath(saturday), []byte("* chores '30m\n"), 0o644); err != nil {
		t.Fatalf("failed to write note: %v", err)
	}

	res, err := f.planner().Plan(context.Background(), PlanRequest{Day: saturday})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if !res.IsNonWorkday {
		t.Error("expected Saturday to be flagged")
	}
	if want := time.Date(2025, 1, 13, 0, 0, 0, 0, time.Local); !res.NextWorkday.Equal(want) {
		t.Errorf("expected next workday %v, got %v", want, res.NextWorkday)
	}
	if len(res.Lines()) != 1 {
		t.Errorf("non-workdays are still planned, got %v", res.Lines())
	}
}

func TestSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.planner()

	for range 2 {
		res, err := p.Plan(ctx, PlanRequest{Day: testDay})
		if err != nil {
			t.Fatalf("Plan failed: %v", err)
		}
		run, err := p.Save(ctx, res, SaveOptions{Note: true, Store: true})
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if run == nil || run.ID == "" {
			t.Fatal("expected a stored run")
		}
	}

	data, err := os.ReadFile(f.notePath)
	if err != nil {
		t.Fatalf("failed to read note: %v", err)
	}
	want := `# 2025-01-07
## Time Blocks
* 09:15-10:00 !! write report (1) #tb
* 10:30-10:45 !! write report (2) #tb
* 10:45-11:05 inbox #tb
* !! write report '1h
* inbox '20m
* 10:00-10:30 dentist
* [x] done thing
`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("note mismatch (-want +got):\n%s", diff)
	}

	d, err := p.Day(ctx, testDay)
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	stats := d.Stats()
	if stats.TotalBlocks != 5 {
		t.Errorf("expected 5 stored blocks after saving twice, got %d", stats.TotalBlocks)
	}
	if stats.EventMinutes != 15 || stats.ManualMinutes != 30 || stats.TaskMinutes != 80 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestSave_NoteOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := New(f.cfg, nil, WithClock(func() time.Time { return testNow }))

	res, err := p.Plan(ctx, PlanRequest{Day: testDay})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	run, err := p.Save(ctx, res, SaveOptions{Note: true})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if run != nil {
		t.Errorf("expected no run, got %+v", run)
	}
	if _, err := p.Save(ctx, res, SaveOptions{Store: true}); !errors.Is(err, ErrNoRepository) {
		t.Errorf("expected ErrNoRepository, got %v", err)
	}
}

func TestSave_RejectsInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.planner()

	res, err := p.Plan(ctx, PlanRequest{Day: testDay})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	res.ValidationErrors = []ValidationError{{Field: "format"}}

	if _, err := p.Save(ctx, res, SaveOptions{Note: true}); !errors.Is(err, ErrInvalidSchedule) {
		t.Errorf("expected ErrInvalidSchedule, got %v", err)
	}
	data, _ := os.ReadFile(f.notePath)
	if string(data) != testNote {
		t.Error("note must be untouched")
	}
}

func TestBlocks(t *testing.T) {
	f := newFixture(t)

	res, err := f.planner().Plan(context.Background(), PlanRequest{Day: testDay})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	type row struct {
		Desc, Kind, Start, End, Tag string
	}
	var got []row
	for _, b := range res.Blocks() {
		got = append(got, row{b.Description, string(b.Kind), b.Start.String(), b.End.String(), b.Tag})
	}
	want := []row{
		{"standup", "event", "09:00", "09:15", "#tb"},
		{"dentist", "manual", "10:00", "10:30", "#tb"},
		{"!! write report (1)", "task", "09:15", "10:00", "#tb"},
		{"!! write report (2)", "task", "10:30", "10:45", "#tb"},
		{"inbox", "task", "10:45", "11:05", "#tb"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.planner()

	res, err := p.Plan(ctx, PlanRequest{Day: testDay})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if _, err := p.Save(ctx, res, SaveOptions{Note: true, Store: true}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cleared, err := p.Clear(ctx, testDay, "")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if cleared.LinesRemoved != 3 || cleared.BlocksRemoved != 5 {
		t.Errorf("unexpected clear result %+v", cleared)
	}

	data, err := os.ReadFile(f.notePath)
	if err != nil {
		t.Fatalf("failed to read note: %v", err)
	}
	if strings.Contains(string(data), "#tb") {
		t.Errorf("expected generated lines to be removed:\n%s", data)
	}

	cleared, err = p.Clear(ctx, testDay, filepath.Join(t.TempDir(), "missing.md"))
	if err != nil {
		t.Fatalf("Clear with a missing note failed: %v", err)
	}
	if cleared.LinesRemoved != 0 {
		t.Errorf("expected nothing removed, got %+v", cleared)
	}
}
