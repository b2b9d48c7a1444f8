package scheduler

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.WorkDayStart = MustParseClock("08:00")
	cfg.WorkDayEnd = MustParseClock("18:00")
	cfg.IntervalMins = 5
	cfg.DefaultDuration = 10
	return cfg.WithNow(Midnight)
}

func block(start, end, title string) BlockData {
	return BlockData{Start: MustParseClock(start), End: MustParseClock(end), Title: title}
}

func at(hhmm string) time.Time {
	c := MustParseClock(hhmm)
	return time.Date(2021, 1, 1, int(c)/60, int(c)%60, 0, 0, time.Local)
}

func ptr[T any](v T) *T { return &v }

func TestBlockTimeFor_WithTitle(t *testing.T) {
	day := BlankDayMap(at("00:00"), 5)

	grid, _ := BlockTimeFor(day, block("08:00", "09:00", "testing"), testConfig())

	tests := []struct {
		index int
		want  Busy
	}{
		{0, Free()},
		{95, Free()},
		{96, OccupiedBy("testing")},
		{107, OccupiedBy("testing")},
		{108, Free()},
		{287, Free()},
	}
	for _, tc := range tests {
		if grid[tc.index].Busy != tc.want {
			t.Errorf("slot %d (%s): busy = %s, want %s", tc.index, grid[tc.index].Start, grid[tc.index].Busy, tc.want)
		}
	}
	if day[96].Busy.IsBusy() {
		t.Error("input grid was modified")
	}
}

func TestBlockTimeFor_WithoutTitle(t *testing.T) {
	day := BlankDayMap(at("00:00"), 5)

	grid, line := BlockTimeFor(day, block("08:00", "09:00", ""), testConfig())

	if line != "" {
		t.Errorf("expected empty line, got %q", line)
	}
	if grid[96].Busy != Occupied() || grid[107].Busy != Occupied() {
		t.Error("expected unlabelled busy slots between 08:00 and 09:00")
	}
	if grid[108].Busy.IsBusy() {
		t.Error("expected 09:00 to stay free")
	}
}

func TestBlockTimeFor_Idempotent(t *testing.T) {
	cfg := testConfig()
	day := BlankDayMap(at("00:00"), 5)
	b := block("10:00", "10:30", "focus")

	once, lineOnce := BlockTimeFor(day, b, cfg)
	twice, lineTwice := BlockTimeFor(once, b, cfg)

	if diff := cmp.Diff(once, twice, cmp.AllowUnexported(Busy{})); diff != "" {
		t.Errorf("blocking twice changed the grid (-once +twice):\n%s", diff)
	}
	if lineOnce != lineTwice {
		t.Errorf("lines differ: %q vs %q", lineOnce, lineTwice)
	}
}

func TestBlockOutEvents(t *testing.T) {
	cfg := testConfig()

	t.Run("blocks only the event time", func(t *testing.T) {
		events := []Event{{Title: "event1", Start: at("00:10"), End: ptr(at("00:21"))}}
		grid := BlockOutEvents(events, BlankDayMap(at("00:00"), 5), cfg)

		if grid[1].Busy.IsBusy() {
			t.Error("slot 1 should be free")
		}
		if grid[2].Busy != OccupiedBy("event1") {
			t.Errorf("slot 2 = %s, want event1", grid[2].Busy)
		}
		if grid[4].Busy != OccupiedBy("event1") {
			t.Errorf("slot 4 = %s, want event1", grid[4].Busy)
		}
		if grid[5].Busy.IsBusy() {
			t.Error("slot 5 should be free")
		}
	})

	t.Run("later overlapping events win", func(t *testing.T) {
		events := []Event{
			{Title: "event1", Start: at("00:10"), End: ptr(at("00:21"))},
			{Title: "event2", Start: at("00:20"), End: ptr(at("00:30"))},
		}
		grid := BlockOutEvents(events, BlankDayMap(at("00:00"), 5), cfg)

		if grid[4].Busy != OccupiedBy("event2") {
			t.Errorf("slot 4 = %s, want event2", grid[4].Busy)
		}
		if grid[6].Busy.IsBusy() {
			t.Error("slot 6 should be free")
		}
	})

	t.Run("events without an end are skipped", func(t *testing.T) {
		events := []Event{{Title: "event3", Start: at("00:20")}}
		grid := BlockOutEvents(events, BlankDayMap(at("00:00"), 5), cfg)

		for _, s := range grid {
			if s.Busy.IsBusy() {
				t.Fatalf("slot %s unexpectedly busy", s.Start)
			}
		}
	})
}

func TestAttachTimeblockTag(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"attaches tag", "test", "test #tag"},
		{"does not duplicate", "test #tag", "test #tag"},
		{"moves tag to the end", "test #tag more", "test more #tag"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AttachTimeblockTag(tc.content, "#tag")
			if got != tc.want {
				t.Errorf("AttachTimeblockTag(%q) = %q, want %q", tc.content, got, tc.want)
			}
			if again := AttachTimeblockTag(got, "#tag"); again != got {
				t.Errorf("not idempotent: %q then %q", got, again)
			}
		})
	}
}

func TestAttachTimeblockTag_SpecialCharacters(t *testing.T) {
	got := AttachTimeblockTag("call mom #🕑", "#🕑")
	if got != "call mom #🕑" {
		t.Errorf("got %q", got)
	}
	if got := AttachTimeblockTag("a.b", "(tb)"); got != "a.b (tb)" {
		t.Errorf("got %q", got)
	}
}

func TestCreateTimeBlockLine(t *testing.T) {
	cfg := testConfig()
	cfg.TimeBlockTag = "#tag"

	tests := []struct {
		name           string
		title          string
		removeDuration bool
		want           string
	}{
		{"basic", "foo", true, "* 08:00-09:00 foo #tag"},
		{"empty title", "", true, ""},
		{"keeps duration", "foo bar '2h22m", false, "* 08:00-09:00 foo bar '2h22m #tag"},
		{"removes duration", "foo bar '2h22m", true, "* 08:00-09:00 foo bar #tag"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg
			c.RemoveDuration = tc.removeDuration
			got := CreateTimeBlockLine(block("08:00", "09:00", tc.title), c)
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCreateTimeBlockLine_TodoChar(t *testing.T) {
	cfg := testConfig()
	cfg.TodoChar = "-"
	cfg.TimeBlockTag = "#tb"

	got := CreateTimeBlockLine(block("13:05", "13:50", "review"), cfg)
	if got != "- 13:05-13:50 review #tb" {
		t.Errorf("got %q", got)
	}
}
