package scheduler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var busyCmp = cmp.AllowUnexported(Busy{})

func slot(start string, index int) TimeSlot {
	return TimeSlot{Start: MustParseClock(start), Busy: Free(), Index: index}
}

func openBlock(start, end string, mins int) OpenBlock {
	return OpenBlock{Start: MustParseClock(start), End: MustParseClock(end), MinsAvailable: mins}
}

func TestFilterTimeMapToOpenSlots(t *testing.T) {
	grid := Grid{slot("00:00", 0), slot("00:05", 1)}

	tests := []struct {
		name     string
		dayStart string
		dayEnd   string
		now      string
		want     Grid
	}{
		{"now after first slot", "00:00", "23:59", "00:02", grid[1:2]},
		{"now equal to first slot", "00:00", "23:59", "00:00", grid},
		{"day starts after first slot", "00:01", "23:59", "00:00", grid[1:2]},
		{"day starts on second slot", "00:05", "23:59", "00:00", grid[1:2]},
		{"day ends before first slot", "00:00", "00:00", "00:00", Grid{}},
		{"day ends before second slot", "00:00", "00:03", "00:00", grid[0:1]},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig().WithNow(MustParseClock(tc.now))
			cfg.WorkDayStart = MustParseClock(tc.dayStart)
			cfg.WorkDayEnd = MustParseClock(tc.dayEnd)

			got := FilterTimeMapToOpenSlots(grid, cfg, Midnight)
			if diff := cmp.Diff(tc.want, got, busyCmp); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterTimeMapToOpenSlots_UsesNowWithoutOverride(t *testing.T) {
	grid := Grid{slot("08:00", 0), slot("08:05", 1), slot("08:10", 2)}
	cfg := testConfig()
	cfg.NowOverride = nil

	got := FilterTimeMapToOpenSlots(grid, cfg, MustParseClock("08:05"))
	if len(got) != 2 || got[0].Start.String() != "08:05" {
		t.Errorf("expected slots from 08:05, got %+v", got)
	}
}

func TestFilterTimeMapToOpenSlots_DropsBusy(t *testing.T) {
	grid := Grid{slot("08:00", 0), {Start: MustParseClock("08:05"), Busy: OccupiedBy("x"), Index: 1}, slot("08:10", 2)}

	got := FilterTimeMapToOpenSlots(grid, testConfig(), Midnight)
	if len(got) != 2 || got[1].Index != 2 {
		t.Errorf("expected indexes 0 and 2, got %+v", got)
	}
}

func TestFindTimeBlocks(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name string
		grid Grid
		want []OpenBlock
	}{
		{
			name: "empty",
			grid: Grid{},
			want: []OpenBlock{},
		},
		{
			name: "gaps split blocks",
			grid: Grid{slot("00:05", 0), slot("00:15", 2), slot("00:20", 3), slot("00:30", 5)},
			want: []OpenBlock{
				openBlock("00:05", "00:10", 5),
				openBlock("00:15", "00:25", 10),
				openBlock("00:30", "00:35", 5),
			},
		},
		{
			name: "whole map contiguous",
			grid: Grid{slot("00:15", 2), slot("00:20", 3), slot("00:25", 4)},
			want: []OpenBlock{openBlock("00:15", "00:30", 15)},
		},
		{
			name: "lone slot then block",
			grid: Grid{slot("00:00", 0), slot("00:15", 2), slot("00:20", 3), slot("00:25", 4)},
			want: []OpenBlock{
				openBlock("00:00", "00:05", 5),
				openBlock("00:15", "00:30", 15),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FindTimeBlocks(tc.grid, cfg)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindTimeBlocks_IntervalWidth(t *testing.T) {
	cfg := testConfig()
	cfg.IntervalMins = 2
	grid := Grid{slot("00:00", 0), slot("00:02", 1), slot("00:04", 2), slot("00:06", 3)}

	got := FindTimeBlocks(grid, cfg)
	want := []OpenBlock{openBlock("00:00", "00:08", 8)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFindTimeBlocks_EndOfDay(t *testing.T) {
	cfg := testConfig()
	grid := Grid{slot("23:50", 286), slot("23:55", 287)}

	got := FindTimeBlocks(grid, cfg)
	if len(got) != 1 {
		t.Fatalf("expected 1 block, got %d", len(got))
	}
	if got[0].End.String() != "23:59" {
		t.Errorf("expected end clamped to 23:59, got %s", got[0].End)
	}
	if got[0].MinsAvailable != 10 {
		t.Errorf("expected 10 minutes, got %d", got[0].MinsAvailable)
	}
}

func TestEndToEnd_EventBlocksMorning(t *testing.T) {
	cfg := testConfig().WithNow(MustParseClock("08:00"))
	events := []Event{{Title: "standup", Start: at("08:00"), End: ptr(at("09:00"))}}

	grid := BlockOutEvents(events, BlankDayMap(at("00:00"), 5), cfg)
	for i := 96; i <= 107; i++ {
		if grid[i].Busy != OccupiedBy("standup") {
			t.Fatalf("slot %d (%s) should be busy", i, grid[i].Start)
		}
	}

	open := FilterTimeMapToOpenSlots(grid, cfg, Midnight)
	if len(open) != 108 {
		t.Fatalf("expected 108 open slots, got %d", len(open))
	}
	if open[0].Start.String() != "09:00" || open[0].Index != 108 {
		t.Errorf("first open slot = %+v, want 09:00 at 108", open[0])
	}
	if last := open[len(open)-1]; last.Start.String() != "17:55" {
		t.Errorf("last open slot = %s, want 17:55", last.Start)
	}

	blocks := FindTimeBlocks(open, cfg)
	want := []OpenBlock{openBlock("09:00", "18:00", 540)}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTotalMinutes(t *testing.T) {
	blocks := []OpenBlock{openBlock("00:00", "00:05", 5), openBlock("01:00", "01:30", 30)}
	if got := TotalMinutes(blocks); got != 35 {
		t.Errorf("expected 35, got %d", got)
	}
}
