package scheduler

// OpenBlock is a maximal run of contiguous free slots. End is exclusive.
type OpenBlock struct {
	Start         Clock
	End           Clock
	MinsAvailable int
	Title         string
}

// FilterTimeMapToOpenSlots keeps the free slots that start no earlier than
// now and inside the working day [WorkDayStart, WorkDayEnd).
// cfg.NowOverride, when set, takes the place of now.
func FilterTimeMapToOpenSlots(grid Grid, cfg Config, now Clock) Grid {
	now = cfg.resolveNow(now)
	out := make(Grid, 0, len(grid))
	for _, s := range grid {
		if s.Busy.IsBusy() {
			continue
		}
		if s.Start < now || s.Start < cfg.WorkDayStart || s.Start >= cfg.WorkDayEnd {
			continue
		}
		out = append(out, s)
	}
	return out
}

// FindTimeBlocks coalesces a filtered grid into open blocks. Slots belong to
// the same block while their indexes are consecutive; each block ends one
// interval after the start of its last slot.
func FindTimeBlocks(slots Grid, cfg Config) []OpenBlock {
	blocks := make([]OpenBlock, 0)
	if len(slots) == 0 {
		return blocks
	}

	first, last := slots[0], slots[0]
	for _, s := range slots[1:] {
		if s.Index == last.Index+1 {
			last = s
			continue
		}
		blocks = append(blocks, newOpenBlock(first.Start, last.Start, cfg.IntervalMins))
		first, last = s, s
	}
	return append(blocks, newOpenBlock(first.Start, last.Start, cfg.IntervalMins))
}

func newOpenBlock(start, lastSlot Clock, intervalMins int) OpenBlock {
	mins := lastSlot.Sub(start) + intervalMins
	return OpenBlock{
		Start:         start,
		End:           start.Add(mins),
		MinsAvailable: mins,
	}
}

// TotalMinutes sums the available minutes of blocks.
func TotalMinutes(blocks []OpenBlock) int {
	total := 0
	for _, b := range blocks {
		total += b.MinsAvailable
	}
	return total
}
