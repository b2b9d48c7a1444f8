package scheduler

import "fmt"

// State is the grid and open block list the allocator works from.
type State struct {
	Grid   Grid
	Blocks []OpenBlock
}

// Result is the outcome of a scheduling run.
type Result struct {
	Grid   Grid        // open slots left after the last placement
	Blocks []OpenBlock // open blocks left after the last placement
	Lines  []string    // schedule lines, in placement order
}

// MatchTasksToSlots places tasks, in the given order, into the earliest
// blocks with room. A task that does not fit a block is split across blocks
// when cfg.AllowEventSplits is set; otherwise that block is skipped. Every
// placement rebuilds the open slots and blocks from scratch. Minutes that
// cannot be placed are dropped.
func MatchTasksToSlots(tasks []Task, st State, cfg Config, now Clock) Result {
	res := Result{Grid: st.Grid, Blocks: st.Blocks}
	for _, t := range tasks {
		if len(res.Blocks) == 0 {
			break
		}
		res = placeTask(res, RemoveDateTags(t.Content), taskDuration(t, cfg), cfg, now)
	}
	return res
}

func placeTask(res Result, title string, duration int, cfg Config, now Clock) Result {
	scheduled, fragment := 0, 0
	for i := 0; i < len(res.Blocks) && scheduled < duration; {
		block := res.Blocks[i]
		remaining := duration - scheduled

		var mins int
		switch {
		case block.MinsAvailable <= 0:
			i++
			continue
		case remaining <= block.MinsAvailable:
			mins = remaining
			if fragment > 0 {
				fragment++
			}
		case cfg.AllowEventSplits:
			mins = block.MinsAvailable
			fragment++
		default:
			i++
			continue
		}

		end := block.Start.Add(mins)
		if end <= block.Start {
			i++
			continue
		}

		label := title
		if fragment > 0 {
			label = fmt.Sprintf("%s (%d)", title, fragment)
		}
		res = blockTimeAndCreateLine(res, BlockData{Start: block.Start, End: end, Title: label}, cfg, now)
		scheduled += mins
		i = 0
	}
	return res
}

// blockTimeAndCreateLine commits one placement and recomputes the open slots
// and blocks from the updated grid.
func blockTimeAndCreateLine(res Result, block BlockData, cfg Config, now Clock) Result {
	grid, line := BlockTimeFor(res.Grid, block, cfg)
	lines := res.Lines
	if line != "" {
		lines = append(lines, line)
	}
	open := FilterTimeMapToOpenSlots(grid, cfg, now)
	return Result{
		Grid:   open,
		Blocks: FindTimeBlocks(open, cfg),
		Lines:  lines,
	}
}
