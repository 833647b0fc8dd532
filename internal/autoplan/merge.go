package autoplan

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/anagarval/minerva/internal/block"
)

// Merge errors.
var (
	ErrEmptyProposal = errors.New("proposal contains no placements")
)

// Merge applies a validated proposal to a copy of the block set and returns
// the new set. The input blocks are never mutated; callers swap the result in
// wholesale, so a failed merge leaves everything exactly as it was.
//
// Rules:
//   - completed blocks pass through untouched, whatever the proposal says
//   - accepted placements set the start time and leave the block unpinned,
//     so the next auto-schedule run may move it again
//   - blocks named in unscheduledTasks lose their start time
//   - blocks the proposal does not mention are unchanged
func Merge(blocks []*block.TimeBlock, accepted []AcceptedPlacement, unscheduled []UnscheduledTask) ([]*block.TimeBlock, error) {
	byID := make(map[int64]*block.TimeBlock, len(blocks))
	result := make([]*block.TimeBlock, len(blocks))
	for i, b := range blocks {
		c := b.Clone()
		result[i] = c
		byID[c.ID] = c
	}

	for _, p := range accepted {
		target, ok := byID[p.BlockID]
		if !ok {
			return nil, fmt.Errorf("merge: %w (id %d)", block.ErrBlockNotFound, p.BlockID)
		}
		if target.Completed {
			continue
		}
		target.SetStart(p.Start)
		target.Pinned = false
	}

	for _, u := range unscheduled {
		id, err := strconv.ParseInt(u.ID, 10, 64)
		if err != nil {
			continue // unknown ids in the reject list are harmless
		}
		target, ok := byID[id]
		if !ok || target.Completed {
			continue
		}
		target.ClearStart()
	}

	return result, nil
}
