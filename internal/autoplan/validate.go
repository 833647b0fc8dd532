package autoplan

import (
	"fmt"
	"strconv"
	"time"

	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/conflict"
)

// ValidationError describes one problem with a proposal entry.
type ValidationError struct {
	TaskID  string // id as it appeared in the proposal
	Field   string // "id", "startTime", "completed", "conflict"
	Message string
}

// String returns a formatted error message.
func (e ValidationError) String() string {
	return fmt.Sprintf("Task %s: %s - %s", e.TaskID, e.Field, e.Message)
}

// ValidationResult is the outcome of checking a proposal. Errors hold entries
// that cannot be merged at all; Conflicts hold placements that merge anyway
// but overlap a window or another block.
type ValidationResult struct {
	Valid     bool
	Errors    []ValidationError
	Conflicts []ValidationError
	Accepted  []AcceptedPlacement
}

// AcceptedPlacement is a proposal entry resolved to domain types and ready to
// merge. Conflicted marks placements that overlap the existing schedule; the
// grid renders the flag, the merge applies them like any other.
type AcceptedPlacement struct {
	BlockID    int64
	Start      time.Time
	Reasoning  string
	Conflicted bool
}

// FormatErrors returns every problem as corrective feedback for the model.
func (r ValidationResult) FormatErrors() string {
	if len(r.Errors) == 0 && len(r.Conflicts) == 0 {
		return ""
	}

	result := "Your schedule had these problems:\n"
	for _, e := range r.Errors {
		result += fmt.Sprintf("- %s\n", e.String())
	}
	for _, e := range r.Conflicts {
		result += fmt.Sprintf("- %s\n", e.String())
	}
	result += "\nFix these and respond again with the full JSON schedule."
	return result
}

// Validator checks proposals against the real block and window state.
// Proposals are advice from an external collaborator and are never trusted.
type Validator struct {
	blocks      []*block.TimeBlock
	windows     []*block.AvailabilityWindow
	restMinutes int
}

// NewValidator creates a Validator over the current state.
func NewValidator(blocks []*block.TimeBlock, windows []*block.AvailabilityWindow, restMinutes int) *Validator {
	return &Validator{blocks: blocks, windows: windows, restMinutes: restMinutes}
}

// Validate checks every scheduled entry in a proposal:
//   - the id refers to a known block
//   - the block is not completed
//   - startTime parses as ISO 8601
//
// Entries failing those checks cannot merge and land in Errors. A placement
// that overlaps a window or another block — including placements accepted
// earlier in the same proposal — is accepted anyway: the proposal is advice
// and is never silently discarded, so it merges carrying a conflict flag for
// the grid to show. The overlap is still recorded in Conflicts so the model
// can be asked to fix it. Rest violations neither reject nor retry; the
// student asked for advice, not a veto.
func (v *Validator) Validate(resp *Response) ValidationResult {
	result := ValidationResult{Valid: true}

	// Accepted placements join the peer set as they are approved, so the
	// proposal cannot overlap with itself.
	peers := make([]*block.TimeBlock, len(v.blocks))
	copy(peers, v.blocks)

	for _, st := range resp.ScheduledTasks {
		id, err := strconv.ParseInt(st.ID, 10, 64)
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{
				TaskID:  st.ID,
				Field:   "id",
				Message: fmt.Sprintf("'%s' is not a valid task id", st.ID),
			})
			continue
		}

		target := findBlock(v.blocks, id)
		if target == nil {
			result.Errors = append(result.Errors, ValidationError{
				TaskID:  st.ID,
				Field:   "id",
				Message: "no task with this id exists",
			})
			continue
		}

		if target.Completed {
			result.Errors = append(result.Errors, ValidationError{
				TaskID:  st.ID,
				Field:   "completed",
				Message: "task is already completed and must not be scheduled",
			})
			continue
		}

		start, err := ParseStartTime(st.StartTime)
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{
				TaskID:  st.ID,
				Field:   "startTime",
				Message: fmt.Sprintf("'%s' is not a valid ISO 8601 time", st.StartTime),
			})
			continue
		}

		candidate := target.Clone()
		candidate.SetStart(start)

		flags := conflict.Check(candidate, peers, v.windows, v.restMinutes)
		if flags.HasConflict() {
			what := "another task"
			if flags.WindowConflict {
				what = "an unavailable time window"
			}
			result.Conflicts = append(result.Conflicts, ValidationError{
				TaskID:  st.ID,
				Field:   "conflict",
				Message: fmt.Sprintf("placement at %s overlaps %s", st.StartTime, what),
			})
		}

		result.Accepted = append(result.Accepted, AcceptedPlacement{
			BlockID:    id,
			Start:      start,
			Reasoning:  st.Reasoning,
			Conflicted: flags.HasConflict(),
		})
		peers = append(peers, candidate)
	}

	result.Valid = len(result.Errors) == 0 && len(result.Conflicts) == 0
	return result
}

func findBlock(blocks []*block.TimeBlock, id int64) *block.TimeBlock {
	for _, b := range blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}
