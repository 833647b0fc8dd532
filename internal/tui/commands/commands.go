// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anagarval/minerva/internal/autoplan"
	"github.com/anagarval/minerva/internal/block"
)

// DataLoadedMsg is sent when blocks and windows are loaded from storage.
type DataLoadedMsg struct {
	Blocks  []*block.TimeBlock
	Windows []*block.AvailabilityWindow
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// PlanResultMsg is sent when auto-scheduling completes.
type PlanResultMsg struct {
	Proposal *autoplan.Proposal
}

// PlanAppliedMsg is sent when an accepted plan has been persisted.
type PlanAppliedMsg struct {
	Scheduled   int
	Unscheduled int
}

// LoadData loads all blocks and windows.
func LoadData(repo block.Repository) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		blocks, err := repo.ListBlocks(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		windows, err := repo.ListWindows(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}

		return DataLoadedMsg{Blocks: blocks, Windows: windows}
	}
}

// CreateBlock persists a new block and reloads.
func CreateBlock(repo block.Repository, b *block.TimeBlock) tea.Cmd {
	return func() tea.Msg {
		if err := repo.CreateBlock(context.Background(), b); err != nil {
			return ErrMsg{Err: fmt.Errorf("creating block: %w", err)}
		}
		return LoadData(repo)()
	}
}

// UpdateBlock persists block changes and reloads.
func UpdateBlock(repo block.Repository, b *block.TimeBlock) tea.Cmd {
	return func() tea.Msg {
		if err := repo.UpdateBlock(context.Background(), b); err != nil {
			return ErrMsg{Err: fmt.Errorf("updating block: %w", err)}
		}
		return LoadData(repo)()
	}
}

// DeleteBlock removes a block and reloads.
func DeleteBlock(repo block.Repository, id int64) tea.Cmd {
	return func() tea.Msg {
		if err := repo.DeleteBlock(context.Background(), id); err != nil {
			return ErrMsg{Err: fmt.Errorf("deleting block: %w", err)}
		}
		return LoadData(repo)()
	}
}

// Propose runs the auto-scheduler in the background. The request id was
// issued before the command started; a proposal carrying an older id is
// refused at apply time, so a slow response cannot clobber newer state.
func Propose(planner *autoplan.Planner, requestID int64, blocks []*block.TimeBlock, windows []*block.AvailabilityWindow) tea.Cmd {
	return func() tea.Msg {
		proposal, err := planner.Propose(context.Background(), requestID, blocks, windows, time.Now())
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("planning: %w", err)}
		}
		return PlanResultMsg{Proposal: proposal}
	}
}

// ApplyPlan merges an accepted proposal into the given blocks and persists
// the result atomically.
func ApplyPlan(repo block.Repository, planner *autoplan.Planner, proposal *autoplan.Proposal, blocks []*block.TimeBlock) tea.Cmd {
	return func() tea.Msg {
		merged, err := planner.Apply(proposal, blocks)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("applying plan: %w", err)}
		}
		if err := repo.ReplaceBlocks(context.Background(), merged); err != nil {
			return ErrMsg{Err: fmt.Errorf("saving plan: %w", err)}
		}
		return PlanAppliedMsg{
			Scheduled:   len(proposal.Accepted),
			Unscheduled: len(proposal.Unscheduled),
		}
	}
}
