package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anagarval/minerva/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		LogKeyPress(msg)
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.colWidth = m.calculateColWidth()
		m.ensureCursorVisible()
		return m, nil

	case commands.DataLoadedMsg:
		m.store.ReplaceBlocks(msg.Blocks)
		m.store.ReplaceWindows(msg.Windows)
		m.loading = false
		return m, nil

	case commands.ErrMsg:
		LogError("command", msg.Err)
		m.err = msg.Err
		m.planning = false
		m.setStatus(fmt.Sprintf("Error: %v", msg.Err))
		return m, m.clearStatusLater()

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil

	case commands.PlanResultMsg:
		LogPlan("result", msg.Proposal.RequestID, len(msg.Proposal.Accepted), len(msg.Proposal.Unscheduled))
		m.planning = false
		m.proposal = msg.Proposal
		m.mode = ModeModal
		m.modalType = ModalPlanResult
		m.statusMsg = ""
		return m, nil

	case commands.PlanAppliedMsg:
		m.proposal = nil
		m.mode = ModeNormal
		m.modalType = ModalNone
		if msg.Unscheduled > 0 {
			m.setStatus(fmt.Sprintf("Scheduled %d blocks, %d left in the backlog", msg.Scheduled, msg.Unscheduled))
		} else {
			m.setStatus(fmt.Sprintf("Scheduled %d blocks", msg.Scheduled))
		}
		return m, tea.Batch(commands.LoadData(m.repo), m.clearStatusLater())
	}

	return m, nil
}

// clearStatusLater schedules the status line to be wiped.
func (m Model) clearStatusLater() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// calculateColWidth splits the terminal width across the seven day columns.
func (m Model) calculateColWidth() int {
	if m.width <= 0 {
		return defaultColWidth
	}
	w := (m.width - timeColWidth) / 7
	if w < 8 {
		w = 8
	}
	if w > 24 {
		w = 24
	}
	return w
}
