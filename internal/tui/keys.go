package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/dateutil"
	"github.com/anagarval/minerva/internal/grid"
	"github.com/anagarval/minerva/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeSession:
		return m.handleSessionKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation
	case "h", "left":
		if m.cursor.Day > 0 {
			m.cursor.Day--
		} else {
			m.weekStart = m.weekStart.AddDate(0, 0, -7)
			m.cursor.Day = 6
		}
	case "l", "right":
		if m.cursor.Day < 6 {
			m.cursor.Day++
		} else {
			m.weekStart = m.weekStart.AddDate(0, 0, 7)
			m.cursor.Day = 0
		}
	case "j", "down":
		if m.cursor.Row < m.visibleRows()-1 {
			m.cursor.Row++
		}
		m.ensureCursorVisible()
	case "k", "up":
		if m.cursor.Row > 0 {
			m.cursor.Row--
		}
		m.ensureCursorVisible()
	case "g":
		m.cursor.Row = 0
		m.ensureCursorVisible()
	case "G":
		m.cursor.Row = m.visibleRows() - 1
		m.ensureCursorVisible()

	// Week navigation
	case "H", "shift+left":
		m.weekStart = m.weekStart.AddDate(0, 0, -7)
	case "L", "shift+right":
		m.weekStart = m.weekStart.AddDate(0, 0, 7)
	case "t":
		now := m.nowFunc()
		m.weekStart = grid.WeekStart(now)
		m.cursor.Day = grid.DayIndex(now)
		m.ensureCursorVisible()

	case "enter":
		return m.handleEnter()

	// Begin a move session on the block under the cursor
	case "m":
		return m.beginSession(false)

	// Begin a resize session
	case "r":
		return m.beginSession(true)

	// Toggle completion
	case " ":
		b := m.blockUnderCursor()
		if b == nil {
			m.setStatus("No block here")
			return m, m.clearStatusLater()
		}
		toggled := b.Clone()
		toggled.Completed = !toggled.Completed
		return m, commands.UpdateBlock(m.repo, toggled)

	// Send back to the backlog
	case "u":
		b := m.blockUnderCursor()
		if b == nil {
			m.setStatus("No block here")
			return m, m.clearStatusLater()
		}
		cleared := b.Clone()
		cleared.ClearStart()
		m.setStatus(fmt.Sprintf("Unscheduled: %s", cleared.Title))
		return m, commands.UpdateBlock(m.repo, cleared)

	case "x":
		b := m.blockUnderCursor()
		if b == nil {
			return m, nil
		}
		m.mode = ModeModal
		m.modalType = ModalConfirmDelete
		m.detail = b
		m.confirmMessage = fmt.Sprintf("Delete block: %s?", b.Title)
		return m, nil

	// Auto-schedule the backlog
	case "p":
		if m.planning {
			return m, nil
		}
		if len(m.backlog()) == 0 {
			m.setStatus("Backlog is empty")
			return m, m.clearStatusLater()
		}
		m.planning = true
		m.setStatus("Planning...")
		requestID := m.planner.NextRequestID()
		return m, commands.Propose(m.planner, requestID, m.store.Blocks(), m.store.Windows())

	case "w":
		m.mode = ModeModal
		m.modalType = ModalWindows
		return m, nil

	// Copy the visible week agenda
	case "y":
		text := m.weekAgenda()
		if text == "" {
			m.setStatus("Nothing scheduled this week")
			return m, m.clearStatusLater()
		}
		if err := clipboard.WriteAll(text); err != nil {
			m.setStatus(fmt.Sprintf("Copy failed: %v", err))
			return m, m.clearStatusLater()
		}
		m.setStatus("Copied week agenda")
		return m, m.clearStatusLater()
	}

	return m, nil
}

// beginSession starts a keyboard-driven move or resize on the cursor block.
func (m Model) beginSession(resize bool) (tea.Model, tea.Cmd) {
	b := m.blockUnderCursor()
	if b == nil {
		m.setStatus("No block here")
		return m, m.clearStatusLater()
	}

	m.sessionX = pointerX(m.cursor.Day)
	m.sessionY = m.pointerY(m.cursor.Row)

	var err error
	if resize {
		err = m.session.BeginResize(b, m.sessionY, m.sessionGeometry())
	} else {
		err = m.session.BeginMove(b, m.sessionY, m.sessionGeometry())
	}
	if err != nil {
		m.setStatus(fmt.Sprintf("Error: %v", err))
		return m, m.clearStatusLater()
	}

	m.mode = ModeSession
	LogSession("begin", m.session.State().String(), b.ID, b.StartHour(), b.DurationMinutes)
	if resize {
		m.setStatus(fmt.Sprintf("Resizing: %s (j/k to adjust, Enter to confirm)", b.Title))
	} else {
		m.setStatus(fmt.Sprintf("Moving: %s (hjkl to move, Enter to confirm)", b.Title))
	}
	return m, nil
}

// handleSessionKeys drives an active move or resize session from the
// keyboard. A session has no abort: committing is the only way out, same as
// releasing the pointer.
func (m Model) handleSessionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		result, err := m.session.End()
		m.mode = ModeNormal
		if err != nil {
			m.setStatus(fmt.Sprintf("Error: %v", err))
			return m, m.clearStatusLater()
		}
		LogSession("commit", "idle", result.ID, result.StartHour(), result.DurationMinutes)
		m.followPreview(result)
		m.setStatus(fmt.Sprintf("Placed: %s", result.Title))
		return m, commands.UpdateBlock(m.repo, result)

	case "j", "down":
		m.sessionY += pixelsPerRow
		m.session.Update(m.sessionX, m.sessionY)
		return m, nil
	case "k", "up":
		m.sessionY -= pixelsPerRow
		m.session.Update(m.sessionX, m.sessionY)
		return m, nil
	case "h", "left":
		m.sessionX -= sessionDayWidth
		if m.sessionX < 0 {
			m.sessionX = 0
		}
		m.session.Update(m.sessionX, m.sessionY)
		return m, nil
	case "l", "right":
		m.sessionX += sessionDayWidth
		m.session.Update(m.sessionX, m.sessionY)
		return m, nil
	}

	return m, nil
}

// followPreview moves the cursor to where the block landed.
func (m *Model) followPreview(b *block.TimeBlock) {
	if b == nil || !b.IsScheduled() {
		return
	}
	m.cursor.Day = grid.DayIndex(*b.StartDateTime)
	row := m.hourRow(b.StartHour())
	if row >= 0 && row < m.visibleRows() {
		m.cursor.Row = row
	}
	m.ensureCursorVisible()
}

// handleModalKeys handles keys in modal mode.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalType {
	case ModalBlockForm:
		return m.handleBlockFormKeys(msg)
	case ModalBlockDetail:
		return m.handleBlockDetailKeys(msg)
	case ModalConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	case ModalPlanResult:
		return m.handlePlanResultKeys(msg)
	default:
		if msg.String() == "esc" || msg.String() == "enter" || msg.String() == "q" {
			m.mode = ModeNormal
			m.modalType = ModalNone
		}
	}
	return m, nil
}

// handleEnter opens the detail modal on a block, or the creation form on an
// empty slot.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	b := m.blockUnderCursor()
	if b != nil {
		m.mode = ModeModal
		m.modalType = ModalBlockDetail
		m.detail = b
		return m, nil
	}

	m.mode = ModeModal
	m.modalType = ModalBlockForm
	m.detail = nil
	m.formTitle.SetValue("")
	m.formSubject.SetValue("")
	m.formDuration = 1
	m.formFocus = 0
	m.formTitle.Focus()
	return m, textinput.Blink
}

// handleBlockFormKeys handles the block creation form.
func (m Model) handleBlockFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, nil

	case "tab", "shift+tab":
		delta := 1
		if msg.String() == "shift+tab" {
			delta = 2 // same as -1 mod 3
		}
		m.formFocus = (m.formFocus + delta) % 3
		m.formTitle.Blur()
		m.formSubject.Blur()
		switch m.formFocus {
		case 0:
			m.formTitle.Focus()
		case 1:
			m.formSubject.Focus()
		}
		return m, textinput.Blink

	case "enter":
		if m.formFocus < 2 {
			m.formFocus++
			m.formTitle.Blur()
			m.formSubject.Blur()
			if m.formFocus == 1 {
				m.formSubject.Focus()
			}
			return m, textinput.Blink
		}
		return m.saveBlockFromForm()

	case "left":
		if m.formFocus == 2 && m.formDuration > 0 {
			m.formDuration--
		}
		return m, nil
	case "right":
		if m.formFocus == 2 && m.formDuration < len(durationOptions)-1 {
			m.formDuration++
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.formFocus {
	case 0:
		m.formTitle, cmd = m.formTitle.Update(msg)
	case 1:
		m.formSubject, cmd = m.formSubject.Update(msg)
	}
	return m, cmd
}

// saveBlockFromForm creates a block at the cursor slot.
func (m Model) saveBlockFromForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.formTitle.Value())
	if title == "" {
		m.setStatus("Title is required")
		return m, m.clearStatusLater()
	}
	subject := strings.TrimSpace(m.formSubject.Value())
	if subject == "" {
		subject = "General"
	}

	b, err := block.New(subject, title, durationOptions[m.formDuration], 50, 50)
	if err != nil {
		m.setStatus(fmt.Sprintf("Error: %v", err))
		return m, m.clearStatusLater()
	}

	start := m.cursorDate().Add(time.Duration(m.rowHour(m.cursor.Row) * float64(time.Hour)))
	b.SetStart(start)

	m.closeModal()
	m.setStatus(fmt.Sprintf("Created: %s", title))
	return m, commands.CreateBlock(m.repo, b)
}

// handleBlockDetailKeys handles the block detail modal.
func (m Model) handleBlockDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.closeModal()
		return m, nil

	case " ":
		if m.detail == nil {
			return m, nil
		}
		toggled := m.detail.Clone()
		toggled.Completed = !toggled.Completed
		m.closeModal()
		return m, commands.UpdateBlock(m.repo, toggled)

	case "u":
		if m.detail == nil || !m.detail.IsScheduled() {
			return m, nil
		}
		cleared := m.detail.Clone()
		cleared.ClearStart()
		m.closeModal()
		return m, commands.UpdateBlock(m.repo, cleared)

	case "x":
		if m.detail == nil {
			return m, nil
		}
		m.modalType = ModalConfirmDelete
		m.confirmMessage = fmt.Sprintf("Delete block: %s?", m.detail.Title)
		return m, nil
	}
	return m, nil
}

// handleConfirmDeleteKeys handles the delete confirmation modal.
func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.modalType = ModalBlockDetail
		if m.detail == nil {
			m.closeModal()
		}
		return m, nil

	case "enter", "y":
		if m.detail == nil {
			m.closeModal()
			return m, nil
		}
		id := m.detail.ID
		title := m.detail.Title
		m.closeModal()
		m.setStatus(fmt.Sprintf("Deleted: %s", title))
		return m, commands.DeleteBlock(m.repo, id)
	}
	return m, nil
}

// handlePlanResultKeys handles the auto-schedule result modal.
func (m Model) handlePlanResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "c":
		m.proposal = nil
		m.closeModal()
		m.setStatus("Plan discarded")
		return m, m.clearStatusLater()

	case "enter", "a":
		if m.proposal == nil {
			m.closeModal()
			return m, nil
		}
		return m, commands.ApplyPlan(m.repo, m.planner, m.proposal, m.store.Blocks())
	}
	return m, nil
}

// closeModal resets modal state.
func (m *Model) closeModal() {
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.detail = nil
	m.confirmMessage = ""
	m.formTitle.Blur()
	m.formSubject.Blur()
}

// weekAgenda renders the visible week as plain text for the clipboard.
func (m Model) weekAgenda() string {
	var sb strings.Builder
	for day := 0; day < 7; day++ {
		date := m.weekStart.AddDate(0, 0, day)
		var lines []string
		for _, b := range m.store.Blocks() {
			if !b.OnDate(date) {
				continue
			}
			mark := " "
			if b.Completed {
				mark = "x"
			}
			lines = append(lines, fmt.Sprintf("  [%s] %s-%s %s (%s)",
				mark, dateutil.FormatClock(b.StartHour()), dateutil.FormatClock(b.EndHour()), b.Title, b.Subject))
		}
		if len(lines) == 0 {
			continue
		}
		sb.WriteString(date.Format("Mon Jan 2") + "\n")
		sb.WriteString(strings.Join(lines, "\n") + "\n")
	}
	return sb.String()
}
