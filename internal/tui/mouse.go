package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anagarval/minerva/internal/tui/commands"
)

// handleMouseMsg feeds pointer events into the interaction session.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeModal {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.scrollRow > 0 {
			m.scrollRow--
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if m.scrollRow < m.visibleRows()-m.gridHeight() {
			m.scrollRow++
		}
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.handleMousePress(msg.X, msg.Y)

	case tea.MouseActionMotion:
		if !m.session.Active() {
			return m, nil
		}
		day, row, ok := m.screenToCell(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.sessionX = pointerX(day)
		m.sessionY = m.pointerY(row)
		m.session.Update(m.sessionX, m.sessionY)
		return m, nil

	case tea.MouseActionRelease:
		if !m.session.Active() {
			return m, nil
		}
		result, err := m.session.End()
		m.mode = ModeNormal
		if err != nil {
			return m, nil
		}
		m.followPreview(result)
		m.setStatus(fmt.Sprintf("Placed: %s", result.Title))
		return m, commands.UpdateBlock(m.repo, result)
	}

	return m, nil
}

// handleMousePress moves the cursor and, on a block, starts a session.
// Pressing the last quarter-hour row of a block grabs its bottom edge and
// resizes; pressing anywhere else on it moves.
func (m Model) handleMousePress(x, y int) (tea.Model, tea.Cmd) {
	day, row, ok := m.screenToCell(x, y)
	if !ok {
		return m, nil
	}

	m.cursor = Position{Day: day, Row: row}

	b := m.blockAt(day, row)
	if b == nil {
		return m, nil
	}

	m.sessionX = pointerX(day)
	m.sessionY = m.pointerY(row)

	onBottomEdge := m.rowHour(row) == b.EndHour()-0.25
	var err error
	if onBottomEdge {
		err = m.session.BeginResize(b, m.sessionY, m.sessionGeometry())
	} else {
		err = m.session.BeginMove(b, m.sessionY, m.sessionGeometry())
	}
	if err != nil {
		return m, nil
	}

	m.mode = ModeSession
	return m, nil
}

// screenToCell translates terminal coordinates into a grid cell.
func (m Model) screenToCell(x, y int) (day, row int, ok bool) {
	row = y - headerLines + m.scrollRow
	if row < 0 {
		row = 0
	}
	if row >= m.visibleRows() {
		row = m.visibleRows() - 1
	}

	dx := x - timeColWidth
	if dx < 0 {
		return 0, 0, false
	}
	colWidth := m.colWidth
	if colWidth <= 0 {
		colWidth = defaultColWidth
	}
	day = dx / colWidth
	if day > 6 {
		day = 6
	}
	return day, row, true
}
