package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/conflict"
	"github.com/anagarval/minerva/internal/dateutil"
)

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 || m.loading {
		return "Loading..."
	}

	var sb strings.Builder
	sb.WriteString(m.renderTitle())
	sb.WriteString("\n")
	sb.WriteString(m.renderDayHeaders())
	sb.WriteString("\n")
	sb.WriteString(m.renderGrid())
	sb.WriteString(m.renderFooter())

	if m.mode == ModeModal {
		return m.renderModal()
	}
	return sb.String()
}

func (m Model) renderTitle() string {
	title := fmt.Sprintf("minerva · week of %s", m.weekStart.Format("Jan 2, 2006"))
	if n := len(m.backlog()); n > 0 {
		title += fmt.Sprintf("  ·  backlog: %d", n)
	}
	if m.planning {
		title += "  ·  planning..."
	}
	return m.styles.TitleStyle.Render(title)
}

func (m Model) renderDayHeaders() string {
	var cols []string
	cols = append(cols, m.styles.TimeColumnStyle.Render(""))
	today := m.nowFunc()
	for day := 0; day < 7; day++ {
		date := m.weekStart.AddDate(0, 0, day)
		label := date.Format("Mon 2")
		style := m.styles.DayHeaderStyle.Width(m.colWidth)
		if date.Year() == today.Year() && date.YearDay() == today.YearDay() {
			style = m.styles.DayHeaderTodayStyle.Width(m.colWidth)
		}
		cols = append(cols, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) renderGrid() string {
	preview := m.session.Preview()
	var previewFlags conflict.Flags
	if preview != nil {
		previewFlags = conflict.Check(preview, m.store.Blocks(), m.store.Windows(), m.config.Schedule.PreferredRestMinutes)
	}
	committed := m.blockFlags()

	var sb strings.Builder
	end := m.scrollRow + m.gridHeight()
	for row := m.scrollRow; row < end; row++ {
		sb.WriteString(m.renderTimeLabel(row))
		for day := 0; day < 7; day++ {
			sb.WriteString(m.renderCell(day, row, preview, previewFlags, committed))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// blockFlags re-evaluates every scheduled block against the committed block
// and window lists, so a conflicting placement is flagged however it got
// there: a committed drag, an accepted proposal, or an edit elsewhere.
func (m Model) blockFlags() map[int64]conflict.Flags {
	blocks := m.store.Blocks()
	windows := m.store.Windows()
	flags := make(map[int64]conflict.Flags, len(blocks))
	for _, b := range blocks {
		if !b.IsScheduled() {
			continue
		}
		flags[b.ID] = conflict.Check(b, blocks, windows, m.config.Schedule.PreferredRestMinutes)
	}
	return flags
}

// previewStyleFor styles the active preview. Conflict outranks the rest
// warning; it is the condition that must be fixed.
func (m Model) previewStyleFor(f conflict.Flags) lipgloss.Style {
	switch {
	case f.HasConflict():
		return m.styles.ConflictStyle
	case f.RestViolation:
		return m.styles.RestViolationStyle
	default:
		return m.styles.PreviewStyle
	}
}

// blockStyleFor styles a committed block, same precedence as the preview.
func (m Model) blockStyleFor(b *block.TimeBlock, f conflict.Flags) lipgloss.Style {
	switch {
	case f.HasConflict():
		return m.styles.ConflictStyle
	case f.RestViolation:
		return m.styles.RestViolationStyle
	default:
		return m.styles.BlockStyle(b.Color, b.Completed)
	}
}

// renderTimeLabel labels full hours; quarter rows stay blank.
func (m Model) renderTimeLabel(row int) string {
	if row%rowsPerHour == 0 {
		return m.styles.TimeColumnStyle.Render(dateutil.FormatClock(m.rowHour(row)))
	}
	return m.styles.TimeColumnStyle.Render("")
}

func (m Model) renderCell(day, row int, preview *block.TimeBlock, previewFlags conflict.Flags, committed map[int64]conflict.Flags) string {
	date := m.weekStart.AddDate(0, 0, day)
	hour := m.rowHour(row)
	isCursor := m.mode == ModeNormal && m.cursor.Day == day && m.cursor.Row == row

	// The preview clone paints over everything while a session is active.
	if preview != nil && preview.OnDate(date) && hour >= preview.StartHour() && hour < preview.EndHour() {
		return m.previewStyleFor(previewFlags).Width(m.colWidth).Render(m.cellText(preview, hour))
	}

	b := m.blockAt(day, row)
	if b != nil && b.ID != m.session.ActiveID() {
		style := m.blockStyleFor(b, committed[b.ID])
		if isCursor {
			style = style.Bold(true).Underline(true)
		}
		return style.Width(m.colWidth).Render(m.cellText(b, hour))
	}

	if isCursor {
		return m.styles.CursorStyle.Width(m.colWidth).Render("")
	}

	if m.windowCovering(day, hour) != nil {
		return m.styles.WindowStyle.Width(m.colWidth).Render("")
	}

	return m.styles.EmptyCellStyle.Width(m.colWidth).Render("")
}

// cellText puts the title on a block's first row and the subject on its
// second; further rows stay blank.
func (m Model) cellText(b *block.TimeBlock, hour float64) string {
	offset := int((hour - b.StartHour()) * rowsPerHour)
	switch offset {
	case 0:
		text := b.Title
		if b.Completed {
			text = "✓ " + text
		}
		if b.Pinned {
			text = "• " + text
		}
		return ansi.Truncate(text, m.colWidth-1, "…")
	case 1:
		return ansi.Truncate(" "+b.Subject, m.colWidth-1, "…")
	default:
		return ""
	}
}

// windowCovering returns the availability window blocking the given cell.
func (m Model) windowCovering(day int, hour float64) *block.AvailabilityWindow {
	for _, w := range m.store.Windows() {
		if !w.ActiveOn(day) {
			continue
		}
		for _, r := range w.Ranges() {
			if hour >= r.Start && hour < r.End {
				return w
			}
		}
	}
	return nil
}

func (m Model) renderFooter() string {
	var help string
	switch m.mode {
	case ModeSession:
		help = "hjkl adjust · enter confirm"
	default:
		help = "hjkl move · enter open · m move · r resize · space done · p plan · w windows · y copy · q quit"
	}

	line := m.styles.HelpStyle.Render(help)
	if m.statusMsg != "" {
		line += "\n" + m.styles.StatusStyle.Render(m.statusMsg)
	} else {
		line += "\n"
	}
	return line
}

// renderModal renders the active modal centered on a blank backdrop.
func (m Model) renderModal() string {
	var content string
	switch m.modalType {
	case ModalBlockForm:
		content = m.renderBlockForm()
	case ModalBlockDetail:
		content = m.renderBlockDetail()
	case ModalConfirmDelete:
		content = m.renderConfirmDelete()
	case ModalPlanResult:
		content = m.renderPlanResult()
	case ModalWindows:
		content = m.renderWindows()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderBlockForm() string {
	var sb strings.Builder
	sb.WriteString(m.styles.ModalTitleStyle.Render("New block"))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.ModalBodyStyle.Render("Title:   ") + m.formTitle.View())
	sb.WriteString("\n")
	sb.WriteString(m.styles.ModalBodyStyle.Render("Subject: ") + m.formSubject.View())
	sb.WriteString("\n\n")

	sb.WriteString(m.styles.ModalBodyStyle.Render("Duration: "))
	for i, d := range durationOptions {
		style := m.styles.ModalButtonStyle
		if i == m.formDuration {
			style = m.styles.ModalButtonActiveStyle
		}
		sb.WriteString(style.Render(fmt.Sprintf("%dm", d)) + " ")
	}
	sb.WriteString("\n\n")

	slot := fmt.Sprintf("%s at %s", m.cursorDate().Format("Mon Jan 2"), dateutil.FormatClock(m.rowHour(m.cursor.Row)))
	sb.WriteString(m.styles.ModalMetaStyle.Render(slot))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.ModalHintStyle.Render("tab next · enter save · esc cancel"))

	return m.styles.ModalStyle.Render(sb.String())
}

func (m Model) renderBlockDetail() string {
	b := m.detail
	if b == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.styles.ModalTitleStyle.Render(b.Title))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.ModalBodyStyle.Render(fmt.Sprintf("Subject:    %s", b.Subject)))
	sb.WriteString("\n")
	sb.WriteString(m.styles.ModalBodyStyle.Render(fmt.Sprintf("Duration:   %dm", b.DurationMinutes)))
	sb.WriteString("\n")
	if b.IsScheduled() {
		sb.WriteString(m.styles.ModalBodyStyle.Render(fmt.Sprintf("Scheduled:  %s %s-%s",
			b.StartDateTime.Format("Mon Jan 2"), dateutil.FormatClock(b.StartHour()), dateutil.FormatClock(b.EndHour()))))
	} else {
		sb.WriteString(m.styles.ModalMetaStyle.Render("Scheduled:  backlog"))
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.ModalBodyStyle.Render(fmt.Sprintf("Importance: %d · Difficulty: %d", b.Importance, b.Difficulty)))
	sb.WriteString("\n")

	var marks []string
	if b.Pinned {
		marks = append(marks, "pinned")
	}
	if b.Completed {
		marks = append(marks, "completed")
	}
	if len(marks) > 0 {
		sb.WriteString(m.styles.ModalMetaStyle.Render(strings.Join(marks, " · ")))
		sb.WriteString("\n")
	}
	if b.Notes != "" {
		sb.WriteString("\n")
		sb.WriteString(m.styles.ModalMetaStyle.Render(b.Notes))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.ModalHintStyle.Render("space toggle done · u unschedule · x delete · esc close"))
	return m.styles.ModalStyle.Render(sb.String())
}

func (m Model) renderConfirmDelete() string {
	var sb strings.Builder
	sb.WriteString(m.styles.ModalWarningStyle.Render(m.confirmMessage))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.ModalHintStyle.Render("y confirm · n cancel"))
	return m.styles.ModalStyle.Render(sb.String())
}

func (m Model) renderPlanResult() string {
	p := m.proposal
	if p == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.styles.ModalTitleStyle.Render("Auto-schedule proposal"))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.ModalBodyStyle.Render(fmt.Sprintf("Placed %d blocks, %d unplaced · %.1fh of study this week",
		p.Insights.TotalScheduled, p.Insights.TotalUnscheduled, p.Insights.WeeklyStudyHours)))
	sb.WriteString("\n")

	for _, a := range p.Accepted {
		title := fmt.Sprintf("#%d", a.BlockID)
		if b := m.store.Find(a.BlockID); b != nil {
			title = b.Title
		}
		line := fmt.Sprintf("  + %s → %s", title, a.Start.Format("Mon 15:04"))
		style := m.styles.ModalBodyStyle
		if a.Conflicted {
			line += "  (conflicts)"
			style = m.styles.ModalWarningStyle
		}
		sb.WriteString(style.Render(line))
		sb.WriteString("\n")
	}

	for _, u := range p.Unscheduled {
		title := "#" + u.ID
		if id, err := strconv.ParseInt(u.ID, 10, 64); err == nil {
			if b := m.store.Find(id); b != nil {
				title = b.Title
			}
		}
		sb.WriteString(m.styles.ModalWarningStyle.Render(fmt.Sprintf("  ! %s: %s", title, u.Reason)))
		sb.WriteString("\n")
		for _, s := range u.Suggestions {
			sb.WriteString(m.styles.ModalMetaStyle.Render("      · " + s))
			sb.WriteString("\n")
		}
	}

	if len(p.Insights.Recommendations) > 0 {
		sb.WriteString("\n")
		for _, r := range p.Insights.Recommendations {
			sb.WriteString(m.styles.ModalMetaStyle.Render("  " + r))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.ModalHintStyle.Render("a apply · esc discard"))
	return m.styles.ModalStyle.Render(sb.String())
}

func (m Model) renderWindows() string {
	var sb strings.Builder
	sb.WriteString(m.styles.ModalTitleStyle.Render("Availability windows"))
	sb.WriteString("\n\n")

	windows := m.store.Windows()
	if len(windows) == 0 {
		sb.WriteString(m.styles.ModalMetaStyle.Render("No windows defined. Add one with: minerva windows add"))
		sb.WriteString("\n")
	}
	for _, w := range windows {
		days := make([]string, 0, len(w.Days))
		for _, d := range w.Days {
			days = append(days, dayNames[d])
		}
		line := fmt.Sprintf("%-12s %s-%s  %s", w.Label,
			dateutil.FormatClock(w.StartHour), dateutil.FormatClock(w.EndHour), strings.Join(days, ","))
		sb.WriteString(m.styles.ModalBodyStyle.Render(line))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.ModalHintStyle.Render("esc close"))
	return m.styles.ModalStyle.Render(sb.String())
}

var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
