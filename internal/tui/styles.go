package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/anagarval/minerva/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	// Title and headers
	TitleStyle          lipgloss.Style
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style
	TimeColumnStyle     lipgloss.Style

	// Grid cells
	EmptyCellStyle lipgloss.Style
	CursorStyle    lipgloss.Style
	WindowStyle    lipgloss.Style // Cells blocked by an availability window

	// Session preview and conflict flags
	PreviewStyle       lipgloss.Style
	ConflictStyle      lipgloss.Style
	RestViolationStyle lipgloss.Style

	// Footer
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style

	// Modal styles
	ModalStyle             lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalMetaStyle         lipgloss.Style
	ModalWarningStyle      lipgloss.Style
	ModalInputTextStyle    lipgloss.Style
	ModalPlaceholderStyle  lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style
	ModalHintStyle         lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{palette: p}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Background(p.Bg)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(p.Fg).
		Background(p.Bg)

	s.DayHeaderTodayStyle = s.DayHeaderStyle.
		Foreground(p.Accent)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.Bg).
		Width(timeColWidth)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.Bg)

	s.CursorStyle = lipgloss.NewStyle().
		Background(p.BgSelection).
		Foreground(p.Accent).
		Bold(true)

	s.WindowStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.BgHighlight)

	s.PreviewStyle = lipgloss.NewStyle().
		Background(p.Accent).
		Foreground(p.TextOnAccent).
		Bold(true)

	s.ConflictStyle = lipgloss.NewStyle().
		Background(p.Warning).
		Foreground(p.TextOnWarning).
		Bold(true)

	s.RestViolationStyle = lipgloss.NewStyle().
		Background(p.BgHighlight).
		Foreground(p.Warning).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(p.Warning).
		Background(p.Bg).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.Bg)

	modal := p.Modal

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.Border).
		Background(modal.Bg).
		Foreground(modal.Text).
		Padding(1, 2).
		Width(64)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalMetaStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalWarningStyle = lipgloss.NewStyle().
		Foreground(p.Warning).
		Background(modal.Bg).
		Bold(true)

	s.ModalInputTextStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalPlaceholderStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalButtonStyle = lipgloss.NewStyle().
		Background(modal.Panel).
		Foreground(modal.Text).
		Padding(0, 2)

	s.ModalButtonActiveStyle = lipgloss.NewStyle().
		Background(modal.Highlight).
		Foreground(modal.Text).
		Padding(0, 2).
		Underline(true)

	s.ModalHintStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	return s
}

// BlockStyle builds the cell style for a block from its subject color.
func (s *Styles) BlockStyle(colorHex string, completed bool) lipgloss.Style {
	bg := s.palette.BlockBg(colorHex)
	if completed {
		bg = s.palette.BlockMutedBg(colorHex)
	}
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(s.palette.TextOn(string(bg)))
}
