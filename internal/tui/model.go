// Package tui provides the terminal user interface for minerva.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/anagarval/minerva/internal/autoplan"
	"github.com/anagarval/minerva/internal/block"
	"github.com/anagarval/minerva/internal/config"
	"github.com/anagarval/minerva/internal/grid"
	"github.com/anagarval/minerva/internal/llm"
	"github.com/anagarval/minerva/internal/session"
	"github.com/anagarval/minerva/internal/tui/commands"
	"github.com/anagarval/minerva/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal  Mode = iota
	ModeSession      // A move or resize session is active on the grid
	ModeModal
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalBlockForm
	ModalBlockDetail
	ModalConfirmDelete
	ModalPlanResult
	ModalWindows
)

// Duration options for the block form.
var durationOptions = []int{30, 60, 90}

// Position is a cursor position on the week grid.
type Position struct {
	Day int // 0=Monday, 6=Sunday
	Row int // Quarter-hour row index, 0 = DayStart
}

const (
	timeColWidth    = 6
	defaultColWidth = 16
	headerLines     = 2 // title line + day header line

	// sessionDayWidth is the horizontal pixel span handed to the
	// interaction controller for one day column. Terminal cells are
	// translated into this space before reaching the controller.
	sessionDayWidth = 100.0
)

// rowsPerHour is fixed: the grid renders quarter-hour rows.
const rowsPerHour = 4

// pixelsPerRow converts one grid row into controller pixel space.
const pixelsPerRow = grid.PixelsPerHour / rowsPerHour

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo   block.Repository
	config *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Owned scheduling state. The store is the single source of truth for
	// what the grid shows; storage is synced through explicit commands.
	store *block.Store

	// Pointer session state machine. sessionX/sessionY track the pointer in
	// controller pixel space while a session is active.
	session  *session.Controller
	sessionX float64
	sessionY float64

	// Auto-scheduler
	planner  *autoplan.Planner
	proposal *autoplan.Proposal
	planning bool

	// State
	weekStart time.Time // Monday of the visible week
	cursor    Position
	mode      Mode
	loading   bool

	// Modal state
	modalType      ModalType
	detail         *block.TimeBlock // Block shown in the detail modal
	confirmMessage string
	formTitle      textinput.Model
	formSubject    textinput.Model
	formDuration   int // Index into durationOptions
	formFocus      int // 0=title, 1=subject, 2=duration

	// Terminal dimensions and layout
	width     int
	height    int
	colWidth  int
	scrollRow int

	// Messages
	statusMsg  string
	statusTime time.Time

	err error

	nowFunc func() time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) ModelOption {
	return func(m *Model) { m.nowFunc = now }
}

// New creates a new TUI model.
func New(repo block.Repository, cfg *config.Config, opts ...ModelOption) *Model {
	formTitle := textinput.New()
	formTitle.Placeholder = "Block title"
	formTitle.CharLimit = 256
	formTitle.Width = 40

	formSubject := textinput.New()
	formSubject.Placeholder = "Subject"
	formSubject.CharLimit = 64
	formSubject.Width = 40

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	formTitle.PlaceholderStyle = styles.ModalPlaceholderStyle
	formTitle.TextStyle = styles.ModalInputTextStyle
	formTitle.PromptStyle = styles.ModalInputTextStyle
	formSubject.PlaceholderStyle = styles.ModalPlaceholderStyle
	formSubject.TextStyle = styles.ModalInputTextStyle
	formSubject.PromptStyle = styles.ModalInputTextStyle

	var client llm.Client
	if cfg.HasLLM() {
		client, err = llm.NewClient(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.APIKeyEnv)
		if err != nil {
			// Fall back to the local first-fit planner.
			client = nil
		}
	}
	planner := autoplan.New(client, autoplan.Options{
		MaxStudyHoursPerDay: cfg.Schedule.MaxStudyHoursPerDay,
		PreferredRestMin:    cfg.Schedule.PreferredRestMinutes,
		SubjectPreferences:  cfg.Schedule.SubjectPreferences,
	})

	m := &Model{
		repo:         repo,
		config:       cfg,
		theme:        t,
		styles:       styles,
		store:        block.NewStore(),
		session:      session.NewController(),
		planner:      planner,
		weekStart:    grid.WeekStart(time.Now()),
		cursor:       Position{Day: grid.DayIndex(time.Now())},
		mode:         ModeNormal,
		formTitle:    formTitle,
		formSubject:  formSubject,
		formDuration: 1, // 60 min
		colWidth:     defaultColWidth,
		loading:      true,
		nowFunc:      time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return commands.LoadData(m.repo)
}

// Run starts the TUI.
func Run(repo block.Repository, cfg *config.Config) error {
	return RunWithDebug(repo, cfg, false)
}

// RunWithDebug starts the TUI with optional event logging to a file.
func RunWithDebug(repo block.Repository, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	model := New(repo, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// visibleRows returns how many quarter-hour rows the grid spans.
func (m Model) visibleRows() int {
	return (m.config.Schedule.DayEnd - m.config.Schedule.DayStart) * rowsPerHour
}

// rowHour converts a grid row into the fractional hour it represents.
func (m Model) rowHour(row int) float64 {
	return float64(m.config.Schedule.DayStart) + float64(row)/rowsPerHour
}

// hourRow converts a fractional hour into its grid row, which may be
// negative or past the end for hours outside the visible span.
func (m Model) hourRow(hour float64) int {
	return int((hour - float64(m.config.Schedule.DayStart)) * rowsPerHour)
}

// cursorDate returns the calendar date under the cursor.
func (m Model) cursorDate() time.Time {
	return grid.DayDate(m.weekStart, m.cursor.Day)
}

// blockAt returns the scheduled block covering the given grid cell, or nil.
func (m Model) blockAt(day, row int) *block.TimeBlock {
	date := grid.DayDate(m.weekStart, day)
	hour := m.rowHour(row)
	for _, b := range m.store.Blocks() {
		if !b.OnDate(date) {
			continue
		}
		if hour >= b.StartHour() && hour < b.EndHour() {
			return b
		}
	}
	return nil
}

// blockUnderCursor returns the block at the cursor position, or nil.
func (m Model) blockUnderCursor() *block.TimeBlock {
	return m.blockAt(m.cursor.Day, m.cursor.Row)
}

// backlog returns blocks that are neither scheduled nor completed.
func (m Model) backlog() []*block.TimeBlock {
	var out []*block.TimeBlock
	for _, b := range m.store.Blocks() {
		if !b.IsScheduled() && !b.Completed {
			out = append(out, b)
		}
	}
	return out
}

// sessionGeometry fixes the controller coordinate space for one session.
func (m Model) sessionGeometry() session.Geometry {
	return session.Geometry{
		WeekStart: m.weekStart,
		DayWidth:  sessionDayWidth,
		Days:      7,
	}
}

// pointerY maps a grid row to controller pixel space.
func (m Model) pointerY(row int) float64 {
	return m.rowHour(row) * grid.PixelsPerHour
}

// pointerX maps a day column to controller pixel space, centered in the
// column so rounding cannot bleed into a neighbor.
func pointerX(day int) float64 {
	return (float64(day) + 0.5) * sessionDayWidth
}

// setStatus shows a transient status message.
func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTime = time.Now().Add(4 * time.Second)
}

// ensureCursorVisible scrolls the grid so the cursor row is on screen.
func (m *Model) ensureCursorVisible() {
	visible := m.gridHeight()
	if visible <= 0 {
		return
	}
	if m.cursor.Row < m.scrollRow {
		m.scrollRow = m.cursor.Row
	}
	if m.cursor.Row >= m.scrollRow+visible {
		m.scrollRow = m.cursor.Row - visible + 1
	}
}

// gridHeight returns how many grid rows fit in the terminal.
func (m Model) gridHeight() int {
	h := m.height - headerLines - 2 // footer + status line
	if h < 1 {
		h = 1
	}
	if h > m.visibleRows() {
		h = m.visibleRows()
	}
	return h
}
