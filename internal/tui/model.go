package tui

import (
	"KeybindScanner/internal"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// AppModel holds the viewer state.
type AppModel struct {
	// Data
	Report  *internal.ScanReport
	Loading bool
	Err     error

	// UI state
	Keys        []string // key names currently listed (after filtering)
	ConflictSet map[string]bool
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg

	// Search state
	InputMode    bool
	InputBuffer  textinput.Model
	SearchActive bool

	// Components
	DetailsViewport viewport.Model

	// Persistence
	Settings     Settings
	SettingsPath string

	// Load is run once at startup and must deliver MsgReportReady or MsgError.
	Load tea.Cmd
}

// MsgReportReady carries the loaded or freshly scanned report.
type MsgReportReady *internal.ScanReport

// MsgError indicates that loading the report failed.
type MsgError error

// InitialModel returns the starting state; load runs asynchronously.
func InitialModel(settings Settings, settingsPath string, load tea.Cmd) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Key name..."
	ti.CharLimit = 60
	ti.Width = 24

	return AppModel{
		Loading:      true,
		InputBuffer:  ti,
		Settings:     settings,
		SettingsPath: settingsPath,
		Load:         load,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.Load
}
