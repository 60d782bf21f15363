package tui

import (
	"fmt"
	"strings"

	"KeybindScanner/internal"

	tea "github.com/charmbracelet/bubbletea"
)

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = msg.Width / 2
		m.DetailsViewport.Height = msg.Height - 6
		m.Settings.Width = msg.Width
		m.Settings.Height = msg.Height
		m.refreshDetails()
		return m, nil

	case MsgReportReady:
		m.Loading = false
		m.Report = msg
		m.ConflictSet = make(map[string]bool)
		for _, key := range m.Report.Conflicts() {
			m.ConflictSet[key] = true
		}
		m.applyFilter("")
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.SearchActive = m.InputBuffer.Value() != ""
				m.applyFilter(m.InputBuffer.Value())
				return m, nil
			case tea.KeyEsc:
				m.InputMode = false
				m.SearchActive = false
				m.InputBuffer.Blur()
				m.InputBuffer.SetValue("")
				m.applyFilter("")
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			// best effort; stale settings are not worth blocking exit
			_ = SaveSettings(m.SettingsPath, m.Settings)
			return m, tea.Quit
		case "esc":
			if m.SearchActive {
				m.SearchActive = false
				m.InputBuffer.SetValue("")
				m.applyFilter("")
			}
			return m, nil
		case "/":
			m.InputMode = true
			m.InputBuffer.Focus()
			return m, nil
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.refreshDetails()
			}
			return m, nil
		case "down", "j":
			if m.SelectedIdx < len(m.Keys)-1 {
				m.SelectedIdx++
				m.refreshDetails()
			}
			return m, nil
		case "g":
			m.SelectedIdx = 0
			m.refreshDetails()
			return m, nil
		case "G":
			if len(m.Keys) > 0 {
				m.SelectedIdx = len(m.Keys) - 1
				m.refreshDetails()
			}
			return m, nil
		case "c":
			// jump to the next conflicting key
			for off := 1; off <= len(m.Keys); off++ {
				idx := (m.SelectedIdx + off) % len(m.Keys)
				if m.ConflictSet[m.Keys[idx]] {
					m.SelectedIdx = idx
					m.refreshDetails()
					break
				}
			}
			return m, nil
		}
		m.DetailsViewport, cmd = m.DetailsViewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// applyFilter rebuilds the key list from the report, keeping only keys
// containing the filter substring (case-insensitive).
func (m *AppModel) applyFilter(filter string) {
	m.Keys = nil
	if m.Report == nil {
		return
	}
	needle := strings.ToLower(filter)
	for _, key := range m.Report.Keys() {
		if needle == "" || strings.Contains(strings.ToLower(key), needle) {
			m.Keys = append(m.Keys, key)
		}
	}
	m.SelectedIdx = 0
	m.refreshDetails()
}

// refreshDetails renders the matches of the selected key into the viewport.
func (m *AppModel) refreshDetails() {
	if m.Report == nil || m.SelectedIdx >= len(m.Keys) {
		m.DetailsViewport.SetContent("")
		return
	}
	key := m.Keys[m.SelectedIdx]
	var b strings.Builder
	for _, match := range m.Report.Aggregated[key] {
		fmt.Fprintf(&b, "%s\n  %s:%d\n  %s\n\n", match.ModName, match.FilePath, match.LineNumber, match.Context)
	}
	m.DetailsViewport.SetContent(b.String())
	m.DetailsViewport.GotoTop()
}

// matchesFor is a small helper for the view footer.
func (m AppModel) matchesFor(key string) []internal.Match {
	if m.Report == nil {
		return nil
	}
	return m.Report.Aggregated[key]
}
