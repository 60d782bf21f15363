package tui

import (
	"testing"

	"KeybindScanner/internal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedModel(t *testing.T) AppModel {
	t.Helper()
	report := internal.Aggregate([]internal.Match{
		{KeyName: "Key_A", ModName: "One"},
		{KeyName: "Key_B", ModName: "One"},
		{KeyName: "Key_B", ModName: "Two"},
		{KeyName: "Key_C", ModName: "Two"},
	}, nil, 1)

	m := InitialModel(DefaultSettings(), "", nil)
	updated, _ := m.Update(MsgReportReady(report))
	return updated.(AppModel)
}

func TestUpdate_ReportReady(t *testing.T) {
	m := loadedModel(t)
	assert.False(t, m.Loading)
	assert.Equal(t, []string{"Key_A", "Key_B", "Key_C"}, m.Keys)
	assert.True(t, m.ConflictSet["Key_B"])
	assert.False(t, m.ConflictSet["Key_A"])
}

func TestUpdate_Navigation(t *testing.T) {
	m := loadedModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = updated.(AppModel)
	assert.Equal(t, 1, m.SelectedIdx)

	// "c" jumps to the next conflicting key, wrapping around
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = updated.(AppModel)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = updated.(AppModel)
	assert.Equal(t, "Key_B", m.Keys[m.SelectedIdx])
}

func TestUpdate_Filter(t *testing.T) {
	m := loadedModel(t)
	m.applyFilter("key_b")
	require.Equal(t, []string{"Key_B"}, m.Keys)
	m.applyFilter("")
	require.Len(t, m.Keys, 3)
}
