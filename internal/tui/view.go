package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F87AF")).
			Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(lipgloss.Color("205"))

	unselectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(4).
				Foreground(lipgloss.Color("250"))

	conflictStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	detailStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63"))
)

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Loading keybind report... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}
	if m.Report == nil || len(m.Report.Aggregated) == 0 {
		return "\n  No keybinds in report. (q to quit)\n"
	}

	width := m.WindowSize.Width
	height := m.WindowSize.Height
	if width < 40 {
		width = 80
	}
	if height < 10 {
		height = 24
	}

	listHeight := height - 6
	listWidth := width / 2

	header := titleStyle.Render("Keybind Scanner") + dimStyle.Render(
		fmt.Sprintf("  %d matches, %d keys, %d conflicts",
			m.Report.TotalMatches, len(m.Report.Aggregated), len(m.ConflictSet)))

	// key list window around the selection
	start := 0
	if m.SelectedIdx >= listHeight {
		start = m.SelectedIdx - listHeight + 1
	}
	var list strings.Builder
	for i := start; i < len(m.Keys) && i-start < listHeight; i++ {
		key := m.Keys[i]
		label := fmt.Sprintf("%s (%d)", key, len(m.matchesFor(key)))
		if m.ConflictSet[key] {
			label = conflictStyle.Render(label + " !")
		}
		if i == m.SelectedIdx {
			list.WriteString(selectedItemStyle.Render("> "+label) + "\n")
		} else {
			list.WriteString(unselectedItemStyle.Render(label) + "\n")
		}
	}

	left := lipgloss.NewStyle().Width(listWidth).Height(listHeight).Render(list.String())
	right := detailStyle.Render(m.DetailsViewport.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	footer := dimStyle.Render("  ↑/↓ select · / search · c next conflict · q quit")
	if m.InputMode {
		footer = "  Search: " + m.InputBuffer.View()
	} else if m.SearchActive {
		footer = dimStyle.Render(fmt.Sprintf("  filter: %q (esc to clear)", m.InputBuffer.Value()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
