package views

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Navigator decides which keys move the cursor. The app's KeyMap satisfies it.
type Navigator interface {
	IsUp(msg tea.KeyMsg) bool
	IsDown(msg tea.KeyMsg) bool
	IsHome(msg tea.KeyMsg) bool
	IsEnd(msg tea.KeyMsg) bool
}

type arrowKeys struct{}

func (arrowKeys) IsUp(msg tea.KeyMsg) bool { return msg.Type == tea.KeyUp }
func (arrowKeys) IsDown(msg tea.KeyMsg) bool { return msg.Type == tea.KeyDown }
func (arrowKeys) IsHome(msg tea.KeyMsg) bool { return msg.Type == tea.KeyHome }
func (arrowKeys) IsEnd(msg tea.KeyMsg) bool { return msg.Type == tea.KeyEnd }

func navOrDefault(nav Navigator) Navigator {
	if nav == nil {
		return arrowKeys{}
	}
	return nav
}

// moveCursor applies a navigation key to a wrapping cursor over n items.
// The second result is false when msg is not a navigation key.
func moveCursor(nav Navigator, msg tea.KeyMsg, selected, n int) (int, bool) {
	if n == 0 {
		return 0, false
	}
	switch {
	case nav.IsUp(msg):
		selected--
		if selected < 0 {
			selected = n - 1
		}
	case nav.IsDown(msg):
		selected++
		if selected >= n {
			selected = 0
		}
	case nav.IsHome(msg):
		selected = 0
	case nav.IsEnd(msg):
		selected = n - 1
	default:
		return selected, false
	}
	return selected, true
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("69")).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("205")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("241"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingLeft(4)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)
