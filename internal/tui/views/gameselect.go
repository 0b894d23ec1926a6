package views

import (
	"fmt"

	"github.com/DonovanMods/pitlane/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
)

// GameSelectedMsg is sent when a game is selected
type GameSelectedMsg struct {
	Game *domain.Game
}

// GameSelect is the game selection view model
type GameSelect struct {
	games    []*domain.Game
	nav      Navigator
	selected int
	width    int
	height   int
}

// NewGameSelect creates a new game selection view
func NewGameSelect(games []*domain.Game, nav Navigator) GameSelect {
	return GameSelect{
		games:  games,
		nav:    navOrDefault(nav),
		width:  80,
		height: 24,
	}
}

// Selected returns the currently selected index
func (g GameSelect) Selected() int {
	return g.selected
}

// SelectedGame returns the currently selected game
func (g GameSelect) SelectedGame() *domain.Game {
	if len(g.games) == 0 || g.selected >= len(g.games) {
		return nil
	}
	return g.games[g.selected]
}

// Init implements tea.Model
func (g GameSelect) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (g GameSelect) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return g.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
		return g, nil
	}

	return g, nil
}

func (g GameSelect) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(g.games) == 0 {
		return g, nil
	}

	if sel, ok := moveCursor(g.nav, msg, g.selected, len(g.games)); ok {
		g.selected = sel
		return g, nil
	}

	switch msg.String() {
	case "enter", " ":
		game := g.SelectedGame()
		if game != nil {
			return g, func() tea.Msg {
				return GameSelectedMsg{Game: game}
			}
		}
	}

	return g, nil
}

// View implements tea.Model
func (g GameSelect) View() string {
	if len(g.games) == 0 {
		return g.renderEmpty()
	}

	output := titleStyle.Render("Select a Game") + "\n\n"

	for i, game := range g.games {
		cursor := "  "
		style := itemStyle

		if i == g.selected {
			cursor = "▸ "
			style = selectedStyle
		}

		output += style.Render(fmt.Sprintf("%s%s", cursor, game.Name)) + "\n"

		// Show details for selected game
		if i == g.selected {
			output += detailStyle.Render(fmt.Sprintf("ID: %s", game.ID)) + "\n"
			if game.InstallPath != "" {
				output += detailStyle.Render(fmt.Sprintf("Path: %s", game.InstallPath)) + "\n"
			}
			if game.ModsPath != "" {
				output += detailStyle.Render(fmt.Sprintf("Mods: %s", game.ModsPath)) + "\n"
			}
			output += "\n"
		}
	}

	output += helpStyle.Render("↑/↓: navigate  enter: select")

	return output
}

func (g GameSelect) renderEmpty() string {
	return infoStyle.Render(`No games configured.

Add a game with:
  pitlane game add <id> --name "Game Name" --install /path/to/game --mods /path/to/mods

Example:
  pitlane game add f1_23 \
    --name "F1 23" \
    --install "/home/user/.steam/steam/steamapps/common/F1 23" \
    --mods "/home/user/Games/F1 23 Mods"
`)
}
