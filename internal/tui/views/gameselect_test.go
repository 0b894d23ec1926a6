package views_test

import (
	"testing"

	"github.com/DonovanMods/pitlane/internal/domain"
	"github.com/DonovanMods/pitlane/internal/tui/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGames() []*domain.Game {
	return []*domain.Game{
		{ID: "f1_23", Name: "F1 23", ModsPath: "/mods/f1"},
		{ID: "gt7", Name: "Gran Turismo 7"},
	}
}

func TestGameSelect_InitialState(t *testing.T) {
	model := views.NewGameSelect(testGames(), nil)

	assert.Equal(t, 0, model.Selected())
	assert.Contains(t, model.View(), "Mods: /mods/f1")
}

func TestGameSelect_NavigateDown(t *testing.T) {
	model := views.NewGameSelect(testGames(), nil)

	newModel, _ := model.Update(tea.KeyMsg{Type: tea.KeyDown})
	updated := newModel.(views.GameSelect)

	assert.Equal(t, 1, updated.Selected())
}

func TestGameSelect_NavigateUp(t *testing.T) {
	model := views.NewGameSelect(testGames(), nil)

	// Move down first, then up
	newModel, _ := model.Update(tea.KeyMsg{Type: tea.KeyDown})
	newModel, _ = newModel.Update(tea.KeyMsg{Type: tea.KeyUp})
	updated := newModel.(views.GameSelect)

	assert.Equal(t, 0, updated.Selected())
}

func TestGameSelect_WrapAround(t *testing.T) {
	model := views.NewGameSelect(testGames(), nil)

	// Move up from first item should wrap to last
	newModel, _ := model.Update(tea.KeyMsg{Type: tea.KeyUp})
	updated := newModel.(views.GameSelect)

	assert.Equal(t, 1, updated.Selected())
}

func TestGameSelect_CustomNavigator(t *testing.T) {
	model := views.NewGameSelect(testGames(), vimKeys{})

	newModel, _ := model.Update(runes("j"))
	assert.Equal(t, 1, newModel.(views.GameSelect).Selected())

	// Arrow-only navigation ignores vim keys
	model = views.NewGameSelect(testGames(), nil)
	newModel, _ = model.Update(runes("j"))
	assert.Equal(t, 0, newModel.(views.GameSelect).Selected())
}

func TestGameSelect_EnterSelectsGame(t *testing.T) {
	model := views.NewGameSelect(testGames(), nil)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	selectedMsg, ok := cmd().(views.GameSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "f1_23", selectedMsg.Game.ID)
}

func TestGameSelect_EmptyList(t *testing.T) {
	model := views.NewGameSelect(nil, nil)

	view := model.View()
	assert.Contains(t, view, "No games configured")

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}
