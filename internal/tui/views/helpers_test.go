package views_test

import (
	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

// vimKeys navigates with j/k like the app's vim keymap
type vimKeys struct{}

func (vimKeys) IsUp(msg tea.KeyMsg) bool { return msg.String() == "k" || msg.Type == tea.KeyUp }
func (vimKeys) IsDown(msg tea.KeyMsg) bool { return msg.String() == "j" || msg.Type == tea.KeyDown }
func (vimKeys) IsHome(msg tea.KeyMsg) bool { return msg.String() == "g" }
func (vimKeys) IsEnd(msg tea.KeyMsg) bool { return msg.String() == "G" }
