package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines keybindings for the TUI. "vim" adds hjkl and g/G to the arrow keys
// that every mode accepts.
type KeyMap struct {
	mode string
}

// NewKeyMap creates a new keymap for the given mode
func NewKeyMap(mode string) *KeyMap {
	if mode == "" {
		mode = "vim"
	}
	return &KeyMap{mode: mode}
}

// Mode returns the current keybinding mode
func (k *KeyMap) Mode() string {
	return k.mode
}

func (k *KeyMap) vim(msg tea.KeyMsg, key string) bool {
	return k.mode == "vim" && msg.String() == key
}

// IsUp returns true if the key is an "up" navigation key
func (k *KeyMap) IsUp(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyUp || k.vim(msg, "k")
}

// IsDown returns true if the key is a "down" navigation key
func (k *KeyMap) IsDown(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyDown || k.vim(msg, "j")
}

// IsLeft returns true if the key is a "left" navigation key
func (k *KeyMap) IsLeft(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyLeft || k.vim(msg, "h")
}

// IsRight returns true if the key is a "right" navigation key
func (k *KeyMap) IsRight(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyRight || k.vim(msg, "l")
}

// IsHome returns true if the key should go to first item
func (k *KeyMap) IsHome(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyHome || k.vim(msg, "g")
}

// IsEnd returns true if the key should go to last item
func (k *KeyMap) IsEnd(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEnd || k.vim(msg, "G")
}

// IsConfirm returns true if the key is a confirm/select key
func (k *KeyMap) IsConfirm(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEnter
}

// IsToggle returns true if the key flips the selected mod on or off
func (k *KeyMap) IsToggle(msg tea.KeyMsg) bool {
	return msg.String() == " "
}

// IsPriorityUp returns true if the key raises the selected mod's priority
func (k *KeyMap) IsPriorityUp(msg tea.KeyMsg) bool {
	return msg.String() == "+" || msg.String() == "="
}

// IsPriorityDown returns true if the key lowers the selected mod's priority
func (k *KeyMap) IsPriorityDown(msg tea.KeyMsg) bool {
	return msg.String() == "-"
}

// IsCancel returns true if the key is a cancel/back key
func (k *KeyMap) IsCancel(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEsc
}

// IsQuit returns true if the key is a quit key
func (k *KeyMap) IsQuit(msg tea.KeyMsg) bool {
	return msg.String() == "q" || msg.Type == tea.KeyCtrlC
}

// IsHelp returns true if the key should show help
func (k *KeyMap) IsHelp(msg tea.KeyMsg) bool {
	return msg.String() == "?"
}

// NavigationHelp returns help text for navigation keys
func (k *KeyMap) NavigationHelp() string {
	if k.mode == "vim" {
		return "j/k: navigate"
	}
	return "↑/↓: navigate"
}

// FullHelp returns complete help text
func (k *KeyMap) FullHelp() string {
	nav := `Navigation:
  ↑/↓     Move up/down
  Home    Go to first item
  End     Go to last item
  1/2/3   Games / Mods / Profiles`
	if k.mode == "vim" {
		nav = `Navigation:
  j/k     Move down/up
  g/G     Go to first/last item
  1/2/3   Games / Mods / Profiles`
	}

	return nav + `

Mods:
  space   Activate/deactivate
  +/-     Raise/lower priority
  s       Save to the active profile
  c       Show conflicts for the selected mod

Profiles:
  enter   Switch to profile
  n       New
  r       Rename
  y       Duplicate
  d       Delete

  ?       Toggle help
  q       Quit`
}
