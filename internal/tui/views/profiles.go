package views

import (
	"fmt"

	"github.com/DonovanMods/pitlane/internal/domain"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SwitchProfileMsg is sent to make a profile active
type SwitchProfileMsg struct {
	Profile domain.ModProfile
}

// DeleteProfileMsg is sent to delete a profile
type DeleteProfileMsg struct {
	Profile domain.ModProfile
}

// DuplicateProfileMsg is sent to copy a profile
type DuplicateProfileMsg struct {
	Profile domain.ModProfile
}

// RenameProfileMsg is sent when a profile gets a new name
type RenameProfileMsg struct {
	Profile domain.ModProfile
	Name    string
}

// CreateProfileMsg is sent when a new profile is created
type CreateProfileMsg struct {
	Name string
}

type inputMode int

const (
	inputNone inputMode = iota
	inputCreate
	inputRename
)

// Profiles is the profile management view
type Profiles struct {
	game      *domain.Game
	profiles  []domain.ModProfile
	activeID  string
	nav       Navigator
	selected  int
	mode      inputMode
	nameInput textinput.Model
	width     int
	height    int
}

// NewProfiles creates a new profiles view
func NewProfiles(game *domain.Game, profiles []domain.ModProfile, activeID string, nav Navigator) Profiles {
	ti := textinput.New()
	ti.Placeholder = "Profile name..."
	ti.CharLimit = 50
	ti.Width = 30

	return Profiles{
		game:      game,
		profiles:  profiles,
		activeID:  activeID,
		nav:       navOrDefault(nav),
		nameInput: ti,
		width:     80,
		height:    24,
	}
}

// Selected returns the currently selected index
func (p Profiles) Selected() int {
	return p.selected
}

// ProfileCount returns the number of profiles
func (p Profiles) ProfileCount() int {
	return len(p.profiles)
}

// IsCreating returns whether we're in create mode
func (p Profiles) IsCreating() bool {
	return p.mode == inputCreate
}

// IsEditing reports whether the name input has focus
func (p Profiles) IsEditing() bool {
	return p.mode != inputNone
}

// SelectedProfile returns the currently selected profile
func (p Profiles) SelectedProfile() *domain.ModProfile {
	if len(p.profiles) == 0 || p.selected >= len(p.profiles) {
		return nil
	}
	return &p.profiles[p.selected]
}

// Init implements tea.Model
func (p Profiles) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (p Profiles) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.mode != inputNone {
			return p.handleInput(msg)
		}
		return p.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil
	}

	return p, nil
}

func (p Profiles) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		p.endInput()
		return p, nil

	case tea.KeyEnter:
		name := p.nameInput.Value()
		if name == "" {
			return p, nil
		}
		mode := p.mode
		p.endInput()

		if mode == inputRename {
			profile := p.SelectedProfile()
			if profile == nil {
				return p, nil
			}
			target := *profile
			return p, func() tea.Msg {
				return RenameProfileMsg{Profile: target, Name: name}
			}
		}
		return p, func() tea.Msg {
			return CreateProfileMsg{Name: name}
		}

	default:
		var cmd tea.Cmd
		p.nameInput, cmd = p.nameInput.Update(msg)
		return p, cmd
	}
}

func (p *Profiles) endInput() {
	p.mode = inputNone
	p.nameInput.Reset()
	p.nameInput.Blur()
}

func (p Profiles) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if sel, ok := moveCursor(p.nav, msg, p.selected, len(p.profiles)); ok {
		p.selected = sel
		return p, nil
	}

	if msg.String() == "n" {
		p.mode = inputCreate
		p.nameInput.Focus()
		return p, textinput.Blink
	}

	profile := p.SelectedProfile()
	if profile == nil {
		return p, nil
	}
	target := *profile

	switch msg.String() {
	case "enter", " ":
		if target.ID == p.activeID {
			return p, nil
		}
		return p, func() tea.Msg {
			return SwitchProfileMsg{Profile: target}
		}

	case "r":
		p.mode = inputRename
		p.nameInput.SetValue(target.Name)
		p.nameInput.Focus()
		return p, textinput.Blink

	case "y":
		return p, func() tea.Msg {
			return DuplicateProfileMsg{Profile: target}
		}

	case "d", "delete":
		// The active profile has to be switched away from first
		if target.ID != p.activeID {
			return p, func() tea.Msg {
				return DeleteProfileMsg{Profile: target}
			}
		}
	}

	return p, nil
}

// View implements tea.Model
func (p Profiles) View() string {
	activeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("82"))

	output := titleStyle.Render("Profiles") + "\n"

	gameName := "No game selected"
	if p.game != nil {
		gameName = p.game.Name
	}
	output += infoStyle.Render(fmt.Sprintf("Game: %s", gameName)) + "\n\n"

	switch p.mode {
	case inputCreate:
		output += "New profile name: " + p.nameInput.View() + "\n\n"
		output += infoStyle.Render("enter: create  esc: cancel")
		return output
	case inputRename:
		output += "Rename profile: " + p.nameInput.View() + "\n\n"
		output += infoStyle.Render("enter: rename  esc: cancel")
		return output
	}

	if len(p.profiles) == 0 {
		output += itemStyle.Render("No profiles configured.") + "\n\n"
		output += infoStyle.Render("Press 'n' to create a new profile.") + "\n"
		return output
	}

	for i, profile := range p.profiles {
		cursor := "  "
		style := itemStyle

		if i == p.selected {
			cursor = "▸ "
			style = selectedStyle
		}

		status := ""
		if profile.ID == p.activeID {
			status = activeStyle.Render(" [active]")
		}

		output += style.Render(fmt.Sprintf("%s%s%s", cursor, profile.Name, status)) + "\n"

		if i == p.selected {
			output += detailStyle.Render(fmt.Sprintf("Mods: %d (%d active)", len(profile.AppliedMods), len(profile.ActiveMods()))) + "\n"
			if !profile.LastModified.IsZero() {
				output += detailStyle.Render(fmt.Sprintf("Modified: %s", profile.LastModified.Format("2006-01-02 15:04"))) + "\n"
			}
			output += "\n"
		}
	}

	output += helpStyle.Render("enter: switch  n: new  r: rename  y: duplicate  d: delete")

	return output
}
