package views

import (
	"fmt"
	"strings"

	"github.com/DonovanMods/pitlane/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
)

// SaveModsMsg is sent to write the edited mod settings to the active profile
type SaveModsMsg struct {
	Settings []domain.AppliedModSetting
}

// ShowConflictsMsg asks for the file conflicts of one mod
type ShowConflictsMsg struct {
	Name     string
	Location domain.ModLocation
}

// ModRow is one discovered mod along with its state in the active profile
type ModRow struct {
	Record    domain.ModRecord
	InProfile bool
	Active    bool
	Priority  int
}

// Mods lists discovered mods and edits the active profile's selection
type Mods struct {
	game     *domain.Game
	profile  domain.ModProfile
	rows     []ModRow
	nav      Navigator
	selected int
	dirty    bool

	conflictsFor  string
	conflicts     []domain.ModFileConflict
	showConflicts bool

	width  int
	height int
}

// NewMods creates a mods view for the given scan results and active profile
func NewMods(game *domain.Game, profile domain.ModProfile, records []domain.ModRecord, nav Navigator) Mods {
	rows := make([]ModRow, 0, len(records))
	for _, rec := range records {
		row := ModRow{Record: rec}
		if idx := profile.IndexOf(rec.Location); idx >= 0 {
			setting := profile.AppliedMods[idx]
			row.InProfile = true
			row.Active = setting.IsActive
			row.Priority = setting.Priority
		}
		rows = append(rows, row)
	}

	return Mods{
		game:    game,
		profile: profile,
		rows:    rows,
		nav:     navOrDefault(nav),
		width:   80,
		height:  24,
	}
}

// Selected returns the currently selected index
func (m Mods) Selected() int {
	return m.selected
}

// Select moves the cursor to i, clamped to the list
func (m Mods) Select(i int) Mods {
	switch {
	case len(m.rows) == 0 || i < 0:
		m.selected = 0
	case i >= len(m.rows):
		m.selected = len(m.rows) - 1
	default:
		m.selected = i
	}
	return m
}

// Rows returns the mod rows in display order
func (m Mods) Rows() []ModRow {
	return m.rows
}

// SelectedRow returns the row under the cursor
func (m Mods) SelectedRow() *ModRow {
	if len(m.rows) == 0 || m.selected >= len(m.rows) {
		return nil
	}
	return &m.rows[m.selected]
}

// Dirty reports whether there are edits not yet saved to the profile
func (m Mods) Dirty() bool {
	return m.dirty
}

// Settings returns the profile's mod list with the edits applied. Existing entries keep
// their order, including entries whose mod is no longer discovered; newly added mods go last.
func (m Mods) Settings() []domain.AppliedModSetting {
	edited := make(map[string]ModRow, len(m.rows))
	for _, row := range m.rows {
		if row.InProfile {
			edited[row.Record.Location.Key()] = row
		}
	}

	out := make([]domain.AppliedModSetting, 0, len(m.profile.AppliedMods)+len(edited))
	seen := make(map[string]bool, len(m.profile.AppliedMods))
	for _, s := range m.profile.AppliedMods {
		key := s.Location.Key()
		if row, ok := edited[key]; ok {
			s.IsActive = row.Active
			s.Priority = row.Priority
		}
		seen[key] = true
		out = append(out, s)
	}

	for _, row := range m.rows {
		if row.InProfile && !seen[row.Record.Location.Key()] {
			out = append(out, domain.AppliedModSetting{
				Location: row.Record.Location,
				IsActive: row.Active,
				Priority: row.Priority,
			})
		}
	}
	return out
}

// SetConflicts shows the conflicts of the named mod
func (m Mods) SetConflicts(name string, conflicts []domain.ModFileConflict) Mods {
	m.conflictsFor = name
	m.conflicts = conflicts
	m.showConflicts = true
	return m
}

// ShowingConflicts reports whether the conflict panel is open
func (m Mods) ShowingConflicts() bool {
	return m.showConflicts
}

// Init implements tea.Model
func (m Mods) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Mods) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m Mods) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc && m.showConflicts {
		m.showConflicts = false
		m.conflicts = nil
		return m, nil
	}

	if len(m.rows) == 0 {
		return m, nil
	}

	if sel, ok := moveCursor(m.nav, msg, m.selected, len(m.rows)); ok {
		m.selected = sel
		return m, nil
	}

	// Rows are shared with earlier copies of the model
	m.rows = append([]ModRow(nil), m.rows...)
	row := &m.rows[m.selected]

	switch msg.String() {
	case " ":
		row.InProfile = true
		row.Active = !row.Active
		m.dirty = true
		return m, nil

	case "+", "=":
		row.InProfile = true
		row.Priority++
		m.dirty = true
		return m, nil

	case "-":
		row.InProfile = true
		row.Priority--
		m.dirty = true
		return m, nil

	case "s":
		if !m.dirty {
			return m, nil
		}
		settings := m.Settings()
		return m, func() tea.Msg {
			return SaveModsMsg{Settings: settings}
		}

	case "c":
		name, loc := row.Record.Name, row.Record.Location
		return m, func() tea.Msg {
			return ShowConflictsMsg{Name: name, Location: loc}
		}
	}

	return m, nil
}

// View implements tea.Model
func (m Mods) View() string {
	output := titleStyle.Render("Mods") + "\n"

	gameName := "No game"
	if m.game != nil {
		gameName = m.game.Name
	}
	info := fmt.Sprintf("Game: %s  Profile: %s", gameName, m.profile.Name)
	if m.dirty {
		info += "  (unsaved changes, s to save)"
	}
	output += infoStyle.Render(info) + "\n\n"

	if len(m.rows) == 0 {
		output += itemStyle.Render("No mods found in the mods folder.") + "\n\n"
		output += infoStyle.Render("Add one with 'pitlane mods add <path>'") + "\n"
		return output
	}

	active := 0
	for _, row := range m.rows {
		if row.Active {
			active++
		}
	}
	output += infoStyle.Render(fmt.Sprintf("%d mods, %d active:", len(m.rows), active)) + "\n\n"

	for i, row := range m.rows {
		cursor := "  "
		style := itemStyle

		if i == m.selected {
			cursor = "▸ "
			style = selectedStyle
		} else if !row.Active {
			style = dimStyle
		}

		status := "[ ]"
		if row.Active {
			status = "[✓]"
		}

		line := fmt.Sprintf("%s%s %s v%s", cursor, status, row.Record.Name, row.Record.Version)
		if row.InProfile {
			line += fmt.Sprintf("  priority %d", row.Priority)
		}
		output += style.Render(line) + "\n"

		if i == m.selected {
			rec := row.Record
			output += detailStyle.Render(fmt.Sprintf("by %s  [%s]", rec.Author, rec.Category)) + "\n"
			output += detailStyle.Render(fmt.Sprintf("%s: %s", rec.Kind, rec.Location.DisplayPath())) + "\n"
			if rec.Description != "" {
				output += detailStyle.Render(rec.Description) + "\n"
			}
			output += "\n"
		}
	}

	if m.showConflicts {
		output += "\n" + m.renderConflicts()
	}

	output += helpStyle.Render("space: toggle  +/-: priority  s: save  c: conflicts")

	return output
}

func (m Mods) renderConflicts() string {
	var b strings.Builder
	b.WriteString(warnStyle.Render(fmt.Sprintf("Conflicts for %s:", m.conflictsFor)) + "\n")
	if len(m.conflicts) == 0 {
		b.WriteString(detailStyle.Render("No conflicts") + "\n")
		return b.String()
	}

	for _, c := range m.conflicts {
		losers := make([]string, 0, len(c.Claimants))
		for _, l := range c.Losers() {
			losers = append(losers, l.Name)
		}
		line := fmt.Sprintf("%s: %s wins over %s", c.Path, c.Winner.Name, strings.Join(losers, ", "))
		if c.Tied {
			line += " (tie, profile order)"
		}
		b.WriteString(detailStyle.Render(line) + "\n")
	}
	b.WriteString(infoStyle.Render("esc: close") + "\n")
	return b.String()
}
