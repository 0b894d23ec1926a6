package views_test

import (
	"testing"

	"github.com/DonovanMods/pitlane/internal/domain"
	"github.com/DonovanMods/pitlane/internal/tui/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modRecord(name, folder string) domain.ModRecord {
	return domain.ModRecord{
		ModDescriptor: domain.ModDescriptor{Name: name, Version: "1.0", Game: "f1_23"}.WithDefaults(),
		Kind:          domain.SourceFolder,
		Location:      domain.FolderLocation(folder),
	}
}

func modsFixture() (views.Mods, domain.ModProfile) {
	game := &domain.Game{ID: "f1_23", Name: "F1 23"}
	red := modRecord("Red Livery", "/mods/red")
	blue := modRecord("Blue Livery", "/mods/blue")
	profile := domain.ModProfile{
		ID:   "p1",
		Name: "Default",
		AppliedMods: []domain.AppliedModSetting{
			{Location: domain.FolderLocation("/mods/gone"), IsActive: true, Priority: 3},
			{Location: red.Location, IsActive: true, Priority: 2},
		},
	}
	return views.NewMods(game, profile, []domain.ModRecord{red, blue}, nil), profile
}

func press(t *testing.T, m tea.Model, keys ...tea.KeyMsg) (views.Mods, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(k)
	}
	out, ok := m.(views.Mods)
	require.True(t, ok)
	return out, cmd
}

func TestMods_RowsReflectProfile(t *testing.T) {
	model, _ := modsFixture()

	rows := model.Rows()
	require.Len(t, rows, 2)
	assert.True(t, rows[0].InProfile)
	assert.True(t, rows[0].Active)
	assert.Equal(t, 2, rows[0].Priority)
	assert.False(t, rows[1].InProfile)
	assert.False(t, rows[1].Active)

	view := model.View()
	assert.Contains(t, view, "Profile: Default")
	assert.Contains(t, view, "[✓] Red Livery v1.0  priority 2")
	assert.Contains(t, view, "2 mods, 1 active")
}

func TestMods_UnchangedSettingsMatchProfile(t *testing.T) {
	model, profile := modsFixture()

	assert.False(t, model.Dirty())
	assert.Equal(t, profile.AppliedMods, model.Settings())
}

func TestMods_ToggleAddsNewModLast(t *testing.T) {
	model, _ := modsFixture()

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyDown}, space)
	assert.True(t, model.Dirty())

	settings := model.Settings()
	require.Len(t, settings, 3)
	// The entry for a mod that is no longer discovered survives in place
	assert.Equal(t, "folder:/mods/gone", settings[0].Location.Key())
	assert.Equal(t, domain.FolderLocation("/mods/blue").Key(), settings[2].Location.Key())
	assert.True(t, settings[2].IsActive)
	assert.Equal(t, 0, settings[2].Priority)
}

func TestMods_ToggleOffKeepsEntry(t *testing.T) {
	model, _ := modsFixture()

	model, _ = press(t, model, space)

	settings := model.Settings()
	require.Len(t, settings, 2)
	assert.False(t, settings[1].IsActive)
	assert.Equal(t, 2, settings[1].Priority)
}

func TestMods_PriorityKeys(t *testing.T) {
	model, _ := modsFixture()

	model, _ = press(t, model, runes("+"), runes("="), runes("-"), runes("+"))

	assert.Equal(t, 4, model.Settings()[1].Priority)
	assert.Contains(t, model.View(), "unsaved changes")
}

func TestMods_SaveSendsSettings(t *testing.T) {
	model, _ := modsFixture()

	// Nothing to save yet
	_, cmd := press(t, model, runes("s"))
	assert.Nil(t, cmd)

	_, cmd = press(t, model, space, runes("s"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(views.SaveModsMsg)
	require.True(t, ok)
	require.Len(t, msg.Settings, 2)
	assert.False(t, msg.Settings[1].IsActive)
}

func TestMods_ConflictsPanel(t *testing.T) {
	model, _ := modsFixture()

	_, cmd := press(t, model, runes("c"))
	require.NotNil(t, cmd)
	req, ok := cmd().(views.ShowConflictsMsg)
	require.True(t, ok)
	assert.Equal(t, "Red Livery", req.Name)

	red := domain.ConflictClaimant{Name: "Red Livery", Location: req.Location, Priority: 2}
	blue := domain.ConflictClaimant{Name: "Blue Livery", Location: domain.FolderLocation("/mods/blue"), Priority: 2}
	model = model.SetConflicts(req.Name, []domain.ModFileConflict{
		{Path: "cars/livery.dds", Claimants: []domain.ConflictClaimant{red, blue}, Winner: red, Tied: true},
	})
	assert.True(t, model.ShowingConflicts())
	assert.Contains(t, model.View(), "cars/livery.dds: Red Livery wins over Blue Livery (tie, profile order)")

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, model.ShowingConflicts())
}

func TestMods_NoConflicts(t *testing.T) {
	model, _ := modsFixture()

	model = model.SetConflicts("Red Livery", nil)
	assert.Contains(t, model.View(), "No conflicts")
}

func TestMods_Select(t *testing.T) {
	model, _ := modsFixture()

	assert.Equal(t, 1, model.Select(5).Selected())
	assert.Equal(t, 0, model.Select(-1).Selected())
	assert.Equal(t, "Blue Livery", model.Select(1).SelectedRow().Record.Name)
}

func TestMods_Empty(t *testing.T) {
	model := views.NewMods(nil, domain.ModProfile{Name: "Default"}, nil, nil)

	assert.Nil(t, model.SelectedRow())
	assert.Contains(t, model.View(), "No mods found")

	_, cmd := press(t, model, space)
	assert.Nil(t, cmd)
}
