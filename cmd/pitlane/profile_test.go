package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/DonovanMods/pitlane/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileCmd_Structure(t *testing.T) {
	assert.Equal(t, "profile", profileCmd.Use)
	assert.NotEmpty(t, profileCmd.Short)

	var subCmds []string
	for _, cmd := range profileCmd.Commands() {
		subCmds = append(subCmds, cmd.Name())
	}

	for _, want := range []string{"list", "create", "delete", "rename", "duplicate", "switch", "export", "import", "migrate"} {
		assert.Contains(t, subCmds, want)
	}
}

func TestProfileList_NoGame(t *testing.T) {
	e := newCLIEnv(t)

	_, err := e.run(t, "profile", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no game specified")
}

func listProfiles(t *testing.T, e *cliEnv) map[string]profileJSON {
	t.Helper()
	out := e.mustRun(t, "profile", "list", "--json")
	var list []profileJSON
	require.NoError(t, json.Unmarshal([]byte(out), &list))

	byName := make(map[string]profileJSON, len(list))
	for _, p := range list {
		byName[p.Name] = p
	}
	return byName
}

func TestProfile_Lifecycle(t *testing.T) {
	e := newCLIEnv(t)
	e.addGame(t)

	out := e.mustRun(t, "profile", "create", "Race")
	assert.Contains(t, out, "Created profile Race (active)")

	profiles := listProfiles(t, e)
	require.Len(t, profiles, 2)
	assert.True(t, profiles["Race"].Active)
	assert.False(t, profiles["Default"].Active)

	out = e.mustRun(t, "profile", "switch", "default")
	assert.Contains(t, out, "Switched F1 23 to profile Default")

	out = e.mustRun(t, "profile", "rename", "Race", "Qualifying")
	assert.Contains(t, out, "Renamed Race to Qualifying")

	out = e.mustRun(t, "profile", "duplicate", "Qualifying")
	assert.Contains(t, out, "Copied Qualifying to Qualifying Copy")

	profiles = listProfiles(t, e)
	assert.Len(t, profiles, 3)
	assert.True(t, profiles["Default"].Active)

	out = e.mustRun(t, "profile", "delete", "Qualifying Copy", "--yes")
	assert.Contains(t, out, "Deleted profile Qualifying Copy; active profile is Default")
	assert.Len(t, listProfiles(t, e), 2)
}

func TestProfileCreate_DuplicateNameGetsSuffix(t *testing.T) {
	e := newCLIEnv(t)
	e.addGame(t)

	out := e.mustRun(t, "profile", "create", "Default")
	assert.Contains(t, out, "Created profile Default (1)")
}

func TestProfileDelete_DeclinedPrompt(t *testing.T) {
	e := newCLIEnv(t)
	e.addGame(t)
	e.mustRun(t, "profile", "create", "Race")

	_, err := e.runWithInput(t, "no\n", "profile", "delete", "Race")
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Len(t, listProfiles(t, e), 2)
}

func TestProfileSwitch_Unknown(t *testing.T) {
	e := newCLIEnv(t)
	e.addGame(t)

	_, err := e.run(t, "profile", "switch", "Endurance")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfile_ExportImport(t *testing.T) {
	e := newCLIEnv(t)
	e.addGame(t)
	e.writeMod(t, "red", "Red Livery", map[string]string{"cars/livery.dds": "red"})
	e.mustRun(t, "mods", "enable", "Red Livery")

	file := filepath.Join(t.TempDir(), "default.json")
	out := e.mustRun(t, "profile", "export", "Default", file)
	assert.Contains(t, out, "Exported Default to "+file)
	assert.FileExists(t, file)

	out = e.mustRun(t, "profile", "import", file)
	assert.Contains(t, out, "(1 mods)")

	profiles := listProfiles(t, e)
	assert.Len(t, profiles, 2)
}

func TestProfileMigrate_NothingToDo(t *testing.T) {
	e := newCLIEnv(t)

	out := e.mustRun(t, "profile", "migrate")
	assert.Contains(t, out, "No profiles to migrate.")
}
