package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/DonovanMods/pitlane/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModsCmd_Structure(t *testing.T) {
	var subCmds []string
	for _, cmd := range modsCmd.Commands() {
		subCmds = append(subCmds, cmd.Name())
	}

	assert.ElementsMatch(t, []string{"list", "enable", "disable", "priority", "add"}, subCmds)
}

func TestModsList_Empty(t *testing.T) {
	e := newCLIEnv(t)
	e.addGame(t)

	out := e.mustRun(t, "mods", "list")
	assert.Contains(t, out, "No mods found for F1 23")
}

func TestModsList_ShowsProfileState(t *testing.T) {
	e := newCLIEnv(t)
	e.addGame(t)
	e.writeMod(t, "red", "Red Livery", map[string]string{"cars/livery.dds": "red"})
	e.writeMod(t, "blue", "Blue Livery", map[string]string{"cars/livery.dds": "blue"})

	e.mustRun(t, "mods", "enable", "red livery", "--priority", "4")

	out := e.mustRun(t, "mods", "list")
	assert.Contains(t, out, "F1 23 (profile: Default)")
	assert.Contains(t, out, "Red Livery")
	assert.Contains(t, out, "Blue Livery")

	out = e.mustRun(t, "mods", "list", "--json")
	var mods []modJSON
	require.NoError(t, json.Unmarshal([]byte(out), &mods))
	require.Len(t, mods, 2)

	byName := make(map[string]modJSON)
	for _, m := range mods {
		byName[m.Name] = m
	}
	red := byName["Red Livery"]
	assert.True(t, red.Active)
	assert.Equal(t, 4, red.Priority)
	assert.Equal(t, "folder", red.Kind)
	assert.Equal(t, filepath.Join(e.mods, "red"), red.Path)
	assert.Equal(t, domain.DefaultIcon, red.Icon)
	assert.False(t, byName["Blue Livery"].InProfile)
}

func TestModsEnable_DisableAndPriority(t *testing.T) {
	e := newCLIEnv(t)
	e.addGame(t)
	e.writeMod(t, "red", "Red Livery", map[string]string{"cars/livery.dds": "red"})

	out := e.mustRun(t, "mods", "enable", "Red Livery")
	assert.Contains(t, out, "Enabled Red Livery in Default (priority 0)")

	out = e.mustRun(t, "mods", "priority", "red", "7")
	assert.Contains(t, out, "Set Red Livery to priority 7 in Default")

	out = e.mustRun(t, "mods", "disable", "RED LIVERY")
	assert.Contains(t, out, "Disabled Red Livery in Default")

	// Re-enabling keeps the priority
	out = e.mustRun(t, "mods", "enable", "Red Livery")
	assert.Contains(t, out, "(priority 7)")
}

func TestModsPriority_InvalidNumber(t *testing.T) {
	e := newCLIEnv(t)
	e.addGame(t)

	_, err := e.run(t, "mods", "priority", "Red Livery", "high")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be an integer")
}

func TestModsEnable_UnknownMod(t *testing.T) {
	e := newCLIEnv(t)
	e.addGame(t)

	_, err := e.run(t, "mods", "enable", "Ghost")
	assert.ErrorIs(t, err, domain.ErrModNotFound)
}

func TestModsAdd_Archive(t *testing.T) {
	e := newCLIEnv(t)
	e.addGame(t)

	src := filepath.Join(t.TempDir(), "blue-livery.zip")
	writeZip(t, src, map[string]string{
		"mod.json":              manifest("Blue Livery"),
		"files/cars/livery.dds": "blue",
	})

	out := e.mustRun(t, "mods", "add", src)
	assert.Contains(t, out, "Added Blue Livery (1.0)")
	assert.FileExists(t, filepath.Join(e.mods, "blue-livery.zip"))

	_, err := e.run(t, "mods", "add", src)
	assert.Error(t, err)

	out = e.mustRun(t, "mods", "add", src, "--force")
	assert.Contains(t, out, "Replaced Blue Livery")

	out = e.mustRun(t, "mods", "list")
	assert.Contains(t, out, "Blue Livery")
}

func TestModsAdd_RejectsOtherGame(t *testing.T) {
	e := newCLIEnv(t)
	e.addGame(t)

	src := filepath.Join(t.TempDir(), "gt7.zip")
	writeZip(t, src, map[string]string{
		"mod.json": `{"name": "GT Wheels", "game": "Gran Turismo 7"}`,
	})

	_, err := e.run(t, "mods", "add", src)
	assert.ErrorIs(t, err, domain.ErrGameMismatch)
}
