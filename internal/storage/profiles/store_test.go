package profiles_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DonovanMods/pitlane/internal/domain"
	"github.com/DonovanMods/pitlane/internal/storage/profiles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const game = "f1_23"

func openStore(t *testing.T, dir string) *profiles.Store {
	t.Helper()
	s, err := profiles.Open(dir, nil)
	require.NoError(t, err)
	return s
}

func names(list []domain.ModProfile) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.Name)
	}
	return out
}

func sampleMods() []domain.AppliedModSetting {
	return []domain.AppliedModSetting{
		{Location: domain.FolderLocation("/mods/Liveries"), IsActive: true, Priority: 5},
		{Location: domain.ArchiveLocation("/mods/skins.zip", "Pack A"), IsActive: false, Priority: 9},
		{Location: domain.ArchiveLocation("/mods/root.7z", ""), IsActive: true, Priority: 0},
	}
}

func TestProfiles_SynthesizesDefault(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)

	list, err := s.Profiles(game)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.DefaultProfileName, list[0].Name)
	assert.NotEmpty(t, list[0].ID)
	assert.Empty(t, list[0].AppliedMods)

	active, err := s.ActiveProfile(game)
	require.NoError(t, err)
	assert.Equal(t, list[0].ID, active.ID)

	assert.FileExists(t, filepath.Join(dir, game+"_"+list[0].ID+".json"))
	marker, err := os.ReadFile(filepath.Join(dir, game+".active"))
	require.NoError(t, err)
	assert.Equal(t, list[0].ID, strings.TrimSpace(string(marker)))
}

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)

	created, err := s.Create(game, "Race Day")
	require.NoError(t, err)
	updated, err := s.UpdateAppliedMods(game, sampleMods())
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.False(t, updated.LastModified.Before(created.LastModified))

	reopened := openStore(t, dir)
	active, err := reopened.ActiveProfile(game)
	require.NoError(t, err)

	assert.Equal(t, created.ID, active.ID)
	assert.Equal(t, "Race Day", active.Name)
	assert.Equal(t, sampleMods(), active.AppliedMods)
	assert.True(t, updated.LastModified.Equal(active.LastModified))
}

func TestStore_FileFormat(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)

	p, err := s.Create(game, "Format")
	require.NoError(t, err)
	_, err = s.UpdateAppliedMods(game, sampleMods()[:2])
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, game+"_"+p.ID+".json"))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, p.ID, raw["id"])
	assert.Equal(t, "Format", raw["name"])
	assert.Contains(t, raw, "lastModified")

	mods := raw["appliedMods"].([]any)
	require.Len(t, mods, 2)

	folder := mods[0].(map[string]any)
	assert.Equal(t, "/mods/Liveries", folder["modFolderPath"])
	assert.Equal(t, true, folder["isActive"])
	assert.Equal(t, false, folder["isFromArchive"])
	assert.Nil(t, folder["archiveSource"])
	assert.Nil(t, folder["archiveRootPath"])
	assert.Equal(t, float64(5), folder["priority"])

	arch := mods[1].(map[string]any)
	assert.Equal(t, true, arch["isFromArchive"])
	assert.Equal(t, "/mods/skins.zip", arch["archiveSource"])
	assert.Equal(t, "Pack A", arch["archiveRootPath"])
}

func TestCreate_Names(t *testing.T) {
	s := openStore(t, t.TempDir())

	first, err := s.Create(game, "Name")
	require.NoError(t, err)
	second, err := s.Create(game, "Name")
	require.NoError(t, err)
	third, err := s.Create(game, "Name")
	require.NoError(t, err)
	lower, err := s.Create(game, "name")
	require.NoError(t, err)
	blank, err := s.Create(game, "   ")
	require.NoError(t, err)

	assert.Equal(t, "Name", first.Name)
	assert.Equal(t, "Name (1)", second.Name)
	assert.Equal(t, "Name (2)", third.Name)
	assert.Equal(t, "name", lower.Name, "collisions are case-sensitive")
	assert.Equal(t, profiles.NewProfileName, blank.Name)

	active, err := s.ActiveProfile(game)
	require.NoError(t, err)
	assert.Equal(t, blank.ID, active.ID, "newest profile becomes active")
}

func TestProfiles_SortedByName(t *testing.T) {
	s := openStore(t, t.TempDir())
	for _, n := range []string{"beta", "alpha", "Alpha", "Gamma"} {
		_, err := s.Create(game, n)
		require.NoError(t, err)
	}

	list, err := s.Profiles(game)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "alpha", "beta", "Gamma"}, names(list))
}

func TestProfiles_ReturnsCopies(t *testing.T) {
	s := openStore(t, t.TempDir())
	_, err := s.UpdateAppliedMods(game, sampleMods())
	require.NoError(t, err)

	list, err := s.Profiles(game)
	require.NoError(t, err)
	list[0].AppliedMods[0].Priority = 999
	list[0].Name = "mutated"

	again, err := s.Profiles(game)
	require.NoError(t, err)
	assert.Equal(t, 5, again[0].AppliedMods[0].Priority)
	assert.Equal(t, domain.DefaultProfileName, again[0].Name)
}

func TestSetActive(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)

	a, err := s.Create(game, "A")
	require.NoError(t, err)
	_, err = s.Create(game, "B")
	require.NoError(t, err)

	require.NoError(t, s.SetActive(game, a.ID))
	active, err := openStore(t, dir).ActiveProfile(game)
	require.NoError(t, err)
	assert.Equal(t, a.ID, active.ID)

	err = s.SetActive(game, "no-such-id")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestActiveProfile_StaleMarkerHeals(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)
	_, err := s.Create(game, "Zeta")
	require.NoError(t, err)
	alpha, err := s.Create(game, "Alpha")
	require.NoError(t, err)

	markerPath := filepath.Join(dir, game+".active")
	require.NoError(t, os.WriteFile(markerPath, []byte("deleted-elsewhere"), 0644))

	reopened := openStore(t, dir)
	active, err := reopened.ActiveProfile(game)
	require.NoError(t, err)
	assert.Equal(t, alpha.ID, active.ID, "falls back to the first profile by name")

	marker, err := os.ReadFile(markerPath)
	require.NoError(t, err)
	assert.Equal(t, alpha.ID, strings.TrimSpace(string(marker)))
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)

	b, err := s.Create(game, "B")
	require.NoError(t, err)
	c, err := s.Create(game, "C")
	require.NoError(t, err)

	// C is active; deleting it hands over to the first remaining profile
	require.NoError(t, s.Delete(game, c.ID))
	assert.NoFileExists(t, filepath.Join(dir, game+"_"+c.ID+".json"))

	active, err := s.ActiveProfile(game)
	require.NoError(t, err)
	assert.Equal(t, b.ID, active.ID)

	err = s.Delete(game, c.ID)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestDelete_OnlyProfileLeavesDefault(t *testing.T) {
	s := openStore(t, t.TempDir())

	only, err := s.Create(game, "Only")
	require.NoError(t, err)
	require.NoError(t, s.Delete(game, only.ID))

	list, err := s.Profiles(game)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.DefaultProfileName, list[0].Name)
	assert.NotEqual(t, only.ID, list[0].ID)

	active, err := s.ActiveProfile(game)
	require.NoError(t, err)
	assert.Equal(t, list[0].ID, active.ID)
}

func TestRename(t *testing.T) {
	s := openStore(t, t.TempDir())
	_, err := s.Create(game, "Taken")
	require.NoError(t, err)
	p, err := s.Create(game, "Mine")
	require.NoError(t, err)

	renamed, err := s.Rename(game, p.ID, "Taken")
	require.NoError(t, err)
	assert.Equal(t, "Taken (1)", renamed.Name)

	same, err := s.Rename(game, p.ID, "Taken (1)")
	require.NoError(t, err)
	assert.Equal(t, "Taken (1)", same.Name, "renaming to its own name is not a collision")

	_, err = s.Rename(game, p.ID, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = s.Rename(game, "missing", "x")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestDuplicate(t *testing.T) {
	s := openStore(t, t.TempDir())
	src, err := s.Create(game, "Setup")
	require.NoError(t, err)
	_, err = s.UpdateAppliedMods(game, sampleMods())
	require.NoError(t, err)

	dup, err := s.Duplicate(game, src.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Setup Copy", dup.Name)
	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, sampleMods(), dup.AppliedMods)

	again, err := s.Duplicate(game, src.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Setup Copy (1)", again.Name)

	active, err := s.ActiveProfile(game)
	require.NoError(t, err)
	assert.Equal(t, src.ID, active.ID, "copies are not activated")

	// Changing the source leaves the copy alone
	_, err = s.UpdateAppliedMods(game, nil)
	require.NoError(t, err)
	stored, err := s.Get(game, dup.ID)
	require.NoError(t, err)
	assert.Len(t, stored.AppliedMods, 3)
}

func TestExportImport(t *testing.T) {
	s := openStore(t, t.TempDir())
	src, err := s.Create(game, "Shared")
	require.NoError(t, err)
	_, err = s.UpdateAppliedMods(game, sampleMods())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "shared.json")
	require.NoError(t, s.Export(game, src.ID, path))

	other := openStore(t, t.TempDir())
	imported, err := other.Import("f1_24", path)
	require.NoError(t, err)
	assert.NotEqual(t, src.ID, imported.ID)
	assert.Equal(t, "Shared", imported.Name)
	assert.Equal(t, sampleMods(), imported.AppliedMods)

	// Importing into a game that already has the name de-duplicates it
	again, err := s.Import(game, path)
	require.NoError(t, err)
	assert.Equal(t, "Shared (1)", again.Name)

	active, err := s.ActiveProfile(game)
	require.NoError(t, err)
	assert.Equal(t, src.ID, active.ID, "imports are not activated")

	_, err = s.Import(game, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = s.Export(game, "missing", path)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestStore_SanitizesGameID(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)

	p, err := s.Create("F1 23/beta", "Odd")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "F1_23_beta_"+p.ID+".json"))
	assert.FileExists(t, filepath.Join(dir, "F1_23_beta.active"))

	list, err := openStore(t, dir).Profiles("F1 23/beta")
	require.NoError(t, err)
	assert.Equal(t, []string{"Odd"}, names(list))
}

func TestStore_IgnoresMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, game+"_broken.json"), []byte("{nope"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))

	s := openStore(t, dir)
	list, err := s.Profiles(game)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.DefaultProfileName}, names(list))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "f1_23", profiles.Sanitize("f1_23"))
	assert.Equal(t, "F1_23", profiles.Sanitize("F1 23"))
	assert.Equal(t, "a.b-c_d", profiles.Sanitize("a.b-c:d"))
	assert.Equal(t, "___", profiles.Sanitize("ä/\\"))
	assert.Equal(t, "__", profiles.Sanitize(".."))
	assert.Equal(t, "_", profiles.Sanitize("."))
	assert.Equal(t, ".._.._escape", profiles.Sanitize("../../escape"))
}
