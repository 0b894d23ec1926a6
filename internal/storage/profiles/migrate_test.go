package profiles_test

import (
	"testing"

	"github.com/DonovanMods/pitlane/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legacyData() (map[string][]domain.ModProfile, map[string]string) {
	legacy := map[string][]domain.ModProfile{
		"f1_23": {
			{ID: "legacy-1", Name: "Main", AppliedMods: sampleMods()},
			{ID: "legacy-2", Name: "Wet"},
		},
		"f1_22": {
			{Name: "Old"},
		},
	}
	active := map[string]string{"f1_23": "legacy-2"}
	return legacy, active
}

func TestMigrate(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)
	legacy, active := legacyData()

	n, err := s.Migrate(legacy, active)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	reopened := openStore(t, dir)
	list, err := reopened.Profiles("f1_23")
	require.NoError(t, err)
	assert.Equal(t, []string{"Main", "Wet"}, names(list))
	assert.Equal(t, "legacy-1", list[0].ID)
	assert.Equal(t, sampleMods(), list[0].AppliedMods)

	current, err := reopened.ActiveProfile("f1_23")
	require.NoError(t, err)
	assert.Equal(t, "legacy-2", current.ID)

	old, err := reopened.ActiveProfile("f1_22")
	require.NoError(t, err)
	assert.Equal(t, "Old", old.Name)
	assert.NotEmpty(t, old.ID, "profiles without an id get one")
}

func TestMigrate_Idempotent(t *testing.T) {
	dir := t.TempDir()
	legacy, active := legacyData()

	n, err := openStore(t, dir).Migrate(legacy, active)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s := openStore(t, dir)
	n, err = s.Migrate(legacy, active)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	list, err := s.Profiles("f1_23")
	require.NoError(t, err)
	assert.Len(t, list, 2, "second run adds nothing")
}

func TestMigrate_SkipsGamesWithProfiles(t *testing.T) {
	s := openStore(t, t.TempDir())
	existing, err := s.Create("f1_23", "Already Here")
	require.NoError(t, err)

	legacy, active := legacyData()
	n, err := s.Migrate(legacy, active)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only f1_22 is migrated")

	list, err := s.Profiles("f1_23")
	require.NoError(t, err)
	assert.Equal(t, []string{existing.Name}, names(list))
}
