package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DonovanMods/pitlane/internal/domain"
	"github.com/DonovanMods/pitlane/internal/storage/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGames_Empty(t *testing.T) {
	games, err := config.LoadGames(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestLoadGames_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
games:
  f1_23:
    name: F1 23
    install_path: /games/F1 23
    mods_path: /games/F1 23/mods
    executable: F1_23.exe
    link_method: copy
  f1_22:
    name: F1 22
    install_path: /games/F1 22
    mods_path: /games/F1 22/mods
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "games.yaml"), []byte(content), 0644))

	games, err := config.LoadGames(dir)
	require.NoError(t, err)
	require.Len(t, games, 2)

	game := games["f1_23"]
	assert.Equal(t, "f1_23", game.ID)
	assert.Equal(t, "F1 23", game.Name)
	assert.Equal(t, "/games/F1 23", game.InstallPath)
	assert.Equal(t, "/games/F1 23/mods", game.ModsPath)
	assert.Equal(t, "/games/F1 23/F1_23.exe", game.ExecutablePath())
	assert.Equal(t, domain.LinkCopy, game.LinkMethod)
	assert.True(t, game.LinkMethodExplicit)

	assert.False(t, games["f1_22"].LinkMethodExplicit)
}

func TestSaveGame(t *testing.T) {
	dir := t.TempDir()

	game := &domain.Game{
		ID:          "f1_24",
		Name:        "F1 24",
		InstallPath: "/games/f1",
		ModsPath:    "/games/f1/mods",
		LinkMethod:  domain.LinkSymlink,
	}
	require.NoError(t, config.SaveGame(dir, game))

	games, err := config.LoadGames(dir)
	require.NoError(t, err)
	require.Contains(t, games, "f1_24")
	assert.Equal(t, "/games/f1/mods", games["f1_24"].ModsPath)
	assert.False(t, games["f1_24"].LinkMethodExplicit, "implicit link method is not written")

	err = config.SaveGame(dir, &domain.Game{})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	for _, id := range []string{"../escape", `a\b`, "..", "."} {
		err = config.SaveGame(dir, &domain.Game{ID: id, InstallPath: "/games/x"})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig, "id %q", id)
	}
	games, err = config.LoadGames(dir)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestDeleteGame(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.SaveGame(dir, &domain.Game{ID: "a", Name: "A"}))
	require.NoError(t, config.SaveGame(dir, &domain.Game{ID: "b", Name: "B"}))

	require.NoError(t, config.DeleteGame(dir, "a"))
	games, err := config.LoadGames(dir)
	require.NoError(t, err)
	assert.NotContains(t, games, "a")
	assert.Contains(t, games, "b")

	err = config.DeleteGame(dir, "a")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestLoadGames_ExpandsTilde(t *testing.T) {
	dir := t.TempDir()
	content := `
games:
  f1_23:
    name: F1 23
    install_path: ~/games/f1
    mods_path: ~/games/f1/mods
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "games.yaml"), []byte(content), 0644))

	games, err := config.LoadGames(dir)
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "games/f1"), games["f1_23"].InstallPath)
	assert.Equal(t, filepath.Join(home, "games/f1/mods"), games["f1_23"].ModsPath)
}

func TestExpandPath(t *testing.T) {
	assert.Equal(t, "/abs/path", config.ExpandPath("/abs/path"))
	assert.Equal(t, "relative", config.ExpandPath("relative"))
	assert.Equal(t, "~user/x", config.ExpandPath("~user/x"))
}
