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

func TestLegacyProfiles(t *testing.T) {
	dir := t.TempDir()
	content := `
legacy_profiles:
  f1_23:
    - id: abc
      name: Main
      mods:
        - path: /mods/Liveries
          active: true
          priority: 3
        - path: /mods/skins.zip/Pack
          from_archive: true
          archive_source: /mods/skins.zip
          archive_root: Pack
          priority: 7
legacy_active_profiles:
  f1_23: abc
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.True(t, cfg.HasLegacyProfiles())
	assert.Equal(t, "abc", cfg.LegacyActiveProfiles["f1_23"])

	converted := cfg.LegacyDomainProfiles()
	require.Len(t, converted["f1_23"], 1)

	p := converted["f1_23"][0]
	assert.Equal(t, "abc", p.ID)
	assert.Equal(t, "Main", p.Name)
	assert.Equal(t, []domain.AppliedModSetting{
		{Location: domain.FolderLocation("/mods/Liveries"), IsActive: true, Priority: 3},
		{Location: domain.ArchiveLocation("/mods/skins.zip", "Pack"), IsActive: false, Priority: 7},
	}, p.AppliedMods)
}
