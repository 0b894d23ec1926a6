package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveBackup_KeepsFirst(t *testing.T) {
	database := openDB(t)

	require.NoError(t, database.SaveBackup("f1_23", "data/car.bin", "/backups/first"))
	require.NoError(t, database.SaveBackup("f1_23", "data/car.bin", "/backups/second"))

	b, err := database.GetBackup("f1_23", "data/car.bin")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "/backups/first", b.BackupPath)
}

func TestBackups_ListAndClear(t *testing.T) {
	database := openDB(t)

	missing, err := database.GetBackup("f1_23", "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, database.SaveBackup("f1_23", "z.bin", "/b/z"))
	require.NoError(t, database.SaveBackup("f1_23", "a.bin", "/b/a"))
	require.NoError(t, database.SaveBackup("f1_24", "a.bin", "/c/a"))

	backups, err := database.GetBackups("f1_23")
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "a.bin", backups[0].RelativePath)

	require.NoError(t, database.ClearBackups("f1_23"))
	backups, err = database.GetBackups("f1_23")
	require.NoError(t, err)
	assert.Empty(t, backups)

	others, err := database.GetBackups("f1_24")
	require.NoError(t, err)
	assert.Len(t, others, 1)
}
