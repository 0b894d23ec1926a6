package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveDeployedFile(t *testing.T) {
	database := openDB(t)

	err := database.SaveDeployedFile("f1_23", "cars/livery.dds", "folder:/mods/A", "Mod A")
	require.NoError(t, err)

	owner, err := database.GetFileOwner("f1_23", "cars/livery.dds")
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, "folder:/mods/A", owner.ModKey)
	assert.Equal(t, "Mod A", owner.ModName)
	assert.False(t, owner.DeployedAt.IsZero())
}

func TestSaveDeployedFile_Upsert(t *testing.T) {
	database := openDB(t)

	require.NoError(t, database.SaveDeployedFile("f1_23", "x.bin", "folder:/mods/A", "A"))
	require.NoError(t, database.SaveDeployedFile("f1_23", "x.bin", "folder:/mods/B", "B"))

	owner, err := database.GetFileOwner("f1_23", "x.bin")
	require.NoError(t, err)
	assert.Equal(t, "B", owner.ModName)
}

func TestGetFileOwner_NotFound(t *testing.T) {
	database := openDB(t)

	owner, err := database.GetFileOwner("f1_23", "nonexistent.bin")
	require.NoError(t, err)
	assert.Nil(t, owner)
}

func TestGetDeployedFiles_PerGame(t *testing.T) {
	database := openDB(t)

	require.NoError(t, database.SaveDeployedFile("f1_23", "b.bin", "k", "M"))
	require.NoError(t, database.SaveDeployedFile("f1_23", "a.bin", "k", "M"))
	require.NoError(t, database.SaveDeployedFile("f1_22", "a.bin", "k", "M"))

	files, err := database.GetDeployedFiles("f1_23")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.bin", files[0].RelativePath)
	assert.Equal(t, "b.bin", files[1].RelativePath)

	require.NoError(t, database.DeleteDeployedFile("f1_23", "a.bin"))
	files, err = database.GetDeployedFiles("f1_23")
	require.NoError(t, err)
	assert.Len(t, files, 1)

	require.NoError(t, database.ClearDeployedFiles("f1_23"))
	files, err = database.GetDeployedFiles("f1_23")
	require.NoError(t, err)
	assert.Empty(t, files)

	other, err := database.GetDeployedFiles("f1_22")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}
