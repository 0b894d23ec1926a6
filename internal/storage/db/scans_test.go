package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordScan(t *testing.T) {
	database := openDB(t)

	last, err := database.LastScan("f1_23")
	require.NoError(t, err)
	assert.Nil(t, last)

	require.NoError(t, database.RecordScan("f1_23", 4, 1))
	require.NoError(t, database.RecordScan("f1_23", 5, 0))
	require.NoError(t, database.RecordScan("f1_22", 9, 9))

	last, err = database.LastScan("f1_23")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 5, last.ModCount)
	assert.Equal(t, 0, last.SkippedCount)
	assert.Equal(t, "f1_23", last.GameID)

	recent, err := database.RecentScans("f1_23", 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 4, recent[1].ModCount)
}
