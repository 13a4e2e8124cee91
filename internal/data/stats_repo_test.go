package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uchiverify/uchiverify/internal/testutil"
)

func TestStatsRepo_IncrementAndSnapshot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewStatsRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, "trivia"))
	require.NoError(t, repo.Increment(ctx, "trivia"))
	require.NoError(t, repo.Increment(ctx, "events"))

	counts, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	assert.Equal(t, "trivia", counts[0].Command)
	assert.Equal(t, int64(2), counts[0].Count)
	assert.Equal(t, "events", counts[1].Command)
	assert.Equal(t, int64(1), counts[1].Count)
}

func TestStatsRepo_Snapshot_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewStatsRepo(db)

	counts, err := repo.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, counts)
}
