package devseed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uchiverify/uchiverify/internal/data"
	"github.com/uchiverify/uchiverify/internal/testutil"
)

func TestRunSeedsOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, Run(ctx, db, logger))

	verifications := data.NewVerificationRepo(db)
	total, err := verifications.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	failed, err := verifications.CountFailedGrants(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), failed)

	snapshot, err := data.NewStatsRepo(db).Snapshot(ctx)
	require.NoError(t, err)
	counts := make(map[string]int64, len(snapshot))
	for _, row := range snapshot {
		counts[row.Command] = row.Count
	}
	assert.Equal(t, int64(5), counts["scav"])
	assert.Equal(t, int64(3), counts["verify"])

	// A second run must not add anything.
	require.NoError(t, Run(ctx, db, logger))
	total, err = verifications.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}
