package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/influencer-kpi/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}

func TestSQLite_SaveMasterEmpty(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	run, err := st.CreateRun(ctx, model.Run{})
	require.NoError(t, err)

	n, err := st.SaveMaster(ctx, run.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLite_CreateRunDuplicateID(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.CreateRun(ctx, model.Run{ID: "dup"})
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, model.Run{ID: "dup"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite: insert run")
}

func TestSQLite_ListRunsRoundTrip(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	in := model.Run{ID: "r1", Influencers: 4, TotalRevenue: 2000.74, OverallROAS: 2.5, InputDigest: "abc"}
	_, err := st.CreateRun(ctx, in)
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "r1", runs[0].ID)
	assert.Equal(t, 4, runs[0].Influencers)
	assert.Equal(t, 2000.74, runs[0].TotalRevenue)
	assert.Equal(t, 2.5, runs[0].OverallROAS)
	assert.Equal(t, "abc", runs[0].InputDigest)
}
