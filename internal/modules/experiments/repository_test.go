package experiments

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db, zerolog.New(nil).Level(zerolog.Disabled))
	require.NoError(t, repo.Migrate())
	return repo
}

func TestRepositoryRecordAndRecent(t *testing.T) {
	repo := setupTestRepository(t)

	result := map[string]int{"00": 490, "11": 510}
	id, err := repo.Record("bell", `{"shots":1000}`, result)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	runs, err := repo.Recent("", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "bell", runs[0].Kind)
	assert.Equal(t, `{"shots":1000}`, runs[0].Params)
	assert.NotNil(t, runs[0].Result)
}

func TestRepositoryKindFilter(t *testing.T) {
	repo := setupTestRepository(t)

	_, err := repo.Record("bell", `{}`, map[string]int{})
	require.NoError(t, err)
	_, err = repo.Record("bb84", `{}`, map[string]int{})
	require.NoError(t, err)

	runs, err := repo.Recent("bb84", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "bb84", runs[0].Kind)

	runs, err = repo.Recent("", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRepositoryLimitDefaults(t *testing.T) {
	repo := setupTestRepository(t)
	for i := 0; i < 25; i++ {
		_, err := repo.Record("ghz", `{}`, map[string]int{"000": i})
		require.NoError(t, err)
	}

	runs, err := repo.Recent("", 0)
	require.NoError(t, err)
	assert.Len(t, runs, 20, "non-positive limit falls back to default")

	runs, err = repo.Recent("", 5)
	require.NoError(t, err)
	assert.Len(t, runs, 5)
}

func TestRepositoryPrune(t *testing.T) {
	repo := setupTestRepository(t)

	_, err := repo.Record("bell", `{}`, map[string]int{})
	require.NoError(t, err)

	// Fresh rows survive a prune with a wide retention window.
	deleted, err := repo.PruneOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	// A negative retention makes the cutoff land in the future, sweeping all.
	deleted, err = repo.PruneOlderThan(-time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	runs, err := repo.Recent("", 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
