package workouts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mcutler508/GymApp/internal/kvstore"
	"github.com/mcutler508/GymApp/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*workouts.Repo, *kvstore.Serialized) {
	t.Helper()
	sqliteStore, err := kvstore.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, sqliteStore.Close())
	})
	store := kvstore.NewSerialized(sqliteStore)
	return workouts.NewRepo(store), store
}

func TestRepo_Entries(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(t)

	entries, err := repo.ListEntries(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	require.NoError(t, repo.AppendEntry(ctx, "u1", workouts.LogEntry{ID: "1", SessionID: "A", Date: day(1, 10)}))
	require.NoError(t, repo.AppendEntry(ctx, "u1", workouts.LogEntry{ID: "2", SessionID: "A", Date: day(1, 11)}))
	require.NoError(t, repo.AppendEntry(ctx, "u2", workouts.LogEntry{ID: "3", Date: day(1, 11)}))

	entries, err = repo.ListEntries(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1", entries[0].ID)
	assert.Equal(t, day(1, 10), entries[0].Date.UTC())

	errBoom := errors.New("boom")
	err = repo.UpdateEntries(ctx, "u1", func(entries []workouts.LogEntry) ([]workouts.LogEntry, error) {
		return nil, errBoom
	})
	require.ErrorIs(t, err, errBoom)

	err = repo.UpdateEntries(ctx, "u1", func(entries []workouts.LogEntry) ([]workouts.LogEntry, error) {
		kept, _ := workouts.RemoveSession(entries, "A")
		return kept, nil
	})
	require.NoError(t, err)

	entries, err = repo.ListEntries(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	// the emptied log no longer occupies a key
	_, err = store.Get(ctx, kvstore.KeysFor("u1").WorkoutLogs())
	require.ErrorIs(t, err, kvstore.ErrNotFound)

	entries, err = repo.ListEntries(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRepo_CorruptedLog(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(t)

	require.NoError(t, store.Set(ctx, kvstore.KeysFor("u1").WorkoutLogs(), "{not json"))
	_, err := repo.ListEntries(ctx, "u1")
	require.Error(t, err)

	err = repo.AppendEntry(ctx, "u1", workouts.LogEntry{ID: "1"})
	require.Error(t, err)
}

func TestRepo_LastPerformance(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	lp, err := repo.LastPerformance(ctx, "u1", "bench")
	require.NoError(t, err)
	assert.Nil(t, lp)

	entry := workouts.LogEntry{
		ExerciseName: "Bench",
		Date:         day(2, 10),
		Sets:         []workouts.Set{{Weight: 100, Reps: 5}},
		Difficulty:   workouts.DifficultyNormal,
		NextWeight:   105,
	}
	require.NoError(t, repo.SetLastPerformance(ctx, "u1", "bench", workouts.LastPerformanceOf(entry)))
	require.NoError(t, repo.SetLastPerformance(ctx, "u1", "squat", workouts.LastPerformance{ExerciseName: "Squat"}))

	lp, err = repo.LastPerformance(ctx, "u1", "bench")
	require.NoError(t, err)
	require.NotNil(t, lp)
	assert.Equal(t, 105.0, lp.NextWeight)
	assert.Equal(t, "Bench", lp.ExerciseName)
	assert.Equal(t, []workouts.Set{{Weight: 100, Reps: 5}}, lp.Sets)
}

func TestRepo_Catalog(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	catalog, err := repo.ListCatalog(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, catalog)

	err = repo.UpdateCatalog(ctx, "u1", func(c []workouts.CatalogExercise) ([]workouts.CatalogExercise, error) {
		return append(c, workouts.CatalogExercise{ID: "bench", Name: "Bench Press", MuscleGroup: workouts.MuscleGroupChest}), nil
	})
	require.NoError(t, err)

	catalog, err = repo.ListCatalog(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, workouts.MuscleGroupChest, catalog[0].MuscleGroup)
}
