package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcutler508/GymApp/internal/kvstore"
	"github.com/mcutler508/GymApp/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Repo persists a user's workout collections as JSON documents.
// Every mutation is a serialized read-modify-write of the whole collection.
type Repo struct {
	store *kvstore.Serialized
}

func NewRepo(store *kvstore.Serialized) *Repo {
	return &Repo{
		store: store,
	}
}

func (r *Repo) ListEntries(ctx context.Context, userID string) (_ []LogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listEntries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var entries []LogEntry
	if err := r.load(ctx, kvstore.KeysFor(userID).WorkoutLogs(), &entries); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("entries", len(entries)))

	if entries == nil {
		entries = []LogEntry{}
	}
	return entries, nil
}

func (r *Repo) AppendEntry(ctx context.Context, userID string, entry LogEntry) error {
	return r.UpdateEntries(ctx, userID, func(entries []LogEntry) ([]LogEntry, error) {
		return append(entries, entry), nil
	})
}

// UpdateEntries replaces the entry collection with whatever fn returns.
// No other writer of the same user's log runs while fn does. An emptied
// log is removed from the store.
func (r *Repo) UpdateEntries(ctx context.Context, userID string, fn func([]LogEntry) ([]LogEntry, error)) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.updateEntries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.store.Update(ctx, kvstore.KeysFor(userID).WorkoutLogs(), func(old string, found bool) (string, error) {
		var entries []LogEntry
		if found && old != "" {
			if err := json.Unmarshal([]byte(old), &entries); err != nil {
				return "", fmt.Errorf("unmarshal workout logs: %w", err)
			}
		}

		updated, err := fn(entries)
		if err != nil {
			return "", err
		}
		if len(updated) == 0 {
			return "", nil
		}

		raw, err := json.Marshal(updated)
		if err != nil {
			return "", fmt.Errorf("marshal workout logs: %w", err)
		}
		return string(raw), nil
	})
}

// LastPerformance returns nil when the exercise has no recorded history.
func (r *Repo) LastPerformance(ctx context.Context, userID, exerciseID string) (_ *LastPerformance, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.lastPerformance")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	history := map[string]LastPerformance{}
	if err := r.load(ctx, kvstore.KeysFor(userID).WorkoutHistory(), &history); err != nil {
		return nil, err
	}

	lp, ok := history[exerciseID]
	if !ok {
		return nil, nil
	}
	return &lp, nil
}

func (r *Repo) SetLastPerformance(ctx context.Context, userID, exerciseID string, lp LastPerformance) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.setLastPerformance")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	return r.store.Update(ctx, kvstore.KeysFor(userID).WorkoutHistory(), func(old string, found bool) (string, error) {
		history := map[string]LastPerformance{}
		if found && old != "" {
			if err := json.Unmarshal([]byte(old), &history); err != nil {
				return "", fmt.Errorf("unmarshal workout history: %w", err)
			}
		}
		history[exerciseID] = lp

		raw, err := json.Marshal(history)
		if err != nil {
			return "", fmt.Errorf("marshal workout history: %w", err)
		}
		return string(raw), nil
	})
}

func (r *Repo) ListCatalog(ctx context.Context, userID string) (_ []CatalogExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listCatalog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var catalog []CatalogExercise
	if err := r.load(ctx, kvstore.KeysFor(userID).Exercises(), &catalog); err != nil {
		return nil, err
	}
	if catalog == nil {
		catalog = []CatalogExercise{}
	}
	return catalog, nil
}

func (r *Repo) UpdateCatalog(ctx context.Context, userID string, fn func([]CatalogExercise) ([]CatalogExercise, error)) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.updateCatalog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.store.Update(ctx, kvstore.KeysFor(userID).Exercises(), func(old string, found bool) (string, error) {
		var catalog []CatalogExercise
		if found && old != "" {
			if err := json.Unmarshal([]byte(old), &catalog); err != nil {
				return "", fmt.Errorf("unmarshal exercise catalog: %w", err)
			}
		}

		updated, err := fn(catalog)
		if err != nil {
			return "", err
		}
		if updated == nil {
			updated = []CatalogExercise{}
		}

		raw, err := json.Marshal(updated)
		if err != nil {
			return "", fmt.Errorf("marshal exercise catalog: %w", err)
		}
		return string(raw), nil
	})
}

// load leaves dst untouched when the key does not exist yet.
func (r *Repo) load(ctx context.Context, key string, dst any) error {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}
