package routines

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcutler508/GymApp/internal/kvstore"
	"github.com/mcutler508/GymApp/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	store *kvstore.Serialized
}

func NewRepo(store *kvstore.Serialized) *Repo {
	return &Repo{
		store: store,
	}
}

func (r *Repo) List(ctx context.Context, userID string) (_ []Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	raw, err := r.store.Get(ctx, kvstore.KeysFor(userID).Routines())
	if errors.Is(err, kvstore.ErrNotFound) {
		return []Routine{}, nil
	}
	if err != nil {
		return nil, err
	}

	var routines []Routine
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &routines); err != nil {
			return nil, fmt.Errorf("unmarshal routines: %w", err)
		}
	}
	if routines == nil {
		routines = []Routine{}
	}
	span.SetAttributes(attribute.Int("routines", len(routines)))

	return routines, nil
}

// Update replaces the routine collection with whatever fn returns.
func (r *Repo) Update(ctx context.Context, userID string, fn func([]Routine) ([]Routine, error)) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.store.Update(ctx, kvstore.KeysFor(userID).Routines(), func(old string, found bool) (string, error) {
		var routines []Routine
		if found && old != "" {
			if err := json.Unmarshal([]byte(old), &routines); err != nil {
				return "", fmt.Errorf("unmarshal routines: %w", err)
			}
		}

		updated, err := fn(routines)
		if err != nil {
			return "", err
		}
		if updated == nil {
			updated = []Routine{}
		}

		raw, err := json.Marshal(updated)
		if err != nil {
			return "", fmt.Errorf("marshal routines: %w", err)
		}
		return string(raw), nil
	})
}
