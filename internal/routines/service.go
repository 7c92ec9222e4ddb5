package routines

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mcutler508/GymApp/internal/telemetry/metrics"
	"github.com/mcutler508/GymApp/internal/telemetry/tracing"
	"github.com/mcutler508/GymApp/internal/workouts"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrRoutineNotFound         = errors.New("routine not found")
	ErrRoutineExerciseNotFound = errors.New("routine exercise not found")
	ErrEmptyRoutine            = errors.New("routine has no exercises")
	ErrInvalidRoutine          = errors.New("routine name is required")
	ErrSessionMismatch         = errors.New("session does not belong to a routine workout")
)

type routinesRepo interface {
	List(ctx context.Context, userID string) ([]Routine, error)
	Update(ctx context.Context, userID string, fn func([]Routine) ([]Routine, error)) error
}

type logRepo interface {
	ListEntries(ctx context.Context, userID string) ([]workouts.LogEntry, error)
	UpdateEntries(ctx context.Context, userID string, fn func([]workouts.LogEntry) ([]workouts.LogEntry, error)) error
	SetLastPerformance(ctx context.Context, userID, exerciseID string, lp workouts.LastPerformance) error
}

type CompleteExerciseParams struct {
	SessionID         string              `json:"sessionId"`
	RoutineExerciseID string              `json:"routineExerciseId"`
	Difficulty        workouts.Difficulty `json:"difficulty"`
	// Seconds spent on the exercise, optional.
	Seconds int `json:"seconds,omitempty"`
}

type Service struct {
	repo           routinesRepo
	logs           logRepo
	assigner       *workouts.SessionAssigner
	clock          workouts.Clock
	metricsManager *metrics.Manager
}

func NewService(
	repo routinesRepo,
	logs logRepo,
	assigner *workouts.SessionAssigner,
	clock workouts.Clock,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:           repo,
		logs:           logs,
		assigner:       assigner,
		clock:          clock,
		metricsManager: metricsManager,
	}
}

func (s *Service) List(ctx context.Context, userID string) ([]Routine, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, routineID string) (*Routine, error) {
	all, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == routineID {
			return &all[i], nil
		}
	}
	return nil, ErrRoutineNotFound
}

func (s *Service) Create(ctx context.Context, userID string, routine Routine) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.routines.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := prepare(&routine); err != nil {
		return nil, err
	}
	routine.ID = "routine-" + uuid.NewString()
	routine.CreatedAt = s.clock.Now()
	routine.LastPerformed = nil
	routine.Completed = false
	routine.CompletedAt = nil

	err = s.repo.Update(ctx, userID, func(all []Routine) ([]Routine, error) {
		return append(all, routine), nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("routine.id", routine.ID))

	return &routine, nil
}

// Update replaces name and exercises of an existing routine. Progress
// fields of exercises that are kept are preserved.
func (s *Service) Update(ctx context.Context, userID string, routine Routine) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.routines.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routine.ID))

	if err := prepare(&routine); err != nil {
		return nil, err
	}

	var updated Routine
	err = s.modify(ctx, userID, routine.ID, func(existing *Routine) error {
		for i := range routine.Exercises {
			ex := &routine.Exercises[i]
			prev, ok := existing.exercise(ex.ID)
			if !ok {
				continue
			}
			if ex.LastDifficulty == "" {
				ex.LastDifficulty = prev.LastDifficulty
			}
			if ex.LastPerformed == nil {
				ex.LastPerformed = prev.LastPerformed
			}
		}
		existing.Name = routine.Name
		existing.Exercises = routine.Exercises
		updated = *existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, userID, routineID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.routines.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routineID))

	return s.repo.Update(ctx, userID, func(all []Routine) ([]Routine, error) {
		for i := range all {
			if all[i].ID == routineID {
				return append(all[:i], all[i+1:]...), nil
			}
		}
		return nil, ErrRoutineNotFound
	})
}

// StartWorkout mints the session id shared by every exercise completed in
// this run of the routine.
func (s *Service) StartWorkout(ctx context.Context, userID, routineID string) (string, error) {
	routine, err := s.Get(ctx, userID, routineID)
	if err != nil {
		return "", err
	}
	if len(routine.Exercises) == 0 {
		return "", ErrEmptyRoutine
	}

	sessionID := s.assigner.NewRoutineSession()
	log.Debugf("routines: user %s started routine %s, session %s", userID, routineID, sessionID)

	return sessionID, nil
}

// CompleteExercise logs one routine exercise at its working weight and
// moves the exercise on to the recommended next weight.
func (s *Service) CompleteExercise(ctx context.Context, userID, routineID string, params CompleteExerciseParams) (_ *workouts.LogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.routines.completeExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("routine.id", routineID),
		attribute.String("session.id", params.SessionID),
	)

	if !params.Difficulty.Valid() {
		return nil, workouts.ErrInvalidDifficulty
	}
	if !workouts.IsRoutineSession(params.SessionID) {
		return nil, ErrSessionMismatch
	}

	now := s.clock.Now()
	var entry workouts.LogEntry
	// the routine is saved only after its log entry is appended
	err = s.modify(ctx, userID, routineID, func(routine *Routine) error {
		ex, ok := routine.exercise(params.RoutineExerciseID)
		if !ok {
			return ErrRoutineExerciseNotFound
		}

		weight := ex.WorkingWeight()
		nextWeight := workouts.NextWeight(weight, params.Difficulty)

		entry = workouts.LogEntry{
			ID:           uuid.NewString(),
			SessionID:    params.SessionID,
			RoutineID:    routine.ID,
			RoutineName:  routine.Name,
			ExerciseID:   ex.ExerciseID,
			ExerciseName: ex.ExerciseName,
			MuscleGroup:  ex.MuscleGroup,
			Date:         now,
			// routine workouts do not track reps
			Sets:       []workouts.Set{{Weight: weight, Reps: 0}},
			Difficulty: params.Difficulty,
			NextWeight: nextWeight,
		}
		if params.Seconds > 0 {
			entry.Duration = workouts.IntPtr(params.Seconds)
		}

		err := s.logs.UpdateEntries(ctx, userID, func(entries []workouts.LogEntry) ([]workouts.LogEntry, error) {
			if err := checkSessionOwner(entries, params.SessionID, routine.ID); err != nil {
				return nil, err
			}
			return append(entries, entry), nil
		})
		if err != nil {
			return fmt.Errorf("append entry: %w", err)
		}

		ex.CurrentWeight = nextWeight
		ex.LastDifficulty = params.Difficulty
		ex.LastPerformed = &now
		routine.LastPerformed = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.logs.SetLastPerformance(ctx, userID, entry.ExerciseID, workouts.LastPerformanceOf(entry)); err != nil {
		return nil, fmt.Errorf("update last performance: %w", err)
	}

	s.metricsManager.CounterLoggedEntries.WithLabelValues("routine").Inc()

	return &entry, nil
}

// FinishWorkout ends a routine run, whether every exercise was done or the
// workout was stopped early. Seconds, when positive, is backfilled as the
// session duration of the logged entries.
func (s *Service) FinishWorkout(ctx context.Context, userID, routineID, sessionID string, seconds int) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.routines.finishWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("routine.id", routineID),
		attribute.String("session.id", sessionID),
	)

	if sessionID != "" && !workouts.IsRoutineSession(sessionID) {
		return nil, ErrSessionMismatch
	}

	now := s.clock.Now()
	var finished Routine
	err = s.modify(ctx, userID, routineID, func(routine *Routine) error {
		if seconds > 0 && sessionID != "" {
			err := s.logs.UpdateEntries(ctx, userID, func(entries []workouts.LogEntry) ([]workouts.LogEntry, error) {
				if err := checkSessionOwner(entries, sessionID, routine.ID); err != nil {
					return nil, err
				}
				updated, n := workouts.BackfillSessionDuration(entries, sessionID, seconds)
				span.SetAttributes(attribute.Int("entries.backfilled", n))
				return updated, nil
			})
			if err != nil {
				return fmt.Errorf("backfill session duration: %w", err)
			}
		} else if sessionID != "" {
			entries, err := s.logs.ListEntries(ctx, userID)
			if err != nil {
				return fmt.Errorf("list entries: %w", err)
			}
			if err := checkSessionOwner(entries, sessionID, routine.ID); err != nil {
				return err
			}
		}

		routine.Completed = true
		routine.CompletedAt = &now
		finished = *routine
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &finished, nil
}

// Duplicate copies a routine so it can be run again. Each exercise starts
// from the most recent recommendation found in the log.
func (s *Service) Duplicate(ctx context.Context, userID, routineID string) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.routines.duplicate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routineID))

	original, err := s.Get(ctx, userID, routineID)
	if err != nil {
		return nil, err
	}
	if len(original.Exercises) == 0 {
		return nil, ErrEmptyRoutine
	}

	entries, err := s.logs.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	latest := latestNextWeights(entries)

	dup := Routine{
		ID:        "routine-" + uuid.NewString(),
		Name:      original.Name + " (Copy)",
		CreatedAt: s.clock.Now(),
		Exercises: make([]RoutineExercise, 0, len(original.Exercises)),
	}
	for _, ex := range original.Exercises {
		ex.ID = uuid.NewString()
		if w := latest[ex.ExerciseID]; w > 0 {
			ex.CurrentWeight = w
		} else {
			ex.CurrentWeight = ex.WorkingWeight()
		}
		ex.LastDifficulty = ""
		ex.LastPerformed = nil
		dup.Exercises = append(dup.Exercises, ex)
	}

	err = s.repo.Update(ctx, userID, func(all []Routine) ([]Routine, error) {
		return append(all, dup), nil
	})
	if err != nil {
		return nil, err
	}

	return &dup, nil
}

func (s *Service) modify(ctx context.Context, userID, routineID string, fn func(*Routine) error) error {
	return s.repo.Update(ctx, userID, func(all []Routine) ([]Routine, error) {
		for i := range all {
			if all[i].ID != routineID {
				continue
			}
			if err := fn(&all[i]); err != nil {
				return nil, err
			}
			return all, nil
		}
		return nil, ErrRoutineNotFound
	})
}

// checkSessionOwner rejects a session id already used by entries that are
// not part of the given routine.
func checkSessionOwner(entries []workouts.LogEntry, sessionID, routineID string) error {
	for _, e := range entries {
		if e.SessionID == sessionID && e.RoutineID != routineID {
			return ErrSessionMismatch
		}
	}
	return nil
}

// latestNextWeights maps exercise ids to the nextWeight of their newest entry.
func latestNextWeights(entries []workouts.LogEntry) map[string]float64 {
	sorted := make([]workouts.LogEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	weights := make(map[string]float64)
	for _, e := range sorted {
		if _, ok := weights[e.ExerciseID]; !ok {
			weights[e.ExerciseID] = e.NextWeight
		}
	}
	return weights
}

func prepare(routine *Routine) error {
	routine.Name = strings.TrimSpace(routine.Name)
	if routine.Name == "" {
		return ErrInvalidRoutine
	}
	for i := range routine.Exercises {
		ex := &routine.Exercises[i]
		if ex.ExerciseID == "" || ex.ExerciseName == "" {
			return fmt.Errorf("%w: exercise %d needs an id and a name", ErrInvalidRoutine, i)
		}
		if err := workouts.ValidateWeight(ex.StartingWeight); err != nil {
			return err
		}
		if err := workouts.ValidateWeight(ex.CurrentWeight); err != nil {
			return err
		}
		if ex.MuscleGroup == "" {
			ex.MuscleGroup = workouts.MuscleGroupOther
		}
		if !ex.MuscleGroup.Valid() {
			return fmt.Errorf("%w: %s", workouts.ErrInvalidMuscleGroup, ex.MuscleGroup)
		}
		if ex.ID == "" {
			ex.ID = uuid.NewString()
		}
		if ex.CurrentWeight == 0 {
			ex.CurrentWeight = ex.StartingWeight
		}
		ex.Order = i
	}
	return nil
}
