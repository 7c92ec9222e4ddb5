package logbook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mcutler508/GymApp/internal/telemetry/metrics"
	"github.com/mcutler508/GymApp/internal/telemetry/tracing"
	"github.com/mcutler508/GymApp/internal/workouts"
	"github.com/mcutler508/GymApp/internal/workouts/breakdown"
	"github.com/mcutler508/GymApp/internal/workouts/stats"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrNoSets            = errors.New("a workout needs at least one set")
	ErrInvalidExercise   = errors.New("exercise id and name are required")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidDuration   = errors.New("duration must be positive")
	ErrExerciseNotFound  = errors.New("exercise not found")
	ErrExerciseNotLogged = errors.New("exercise was never logged")
)

type workoutsRepo interface {
	ListEntries(ctx context.Context, userID string) ([]workouts.LogEntry, error)
	UpdateEntries(ctx context.Context, userID string, fn func([]workouts.LogEntry) ([]workouts.LogEntry, error)) error
	LastPerformance(ctx context.Context, userID, exerciseID string) (*workouts.LastPerformance, error)
	SetLastPerformance(ctx context.Context, userID, exerciseID string, lp workouts.LastPerformance) error
	ListCatalog(ctx context.Context, userID string) ([]workouts.CatalogExercise, error)
	UpdateCatalog(ctx context.Context, userID string, fn func([]workouts.CatalogExercise) ([]workouts.CatalogExercise, error)) error
}

type RecordWorkoutParams struct {
	ExerciseID   string               `json:"exerciseId"`
	ExerciseName string               `json:"exerciseName"`
	MuscleGroup  workouts.MuscleGroup `json:"muscleGroup,omitempty"`
	Sets         []workouts.Set       `json:"sets"`
	Difficulty   workouts.Difficulty  `json:"difficulty"`
	StartTime    *time.Time           `json:"startTime,omitempty"`
	EndTime      *time.Time           `json:"endTime,omitempty"`
}

func (p RecordWorkoutParams) validate() error {
	if strings.TrimSpace(p.ExerciseID) == "" {
		return ErrInvalidExercise
	}
	if len(p.Sets) == 0 {
		return ErrNoSets
	}
	for _, set := range p.Sets {
		if err := workouts.ValidateWeight(set.Weight); err != nil {
			return err
		}
	}
	if !p.Difficulty.Valid() {
		return workouts.ErrInvalidDifficulty
	}
	if p.MuscleGroup != "" && !p.MuscleGroup.Valid() {
		return fmt.Errorf("%w: %s", workouts.ErrInvalidMuscleGroup, p.MuscleGroup)
	}
	return nil
}

type Service struct {
	repo           workoutsRepo
	assigner       *workouts.SessionAssigner
	clock          workouts.Clock
	metricsManager *metrics.Manager
}

func NewService(
	repo workoutsRepo,
	assigner *workouts.SessionAssigner,
	clock workouts.Clock,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:           repo,
		assigner:       assigner,
		clock:          clock,
		metricsManager: metricsManager,
	}
}

// RecordWorkout logs a free (non-routine) exercise. It joins the user's open
// session, or starts a new one when the last free entry is too old.
func (s *Service) RecordWorkout(ctx context.Context, userID string, params RecordWorkoutParams) (_ *workouts.LogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.logbook.recordWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", params.ExerciseID))

	if err := params.validate(); err != nil {
		return nil, err
	}

	catalog, err := s.repo.ListCatalog(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	muscleGroup := params.MuscleGroup
	exerciseName := params.ExerciseName
	for _, ex := range catalog {
		if ex.ID != params.ExerciseID {
			continue
		}
		if muscleGroup == "" {
			muscleGroup = ex.MuscleGroup
		}
		if exerciseName == "" {
			exerciseName = ex.Name
		}
		break
	}
	if muscleGroup == "" {
		muscleGroup = workouts.MuscleGroupOther
	}
	if exerciseName == "" {
		return nil, ErrInvalidExercise
	}

	lastSet := params.Sets[len(params.Sets)-1]
	entry := workouts.LogEntry{
		ID:           uuid.NewString(),
		ExerciseID:   params.ExerciseID,
		ExerciseName: exerciseName,
		MuscleGroup:  muscleGroup,
		Date:         s.clock.Now(),
		Sets:         params.Sets,
		Difficulty:   params.Difficulty,
		NextWeight:   workouts.NextWeight(lastSet.Weight, params.Difficulty),
		StartTime:    params.StartTime,
		EndTime:      params.EndTime,
	}
	if params.StartTime != nil && params.EndTime != nil && params.EndTime.After(*params.StartTime) {
		entry.Duration = workouts.IntPtr(int(params.EndTime.Sub(*params.StartTime).Seconds()))
	}

	err = s.repo.UpdateEntries(ctx, userID, func(entries []workouts.LogEntry) ([]workouts.LogEntry, error) {
		entry.SessionID = s.assigner.AssignFreeSession(entries)
		return append(entries, entry), nil
	})
	if err != nil {
		return nil, fmt.Errorf("append entry: %w", err)
	}
	span.SetAttributes(attribute.String("session.id", entry.SessionID))

	if err := s.repo.SetLastPerformance(ctx, userID, entry.ExerciseID, workouts.LastPerformanceOf(entry)); err != nil {
		return nil, fmt.Errorf("update last performance: %w", err)
	}

	s.metricsManager.CounterLoggedEntries.WithLabelValues("free").Inc()
	log.Debugf("logbook: user %s logged %s [%s] in session %s", userID, entry.ExerciseName, entry.ID, entry.SessionID)

	return &entry, nil
}

// FinishSession backfills the session duration on all its entries.
func (s *Service) FinishSession(ctx context.Context, userID, sessionID string, seconds int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.logbook.finishSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", sessionID))

	if seconds <= 0 {
		return 0, ErrInvalidDuration
	}

	updated := 0
	err = s.repo.UpdateEntries(ctx, userID, func(entries []workouts.LogEntry) ([]workouts.LogEntry, error) {
		var backfilled []workouts.LogEntry
		backfilled, updated = workouts.BackfillSessionDuration(entries, sessionID, seconds)
		if updated == 0 {
			return nil, ErrSessionNotFound
		}
		return backfilled, nil
	})
	if err != nil {
		return 0, err
	}

	return updated, nil
}

func (s *Service) Entries(ctx context.Context, userID string) ([]workouts.LogEntry, error) {
	return s.repo.ListEntries(ctx, userID)
}

func (s *Service) Sessions(ctx context.Context, userID string) (_ []workouts.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.logbook.sessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	entries, err := s.repo.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	return workouts.GroupIntoSessions(entries), nil
}

// DeleteSession removes every entry of the session. Single entries cannot
// be deleted on their own.
func (s *Service) DeleteSession(ctx context.Context, userID, sessionKey string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.logbook.deleteSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.key", sessionKey))

	removed := 0
	err = s.repo.UpdateEntries(ctx, userID, func(entries []workouts.LogEntry) ([]workouts.LogEntry, error) {
		var kept []workouts.LogEntry
		kept, removed = workouts.RemoveSession(entries, sessionKey)
		if removed == 0 {
			return nil, ErrSessionNotFound
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}

	s.metricsManager.CounterDeletedSessions.Inc()
	log.Debugf("logbook: user %s deleted session %s [%d entries]", userID, sessionKey, removed)

	return removed, nil
}

func (s *Service) Stats(ctx context.Context, userID string) (_ *stats.Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.logbook.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	entries, err := s.repo.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := stats.Compute(entries, s.clock.Now())
	s.metricsManager.HistStatsComputeDuration.Observe(time.Since(start).Seconds())

	return result, nil
}

func (s *Service) Breakdown(ctx context.Context, userID string, filter breakdown.DateFilter) (_ []breakdown.MuscleGroupBreakdown, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.logbook.breakdown")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	entries, err := s.repo.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	return breakdown.ByMuscleGroupAndExercise(entries, filter), nil
}

func (s *Service) ExerciseSummary(ctx context.Context, userID, exerciseID string) (_ *stats.ExerciseSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.logbook.exerciseSummary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	entries, err := s.repo.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := stats.SummarizeExercise(entries, exerciseID)
	if summary == nil {
		return nil, ErrExerciseNotLogged
	}
	return summary, nil
}

func (s *Service) LastPerformance(ctx context.Context, userID, exerciseID string) (*workouts.LastPerformance, error) {
	lp, err := s.repo.LastPerformance(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}
	if lp == nil {
		return nil, ErrExerciseNotLogged
	}
	return lp, nil
}

func (s *Service) ListCatalog(ctx context.Context, userID string) ([]workouts.CatalogExercise, error) {
	return s.repo.ListCatalog(ctx, userID)
}

func (s *Service) AddCatalogExercise(ctx context.Context, userID string, ex workouts.CatalogExercise) (_ *workouts.CatalogExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.logbook.addCatalogExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	ex.Name = strings.TrimSpace(ex.Name)
	if ex.Name == "" {
		return nil, ErrInvalidExercise
	}
	if ex.MuscleGroup == "" {
		ex.MuscleGroup = workouts.MuscleGroupOther
	}
	if !ex.MuscleGroup.Valid() {
		return nil, fmt.Errorf("%w: %s", workouts.ErrInvalidMuscleGroup, ex.MuscleGroup)
	}
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	ex.CreatedAt = s.clock.Now()

	err = s.repo.UpdateCatalog(ctx, userID, func(catalog []workouts.CatalogExercise) ([]workouts.CatalogExercise, error) {
		for i := range catalog {
			if catalog[i].ID == ex.ID {
				catalog[i] = ex
				return catalog, nil
			}
		}
		return append(catalog, ex), nil
	})
	if err != nil {
		return nil, err
	}

	return &ex, nil
}

func (s *Service) DeleteCatalogExercise(ctx context.Context, userID, exerciseID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.logbook.deleteCatalogExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.repo.UpdateCatalog(ctx, userID, func(catalog []workouts.CatalogExercise) ([]workouts.CatalogExercise, error) {
		for i := range catalog {
			if catalog[i].ID == exerciseID {
				return append(catalog[:i], catalog[i+1:]...), nil
			}
		}
		return nil, ErrExerciseNotFound
	})
}
