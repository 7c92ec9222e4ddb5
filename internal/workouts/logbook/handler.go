package logbook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mcutler508/GymApp/internal/auth"
	"github.com/mcutler508/GymApp/internal/telemetry/tracing"
	"github.com/mcutler508/GymApp/internal/workouts"
	"github.com/mcutler508/GymApp/internal/workouts/breakdown"
	"github.com/mcutler508/GymApp/internal/workouts/stats"
	"github.com/mcutler508/GymApp/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=logbook_test

type logbookService interface {
	RecordWorkout(ctx context.Context, userID string, params RecordWorkoutParams) (*workouts.LogEntry, error)
	FinishSession(ctx context.Context, userID, sessionID string, seconds int) (int, error)
	Entries(ctx context.Context, userID string) ([]workouts.LogEntry, error)
	Sessions(ctx context.Context, userID string) ([]workouts.Session, error)
	DeleteSession(ctx context.Context, userID, sessionKey string) (int, error)
	Stats(ctx context.Context, userID string) (*stats.Stats, error)
	Breakdown(ctx context.Context, userID string, filter breakdown.DateFilter) ([]breakdown.MuscleGroupBreakdown, error)
	ExerciseSummary(ctx context.Context, userID, exerciseID string) (*stats.ExerciseSummary, error)
	LastPerformance(ctx context.Context, userID, exerciseID string) (*workouts.LastPerformance, error)
	ListCatalog(ctx context.Context, userID string) ([]workouts.CatalogExercise, error)
	AddCatalogExercise(ctx context.Context, userID string, ex workouts.CatalogExercise) (*workouts.CatalogExercise, error)
	DeleteCatalogExercise(ctx context.Context, userID, exerciseID string) error
}

type FinishSessionRequest struct {
	Seconds int `json:"seconds"`
}

type SessionUpdateResponse struct {
	SessionID string `json:"sessionId"`
	Entries   int    `json:"entries"`
}

type ProgressionResponse struct {
	Weight     float64             `json:"weight"`
	Difficulty workouts.Difficulty `json:"difficulty"`
	NextWeight float64             `json:"nextWeight"`
}

type Handler struct {
	service logbookService
}

func NewHandler(service logbookService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.record")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var params RecordWorkoutParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Errorf("record workout, unmarshal json params: %s", err)
		http.Error(w, "invalid workout", http.StatusBadRequest)
		return
	}

	entry, err := handler.service.RecordWorkout(ctx, userID, params)
	if err != nil {
		writeServiceError(w, "record workout", err)
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, entry)
}

func (handler *Handler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.listEntries")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := handler.service.Entries(ctx, userID)
	if err != nil {
		writeServiceError(w, "list entries", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, entries)
}

func (handler *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.sessions")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sessions, err := handler.service.Sessions(ctx, userID)
	if err != nil {
		writeServiceError(w, "list sessions", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, sessions)
}

func (handler *Handler) HandleFinishSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.finishSession")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID := mux.Vars(r)["id"]
	if sessionID == "" {
		http.Error(w, "error, session id empty", http.StatusBadRequest)
		return
	}

	var req FinishSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	updated, err := handler.service.FinishSession(ctx, userID, sessionID, req.Seconds)
	if err != nil {
		writeServiceError(w, "finish session", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, SessionUpdateResponse{SessionID: sessionID, Entries: updated})
}

func (handler *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.deleteSession")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sessionKey := mux.Vars(r)["id"]
	if sessionKey == "" {
		http.Error(w, "error, session id empty", http.StatusBadRequest)
		return
	}

	removed, err := handler.service.DeleteSession(ctx, userID, sessionKey)
	if err != nil {
		writeServiceError(w, "delete session", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, SessionUpdateResponse{SessionID: sessionKey, Entries: removed})
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.stats")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	s, err := handler.service.Stats(ctx, userID)
	if err != nil {
		writeServiceError(w, "stats", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, s)
}

// HandleBreakdown accepts optional RFC 3339 "from" and "to" query params.
func (handler *Handler) HandleBreakdown(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.breakdown")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var filter breakdown.DateFilter
	for param, bound := range map[string]**time.Time{"from": &filter.Start, "to": &filter.End} {
		raw := r.URL.Query().Get(param)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "error, invalid "+param+" date", http.StatusBadRequest)
			return
		}
		*bound = &t
	}

	result, err := handler.service.Breakdown(ctx, userID, filter)
	if err != nil {
		writeServiceError(w, "breakdown", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, result)
}

func (handler *Handler) HandleExerciseSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.exerciseSummary")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := handler.service.ExerciseSummary(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, "exercise summary", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, summary)
}

func (handler *Handler) HandleLastPerformance(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.lastPerformance")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	lp, err := handler.service.LastPerformance(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, "last performance", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, lp)
}

func (handler *Handler) HandleListCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.listCatalog")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	catalog, err := handler.service.ListCatalog(ctx, userID)
	if err != nil {
		writeServiceError(w, "list catalog", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, catalog)
}

func (handler *Handler) HandleAddCatalogExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.addCatalogExercise")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var ex workouts.CatalogExercise
	if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
		http.Error(w, "invalid exercise", http.StatusBadRequest)
		return
	}

	added, err := handler.service.AddCatalogExercise(ctx, userID, ex)
	if err != nil {
		writeServiceError(w, "add catalog exercise", err)
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, added)
}

func (handler *Handler) HandleDeleteCatalogExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.deleteCatalogExercise")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if err := handler.service.DeleteCatalogExercise(ctx, userID, id); err != nil {
		writeServiceError(w, "delete catalog exercise", err)
		return
	}

	pkg.WriteTextResponseOK(w, id)
}

// HandleProgression previews the recommended weight: ?weight=100&difficulty=easy
func (handler *Handler) HandleProgression(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.logbook.progression")
	defer span.End()

	weight, err := strconv.ParseFloat(r.URL.Query().Get("weight"), 64)
	if err != nil {
		http.Error(w, "error, weight NaN", http.StatusBadRequest)
		return
	}
	if err := workouts.ValidateWeight(weight); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	difficulty, err := workouts.ParseDifficulty(r.URL.Query().Get("difficulty"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, ProgressionResponse{
		Weight:     weight,
		Difficulty: difficulty,
		NextWeight: workouts.NextWeight(weight, difficulty),
	})
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNoSets),
		errors.Is(err, ErrInvalidExercise),
		errors.Is(err, ErrInvalidDuration),
		errors.Is(err, workouts.ErrInvalidWeight),
		errors.Is(err, workouts.ErrInvalidDifficulty),
		errors.Is(err, workouts.ErrInvalidMuscleGroup):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrExerciseNotFound),
		errors.Is(err, ErrExerciseNotLogged):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Errorf("logbook %s: %s", op, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
