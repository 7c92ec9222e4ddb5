package routines

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcutler508/GymApp/internal/auth"
	"github.com/mcutler508/GymApp/internal/telemetry/tracing"
	"github.com/mcutler508/GymApp/internal/workouts"
	"github.com/mcutler508/GymApp/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=routines_test

type routinesService interface {
	List(ctx context.Context, userID string) ([]Routine, error)
	Get(ctx context.Context, userID, routineID string) (*Routine, error)
	Create(ctx context.Context, userID string, routine Routine) (*Routine, error)
	Update(ctx context.Context, userID string, routine Routine) (*Routine, error)
	Delete(ctx context.Context, userID, routineID string) error
	StartWorkout(ctx context.Context, userID, routineID string) (string, error)
	CompleteExercise(ctx context.Context, userID, routineID string, params CompleteExerciseParams) (*workouts.LogEntry, error)
	FinishWorkout(ctx context.Context, userID, routineID, sessionID string, seconds int) (*Routine, error)
	Duplicate(ctx context.Context, userID, routineID string) (*Routine, error)
}

type StartWorkoutResponse struct {
	RoutineID string `json:"routineId"`
	SessionID string `json:"sessionId"`
}

type FinishWorkoutRequest struct {
	SessionID string `json:"sessionId"`
	Seconds   int    `json:"seconds"`
}

type Handler struct {
	service routinesService
}

func NewHandler(service routinesService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	all, err := handler.service.List(ctx, userID)
	if err != nil {
		writeServiceError(w, "list", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, all)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	routine, err := handler.service.Get(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, "get", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, routine)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var routine Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		log.Errorf("create routine, unmarshal json params: %s", err)
		http.Error(w, "invalid routine", http.StatusBadRequest)
		return
	}

	created, err := handler.service.Create(ctx, userID, routine)
	if err != nil {
		writeServiceError(w, "create", err)
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, created)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var routine Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		http.Error(w, "invalid routine", http.StatusBadRequest)
		return
	}
	routine.ID = mux.Vars(r)["id"]

	updated, err := handler.service.Update(ctx, userID, routine)
	if err != nil {
		writeServiceError(w, "update", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, updated)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if err := handler.service.Delete(ctx, userID, id); err != nil {
		writeServiceError(w, "delete", err)
		return
	}

	pkg.WriteTextResponseOK(w, id)
}

func (handler *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.start")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	routineID := mux.Vars(r)["id"]
	sessionID, err := handler.service.StartWorkout(ctx, userID, routineID)
	if err != nil {
		writeServiceError(w, "start", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, StartWorkoutResponse{RoutineID: routineID, SessionID: sessionID})
}

func (handler *Handler) HandleCompleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.completeExercise")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var params CompleteExerciseParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	entry, err := handler.service.CompleteExercise(ctx, userID, mux.Vars(r)["id"], params)
	if err != nil {
		writeServiceError(w, "complete exercise", err)
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, entry)
}

func (handler *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.finish")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req FinishWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	routine, err := handler.service.FinishWorkout(ctx, userID, mux.Vars(r)["id"], req.SessionID, req.Seconds)
	if err != nil {
		writeServiceError(w, "finish", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, routine)
}

func (handler *Handler) HandleDuplicate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.duplicate")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	dup, err := handler.service.Duplicate(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, "duplicate", err)
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, dup)
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrRoutineNotFound),
		errors.Is(err, ErrRoutineExerciseNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrEmptyRoutine),
		errors.Is(err, ErrInvalidRoutine),
		errors.Is(err, ErrSessionMismatch),
		errors.Is(err, workouts.ErrInvalidWeight),
		errors.Is(err, workouts.ErrInvalidDifficulty),
		errors.Is(err, workouts.ErrInvalidMuscleGroup):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("routines %s: %s", op, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
