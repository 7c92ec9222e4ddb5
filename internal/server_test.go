package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mcutler508/GymApp/internal/auth"
	"github.com/mcutler508/GymApp/internal/config"
	"github.com/mcutler508/GymApp/internal/kvstore"
	"github.com/mcutler508/GymApp/internal/routines"
	"github.com/mcutler508/GymApp/internal/telemetry/metrics"
	"github.com/mcutler508/GymApp/internal/workouts"
	"github.com/mcutler508/GymApp/internal/workouts/logbook"
	"github.com/mcutler508/GymApp/internal/workouts/stats"

	"github.com/go-redis/redismock/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		StorageBackend: config.StorageSQLite,
		SQLitePath:     ":memory:",
		AllowedOrigins: []string{"http://localhost:8081"},
	}
	cfg.ApplyDefaults()

	store, closeStore, err := newStore(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, closeStore())
	})

	rdb, _ := redismock.NewClientMock()
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	loginChecker := auth.NewLoginTestChecker()
	loginChecker.LoggedSessions[testToken] = "user-1"

	metricsManager := metrics.NewTestManager()
	serializedStore := kvstore.NewSerialized(store)
	assigner := workouts.NewSessionAssigner(workouts.SystemClock, cfg.SessionWindow)
	workoutsRepo := workouts.NewRepo(serializedStore)

	return &Server{
		config:       cfg,
		store:        store,
		versionInfo:  "test-version",
		redisClient:  rdb,
		loginChecker: loginChecker,
		authService:  auth.NewService(auth.ServiceParams{Secret: "s", MetricsManager: metricsManager}),
		logbookService: logbook.NewService(
			workoutsRepo, assigner, workouts.SystemClock, metricsManager,
		),
		routineService: routines.NewService(
			routines.NewRepo(serializedStore), workoutsRepo, assigner, workouts.SystemClock, metricsManager,
		),
		metricsManager: metricsManager,
	}
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestNewStore_UnknownBackend(t *testing.T) {
	_, _, err := newStore(context.Background(), &config.Config{StorageBackend: "floppy"}, nil, nil)
	assert.Error(t, err)
}

func TestServer_Router_PublicAndProtected(t *testing.T) {
	s := newTestServer(t)
	router := s.routerSetup()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "test-version", rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/workouts/progression?weight=100&difficulty=easy", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var progression logbook.ProgressionResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&progression))
	assert.Equal(t, 110.0, progression.NextWeight)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/routines", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/routines", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(t, router, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_Router_FreeWorkoutFlow(t *testing.T) {
	s := newTestServer(t)
	router := s.routerSetup()

	rr := doRequest(t, router, http.MethodPost, "/workouts/catalog", workouts.CatalogExercise{
		ID:          "squat",
		Name:        "Back Squat",
		MuscleGroup: workouts.MuscleGroupLegs,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var first, second workouts.LogEntry
	rr = doRequest(t, router, http.MethodPost, "/workouts/log", logbook.RecordWorkoutParams{
		ExerciseID: "squat",
		Sets:       []workouts.Set{{Weight: 135, Reps: 5}, {Weight: 185, Reps: 5}},
		Difficulty: workouts.DifficultyNormal,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&first))
	assert.Equal(t, workouts.MuscleGroupLegs, first.MuscleGroup)
	// 185 * 1.05 = 194.25
	assert.Equal(t, 195.0, first.NextWeight)

	rr = doRequest(t, router, http.MethodPost, "/workouts/log", logbook.RecordWorkoutParams{
		ExerciseID:   "lunge",
		ExerciseName: "Lunge",
		Sets:         []workouts.Set{{Weight: 40, Reps: 10}},
		Difficulty:   workouts.DifficultyHard,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&second))
	assert.Equal(t, first.SessionID, second.SessionID)

	rr = doRequest(t, router, http.MethodPost, "/workouts/sessions/"+first.SessionID+"/finish", logbook.FinishSessionRequest{Seconds: 1500})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doRequest(t, router, http.MethodGet, "/workouts/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var st stats.Stats
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&st))
	assert.Equal(t, 1, st.TotalWorkouts)
	assert.Equal(t, 2, st.TotalExercises)
	assert.Equal(t, 3, st.TotalSets)
	assert.Equal(t, 1500, st.TotalWorkoutTime)
	assert.Equal(t, 1, st.CurrentStreak)

	rr = doRequest(t, router, http.MethodGet, "/workouts/sessions", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var sessions []workouts.Session
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, 1500, sessions[0].TotalDuration)

	rr = doRequest(t, router, http.MethodDelete, "/workouts/sessions/"+first.SessionID, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metricsManager.CounterDeletedSessions))

	rr = doRequest(t, router, http.MethodGet, "/workouts/log", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var entries []workouts.LogEntry
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&entries))
	assert.Empty(t, entries)
}

func TestServer_Router_RoutineFlow(t *testing.T) {
	s := newTestServer(t)
	router := s.routerSetup()

	rr := doRequest(t, router, http.MethodPost, "/routines", routines.Routine{
		Name: "Pull day",
		Exercises: []routines.RoutineExercise{
			{ExerciseID: "row", ExerciseName: "Barbell Row", MuscleGroup: workouts.MuscleGroupBack, StartingWeight: 95},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var routine routines.Routine
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&routine))

	rr = doRequest(t, router, http.MethodPost, "/routines/"+routine.ID+"/start", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var started routines.StartWorkoutResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&started))

	rr = doRequest(t, router, http.MethodPost, "/routines/"+routine.ID+"/complete", routines.CompleteExerciseParams{
		SessionID:         started.SessionID,
		RoutineExerciseID: routine.Exercises[0].ID,
		Difficulty:        workouts.DifficultyEasy,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doRequest(t, router, http.MethodPost, "/routines/"+routine.ID+"/finish", routines.FinishWorkoutRequest{
		SessionID: started.SessionID,
		Seconds:   600,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doRequest(t, router, http.MethodGet, "/routines/"+routine.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var updated routines.Routine
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&updated))
	assert.True(t, updated.Completed)
	// 95 rated easy: 104.5 rounds to 105
	assert.Equal(t, 105.0, updated.Exercises[0].CurrentWeight)

	rr = doRequest(t, router, http.MethodGet, "/workouts/exercises/row/summary", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doRequest(t, router, http.MethodPost, "/routines/"+routine.ID+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var dup routines.Routine
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&dup))
	assert.Equal(t, 105.0, dup.Exercises[0].CurrentWeight)
}
