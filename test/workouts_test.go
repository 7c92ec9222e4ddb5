//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"

	"github.com/mcutler508/GymApp/internal/auth"
	"github.com/mcutler508/GymApp/internal/routines"
	"github.com/mcutler508/GymApp/internal/workouts"
	"github.com/mcutler508/GymApp/internal/workouts/logbook"
	"github.com/mcutler508/GymApp/internal/workouts/stats"
)

func (s *IntegrationTestSuite) TestAuth_SessionAndRejects() {
	ctx := context.Background()

	resp := doRequest(ctx, s.T(), http.MethodGet, "/auth/session", s.token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var user auth.User
	decodeBody(s.T(), resp, &user)
	s.Equal(testEmail, user.Email)

	resp = doRequest(ctx, s.T(), http.MethodPost, "/auth/signup", "", auth.SignUpRequest{
		Email:    testEmail,
		Password: testPassword,
	})
	resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)

	resp = doRequest(ctx, s.T(), http.MethodPost, "/auth/signin", "", auth.SignInRequest{
		Email:    testEmail,
		Password: "wrong-password",
	})
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(ctx, s.T(), http.MethodGet, "/workouts/stats", "", nil)
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestWorkouts_RecordAndStats() {
	ctx := context.Background()
	token := signUpAndSignIn(ctx, s.T(), "free-lifter@example.com", testPassword)

	resp := doRequest(ctx, s.T(), http.MethodPost, "/workouts/log", token, logbook.RecordWorkoutParams{
		ExerciseID:   "bench-press",
		ExerciseName: "Bench Press",
		MuscleGroup:  workouts.MuscleGroupChest,
		Sets:         []workouts.Set{{Weight: 100, Reps: 10}, {Weight: 100, Reps: 8}},
		Difficulty:   workouts.DifficultyNormal,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var first workouts.LogEntry
	decodeBody(s.T(), resp, &first)
	s.Equal(105.0, first.NextWeight)
	s.NotEmpty(first.SessionID)

	resp = doRequest(ctx, s.T(), http.MethodPost, "/workouts/log", token, logbook.RecordWorkoutParams{
		ExerciseID:   "squat",
		ExerciseName: "Squat",
		MuscleGroup:  workouts.MuscleGroupLegs,
		Sets:         []workouts.Set{{Weight: 200, Reps: 5}},
		Difficulty:   workouts.DifficultyEasy,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var second workouts.LogEntry
	decodeBody(s.T(), resp, &second)
	s.Equal(first.SessionID, second.SessionID)

	resp = doRequest(ctx, s.T(), http.MethodGet, "/workouts/stats", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var st stats.Stats
	decodeBody(s.T(), resp, &st)
	s.Equal(1, st.TotalWorkouts)
	s.Equal(2, st.TotalExercises)
	s.Equal(3, st.TotalSets)
	s.Equal(2800.0, st.TotalVolume)
	s.Equal(1, st.CurrentStreak)
	s.Len(st.PersonalRecords, 2)

	resp = doRequest(ctx, s.T(), http.MethodGet, "/workouts/exercises/bench-press/last", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var lp workouts.LastPerformance
	decodeBody(s.T(), resp, &lp)
	s.Equal(105.0, lp.NextWeight)

	// other users never see this log
	resp = doRequest(ctx, s.T(), http.MethodGet, "/workouts/stats", s.token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var other stats.Stats
	decodeBody(s.T(), resp, &other)
	s.Zero(other.TotalExercises)
}

func (s *IntegrationTestSuite) TestRoutines_WorkoutFlow() {
	ctx := context.Background()
	token := signUpAndSignIn(ctx, s.T(), "routine-lifter@example.com", testPassword)

	resp := doRequest(ctx, s.T(), http.MethodPost, "/routines", token, routines.Routine{
		Name: "Push day",
		Exercises: []routines.RoutineExercise{
			{ID: "re-1", ExerciseID: "ohp", ExerciseName: "Overhead Press", MuscleGroup: workouts.MuscleGroupShoulders, StartingWeight: 60},
		},
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var created routines.Routine
	decodeBody(s.T(), resp, &created)
	s.Require().NotEmpty(created.ID)

	resp = doRequest(ctx, s.T(), http.MethodPost, "/routines/"+created.ID+"/start", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var started routines.StartWorkoutResponse
	decodeBody(s.T(), resp, &started)
	s.Require().NotEmpty(started.SessionID)

	resp = doRequest(ctx, s.T(), http.MethodPost, "/routines/"+created.ID+"/complete", token, routines.CompleteExerciseParams{
		SessionID:         started.SessionID,
		RoutineExerciseID: created.Exercises[0].ID,
		Difficulty:        workouts.DifficultyEasy,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var entry workouts.LogEntry
	decodeBody(s.T(), resp, &entry)
	s.Equal(65.0, entry.NextWeight)
	s.Equal(started.SessionID, entry.SessionID)

	resp = doRequest(ctx, s.T(), http.MethodPost, "/routines/"+created.ID+"/finish", token, routines.FinishWorkoutRequest{
		SessionID: started.SessionID,
		Seconds:   1200,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var finished routines.Routine
	decodeBody(s.T(), resp, &finished)
	s.Equal(65.0, finished.Exercises[0].CurrentWeight)
	s.NotNil(finished.LastPerformed)
}
