package workouts

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidDifficulty  = errors.New("invalid difficulty rating")
	ErrInvalidMuscleGroup = errors.New("unknown muscle group")
)

// Difficulty is the subjective rating given when an exercise is completed.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
	return d, nil
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyExpert:
		return true
	default:
		return false
	}
}

type MuscleGroup string

const (
	MuscleGroupChest     MuscleGroup = "chest"
	MuscleGroupBack      MuscleGroup = "back"
	MuscleGroupShoulders MuscleGroup = "shoulders"
	MuscleGroupBiceps    MuscleGroup = "biceps"
	MuscleGroupTriceps   MuscleGroup = "triceps"
	MuscleGroupLegs      MuscleGroup = "legs"
	MuscleGroupAbs       MuscleGroup = "abs"
	MuscleGroupCardio    MuscleGroup = "cardio"
	MuscleGroupOther     MuscleGroup = "other"
)

var MuscleGroups = []MuscleGroup{
	MuscleGroupChest,
	MuscleGroupBack,
	MuscleGroupShoulders,
	MuscleGroupBiceps,
	MuscleGroupTriceps,
	MuscleGroupLegs,
	MuscleGroupAbs,
	MuscleGroupCardio,
	MuscleGroupOther,
}

func (mg MuscleGroup) Valid() bool {
	for _, known := range MuscleGroups {
		if mg == known {
			return true
		}
	}
	return false
}

type Set struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// LogEntry is one completed exercise. Entries are append-only; the only
// field written after creation is SessionDuration, backfilled when the
// session ends.
//
// Entries written by older app versions may lack SessionID, MuscleGroup,
// Duration and SessionDuration. Use SessionKey and Group instead of
// reading those fields directly.
type LogEntry struct {
	ID              string      `json:"id"`
	SessionID       string      `json:"sessionId,omitempty"`
	RoutineID       string      `json:"routineId,omitempty"`
	RoutineName     string      `json:"routineName,omitempty"`
	ExerciseID      string      `json:"exerciseId"`
	ExerciseName    string      `json:"exerciseName"`
	MuscleGroup     MuscleGroup `json:"muscleGroup,omitempty"`
	Date            time.Time   `json:"date"`
	Sets            []Set       `json:"sets"`
	Difficulty      Difficulty  `json:"difficulty"`
	NextWeight      float64     `json:"nextWeight"`
	StartTime       *time.Time  `json:"startTime,omitempty"`
	EndTime         *time.Time  `json:"endTime,omitempty"`
	Duration        *int        `json:"duration,omitempty"`
	SessionDuration *int        `json:"sessionDuration,omitempty"`
}

// SessionKey groups the entry into its session. Legacy entries without a
// session id form a session of their own, keyed by the entry id.
func (e LogEntry) SessionKey() string {
	if e.SessionID != "" {
		return e.SessionID
	}
	return e.ID
}

func (e LogEntry) Group() MuscleGroup {
	if e.MuscleGroup == "" {
		return MuscleGroupOther
	}
	return e.MuscleGroup
}

func (e LogEntry) IsRoutine() bool {
	return e.RoutineID != ""
}

func (e LogEntry) Volume() float64 {
	var volume float64
	for _, s := range e.Sets {
		volume += s.Weight * float64(s.Reps)
	}
	return volume
}

// OwnDuration returns the per-exercise duration, if one was recorded.
func (e LogEntry) OwnDuration() (int, bool) {
	if e.Duration == nil || *e.Duration <= 0 {
		return 0, false
	}
	return *e.Duration, true
}

// SharedSessionDuration returns the session-wide duration, if it was backfilled.
func (e LogEntry) SharedSessionDuration() (int, bool) {
	if e.SessionID == "" || e.SessionDuration == nil || *e.SessionDuration <= 0 {
		return 0, false
	}
	return *e.SessionDuration, true
}

// LastPerformance is the value kept in the last-performance index, keyed by exercise id.
type LastPerformance struct {
	ExerciseName string     `json:"exerciseName"`
	Date         time.Time  `json:"date"`
	Sets         []Set      `json:"sets"`
	Difficulty   Difficulty `json:"difficulty"`
	NextWeight   float64    `json:"nextWeight"`
	Duration     *int       `json:"duration,omitempty"`
}

func LastPerformanceOf(e LogEntry) LastPerformance {
	return LastPerformance{
		ExerciseName: e.ExerciseName,
		Date:         e.Date,
		Sets:         e.Sets,
		Difficulty:   e.Difficulty,
		NextWeight:   e.NextWeight,
		Duration:     e.Duration,
	}
}

// CatalogExercise is an exercise definition the user picks from when logging.
type CatalogExercise struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	MuscleGroup MuscleGroup `json:"muscle_group"`
	Equipment   string      `json:"equipment,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

func IntPtr(i int) *int {
	return &i
}
