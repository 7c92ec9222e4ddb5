package routines

import (
	"time"

	"github.com/mcutler508/GymApp/internal/workouts"
)

type RoutineExercise struct {
	ID             string               `json:"id"`
	ExerciseID     string               `json:"exerciseId"`
	ExerciseName   string               `json:"exerciseName"`
	MuscleGroup    workouts.MuscleGroup `json:"muscleGroup"`
	Order          int                  `json:"order"`
	StartingWeight float64              `json:"startingWeight,omitempty"`
	CurrentWeight  float64              `json:"currentWeight,omitempty"`
	LastDifficulty workouts.Difficulty  `json:"lastDifficulty,omitempty"`
	LastPerformed  *time.Time           `json:"lastPerformed,omitempty"`
}

// WorkingWeight is the weight to lift next: the current weight, falling
// back to the starting weight, and finally to zero.
func (re RoutineExercise) WorkingWeight() float64 {
	if re.CurrentWeight > 0 {
		return re.CurrentWeight
	}
	if re.StartingWeight > 0 {
		return re.StartingWeight
	}
	return 0
}

type Routine struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Exercises     []RoutineExercise `json:"exercises"`
	CreatedAt     time.Time         `json:"created_at"`
	LastPerformed *time.Time        `json:"last_performed,omitempty"`
	Completed     bool              `json:"completed,omitempty"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
}

func (r *Routine) exercise(routineExerciseID string) (*RoutineExercise, bool) {
	for i := range r.Exercises {
		if r.Exercises[i].ID == routineExerciseID {
			return &r.Exercises[i], true
		}
	}
	return nil, false
}
