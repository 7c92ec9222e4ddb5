package workouts

import (
	"errors"
	"math"
)

var ErrInvalidWeight = errors.New("weight must be a finite, non-negative number")

var difficultyAdjustments = map[Difficulty]float64{
	DifficultyEasy:   0.10,
	DifficultyNormal: 0.05,
	DifficultyHard:   0,
	DifficultyExpert: -0.05,
}

// NextWeight recommends the weight for the next occurrence of an exercise,
// rounded to the nearest multiple of 5 (halves round up).
//
// Negative and non-finite weights are clamped to 0, and so is the result.
// An unknown difficulty keeps the weight unchanged. Callers accepting user
// input should reject bad weights with ValidateWeight first.
func NextWeight(currentWeight float64, difficulty Difficulty) float64 {
	if ValidateWeight(currentWeight) != nil {
		return 0
	}
	newWeight := currentWeight * (1 + difficultyAdjustments[difficulty])
	return math.Floor(newWeight/5+0.5) * 5
}

func ValidateWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return ErrInvalidWeight
	}
	return nil
}
