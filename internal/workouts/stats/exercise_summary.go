package stats

import (
	"math"
	"sort"
	"time"

	"github.com/mcutler508/GymApp/internal/workouts"
)

const recentEntriesLimit = 3

type ExerciseSummary struct {
	ExerciseID    string              `json:"exerciseId"`
	ExerciseName  string              `json:"exerciseName"`
	PR            float64             `json:"pr"`
	AverageWeight float64             `json:"averageWeight"`
	TotalSets     int                 `json:"totalSets"`
	TotalWorkouts int                 `json:"totalWorkouts"`
	TotalVolume   float64             `json:"totalVolume"`
	LastPerformed time.Time           `json:"lastPerformed"`
	Recent        []workouts.LogEntry `json:"recent"`
}

// SummarizeExercise returns nil when the exercise was never logged.
func SummarizeExercise(logs []workouts.LogEntry, exerciseID string) *ExerciseSummary {
	var entries []workouts.LogEntry
	for _, e := range logs {
		if e.ExerciseID == exerciseID {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return nil
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})

	summary := &ExerciseSummary{
		ExerciseID:    exerciseID,
		ExerciseName:  entries[0].ExerciseName,
		TotalWorkouts: len(entries),
		LastPerformed: entries[0].Date,
	}

	var weightSum float64
	for _, e := range entries {
		summary.TotalVolume += e.Volume()
		for _, set := range e.Sets {
			summary.TotalSets++
			weightSum += set.Weight
			if set.Weight > summary.PR {
				summary.PR = set.Weight
			}
		}
	}
	if summary.TotalSets > 0 {
		summary.AverageWeight = math.Round(weightSum / float64(summary.TotalSets))
	}

	if len(entries) > recentEntriesLimit {
		entries = entries[:recentEntriesLimit]
	}
	summary.Recent = entries

	return summary
}
