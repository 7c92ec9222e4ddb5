// Package breakdown attributes workout time to muscle groups and exercises.
package breakdown

import (
	"sort"
	"time"

	"github.com/mcutler508/GymApp/internal/workouts"
)

// DateFilter bounds are inclusive. A nil bound is open.
type DateFilter struct {
	Start *time.Time
	End   *time.Time
}

func (f DateFilter) includes(t time.Time) bool {
	if f.Start != nil && t.Before(*f.Start) {
		return false
	}
	if f.End != nil && t.After(*f.End) {
		return false
	}
	return true
}

type ExerciseBreakdown struct {
	ExerciseID   string  `json:"exerciseId"`
	ExerciseName string  `json:"exerciseName"`
	TotalTime    int     `json:"totalTime"`
	WorkoutCount int     `json:"workoutCount"`
	Percentage   float64 `json:"percentage"`
}

type MuscleGroupBreakdown struct {
	MuscleGroup   workouts.MuscleGroup `json:"muscleGroup"`
	TotalTime     int                  `json:"totalTime"`
	Percentage    float64              `json:"percentage"`
	ExerciseCount int                  `json:"exerciseCount"`
	Exercises     []ExerciseBreakdown  `json:"exercises"`
}

// ByMuscleGroupAndExercise splits workout time per muscle group, and per
// exercise within each group.
//
// An entry's own duration is attributed first. Entries without one fall back
// to their session duration, which is attributed only for the first entry of
// that session seen. Exercise percentages are relative to their group total.
// Groups and exercises are ordered by time, heaviest first; ties keep the
// order in which they were first seen.
func ByMuscleGroupAndExercise(logs []workouts.LogEntry, filter DateFilter) []MuscleGroupBreakdown {
	var groups []*MuscleGroupBreakdown
	groupIdx := make(map[workouts.MuscleGroup]int)
	exerciseIdx := make(map[workouts.MuscleGroup]map[string]int)
	seenSessions := make(map[string]struct{})
	grandTotal := 0

	for _, e := range logs {
		if !filter.includes(e.Date) {
			continue
		}

		seconds, ok := attributedTime(e, seenSessions)
		if !ok {
			continue
		}

		mg := e.Group()
		gi, found := groupIdx[mg]
		if !found {
			gi = len(groups)
			groupIdx[mg] = gi
			exerciseIdx[mg] = make(map[string]int)
			groups = append(groups, &MuscleGroupBreakdown{MuscleGroup: mg})
		}
		g := groups[gi]
		g.TotalTime += seconds
		grandTotal += seconds

		ei, found := exerciseIdx[mg][e.ExerciseID]
		if !found {
			ei = len(g.Exercises)
			exerciseIdx[mg][e.ExerciseID] = ei
			g.Exercises = append(g.Exercises, ExerciseBreakdown{
				ExerciseID:   e.ExerciseID,
				ExerciseName: e.ExerciseName,
			})
		}
		g.Exercises[ei].TotalTime += seconds
		g.Exercises[ei].WorkoutCount++
	}

	result := make([]MuscleGroupBreakdown, 0, len(groups))
	for _, g := range groups {
		g.Percentage = percentage(g.TotalTime, grandTotal)
		g.ExerciseCount = len(g.Exercises)
		for i := range g.Exercises {
			g.Exercises[i].Percentage = percentage(g.Exercises[i].TotalTime, g.TotalTime)
		}
		sort.SliceStable(g.Exercises, func(i, j int) bool {
			return g.Exercises[i].TotalTime > g.Exercises[j].TotalTime
		})
		result = append(result, *g)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalTime > result[j].TotalTime
	})

	return result
}

// attributedTime reports false for entries contributing no time at all.
func attributedTime(e workouts.LogEntry, seenSessions map[string]struct{}) (int, bool) {
	if d, ok := e.OwnDuration(); ok {
		return d, true
	}
	d, ok := e.SharedSessionDuration()
	if !ok {
		return 0, false
	}
	if _, seen := seenSessions[e.SessionID]; seen {
		return 0, false
	}
	seenSessions[e.SessionID] = struct{}{}
	return d, true
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
