package stats

import "math"

type Delta struct {
	Value      float64 `json:"value"`
	Percentage int     `json:"percentage"`
	IsPositive bool    `json:"isPositive"`
}

// CalculateDelta compares a current value against a previous one. A zero
// baseline reports 100% for any increase instead of dividing by zero.
func CalculateDelta(current, previous float64) Delta {
	delta := current - previous
	if previous == 0 {
		d := Delta{Value: delta, IsPositive: current > 0}
		if current > 0 {
			d.Percentage = 100
		}
		return d
	}

	return Delta{
		Value:      delta,
		Percentage: int(math.Floor(delta/previous*100 + 0.5)),
		IsPositive: delta >= 0,
	}
}

func Compare(current, previous PeriodStats) Comparison {
	return Comparison{
		Workouts:      CalculateDelta(float64(current.Workouts), float64(previous.Workouts)),
		Volume:        CalculateDelta(current.Volume, previous.Volume),
		Time:          CalculateDelta(float64(current.Time), float64(previous.Time)),
		AverageWeight: CalculateDelta(current.AverageWeight, previous.AverageWeight),
		PRs:           CalculateDelta(float64(current.PRs), float64(previous.PRs)),
	}
}
