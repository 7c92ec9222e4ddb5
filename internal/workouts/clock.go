package workouts

import "time"

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always returns t. Useful in tests and reports.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
