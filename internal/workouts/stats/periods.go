package stats

import (
	"time"

	"github.com/mcutler508/GymApp/internal/workouts"
)

type window struct {
	start time.Time
	// end is inclusive for current periods and exclusive for past ones
	end       time.Time
	inclusive bool
}

func (w window) contains(t time.Time) bool {
	if t.Before(w.start) {
		return false
	}
	if w.inclusive {
		return !t.After(w.end)
	}
	return t.Before(w.end)
}

// windows returns this week (from Sunday 00:00), last week, this month and
// last month, evaluated in now's location.
func windows(now time.Time) (thisWeek, lastWeek, thisMonth, lastMonth window) {
	today := workouts.StartOfDay(now)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	thisWeek = window{start: weekStart, end: now, inclusive: true}
	lastWeek = window{start: weekStart.AddDate(0, 0, -7), end: weekStart}
	thisMonth = window{start: monthStart, end: now, inclusive: true}
	lastMonth = window{start: monthStart.AddDate(0, -1, 0), end: monthStart}
	return
}

type periodAccumulator struct {
	w         window
	sessions  map[string]struct{}
	time      *timeAccumulator
	weightSum float64
	stats     PeriodStats
}

func newPeriodAccumulator(w window) *periodAccumulator {
	return &periodAccumulator{
		w:        w,
		sessions: make(map[string]struct{}),
		time:     newTimeAccumulator(),
		stats:    PeriodStats{Start: w.start, End: w.end},
	}
}

func (p *periodAccumulator) add(e workouts.LogEntry) {
	if !p.w.contains(e.Date) {
		return
	}
	p.sessions[e.SessionKey()] = struct{}{}
	p.stats.Exercises++
	p.stats.Sets += len(e.Sets)
	p.stats.Volume += e.Volume()
	for _, set := range e.Sets {
		p.weightSum += set.Weight
	}
	p.time.add(e)
}

func (p *periodAccumulator) result(records []PersonalRecord) PeriodStats {
	p.stats.Workouts = len(p.sessions)
	p.stats.Time = p.time.total
	if p.stats.Sets > 0 {
		p.stats.AverageWeight = p.weightSum / float64(p.stats.Sets)
	}
	for _, pr := range records {
		if p.w.contains(pr.Date) {
			p.stats.PRs++
		}
	}
	return p.stats
}

func periods(logs []workouts.LogEntry, records []PersonalRecord, now time.Time) (thisWeek, lastWeek, thisMonth, lastMonth PeriodStats) {
	tw, lw, tm, lm := windows(now)
	accs := []*periodAccumulator{
		newPeriodAccumulator(tw),
		newPeriodAccumulator(lw),
		newPeriodAccumulator(tm),
		newPeriodAccumulator(lm),
	}

	for _, e := range logs {
		for _, acc := range accs {
			acc.add(e)
		}
	}

	return accs[0].result(records),
		accs[1].result(records),
		accs[2].result(records),
		accs[3].result(records)
}
