package stats

import (
	"math"
	"sort"
	"time"

	"github.com/mcutler508/GymApp/internal/workouts"
)

const (
	// RecentPRWindow bounds the achieving date of a "recent" PR.
	RecentPRWindow = 30 * 24 * time.Hour
	recentPRsLimit = 5
	activityDays   = 7
)

type Stats struct {
	CurrentStreak      int              `json:"currentStreak"`
	TotalWorkouts      int              `json:"totalWorkouts"`
	TotalExercises     int              `json:"totalExercises"`
	TotalSets          int              `json:"totalSets"`
	TotalVolume        float64          `json:"totalVolume"`
	TotalWorkoutTime   int              `json:"totalWorkoutTime"`
	AverageWorkoutTime int              `json:"averageWorkoutTime"`
	LongestWorkout     int              `json:"longestWorkout"`
	ShortestWorkout    int              `json:"shortestWorkout"`
	PersonalRecords    []PersonalRecord `json:"personalRecords"`
	RecentPRs          []PersonalRecord `json:"recentPRs"`
	ThisWeek           PeriodStats      `json:"thisWeek"`
	LastWeek           PeriodStats      `json:"lastWeek"`
	ThisMonth          PeriodStats      `json:"thisMonth"`
	LastMonth          PeriodStats      `json:"lastMonth"`
	WeekOverWeek       Comparison       `json:"weekOverWeek"`
	MonthOverMonth     Comparison       `json:"monthOverMonth"`
	WeeklyActivity     []DayActivity    `json:"weeklyActivity"`
}

type PersonalRecord struct {
	ExerciseID   string    `json:"exerciseId"`
	ExerciseName string    `json:"exerciseName"`
	Weight       float64   `json:"weight"`
	Date         time.Time `json:"date"`
	EntryID      string    `json:"entryId"`
}

type PeriodStats struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Workouts      int       `json:"workouts"`
	Exercises     int       `json:"exercises"`
	Sets          int       `json:"sets"`
	Volume        float64   `json:"volume"`
	Time          int       `json:"time"`
	AverageWeight float64   `json:"averageWeight"`
	PRs           int       `json:"prs"`
}

type Comparison struct {
	Workouts      Delta `json:"workouts"`
	Volume        Delta `json:"volume"`
	Time          Delta `json:"time"`
	AverageWeight Delta `json:"averageWeight"`
	PRs           Delta `json:"prs"`
}

type DayActivity struct {
	Date     time.Time `json:"date"`
	Label    string    `json:"label"`
	Workouts int       `json:"workouts"`
}

// Compute derives all statistics from the full log and a reference time.
// Calendar arithmetic happens in now's location. The result depends only
// on its arguments.
func Compute(logs []workouts.LogEntry, now time.Time) *Stats {
	s := &Stats{
		PersonalRecords: []PersonalRecord{},
		RecentPRs:       []PersonalRecord{},
	}

	s.CurrentStreak = Streak(logs, now)

	var durations []int
	timeAcc := newTimeAccumulator()
	sessions := make(map[string]struct{})
	for _, e := range logs {
		sessions[e.SessionKey()] = struct{}{}
		s.TotalExercises++
		s.TotalSets += len(e.Sets)
		s.TotalVolume += e.Volume()
		if d, counted := timeAcc.add(e); counted {
			durations = append(durations, d)
		}
	}
	s.TotalWorkouts = len(sessions)
	s.TotalWorkoutTime = timeAcc.total

	if len(durations) > 0 {
		s.LongestWorkout = durations[0]
		s.ShortestWorkout = durations[0]
		for _, d := range durations {
			if d > s.LongestWorkout {
				s.LongestWorkout = d
			}
			if d < s.ShortestWorkout {
				s.ShortestWorkout = d
			}
		}
		s.AverageWorkoutTime = int(math.Round(float64(timeAcc.total) / float64(len(durations))))
	}

	s.PersonalRecords = PersonalRecords(logs)
	s.RecentPRs = recentPRs(s.PersonalRecords, now)

	s.ThisWeek, s.LastWeek, s.ThisMonth, s.LastMonth = periods(logs, s.PersonalRecords, now)
	s.WeekOverWeek = Compare(s.ThisWeek, s.LastWeek)
	s.MonthOverMonth = Compare(s.ThisMonth, s.LastMonth)

	s.WeeklyActivity = WeeklyActivity(logs, now)

	return s
}

// timeAccumulator sums workout time without counting a shared session
// duration more than once. An entry's own duration always wins over the
// duration of its session.
type timeAccumulator struct {
	total   int
	visited map[string]struct{}
}

func newTimeAccumulator() *timeAccumulator {
	return &timeAccumulator{visited: make(map[string]struct{})}
}

func (a *timeAccumulator) add(e workouts.LogEntry) (int, bool) {
	if d, ok := e.OwnDuration(); ok {
		a.total += d
		return d, true
	}
	d, ok := e.SharedSessionDuration()
	if !ok {
		return 0, false
	}
	if _, seen := a.visited[e.SessionID]; seen {
		return 0, false
	}
	a.visited[e.SessionID] = struct{}{}
	a.total += d
	return d, true
}

// Streak counts consecutive calendar days with at least one entry, anchored
// at today or yesterday. Entries dated after today are ignored.
func Streak(logs []workouts.LogEntry, now time.Time) int {
	today := workouts.StartOfDay(now)
	days := make(map[time.Time]struct{})
	for _, e := range logs {
		d := workouts.StartOfDay(e.Date.In(now.Location()))
		if d.After(today) {
			continue
		}
		days[d] = struct{}{}
	}
	if len(days) == 0 {
		return 0
	}

	sorted := make([]time.Time, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].After(sorted[j])
	})

	if workouts.CalendarDaysBetween(sorted[0], now) > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(sorted); i++ {
		if workouts.CalendarDaysBetween(sorted[i], sorted[i-1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// PersonalRecords returns the heaviest set ever recorded per exercise name,
// heaviest first. Ties keep the earliest achieving entry.
func PersonalRecords(logs []workouts.LogEntry) []PersonalRecord {
	byName := make(map[string]*PersonalRecord)
	for _, e := range logs {
		for _, set := range e.Sets {
			if set.Weight <= 0 {
				continue
			}
			pr, ok := byName[e.ExerciseName]
			if ok && (set.Weight < pr.Weight || (set.Weight == pr.Weight && !e.Date.Before(pr.Date))) {
				continue
			}
			byName[e.ExerciseName] = &PersonalRecord{
				ExerciseID:   e.ExerciseID,
				ExerciseName: e.ExerciseName,
				Weight:       set.Weight,
				Date:         e.Date,
				EntryID:      e.ID,
			}
		}
	}

	records := make([]PersonalRecord, 0, len(byName))
	for _, pr := range byName {
		records = append(records, *pr)
	}
	sortRecords(records)
	return records
}

func sortRecords(records []PersonalRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Weight != records[j].Weight {
			return records[i].Weight > records[j].Weight
		}
		return records[i].ExerciseName < records[j].ExerciseName
	})
}

func recentPRs(all []PersonalRecord, now time.Time) []PersonalRecord {
	cutoff := now.Add(-RecentPRWindow)
	recent := []PersonalRecord{}
	for _, pr := range all {
		if pr.Date.Before(cutoff) || pr.Date.After(now) {
			continue
		}
		recent = append(recent, pr)
		if len(recent) == recentPRsLimit {
			break
		}
	}
	return recent
}

// WeeklyActivity counts distinct sessions per calendar day over the last
// seven days, oldest first.
func WeeklyActivity(logs []workouts.LogEntry, now time.Time) []DayActivity {
	today := workouts.StartOfDay(now)
	days := make([]DayActivity, activityDays)
	perDay := make([]map[string]struct{}, activityDays)
	for i := range days {
		d := today.AddDate(0, 0, i-(activityDays-1))
		days[i] = DayActivity{Date: d, Label: d.Format("Mon")}
		perDay[i] = make(map[string]struct{})
	}

	for _, e := range logs {
		ago := workouts.CalendarDaysBetween(e.Date, now)
		if ago < 0 || ago >= activityDays {
			continue
		}
		perDay[activityDays-1-ago][e.SessionKey()] = struct{}{}
	}

	for i := range days {
		days[i].Workouts = len(perDay[i])
	}
	return days
}
