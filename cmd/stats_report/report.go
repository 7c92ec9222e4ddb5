package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/mcutler508/GymApp/internal/workouts"
	"github.com/mcutler508/GymApp/internal/workouts/stats"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
)

func renderReport(s *stats.Stats, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Workout report, %s\n\n", now.Format("Mon Jan 2 2006"))
	fmt.Fprintf(&b, "  Current streak:   %d day(s)\n", s.CurrentStreak)
	fmt.Fprintf(&b, "  Workouts:         %s\n", humanize.Comma(int64(s.TotalWorkouts)))
	fmt.Fprintf(&b, "  Exercises:        %s\n", humanize.Comma(int64(s.TotalExercises)))
	fmt.Fprintf(&b, "  Sets:             %s\n", humanize.Comma(int64(s.TotalSets)))
	fmt.Fprintf(&b, "  Volume:           %s\n", workouts.FormatVolume(s.TotalVolume))
	fmt.Fprintf(&b, "  Time trained:     %s\n", workouts.FormatDuration(s.TotalWorkoutTime))
	fmt.Fprintf(&b, "  Average workout:  %s\n", workouts.FormatDuration(s.AverageWorkoutTime))
	fmt.Fprintf(&b, "  Longest workout:  %s\n", workouts.FormatDuration(s.LongestWorkout))
	fmt.Fprintf(&b, "  Shortest workout: %s\n", workouts.FormatDuration(s.ShortestWorkout))

	b.WriteString("\nThis week vs last week\n")
	writeDelta(&b, "workouts", s.WeekOverWeek.Workouts)
	writeDelta(&b, "volume", s.WeekOverWeek.Volume)
	writeDelta(&b, "time", s.WeekOverWeek.Time)
	writeDelta(&b, "PRs", s.WeekOverWeek.PRs)

	b.WriteString("\nThis month vs last month\n")
	writeDelta(&b, "workouts", s.MonthOverMonth.Workouts)
	writeDelta(&b, "volume", s.MonthOverMonth.Volume)
	writeDelta(&b, "time", s.MonthOverMonth.Time)
	writeDelta(&b, "PRs", s.MonthOverMonth.PRs)

	if len(s.RecentPRs) > 0 {
		b.WriteString("\nRecent personal records\n")
		for _, pr := range s.RecentPRs {
			fmt.Fprintf(&b, "  %-24s %7.1f lbs  %s\n",
				pr.ExerciseName, pr.Weight, workouts.FormatRelativeDate(pr.Date, now))
		}
	}

	if len(s.WeeklyActivity) > 0 {
		series := make([]float64, 0, len(s.WeeklyActivity))
		labels := make([]string, 0, len(s.WeeklyActivity))
		for _, d := range s.WeeklyActivity {
			series = append(series, float64(d.Workouts))
			labels = append(labels, d.Label)
		}
		b.WriteString("\nLast 7 days\n")
		b.WriteString(asciigraph.Plot(series,
			asciigraph.Height(5),
			asciigraph.Precision(0),
			asciigraph.Caption(strings.Join(labels, " ")),
		))
		b.WriteString("\n")
	}

	return b.String()
}

func writeDelta(b *strings.Builder, name string, d stats.Delta) {
	sign := "+"
	if !d.IsPositive {
		sign = "-"
	}
	fmt.Fprintf(b, "  %-9s %s%d%%\n", name, sign, abs(d.Percentage))
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
