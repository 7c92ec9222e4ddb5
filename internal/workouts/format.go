package workouts

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatDuration renders seconds as e.g. "45 min", "1h 23m" or "2h".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "N/A"
	}
	if seconds < 60 {
		return "< 1 min"
	}

	minutes := seconds / 60
	hours := minutes / 60
	remainingMinutes := minutes % 60

	if hours == 0 {
		return fmt.Sprintf("%d min", minutes)
	}
	if remainingMinutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, remainingMinutes)
}

// FormatDurationMMSS renders seconds as "M:SS", or "H:MM:SS" past the hour.
func FormatDurationMMSS(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

func FormatVolume(volume float64) string {
	if math.IsNaN(volume) || math.IsInf(volume, 0) {
		volume = 0
	}
	return humanize.Comma(int64(math.Round(volume))) + " lbs"
}

// FormatRelativeDate describes t relative to now's calendar day.
func FormatRelativeDate(t, now time.Time) string {
	days := CalendarDaysBetween(t, now)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days > 1 && days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.In(now.Location()).Format("Jan 2")
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CalendarDaysBetween counts calendar days from a to b, evaluated in b's location.
// DST shifts do not change the result.
func CalendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
