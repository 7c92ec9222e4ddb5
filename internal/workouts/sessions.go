package workouts

import (
	"sort"
	"time"
)

// Session is a derived view over the entries sharing a session key.
// It is never persisted.
type Session struct {
	ID             string     `json:"sessionId"`
	Date           time.Time  `json:"date"`
	RoutineID      string     `json:"routineId,omitempty"`
	RoutineName    string     `json:"routineName,omitempty"`
	Entries        []LogEntry `json:"exercises"`
	TotalExercises int        `json:"totalExercises"`
	TotalSets      int        `json:"totalSets"`
	TotalVolume    float64    `json:"totalVolume"`
	// TotalDuration is the shared session duration when backfilled,
	// else the sum of per-entry durations. Seconds.
	TotalDuration int `json:"totalDuration"`
}

// GroupIntoSessions reconstructs sessions from a flat log. Entries within a
// session are ordered by date ascending, sessions newest first.
func GroupIntoSessions(logs []LogEntry) []Session {
	var order []string
	byKey := make(map[string][]LogEntry)
	for _, e := range logs {
		key := e.SessionKey()
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], e)
	}

	sessions := make([]Session, 0, len(order))
	for _, key := range order {
		sessions = append(sessions, newSession(key, byKey[key]))
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date.After(sessions[j].Date)
	})

	return sessions
}

func newSession(key string, entries []LogEntry) Session {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	s := Session{
		ID:             key,
		Date:           entries[0].Date,
		RoutineID:      entries[0].RoutineID,
		RoutineName:    entries[0].RoutineName,
		Entries:        entries,
		TotalExercises: len(entries),
	}

	sharedDuration := 0
	sumOfOwnDurations := 0
	for _, e := range entries {
		s.TotalSets += len(e.Sets)
		s.TotalVolume += e.Volume()
		if d, ok := e.SharedSessionDuration(); ok && sharedDuration == 0 {
			sharedDuration = d
		}
		if d, ok := e.OwnDuration(); ok {
			sumOfOwnDurations += d
		}
	}

	if sharedDuration > 0 {
		s.TotalDuration = sharedDuration
	} else {
		s.TotalDuration = sumOfOwnDurations
	}

	return s
}

// RemoveSession drops every entry belonging to the session with the given key.
// It returns the remaining entries and how many were removed.
func RemoveSession(logs []LogEntry, sessionKey string) ([]LogEntry, int) {
	kept := make([]LogEntry, 0, len(logs))
	for _, e := range logs {
		if e.SessionKey() == sessionKey {
			continue
		}
		kept = append(kept, e)
	}
	return kept, len(logs) - len(kept)
}

// BackfillSessionDuration sets the same session duration on every entry of
// the session. The input slice is not modified.
func BackfillSessionDuration(logs []LogEntry, sessionID string, seconds int) ([]LogEntry, int) {
	updated := make([]LogEntry, len(logs))
	copy(updated, logs)

	n := 0
	for i := range updated {
		if updated[i].SessionID != sessionID {
			continue
		}
		updated[i].SessionDuration = IntPtr(seconds)
		n++
	}
	return updated, n
}
