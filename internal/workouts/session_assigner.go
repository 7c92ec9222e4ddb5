package workouts

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultSessionWindow = 3 * time.Hour

const (
	freeSessionPrefix    = "session-"
	routineSessionPrefix = "routine-session-"
)

// SessionAssigner decides which session a newly logged entry belongs to.
type SessionAssigner struct {
	clock  Clock
	window time.Duration
	newID  func() string
}

func NewSessionAssigner(clock Clock, window time.Duration) *SessionAssigner {
	if window <= 0 {
		window = DefaultSessionWindow
	}
	return &SessionAssigner{
		clock:  clock,
		window: window,
		newID:  uuid.NewString,
	}
}

func (a *SessionAssigner) Window() time.Duration {
	return a.window
}

// AssignFreeSession returns the session id for a new non-routine entry.
// The entry joins the session of the latest non-routine entry when that
// entry is no older than the window; otherwise a new session starts.
// Routine entries are never considered.
func (a *SessionAssigner) AssignFreeSession(logs []LogEntry) string {
	now := a.clock.Now()
	cutoff := now.Add(-a.window)

	var latest *LogEntry
	for i := range logs {
		e := &logs[i]
		if e.IsRoutine() || e.Date.After(now) {
			continue
		}
		if latest == nil || e.Date.After(latest.Date) {
			latest = e
		}
	}

	if latest != nil && latest.SessionID != "" && !latest.Date.Before(cutoff) {
		return latest.SessionID
	}

	return freeSessionPrefix + a.newID()
}

// NewRoutineSession mints the explicit session id used for a routine-driven workout.
func (a *SessionAssigner) NewRoutineSession() string {
	return routineSessionPrefix + a.newID()
}

// IsRoutineSession reports whether id was minted by NewRoutineSession.
func IsRoutineSession(id string) bool {
	return strings.HasPrefix(id, routineSessionPrefix)
}
