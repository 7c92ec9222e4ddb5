package kvstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store is a string key-value store holding JSON documents.
// Get returns ErrNotFound for a missing key; Remove of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

const keyPrefix = "gymapp||"

// Keys builds the storage keys of a single user.
type Keys struct {
	userID string
}

func KeysFor(userID string) Keys {
	return Keys{userID: userID}
}

func (k Keys) key(name string) string {
	return keyPrefix + k.userID + "||" + name
}

func (k Keys) Routines() string {
	return k.key("routines")
}

func (k Keys) WorkoutLogs() string {
	return k.key("workoutLogs")
}

// WorkoutHistory holds the last performance per exercise id.
func (k Keys) WorkoutHistory() string {
	return k.key("workoutHistory")
}

func (k Keys) Exercises() string {
	return k.key("exercises")
}
