package kvstore

import (
	"context"
	"errors"
	"sync"
)

// UpdateFunc receives the current value (found is false for a missing key)
// and returns the value to store. An empty value removes the key.
type UpdateFunc func(old string, found bool) (string, error)

// Serialized runs read-modify-write sequences one at a time per key.
// Writers of the same key must all go through the same Serialized value.
type Serialized struct {
	Store

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewSerialized(store Store) *Serialized {
	return &Serialized{
		Store: store,
		locks: make(map[string]*keyLock),
	}
}

func (s *Serialized) Update(ctx context.Context, key string, fn UpdateFunc) error {
	unlock := s.lock(key)
	defer unlock()

	old, err := s.Store.Get(ctx, key)
	found := true
	if errors.Is(err, ErrNotFound) {
		found = false
	} else if err != nil {
		return err
	}

	updated, err := fn(old, found)
	if err != nil {
		return err
	}

	if updated == "" {
		return s.Store.Remove(ctx, key)
	}
	return s.Store.Set(ctx, key, updated)
}

func (s *Serialized) lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}
