// Package store holds the client-side state the views render from: the
// project collection and the admin session. Each store folds the outcome
// of its gateway calls into an immutable state snapshot through a reducer
// and notifies subscribers after every change.
package store

import (
	"errors"
	"slices"
	"sync"
)

// ErrClosed is returned by actions invoked after Close
var ErrClosed = errors.New("store closed")

// subscribers is a set of change listeners
type subscribers[S any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(S)
}

// add registers fn and returns a func that removes it
func (s *subscribers[S]) add(fn func(S)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fns == nil {
		s.fns = make(map[int]func(S))
	}
	id := s.next
	s.next++
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

// notify calls every listener with state, in registration order
func (s *subscribers[S]) notify(state S) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	fns := make([]func(S), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, s.fns[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func (s *subscribers[S]) clear() {
	s.mu.Lock()
	s.fns = nil
	s.mu.Unlock()
}
