// Package store holds the state container shared by the session and job stores.
//
// A Store owns one immutable-by-convention state value. Every change goes
// through a pure reducer, one transition at a time, and each resulting snapshot
// is published to subscribers. Network work never happens under the lock: an
// operation dispatches a pending action, performs its request, then dispatches
// exactly one completion action.
package store

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"

	"jobboard-admin/internal/metrics"

	"github.com/sirupsen/logrus"
)

// ErrSuperseded is returned by operations whose completion was discarded because
// a newer request of the same kind had been issued.
var ErrSuperseded = errors.New("superseded by a newer request")

type Action interface {
	ActionType() string
}

// State values must be able to produce a detached copy of themselves.
type State[S any] interface {
	Clone() S
}

// Reducer returns the next state and whether the action was applied. Reducers
// must not modify slices or maps reachable from the input state.
type Reducer[S any] func(state S, action Action) (S, bool)

type Store[S State[S]] struct {
	name   string
	reduce Reducer[S]
	logger *logrus.Logger

	seq atomic.Uint64

	mu      sync.Mutex
	state   S
	subs    map[int]chan S
	nextSub int
}

func New[S State[S]](name string, initial S, reduce Reducer[S], logger *logrus.Logger) *Store[S] {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store[S]{
		name:   name,
		reduce: reduce,
		logger: logger,
		state:  initial,
		subs:   make(map[int]chan S),
	}
}

func (s *Store[S]) Name() string { return s.name }

// NextSeq returns a fresh request sequence number. Numbers are strictly
// increasing across all request kinds of this store.
func (s *Store[S]) NextSeq() uint64 {
	return s.seq.Add(1)
}

// State returns a detached snapshot of the current state.
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch runs the reducer for a and publishes the result. It returns a
// snapshot of the resulting state and whether the action was applied.
func (s *Store[S]) Dispatch(a Action) (S, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, applied := s.reduce(s.state, a)
	metrics.StoreTransitionsTotal.WithLabelValues(s.name, a.ActionType(), strconv.FormatBool(applied)).Inc()
	if !applied {
		s.logger.WithFields(logrus.Fields{"store": s.name, "action": a.ActionType()}).Debug("[Store] stale completion discarded")
		return s.state.Clone(), false
	}

	s.state = next
	s.logger.WithFields(logrus.Fields{"store": s.name, "action": a.ActionType()}).Debug("[Store] transition")
	for _, ch := range s.subs {
		publishLatest(ch, next.Clone())
	}
	return next.Clone(), true
}

// Subscribe returns a channel that receives a snapshot after every applied
// transition, starting with the current state. A slow reader only sees the
// latest snapshot. Call cancel to stop and close the channel.
func (s *Store[S]) Subscribe() (<-chan S, func()) {
	ch := make(chan S, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.state.Clone()
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

func publishLatest[S any](ch chan S, v S) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
