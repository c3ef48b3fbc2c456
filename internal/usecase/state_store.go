package usecase

import (
	"sync"
	"time"

	"FuelDesk/internal/domain/models"
)

// Observer is notified of every transition while the store lock is held.
// It must return quickly and must not call back into the store.
type Observer func(prev, next models.UiState)

// StateStore owns the single UiState of the console. All changes go through
// reduce; readers get copies.
//
// By default the last dispatch to resolve wins, even when a newer one was
// started after it. With dropStale, a resolution whose generation is no longer
// the latest is discarded.
type StateStore struct {
	mu        sync.Mutex
	state     models.UiState
	gen       uint64
	dropStale bool
	observers []Observer
	now       func() time.Time
}

// NewStateStore creates a store in the Idle phase.
func NewStateStore(dropStale bool) *StateStore {
	return &StateStore{
		state:     models.IdleState(),
		dropStale: dropStale,
		now:       time.Now,
	}
}

// Snapshot returns the current state.
func (s *StateStore) Snapshot() models.UiState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers o for all later transitions.
func (s *StateStore) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Begin moves to Loading for a new dispatch, discarding the previous outcome.
func (s *StateStore) Begin(endpoint models.EndpointID, dispatchID string) models.UiState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	return s.apply(models.DispatchEvent{
		Kind:       models.EventStarted,
		Generation: s.gen,
		DispatchID: dispatchID,
		Endpoint:   endpoint,
		At:         s.now(),
	})
}

// Resolve applies a Succeeded or Failed event. The returned state is the
// outcome of ev; applied is false when the store dropped it as stale.
func (s *StateStore) Resolve(ev models.DispatchEvent) (state models.UiState, applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.At.IsZero() {
		ev.At = s.now()
	}
	if s.dropStale && ev.Generation != s.gen {
		return reduce(s.state, ev), false
	}
	return s.apply(ev), true
}

// Reject fails a submission that never reached the network. It still takes a
// generation so that any dispatch in flight becomes stale.
func (s *StateStore) Reject(endpoint models.EndpointID, dispatchID string, err *models.DispatchError) models.UiState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	return s.apply(models.DispatchEvent{
		Kind:       models.EventRejected,
		Generation: s.gen,
		DispatchID: dispatchID,
		Endpoint:   endpoint,
		Err:        err,
		At:         s.now(),
	})
}

func (s *StateStore) apply(ev models.DispatchEvent) models.UiState {
	prev := s.state
	s.state = reduce(prev, ev)
	for _, o := range s.observers {
		o(prev, s.state)
	}
	return s.state
}

// reduce computes the state after ev. Every event yields a complete new
// state; nothing from a previous dispatch leaks into it.
func reduce(_ models.UiState, ev models.DispatchEvent) models.UiState {
	next := models.UiState{
		Endpoint:   ev.Endpoint,
		DispatchID: ev.DispatchID,
		Generation: ev.Generation,
		StartedAt:  ev.StartedAt,
	}

	switch ev.Kind {
	case models.EventStarted:
		next.Phase = models.PhaseLoading
		next.StartedAt = ev.At
	case models.EventSucceeded:
		next.Phase = models.PhaseSuccess
		next.Message = ev.Message
		next.Result = ev.Result
		next.Raw = ev.Raw
		next.StatusCode = ev.StatusCode
		next.ResolvedAt = ev.At
	case models.EventFailed, models.EventRejected:
		next.Phase = models.PhaseFailed
		next.ErrorText = models.FallbackErrorMessage
		next.ErrorKind = models.ErrorKindInternal
		next.StatusCode = ev.StatusCode
		if ev.Err != nil {
			if ev.Err.Message != "" {
				next.ErrorText = ev.Err.Message
			}
			next.ErrorKind = ev.Err.Kind
			if ev.Err.Status != 0 {
				next.StatusCode = ev.Err.Status
			}
		}
		next.ResolvedAt = ev.At
		if ev.Kind == models.EventRejected {
			next.StartedAt = ev.At
		}
	default:
		next.Phase = models.PhaseIdle
	}
	return next
}
