// Package idempotency guards operations that must run at most once, such
// as payment webhook processing. Each operation key moves through a small
// state machine persisted in the shared key-value store.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/desatrip/desatrip/internal/pkg/kv"
)

var (
	ErrAlreadyInProgress = errors.New("operation already in progress")
	ErrAlreadyCompleted  = errors.New("operation already completed")
	ErrAlreadyFailed     = errors.New("operation already failed")
	ErrInvalidState      = errors.New("invalid state")
)

// State describes where an operation key currently sits.
type State string

const (
	StateNone       State = "none"        // operation can proceed
	StateInProgress State = "in_progress" // another caller holds the lock
	StateCompleted  State = "completed"   // operation finished successfully
	StateFailed     State = "failed"      // previous attempt failed
	StateError      State = "error"       // state could not be determined
)

func (s State) String() string { return string(s) }

// Idempotency coordinates at-most-once execution per key.
type Idempotency interface {
	Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error)
	MarkCompleted(ctx context.Context, key string, ttl time.Duration) error
	MarkFailed(ctx context.Context, key string, ttl time.Duration) error
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

// StateTracker implements Idempotency on a kv.Store.
type StateTracker struct {
	store  kv.Store
	prefix string
}

// New returns a tracker using the default key prefix.
func New(store kv.Store) *StateTracker {
	return &StateTracker{store: store, prefix: "idempotency:"}
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = 24 * time.Hour
)

// Option tunes a single Exec call.
type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration bounds how long the in-progress lock is held.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) {
		if d > 0 {
			o.lockDuration = d
		}
	}
}

// WithStateTTL bounds how long terminal states are remembered.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) {
		if d > 0 {
			o.stateTTL = d
		}
	}
}

// Acquire tries to claim the key. StateNone means the caller owns the key
// and must mark it completed or failed when done.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	fk := s.prefix + key

	acquired, err := s.store.SetNX(ctx, fk, StateInProgress.String(), lockDuration)
	if err != nil {
		return StateError, err
	}
	if acquired {
		return StateNone, nil
	}

	current, err := s.store.Get(ctx, fk)
	if errors.Is(err, kv.ErrNotFound) {
		// the lock expired between SetNX and Get, try once more
		acquired, err = s.store.SetNX(ctx, fk, StateInProgress.String(), lockDuration)
		if err != nil {
			return StateError, err
		}
		if acquired {
			return StateNone, nil
		}

		return StateError, ErrInvalidState
	}
	if err != nil {
		return StateError, err
	}

	switch State(current) {
	case StateInProgress, StateCompleted, StateFailed:
		return State(current), nil
	default:
		return StateError, ErrInvalidState
	}
}

func (s *StateTracker) MarkCompleted(ctx context.Context, key string, ttl time.Duration) error {
	return s.store.Set(ctx, s.prefix+key, StateCompleted.String(), ttl)
}

func (s *StateTracker) MarkFailed(ctx context.Context, key string, ttl time.Duration) error {
	return s.store.Set(ctx, s.prefix+key, StateFailed.String(), ttl)
}

// Exec runs fn under the key's lock. Repeated calls for a key that already
// completed return ErrAlreadyCompleted without running fn again.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(&o)
	}

	state, err := s.Acquire(ctx, key, o.lockDuration)
	if err != nil {
		return err
	}

	switch state {
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	case StateFailed:
		return ErrAlreadyFailed
	}

	if err := fn(ctx); err != nil {
		if markErr := s.MarkFailed(ctx, key, o.stateTTL); markErr != nil {
			return errors.Join(err, markErr)
		}

		return err
	}

	return s.MarkCompleted(ctx, key, o.stateTTL)
}
