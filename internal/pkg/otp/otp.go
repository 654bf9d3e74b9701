// Package otp issues and validates single-use numeric codes scoped to a
// recipient key. Codes live in a TTL key-value store as a compound value
// holding a bcrypt hash of the code and a failed-attempt counter, so a leaked
// store dump never exposes live codes and guessing is capped.
package otp

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/desatrip/desatrip/internal/pkg/kv"
)

var (
	// ErrExpired is returned when no live code exists for the recipient key.
	ErrExpired = errors.New("otp: expired or not found")

	// ErrMismatch is returned when the submitted code does not match.
	ErrMismatch = errors.New("otp: invalid code")

	// ErrTooManyAttempts is returned when the guess cap is reached; the entry
	// is deleted and a new code must be requested.
	ErrTooManyAttempts = errors.New("otp: too many attempts")
)

const (
	// DefaultTTL is the lifetime of an issued code.
	DefaultTTL = 300 * time.Second

	// DefaultMaxAttempts is the number of wrong guesses that burns a code.
	DefaultMaxAttempts = 5

	keyPrefix = "otp:"
)

type entry struct {
	CodeHash string `json:"code_hash"`
	Attempts int    `json:"attempts"`
	Payload  string `json:"payload,omitempty"`
}

// Manager issues and validates codes against a kv.Store.
type Manager struct {
	store       kv.Store
	ttl         time.Duration
	maxAttempts int
}

// Option customizes a Manager.
type Option func(*Manager)

// WithTTL overrides the code lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithMaxAttempts overrides the wrong-guess cap.
func WithMaxAttempts(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// NewManager builds a Manager on top of the given store.
func NewManager(store kv.Store, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		ttl:         DefaultTTL,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// GenerateCode returns a uniformly sampled 6-digit numeric string.
func GenerateCode() string {
	return strconv.Itoa(100000 + rand.IntN(900000))
}

// Issue generates a code and stores it under the recipient key, overwriting
// any prior code for that key. An optional payload rides in the same entry so
// it shares the code's lifetime and is dropped atomically with it. The
// plaintext code is returned to the caller for out-of-band delivery and is
// never persisted.
func (m *Manager) Issue(ctx context.Context, recipientKey, payload string) (string, error) {
	code := GenerateCode()

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	raw, err := json.Marshal(entry{CodeHash: string(hash), Payload: payload})
	if err != nil {
		return "", err
	}

	if err := m.store.Set(ctx, keyPrefix+recipientKey, string(raw), m.ttl); err != nil {
		return "", err
	}

	return code, nil
}

// Validate checks a submitted code against the stored entry and returns the
// payload stored at issue time.
//
// A match deletes the entry (single use). A mismatch increments the attempt
// counter in place, preserving the residual TTL; reaching the cap deletes the
// entry. An absent or expired entry yields ErrExpired.
func (m *Manager) Validate(ctx context.Context, recipientKey, submitted string) (string, error) {
	key := keyPrefix + recipientKey

	raw, err := m.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", ErrExpired
	}
	if err != nil {
		return "", err
	}

	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(e.CodeHash), []byte(submitted)) == nil {
		if err := m.store.Delete(ctx, key); err != nil {
			return "", err
		}
		return e.Payload, nil
	}

	e.Attempts++
	if e.Attempts >= m.maxAttempts {
		if err := m.store.Delete(ctx, key); err != nil {
			return "", err
		}
		return "", ErrTooManyAttempts
	}

	ttl, err := m.store.TTL(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", ErrExpired
	}
	if err != nil {
		return "", err
	}

	updated, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	if err := m.store.Set(ctx, key, string(updated), ttl); err != nil {
		return "", err
	}

	return "", ErrMismatch
}

// Revoke drops any live code for the recipient key.
func (m *Manager) Revoke(ctx context.Context, recipientKey string) error {
	return m.store.Delete(ctx, keyPrefix+recipientKey)
}
