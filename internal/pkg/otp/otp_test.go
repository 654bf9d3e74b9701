package otp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desatrip/desatrip/internal/pkg/kv"
)

func TestGenerateCode(t *testing.T) {
	for range 50 {
		code := GenerateCode()
		require.Len(t, code, 6)
	}
}

func TestIssueAndValidate(t *testing.T) {
	store := kv.NewMemory(nil)
	m := NewManager(store)
	ctx := context.Background()

	code, err := m.Issue(ctx, "user@example.com", "pending-payload")
	require.NoError(t, err)
	require.Len(t, code, 6)

	payload, err := m.Validate(ctx, "user@example.com", code)
	require.NoError(t, err)
	assert.Equal(t, "pending-payload", payload)

	// single use: a match burns the entry
	_, err = m.Validate(ctx, "user@example.com", code)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestValidateMismatchKeepsEntry(t *testing.T) {
	store := kv.NewMemory(nil)
	m := NewManager(store)
	ctx := context.Background()

	code, err := m.Issue(ctx, "user@example.com", "")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, err = m.Validate(ctx, "user@example.com", wrong)
	assert.ErrorIs(t, err, ErrMismatch)

	// the real code still works after a wrong guess
	_, err = m.Validate(ctx, "user@example.com", code)
	assert.NoError(t, err)
}

func TestValidateTooManyAttempts(t *testing.T) {
	store := kv.NewMemory(nil)
	m := NewManager(store, WithMaxAttempts(2))
	ctx := context.Background()

	code, err := m.Issue(ctx, "user@example.com", "")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, err = m.Validate(ctx, "user@example.com", wrong)
	assert.ErrorIs(t, err, ErrMismatch)

	_, err = m.Validate(ctx, "user@example.com", wrong)
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// the cap burns the code for good, even for the right guess
	_, err = m.Validate(ctx, "user@example.com", code)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestValidateExpired(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := kv.NewMemory(func() time.Time { return now })
	m := NewManager(store, WithTTL(5*time.Minute))
	ctx := context.Background()

	code, err := m.Issue(ctx, "user@example.com", "")
	require.NoError(t, err)

	now = now.Add(6 * time.Minute)

	_, err = m.Validate(ctx, "user@example.com", code)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestIssueOverwrites(t *testing.T) {
	store := kv.NewMemory(nil)
	m := NewManager(store)
	ctx := context.Background()

	first, err := m.Issue(ctx, "user@example.com", "")
	require.NoError(t, err)

	second, err := m.Issue(ctx, "user@example.com", "")
	require.NoError(t, err)

	if first != second {
		_, err = m.Validate(ctx, "user@example.com", first)
		assert.ErrorIs(t, err, ErrMismatch)
	}

	_, err = m.Validate(ctx, "user@example.com", second)
	assert.NoError(t, err)
}

func TestRevoke(t *testing.T) {
	store := kv.NewMemory(nil)
	m := NewManager(store)
	ctx := context.Background()

	code, err := m.Issue(ctx, "user@example.com", "")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, "user@example.com"))

	_, err = m.Validate(ctx, "user@example.com", code)
	assert.ErrorIs(t, err, ErrExpired)
}
