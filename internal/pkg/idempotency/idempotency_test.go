package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desatrip/desatrip/internal/pkg/kv"
)

func TestExecRunsOnce(t *testing.T) {
	tracker := New(kv.NewMemory(nil))
	ctx := context.Background()

	calls := 0
	fn := func(context.Context) error {
		calls++
		return nil
	}

	require.NoError(t, tracker.Exec(ctx, "evt_1", fn))
	assert.Equal(t, 1, calls)

	err := tracker.Exec(ctx, "evt_1", fn)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.Equal(t, 1, calls)
}

func TestExecIndependentKeys(t *testing.T) {
	tracker := New(kv.NewMemory(nil))
	ctx := context.Background()

	calls := 0
	fn := func(context.Context) error {
		calls++
		return nil
	}

	require.NoError(t, tracker.Exec(ctx, "evt_1", fn))
	require.NoError(t, tracker.Exec(ctx, "evt_2", fn))
	assert.Equal(t, 2, calls)
}

func TestExecFailureIsRemembered(t *testing.T) {
	tracker := New(kv.NewMemory(nil))
	ctx := context.Background()

	boom := errors.New("boom")
	calls := 0

	err := tracker.Exec(ctx, "evt_1", func(context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = tracker.Exec(ctx, "evt_1", func(context.Context) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, ErrAlreadyFailed)
	assert.Equal(t, 1, calls)
}

func TestExecInProgress(t *testing.T) {
	tracker := New(kv.NewMemory(nil))
	ctx := context.Background()

	state, err := tracker.Acquire(ctx, "evt_1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, StateNone, state)

	err = tracker.Exec(ctx, "evt_1", func(context.Context) error {
		t.Fatal("must not run while the key is held")
		return nil
	})
	assert.ErrorIs(t, err, ErrAlreadyInProgress)
}

func TestAcquireAfterLockExpiry(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tracker := New(kv.NewMemory(func() time.Time { return now }))
	ctx := context.Background()

	state, err := tracker.Acquire(ctx, "evt_1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, StateNone, state)

	now = now.Add(2 * time.Minute)

	state, err = tracker.Acquire(ctx, "evt_1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, StateNone, state)
}

func TestMarkCompleted(t *testing.T) {
	tracker := New(kv.NewMemory(nil))
	ctx := context.Background()

	state, err := tracker.Acquire(ctx, "evt_1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, StateNone, state)

	require.NoError(t, tracker.MarkCompleted(ctx, "evt_1", time.Hour))

	state, err = tracker.Acquire(ctx, "evt_1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, state)
}
