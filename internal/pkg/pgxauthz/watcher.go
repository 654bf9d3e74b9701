package pgxauthz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
	"go.uber.org/atomic"
)

const defaultChannel = "desatrip_authz_watcher"

// Watcher propagates policy changes between replicas over Postgres
// LISTEN/NOTIFY. Every mutation through a watched enforcer notifies the
// channel; other replicas reload their policies on receipt.
type Watcher struct {
	pool    *pgxpool.Pool
	channel string
	localID string

	mu       sync.RWMutex
	callback func(string)

	closed *atomic.Bool
	cancel context.CancelFunc
}

type watcherMsg struct {
	ID string `json:"id"`
}

// NewWatcher starts listening on the channel using the given pool. Pass an
// empty channel to use the default. The listener reconnects with Fibonacci
// backoff until the watcher is closed.
func NewWatcher(ctx context.Context, pool *pgxpool.Pool, channel string) (*Watcher, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}
	if channel == "" {
		channel = defaultChannel
	}

	listenCtx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		pool:    pool,
		channel: channel,
		localID: uuid.New().String(),
		closed:  atomic.NewBool(false),
		cancel:  cancel,
	}

	go w.run(listenCtx)

	return w, nil
}

// DefaultCallback returns a callback that reloads the enforcer's policies.
func DefaultCallback(e casbin.IEnforcer) func(string) {
	return func(string) {
		if err := e.LoadPolicy(); err != nil {
			slog.Error("authz policy reload failed", "error", err)
		}
	}
}

// SetUpdateCallback registers the handler invoked when another replica
// changes the policies.
func (w *Watcher) SetUpdateCallback(callback func(string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callback = callback

	return nil
}

// Update notifies the other replicas that policies changed.
func (w *Watcher) Update() error {
	if w.closed.Load() {
		return errors.New("pgxauthz: watcher is closed")
	}

	payload, err := json.Marshal(watcherMsg{ID: w.localID})
	if err != nil {
		return err
	}

	_, err = w.pool.Exec(context.Background(),
		fmt.Sprintf("select pg_notify('%s', $1)", w.channel), string(payload))

	return err
}

// Close stops the listener. The pool is owned by the caller and stays open.
func (w *Watcher) Close() {
	if w.closed.Swap(true) {
		return
	}
	w.cancel()
}

func (w *Watcher) run(ctx context.Context) {
	backoff := retry.WithCappedDuration(5*time.Second, retry.NewFibonacci(200*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := w.listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("authz watcher listen failed", "channel", w.channel, "error", err)

			return retry.RetryableError(err)
		}

		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("authz watcher stopped", "error", err)
	}
}

func (w *Watcher) listen(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "listen "+w.channel); err != nil {
		return err
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		var msg watcherMsg
		if err := json.Unmarshal([]byte(notification.Payload), &msg); err != nil {
			slog.Error("authz watcher bad payload", "payload", notification.Payload, "error", err)

			continue
		}
		if msg.ID == w.localID {
			continue
		}

		w.mu.RLock()
		cb := w.callback
		w.mu.RUnlock()
		if cb != nil {
			cb(notification.Payload)
		}
	}
}
