package messaging

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
)

// NATSConfig holds the settings for connecting to a NATS server.
type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS implements Client on top of core NATS subjects.
type NATS struct {
	conn *nats.Conn

	mu     sync.Mutex
	subs   []*nats.Subscription
	closed bool
}

// NewNATS connects to the server and returns a ready client.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, err
	}

	return &NATS{conn: conn}, nil
}

func (n *NATS) Publish(ctx context.Context, topic string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.mu.Lock()
	closed := n.closed
	n.mu.Unlock()
	if closed {
		return ErrClosed
	}

	return n.conn.Publish(topic, msg.Value)
}

func (n *NATS) Subscribe(ctx context.Context, topic string, h Handler, opts ...SubscribeOption) error {
	o := buildSubscribeOptions(opts)

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrClosed
	}

	cb := func(m *nats.Msg) {
		if err := h(ctx, Message{Value: m.Data}); err != nil {
			slog.ErrorContext(ctx, "nats handler failed", "topic", topic, "error", err)
		}
	}

	var sub *nats.Subscription
	var err error
	if o.group != "" {
		sub, err = n.conn.QueueSubscribe(topic, o.group, cb)
	} else {
		sub, err = n.conn.Subscribe(topic, cb)
	}
	if err != nil {
		return err
	}

	n.subs = append(n.subs, sub)

	return nil
}

func (n *NATS) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true

	for _, sub := range n.subs {
		if err := sub.Drain(); err != nil {
			slog.Error("nats drain failed", "subject", sub.Subject, "error", err)
		}
	}

	return n.conn.Drain()
}
