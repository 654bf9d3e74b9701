// Package messaging abstracts the message brokers used for asynchronous
// work such as OTP mail delivery and booking confirmation events. Three
// drivers are available: NATS, Kafka, and NSQ.
package messaging

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrClosed is returned when publishing or subscribing on a client
	// that has already been closed.
	ErrClosed = errors.New("messaging: client is closed")

	// ErrUnknownDriver is returned by the factory for an unrecognized
	// driver name.
	ErrUnknownDriver = errors.New("messaging: unknown driver")
)

// Message is a single unit of data moving through a broker.
type Message struct {
	// Key is used for partitioning on brokers that support it (Kafka).
	// Other drivers ignore it.
	Key []byte

	// Value is the message body.
	Value []byte
}

// Handler processes one consumed message. Returning a non-nil error tells
// the driver the message was not handled; drivers that support redelivery
// (NSQ) will requeue it, the others log and drop.
type Handler func(ctx context.Context, msg Message) error

// Publisher sends messages to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg Message) error
}

// Subscriber consumes messages from a topic. Subscribe is non-blocking;
// the handler runs on driver-owned goroutines until the client is closed.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, h Handler, opts ...SubscribeOption) error
}

// Client is the full broker surface the application wires.
type Client interface {
	Publisher
	Subscriber
	io.Closer
}

// SubscribeOption tunes a single subscription.
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	// group names the consumer group (Kafka), queue group (NATS), or
	// channel (NSQ). Members of the same group share the topic's
	// messages instead of each receiving a copy.
	group string

	// concurrency is the number of handler goroutines (NSQ) or reader
	// instances (Kafka) per subscription.
	concurrency int
}

// WithGroup sets the consumer group, queue group, or channel name,
// depending on the driver.
func WithGroup(name string) SubscribeOption {
	return func(o *subscribeOptions) { o.group = name }
}

// WithConcurrency sets the number of concurrent handlers for drivers that
// support it.
func WithConcurrency(n int) SubscribeOption {
	return func(o *subscribeOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

func buildSubscribeOptions(opts []SubscribeOption) subscribeOptions {
	o := subscribeOptions{concurrency: 1}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
