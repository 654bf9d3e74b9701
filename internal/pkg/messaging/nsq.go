package messaging

import (
	"context"
	"log"
	"log/slog"
	"sync"

	"github.com/nsqio/go-nsq"
)

// NSQConfig holds the settings for connecting to nsqd and nsqlookupd.
type NSQConfig struct {
	Address          string
	LookupdAddresses []string
}

// NSQ implements Client with one shared producer and a consumer per
// subscription.
type NSQ struct {
	producer *nsq.Producer
	lookupds []string
	address  string

	mu        sync.Mutex
	consumers []*nsq.Consumer
	closed    bool
}

// NewNSQ connects the producer and returns a ready client.
func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	producer, err := nsq.NewProducer(cfg.Address, nsq.NewConfig())
	if err != nil {
		return nil, err
	}
	producer.SetLoggerLevel(nsq.LogLevelError)

	if err := producer.Ping(); err != nil {
		producer.Stop()

		return nil, err
	}

	return &NSQ{
		producer: producer,
		lookupds: cfg.LookupdAddresses,
		address:  cfg.Address,
	}, nil
}

func (q *NSQ) Publish(ctx context.Context, topic string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()
	if closed {
		return ErrClosed
	}

	return q.producer.Publish(topic, msg.Value)
}

func (q *NSQ) Subscribe(ctx context.Context, topic string, h Handler, opts ...SubscribeOption) error {
	o := buildSubscribeOptions(opts)

	channel := o.group
	if channel == "" {
		channel = "default"
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}

	consumer, err := nsq.NewConsumer(topic, channel, nsq.NewConfig())
	if err != nil {
		return err
	}
	consumer.SetLogger(log.Default(), nsq.LogLevelError)

	consumer.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		if err := h(ctx, Message{Value: m.Body}); err != nil {
			slog.ErrorContext(ctx, "nsq handler failed", "topic", topic, "error", err)

			return err // triggers requeue
		}

		return nil
	}), o.concurrency)

	if len(q.lookupds) > 0 {
		err = consumer.ConnectToNSQLookupds(q.lookupds)
	} else {
		err = consumer.ConnectToNSQD(q.address)
	}
	if err != nil {
		consumer.Stop()

		return err
	}

	q.consumers = append(q.consumers, consumer)

	return nil
}

func (q *NSQ) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true

	for _, consumer := range q.consumers {
		consumer.Stop()
		<-consumer.StopChan
	}

	q.producer.Stop()

	return nil
}
