package messaging

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig holds the settings for connecting to Kafka brokers.
type KafkaConfig struct {
	Brokers []string
}

// Kafka implements Client using one shared writer and a reader per
// subscription.
type Kafka struct {
	writer *kafka.Writer

	mu      sync.Mutex
	cancels []context.CancelFunc
	readers []*kafka.Reader
	wg      sync.WaitGroup
	closed  bool

	brokers []string
}

// NewKafka returns a ready client. No connection is made until the first
// publish or subscribe.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("messaging: kafka requires at least one broker")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	return &Kafka{writer: writer, brokers: cfg.Brokers}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, msg Message) error {
	k.mu.Lock()
	closed := k.closed
	k.mu.Unlock()
	if closed {
		return ErrClosed
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   msg.Key,
		Value: msg.Value,
	})
}

func (k *Kafka) Subscribe(ctx context.Context, topic string, h Handler, opts ...SubscribeOption) error {
	o := buildSubscribeOptions(opts)

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return ErrClosed
	}

	ctx, cancel := context.WithCancel(ctx)
	k.cancels = append(k.cancels, cancel)

	for range o.concurrency {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers: k.brokers,
			Topic:   topic,
			GroupID: o.group,
		})
		k.readers = append(k.readers, reader)

		k.wg.Add(1)
		go k.consume(ctx, reader, topic, h)
	}

	return nil
}

// consume loops until the reader is closed. Messages are committed only
// after the handler returns nil, so a crashed handler sees the message
// again after restart.
func (k *Kafka) consume(ctx context.Context, reader *kafka.Reader, topic string, h Handler) {
	defer k.wg.Done()

	for {
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				slog.Error("kafka fetch failed", "topic", topic, "error", err)
			}

			return
		}

		if err := h(ctx, Message{Key: m.Key, Value: m.Value}); err != nil {
			slog.ErrorContext(ctx, "kafka handler failed", "topic", topic, "error", err)

			continue
		}

		if err := reader.CommitMessages(ctx, m); err != nil {
			slog.ErrorContext(ctx, "kafka commit failed", "topic", topic, "error", err)
		}
	}
}

func (k *Kafka) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()

		return nil
	}
	k.closed = true
	cancels := k.cancels
	readers := k.readers
	k.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	for _, reader := range readers {
		if err := reader.Close(); err != nil {
			slog.Error("kafka reader close failed", "error", err)
		}
	}
	k.wg.Wait()

	return k.writer.Close()
}
