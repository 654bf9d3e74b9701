package messaging

import "fmt"

// Driver names accepted by New.
const (
	DriverNATS  = "nats"
	DriverKafka = "kafka"
	DriverNSQ   = "nsq"
)

// FactoryConfig gathers the per-driver settings so the caller can pick a
// driver from configuration alone.
type FactoryConfig struct {
	NATS  NATSConfig
	Kafka KafkaConfig
	NSQ   NSQConfig
}

// New constructs the Client for the named driver.
func New(driver string, cfg FactoryConfig) (Client, error) {
	switch driver {
	case DriverNATS:
		return NewNATS(cfg.NATS)
	case DriverKafka:
		return NewKafka(cfg.Kafka)
	case DriverNSQ:
		return NewNSQ(cfg.NSQ)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
