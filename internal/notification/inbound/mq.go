package inbound

import (
	"context"

	"github.com/desatrip/desatrip/internal/notification/usecase"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/messaging"
	"github.com/desatrip/desatrip/internal/shared/event"
)

type uc interface {
	ConsumeOTPIssued(ctx context.Context, in usecase.OTPIssuedInput) error
	ConsumeBookingStatus(ctx context.Context, in usecase.BookingStatusInput) error
}

// RegisterMQConsumer subscribes the notification handlers. Subscriptions
// are non-blocking; the handlers run until the messaging client closes.
func RegisterMQConsumer(ctx context.Context, client messaging.Subscriber, uc uc, ins instrument.Instrumentation) error {
	handler := &MQHandler{uc: uc, ins: ins}

	err := client.Subscribe(ctx, event.OTPIssuedDestination, handler.OTPIssued,
		messaging.WithGroup(event.OTPIssuedConsumerNotification),
		messaging.WithConcurrency(4),
	)
	if err != nil {
		return err
	}

	return client.Subscribe(ctx, event.BookingStatusDestination, handler.BookingStatus,
		messaging.WithGroup(event.BookingStatusConsumerNotification),
		messaging.WithConcurrency(4),
	)
}
