package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"go.opentelemetry.io/otel/codes"

	"github.com/desatrip/desatrip/internal/booking/usecase"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/messaging"
	"github.com/desatrip/desatrip/internal/shared/event"
)

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishBookingStatus(ctx context.Context, msg usecase.BookingStatusEvent) error {
	ctx, span := m.ins.Tracer("booking.outbound.mq").Start(ctx, "PublishBookingStatus")
	defer span.End()

	body, err := json.Marshal(event.BookingStatusMessage{
		BookingID:   msg.BookingID,
		AccountID:   msg.AccountID,
		Email:       msg.Email,
		FullName:    msg.FullName,
		VillageName: msg.VillageName,
		Status:      msg.Status,
		AmountPaise: msg.AmountPaise,
		CheckIn:     msg.CheckIn,
		CheckOut:    msg.CheckOut,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.client.Publish(ctx, event.BookingStatusDestination, messaging.Message{
		Key:   []byte(strconv.FormatInt(msg.BookingID, 10)),
		Value: body,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
