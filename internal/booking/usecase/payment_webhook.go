package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/desatrip/desatrip/internal/booking/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/pkg/idempotency"
)

const (
	webhookEventCaptured     = "payment.captured"
	webhookEventFailed       = "payment.failed"
	webhookEventOrderExpired = "order.expired"
)

type PaymentWebhookInput struct {
	EventID   string `validate:"required"`
	Event     string `validate:"required"`
	OrderID   string `validate:"required"`
	PaymentID string
	// Signature is the gateway's HMAC over the raw request body.
	Signature string `validate:"required"`
	RawBody   []byte
}

// PaymentWebhook applies a gateway payment event to its booking. Each event
// id is processed at most once; redeliveries are acknowledged without
// touching the booking again.
func (s *Usecase) PaymentWebhook(ctx context.Context, in PaymentWebhookInput) error {
	ctx, span := s.startSpan(ctx, "PaymentWebhook")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if !s.signer.Verify(in.Signature, string(in.RawBody)) {
		slog.WarnContext(ctx, "webhook signature mismatch", "event_id", in.EventID)
		return goerror.NewBusiness("Invalid webhook signature", goerror.CodeUnauthorized)
	}

	err := s.idem.Exec(ctx, "payment_webhook:"+in.EventID, func(ctx context.Context) error {
		return s.applyPaymentEvent(ctx, in)
	})
	if errors.Is(err, idempotency.ErrAlreadyCompleted) || errors.Is(err, idempotency.ErrAlreadyInProgress) {
		// duplicate delivery, ack so the gateway stops retrying
		return nil
	}

	return err
}

func (s *Usecase) applyPaymentEvent(ctx context.Context, in PaymentWebhookInput) error {
	booking, err := s.repoDB.GetBookingByOrderID(ctx, in.OrderID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "webhook for unknown order", "order_id", in.OrderID)
		return goerror.NewBusiness("Booking not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get booking by order", "order_id", in.OrderID, "error", err)
		return goerror.NewServer(err)
	}

	var target entity.Status
	switch in.Event {
	case webhookEventCaptured:
		target = entity.StatusConfirmed
	case webhookEventFailed:
		target = entity.StatusCancelled
	case webhookEventOrderExpired:
		// abandoned checkout: the gateway order lapsed, release the room dates
		target = entity.StatusExpired
	default:
		slog.WarnContext(ctx, "ignoring webhook event", "event", in.Event, "event_id", in.EventID)
		return nil
	}

	if booking.Status == target {
		return nil
	}
	if !booking.Status.CanTransition(target) {
		slog.WarnContext(ctx, "webhook ignored for terminal booking",
			"booking_id", booking.ID, "status", booking.Status.String(), "target", target.String())
		return nil
	}

	err = s.repoDB.UpdateBookingStatus(ctx, booking.ID, booking.Status, target, in.PaymentID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo apply webhook", "booking_id", booking.ID, "error", err)
		return goerror.NewServer(err)
	}

	s.publishStatus(ctx, booking, target)

	return nil
}
