package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/desatrip/desatrip/internal/notification/usecase"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/messaging"
	"github.com/desatrip/desatrip/internal/shared/event"
)

type MQHandler struct {
	uc  uc
	ins instrument.Instrumentation
}

// OTPIssued delivers an OTP email. Malformed payloads are dropped; they
// would fail on every redelivery.
func (h *MQHandler) OTPIssued(ctx context.Context, msg messaging.Message) error {
	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OTPIssued")
	defer span.End()

	var payload event.OTPIssuedMessage
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse otp issued message", "error", err)
		return nil
	}

	return h.uc.ConsumeOTPIssued(ctx, usecase.OTPIssuedInput{
		Email:    payload.Email,
		FullName: payload.FullName,
		Code:     payload.Code,
		Purpose:  payload.Purpose,
	})
}

func (h *MQHandler) BookingStatus(ctx context.Context, msg messaging.Message) error {
	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "BookingStatus")
	defer span.End()

	var payload event.BookingStatusMessage
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse booking status message", "error", err)
		return nil
	}

	return h.uc.ConsumeBookingStatus(ctx, usecase.BookingStatusInput{
		BookingID:   payload.BookingID,
		Email:       payload.Email,
		FullName:    payload.FullName,
		VillageName: payload.VillageName,
		Status:      payload.Status,
		AmountPaise: payload.AmountPaise,
		CheckIn:     payload.CheckIn,
		CheckOut:    payload.CheckOut,
	})
}
