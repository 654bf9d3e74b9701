package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/desatrip/desatrip/internal/booking/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
)

type PaymentVerifyInput struct {
	OrderID   string `validate:"required"`
	PaymentID string `validate:"required"`
	Signature string `validate:"required"`
}

type PaymentVerifyOutput struct {
	BookingID int64
	Status    string
}

// PaymentVerify confirms a booking from the checkout callback. The gateway
// signs "order_id|payment_id" with the shared webhook secret; a booking is
// confirmed only when that signature checks out.
func (s *Usecase) PaymentVerify(ctx context.Context, in PaymentVerifyInput) (*PaymentVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "PaymentVerify")
	defer span.End()

	accountID, err := s.authorized(ctx, "write")
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if !s.signer.Verify(in.Signature, in.OrderID+"|"+in.PaymentID) {
		slog.WarnContext(ctx, "payment signature mismatch", "order_id", in.OrderID)
		return nil, goerror.NewBusiness("Invalid payment signature", goerror.CodeInvalidInput)
	}

	booking, err := s.repoDB.GetBookingByOrderID(ctx, in.OrderID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Booking not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get booking by order", "order_id", in.OrderID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if booking.AccountID != accountID {
		return nil, goerror.NewBusiness("Booking not found", goerror.CodeNotFound)
	}

	if booking.Status == entity.StatusConfirmed {
		return &PaymentVerifyOutput{BookingID: booking.ID, Status: booking.Status.String()}, nil
	}
	if !booking.Status.CanTransition(entity.StatusConfirmed) {
		return nil, goerror.NewBusiness("Booking is no longer payable", goerror.CodeConflict)
	}

	err = s.repoDB.UpdateBookingStatus(ctx, booking.ID, booking.Status, entity.StatusConfirmed, in.PaymentID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Booking is no longer payable", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo confirm booking", "booking_id", booking.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.publishStatus(ctx, booking, entity.StatusConfirmed)

	return &PaymentVerifyOutput{BookingID: booking.ID, Status: entity.StatusConfirmed.String()}, nil
}
