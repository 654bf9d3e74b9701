package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/desatrip/desatrip/internal/booking/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
)

type BookingCancelInput struct {
	ID int64 `validate:"required"`
}

// BookingCancel moves the traveler's booking to cancelled. Bookings that
// already reached a terminal state stay put.
func (s *Usecase) BookingCancel(ctx context.Context, in BookingCancelInput) error {
	ctx, span := s.startSpan(ctx, "BookingCancel")
	defer span.End()

	accountID, err := s.authorized(ctx, "write")
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	booking, err := s.getOwnBooking(ctx, in.ID, accountID)
	if err != nil {
		return err
	}

	if !booking.Status.CanTransition(entity.StatusCancelled) {
		return goerror.NewBusiness("Booking can no longer be cancelled", goerror.CodeConflict)
	}

	err = s.repoDB.UpdateBookingStatus(ctx, booking.ID, booking.Status, entity.StatusCancelled, "")
	if errors.Is(err, goerror.ErrNotFound) {
		// lost the race against a concurrent status change
		return goerror.NewBusiness("Booking can no longer be cancelled", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo cancel booking", "booking_id", booking.ID, "error", err)
		return goerror.NewServer(err)
	}

	s.publishStatus(ctx, booking, entity.StatusCancelled)

	return nil
}
