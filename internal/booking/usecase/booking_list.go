package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/desatrip/desatrip/internal/booking/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
)

type BookingListOutput struct {
	Bookings []entity.Booking
}

// BookingList returns the authenticated traveler's bookings, newest first.
func (s *Usecase) BookingList(ctx context.Context) (*BookingListOutput, error) {
	ctx, span := s.startSpan(ctx, "BookingList")
	defer span.End()

	accountID, err := s.authorized(ctx, "read")
	if err != nil {
		return nil, err
	}

	bookings, err := s.repoDB.ListBookingsByAccount(ctx, accountID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list bookings", "account_id", accountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &BookingListOutput{Bookings: bookings}, nil
}

type BookingGetInput struct {
	ID int64 `validate:"required"`
}

type BookingGetOutput struct {
	Booking entity.Booking
}

func (s *Usecase) BookingGet(ctx context.Context, in BookingGetInput) (*BookingGetOutput, error) {
	ctx, span := s.startSpan(ctx, "BookingGet")
	defer span.End()

	accountID, err := s.authorized(ctx, "read")
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	booking, err := s.getOwnBooking(ctx, in.ID, accountID)
	if err != nil {
		return nil, err
	}

	return &BookingGetOutput{Booking: *booking}, nil
}

// getOwnBooking loads a booking and hides other accounts' bookings behind
// a not-found error.
func (s *Usecase) getOwnBooking(ctx context.Context, id, accountID int64) (*entity.Booking, error) {
	booking, err := s.repoDB.GetBookingByID(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Booking not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get booking", "booking_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}
	if booking.AccountID != accountID {
		return nil, goerror.NewBusiness("Booking not found", goerror.CodeNotFound)
	}

	return booking, nil
}
