package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/desatrip/desatrip/internal/booking/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/shared/event"
)

type BookingCreateInput struct {
	RoomID   int64  `validate:"required"`
	CheckIn  string `validate:"required,datetime=2006-01-02"`
	CheckOut string `validate:"required,datetime=2006-01-02"`
	Guests   int16  `validate:"required,min=1"`
}

type BookingCreateOutput struct {
	ID          int64
	OrderID     string
	AmountPaise int64
	Status      string
}

// BookingCreate reserves a room for a date range. The stay is priced from
// the room's nightly rate, a payment order is opened at the gateway, and
// the booking waits in awaiting_payment until the payment settles.
func (s *Usecase) BookingCreate(ctx context.Context, in BookingCreateInput) (*BookingCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "BookingCreate")
	defer span.End()

	accountID, err := s.authorized(ctx, "write")
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	checkIn, _ := time.Parse(event.BookingDateFormat, in.CheckIn)
	checkOut, _ := time.Parse(event.BookingDateFormat, in.CheckOut)

	today := s.clock.Now().Truncate(24 * time.Hour)
	if checkIn.Before(today) {
		return nil, goerror.NewInvalidFormat("Check-in date is in the past")
	}
	if !checkOut.After(checkIn) {
		return nil, goerror.NewInvalidFormat("Check-out must be after check-in")
	}

	room, err := s.repoDB.GetRoomSnapshot(ctx, in.RoomID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Room not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get room snapshot", "room_id", in.RoomID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !room.Active {
		return nil, goerror.NewBusiness("Room not found", goerror.CodeNotFound)
	}
	if in.Guests > room.Capacity {
		return nil, goerror.NewBusiness("Guests exceed room capacity", goerror.CodeInvalidInput)
	}

	overlap, err := s.repoDB.HasOverlap(ctx, in.RoomID, checkIn, checkOut)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check overlap", "room_id", in.RoomID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if overlap {
		return nil, goerror.NewBusiness("Room already booked for these dates", goerror.CodeConflict)
	}

	nights := int64(checkOut.Sub(checkIn).Hours() / 24)
	amount := nights * room.PriceNightPaise

	bookingID := s.uid.Generate()
	orderID, err := s.repoGateway.CreateOrder(ctx, amount, "booking_"+strconv.FormatInt(bookingID, 10))
	if err != nil {
		slog.ErrorContext(ctx, "failed to create payment order", "booking_id", bookingID, "error", err)
		return nil, goerror.NewServer(err)
	}

	booking := entity.NewBooking{
		ID:          bookingID,
		AccountID:   accountID,
		RoomID:      in.RoomID,
		VillageID:   room.VillageID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Guests:      in.Guests,
		AmountPaise: amount,
		OrderID:     orderID,
	}

	if err := s.repoDB.CreateBooking(ctx, booking); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("Room already booked for these dates", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create booking", "booking_id", bookingID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &BookingCreateOutput{
		ID:          bookingID,
		OrderID:     orderID,
		AmountPaise: amount,
		Status:      entity.StatusAwaitingPayment.String(),
	}, nil
}
