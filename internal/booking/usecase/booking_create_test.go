package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desatrip/desatrip/internal/booking/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
)

func TestBookingCreate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)

		out := env.createBooking(t)
		assert.Equal(t, "order_1", out.OrderID)
		assert.Equal(t, entity.StatusAwaitingPayment.String(), out.Status)
		// 3 nights at the room's nightly rate
		assert.Equal(t, int64(3*250000), out.AmountPaise)

		assert.Equal(t, entity.StatusAwaitingPayment, env.repo.status(t, out.ID))
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.BookingCreate(context.Background(), BookingCreateInput{
			RoomID:   100,
			CheckIn:  "2026-08-10",
			CheckOut: "2026-08-13",
			Guests:   2,
		})
		assert.Equal(t, goerror.CodeUnauthorized, errCode(t, err))
	})

	t.Run("UnknownAccountForbidden", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.BookingCreate(authCtx(999), BookingCreateInput{
			RoomID:   100,
			CheckIn:  "2026-08-10",
			CheckOut: "2026-08-13",
			Guests:   2,
		})
		assert.Equal(t, goerror.CodeForbidden, errCode(t, err))
	})

	t.Run("MalformedDate", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.BookingCreate(authCtx(7), BookingCreateInput{
			RoomID:   100,
			CheckIn:  "10-08-2026",
			CheckOut: "2026-08-13",
			Guests:   2,
		})
		assert.Equal(t, goerror.CodeInvalidInput, errCode(t, err))
	})

	t.Run("PastCheckIn", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.BookingCreate(authCtx(7), BookingCreateInput{
			RoomID:   100,
			CheckIn:  "2026-07-01",
			CheckOut: "2026-07-04",
			Guests:   2,
		})
		assert.Equal(t, goerror.CodeInvalidFormat, errCode(t, err))
	})

	t.Run("CheckOutNotAfterCheckIn", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.BookingCreate(authCtx(7), BookingCreateInput{
			RoomID:   100,
			CheckIn:  "2026-08-10",
			CheckOut: "2026-08-10",
			Guests:   2,
		})
		assert.Equal(t, goerror.CodeInvalidFormat, errCode(t, err))
	})

	t.Run("RoomNotFound", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.BookingCreate(authCtx(7), BookingCreateInput{
			RoomID:   404,
			CheckIn:  "2026-08-10",
			CheckOut: "2026-08-13",
			Guests:   2,
		})
		assert.Equal(t, goerror.CodeNotFound, errCode(t, err))
	})

	t.Run("InactiveRoom", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.rooms[100].Active = false

		_, err := env.uc.BookingCreate(authCtx(7), BookingCreateInput{
			RoomID:   100,
			CheckIn:  "2026-08-10",
			CheckOut: "2026-08-13",
			Guests:   2,
		})
		assert.Equal(t, goerror.CodeNotFound, errCode(t, err))
	})

	t.Run("GuestsExceedCapacity", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.BookingCreate(authCtx(7), BookingCreateInput{
			RoomID:   100,
			CheckIn:  "2026-08-10",
			CheckOut: "2026-08-13",
			Guests:   4,
		})
		assert.Equal(t, goerror.CodeInvalidInput, errCode(t, err))
	})

	t.Run("OverlappingStay", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.overlap = true

		_, err := env.uc.BookingCreate(authCtx(7), BookingCreateInput{
			RoomID:   100,
			CheckIn:  "2026-08-10",
			CheckOut: "2026-08-13",
			Guests:   2,
		})
		assert.Equal(t, goerror.CodeConflict, errCode(t, err))
	})

	t.Run("GatewayFailure", func(t *testing.T) {
		env := newTestEnv(t)
		env.gateway.fail = assert.AnError

		_, err := env.uc.BookingCreate(authCtx(7), BookingCreateInput{
			RoomID:   100,
			CheckIn:  "2026-08-10",
			CheckOut: "2026-08-13",
			Guests:   2,
		})
		assert.Equal(t, goerror.CodeInternal, errCode(t, err))

		// nothing was persisted
		assert.Empty(t, env.repo.bookings)
	})
}

func TestBookingList(t *testing.T) {
	env := newTestEnv(t)
	created := env.createBooking(t)

	out, err := env.uc.BookingList(authCtx(7))
	require.NoError(t, err)
	require.Len(t, out.Bookings, 1)
	assert.Equal(t, created.ID, out.Bookings[0].ID)

	// an account without the traveler role is rejected
	_, err = env.uc.BookingList(authCtx(999))
	assert.Equal(t, goerror.CodeForbidden, errCode(t, err))
}

func TestBookingGet(t *testing.T) {
	env := newTestEnv(t)
	created := env.createBooking(t)

	t.Run("Success", func(t *testing.T) {
		out, err := env.uc.BookingGet(authCtx(7), BookingGetInput{ID: created.ID})
		require.NoError(t, err)
		assert.Equal(t, created.ID, out.Booking.ID)
		assert.Equal(t, created.OrderID, out.Booking.OrderID)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := env.uc.BookingGet(authCtx(7), BookingGetInput{ID: 12345})
		assert.Equal(t, goerror.CodeNotFound, errCode(t, err))
	})
}

func TestBookingCancel(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createBooking(t)

		require.NoError(t, env.uc.BookingCancel(authCtx(7), BookingCancelInput{ID: created.ID}))
		assert.Equal(t, entity.StatusCancelled, env.repo.status(t, created.ID))

		require.NoError(t, env.goroutine.Wait())
		events := env.messaging.published()
		require.Len(t, events, 1)
		assert.Equal(t, created.ID, events[0].BookingID)
		assert.Equal(t, entity.StatusCancelled.String(), events[0].Status)
		assert.Equal(t, "traveler@example.com", events[0].Email)
	})

	t.Run("AlreadyCancelled", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createBooking(t)

		require.NoError(t, env.uc.BookingCancel(authCtx(7), BookingCancelInput{ID: created.ID}))

		err := env.uc.BookingCancel(authCtx(7), BookingCancelInput{ID: created.ID})
		assert.Equal(t, goerror.CodeConflict, errCode(t, err))
	})
}
