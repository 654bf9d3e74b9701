package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desatrip/desatrip/internal/booking/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
)

func TestPaymentVerify(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createBooking(t)

		out, err := env.uc.PaymentVerify(authCtx(7), PaymentVerifyInput{
			OrderID:   created.OrderID,
			PaymentID: "pay_1",
			Signature: env.sign(t, created.OrderID+"|pay_1"),
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, out.BookingID)
		assert.Equal(t, entity.StatusConfirmed.String(), out.Status)
		assert.Equal(t, entity.StatusConfirmed, env.repo.status(t, created.ID))

		require.NoError(t, env.goroutine.Wait())
		events := env.messaging.published()
		require.Len(t, events, 1)
		assert.Equal(t, entity.StatusConfirmed.String(), events[0].Status)
	})

	t.Run("InvalidSignature", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createBooking(t)

		_, err := env.uc.PaymentVerify(authCtx(7), PaymentVerifyInput{
			OrderID:   created.OrderID,
			PaymentID: "pay_1",
			Signature: env.sign(t, created.OrderID+"|pay_other"),
		})
		assert.Equal(t, goerror.CodeInvalidInput, errCode(t, err))
		assert.Equal(t, entity.StatusAwaitingPayment, env.repo.status(t, created.ID))
	})

	t.Run("UnknownOrder", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.PaymentVerify(authCtx(7), PaymentVerifyInput{
			OrderID:   "order_ghost",
			PaymentID: "pay_1",
			Signature: env.sign(t, "order_ghost|pay_1"),
		})
		assert.Equal(t, goerror.CodeNotFound, errCode(t, err))
	})

	t.Run("SomeoneElsesBooking", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createBooking(t)

		_, err := env.enforcer.AddGroupingPolicy("user:8", "role:traveler")
		require.NoError(t, err)

		// another traveler's booking is hidden behind a not-found
		_, err = env.uc.PaymentVerify(authCtx(8), PaymentVerifyInput{
			OrderID:   created.OrderID,
			PaymentID: "pay_1",
			Signature: env.sign(t, created.OrderID+"|pay_1"),
		})
		assert.Equal(t, goerror.CodeNotFound, errCode(t, err))
	})

	t.Run("AlreadyConfirmedIsIdempotent", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createBooking(t)

		in := PaymentVerifyInput{
			OrderID:   created.OrderID,
			PaymentID: "pay_1",
			Signature: env.sign(t, created.OrderID+"|pay_1"),
		}

		_, err := env.uc.PaymentVerify(authCtx(7), in)
		require.NoError(t, err)

		out, err := env.uc.PaymentVerify(authCtx(7), in)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusConfirmed.String(), out.Status)
	})

	t.Run("CancelledBookingNotPayable", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createBooking(t)

		require.NoError(t, env.uc.BookingCancel(authCtx(7), BookingCancelInput{ID: created.ID}))

		_, err := env.uc.PaymentVerify(authCtx(7), PaymentVerifyInput{
			OrderID:   created.OrderID,
			PaymentID: "pay_1",
			Signature: env.sign(t, created.OrderID+"|pay_1"),
		})
		assert.Equal(t, goerror.CodeConflict, errCode(t, err))
	})
}

func (e *testEnv) webhookInput(t *testing.T, eventID, eventName, orderID, paymentID string) PaymentWebhookInput {
	t.Helper()

	body, err := json.Marshal(map[string]string{
		"id":         eventID,
		"event":      eventName,
		"order_id":   orderID,
		"payment_id": paymentID,
	})
	require.NoError(t, err)

	return PaymentWebhookInput{
		EventID:   eventID,
		Event:     eventName,
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: e.sign(t, string(body)),
		RawBody:   body,
	}
}

func TestPaymentWebhook(t *testing.T) {
	t.Run("CapturedConfirmsBooking", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createBooking(t)

		in := env.webhookInput(t, "evt_1", "payment.captured", created.OrderID, "pay_1")
		require.NoError(t, env.uc.PaymentWebhook(context.Background(), in))

		assert.Equal(t, entity.StatusConfirmed, env.repo.status(t, created.ID))
	})

	t.Run("FailedCancelsBooking", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createBooking(t)

		in := env.webhookInput(t, "evt_1", "payment.failed", created.OrderID, "pay_1")
		require.NoError(t, env.uc.PaymentWebhook(context.Background(), in))

		assert.Equal(t, entity.StatusCancelled, env.repo.status(t, created.ID))
	})

	t.Run("BadSignatureRejected", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createBooking(t)

		in := env.webhookInput(t, "evt_1", "payment.captured", created.OrderID, "pay_1")
		in.RawBody = append(in.RawBody, ' ')

		err := env.uc.PaymentWebhook(context.Background(), in)
		assert.Equal(t, goerror.CodeUnauthorized, errCode(t, err))
		assert.Equal(t, entity.StatusAwaitingPayment, env.repo.status(t, created.ID))
	})

	t.Run("DuplicateEventAcked", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createBooking(t)

		in := env.webhookInput(t, "evt_1", "payment.captured", created.OrderID, "pay_1")
		require.NoError(t, env.uc.PaymentWebhook(context.Background(), in))

		// redelivery of the same event id is acknowledged without effect
		require.NoError(t, env.uc.PaymentWebhook(context.Background(), in))
		assert.Equal(t, entity.StatusConfirmed, env.repo.status(t, created.ID))
	})

	t.Run("OrderExpiredReleasesBooking", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createBooking(t)

		in := env.webhookInput(t, "evt_1", "order.expired", created.OrderID, "")
		require.NoError(t, env.uc.PaymentWebhook(context.Background(), in))

		// the room dates are free again for the next traveler
		assert.Equal(t, entity.StatusExpired, env.repo.status(t, created.ID))
	})

	t.Run("OrderExpiredAfterCaptureAcked", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createBooking(t)

		captured := env.webhookInput(t, "evt_1", "payment.captured", created.OrderID, "pay_1")
		require.NoError(t, env.uc.PaymentWebhook(context.Background(), captured))

		// a late order expiry must not undo a paid booking
		expired := env.webhookInput(t, "evt_2", "order.expired", created.OrderID, "")
		require.NoError(t, env.uc.PaymentWebhook(context.Background(), expired))
		assert.Equal(t, entity.StatusConfirmed, env.repo.status(t, created.ID))
	})

	t.Run("UnknownEventTypeAcked", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createBooking(t)

		in := env.webhookInput(t, "evt_1", "payment.authorized", created.OrderID, "pay_1")
		require.NoError(t, env.uc.PaymentWebhook(context.Background(), in))

		assert.Equal(t, entity.StatusAwaitingPayment, env.repo.status(t, created.ID))
	})

	t.Run("TerminalBookingAcked", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createBooking(t)

		require.NoError(t, env.uc.BookingCancel(authCtx(7), BookingCancelInput{ID: created.ID}))

		in := env.webhookInput(t, "evt_1", "payment.captured", created.OrderID, "pay_1")
		require.NoError(t, env.uc.PaymentWebhook(context.Background(), in))

		assert.Equal(t, entity.StatusCancelled, env.repo.status(t, created.ID))
	})
}
