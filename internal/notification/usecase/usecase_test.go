package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desatrip/desatrip/internal/notification/entity"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeEmail struct {
	sent []sentMail
	fail error
}

func (f *fakeEmail) Send(_ context.Context, to, subject, textBody string) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: textBody})
	return nil
}

type fakeRepoDB struct {
	records []entity.NewNotification
	fail    error
}

func (f *fakeRepoDB) RecordNotification(_ context.Context, in entity.NewNotification) error {
	if f.fail != nil {
		return f.fail
	}
	f.records = append(f.records, in)
	return nil
}

type seqNumberID struct{ n int64 }

func (g *seqNumberID) Generate() int64 {
	g.n++
	return g.n
}

func newTestUsecase() (*Usecase, *fakeEmail, *fakeRepoDB) {
	email := &fakeEmail{}
	repo := &fakeRepoDB{}

	uc := New(Dependency{
		RepoDB:     repo,
		RepoEmail:  email,
		UID:        &seqNumberID{},
		Instrument: instrument.NewNoop(),
	})

	return uc, email, repo
}

func TestConsumeOTPIssued(t *testing.T) {
	t.Run("LoginCode", func(t *testing.T) {
		uc, email, repo := newTestUsecase()

		err := uc.ConsumeOTPIssued(context.Background(), OTPIssuedInput{
			Email:    "asha@example.com",
			FullName: "Asha Patel",
			Code:     "123456",
			Purpose:  "login",
		})
		require.NoError(t, err)

		require.Len(t, email.sent, 1)
		assert.Equal(t, "asha@example.com", email.sent[0].to)
		assert.Equal(t, "Your desatrip login code", email.sent[0].subject)
		assert.Contains(t, email.sent[0].body, "123456")
		assert.Contains(t, email.sent[0].body, "Asha Patel")

		require.Len(t, repo.records, 1)
		assert.Equal(t, entity.KindOTP, repo.records[0].Kind)
		assert.Equal(t, "login", repo.records[0].Meta.GetString("purpose"))
	})

	t.Run("SignupCode", func(t *testing.T) {
		uc, email, _ := newTestUsecase()

		err := uc.ConsumeOTPIssued(context.Background(), OTPIssuedInput{
			Email:   "asha@example.com",
			Code:    "123456",
			Purpose: "signup",
		})
		require.NoError(t, err)

		require.Len(t, email.sent, 1)
		assert.Equal(t, "Welcome to desatrip, confirm your email", email.sent[0].subject)
		// missing name falls back to a generic greeting
		assert.Contains(t, email.sent[0].body, "Hi traveler")
	})

	t.Run("DeliveryFailureReturned", func(t *testing.T) {
		uc, email, repo := newTestUsecase()
		email.fail = assert.AnError

		err := uc.ConsumeOTPIssued(context.Background(), OTPIssuedInput{
			Email:   "asha@example.com",
			Code:    "123456",
			Purpose: "login",
		})
		assert.Error(t, err)
		assert.Empty(t, repo.records)
	})

	t.Run("RecordFailureDoesNotFailDelivery", func(t *testing.T) {
		uc, email, repo := newTestUsecase()
		repo.fail = assert.AnError

		err := uc.ConsumeOTPIssued(context.Background(), OTPIssuedInput{
			Email:   "asha@example.com",
			Code:    "123456",
			Purpose: "login",
		})
		assert.NoError(t, err)
		assert.Len(t, email.sent, 1)
	})
}

func TestConsumeBookingStatus(t *testing.T) {
	t.Run("Confirmed", func(t *testing.T) {
		uc, email, repo := newTestUsecase()

		err := uc.ConsumeBookingStatus(context.Background(), BookingStatusInput{
			BookingID:   1,
			Email:       "asha@example.com",
			FullName:    "Asha Patel",
			VillageName: "Mawlynnong",
			Status:      "confirmed",
			AmountPaise: 750000,
			CheckIn:     "2026-08-10",
			CheckOut:    "2026-08-13",
		})
		require.NoError(t, err)

		require.Len(t, email.sent, 1)
		assert.Equal(t, "Booking confirmed: Mawlynnong", email.sent[0].subject)
		assert.Contains(t, email.sent[0].body, "INR 7500.00")
		assert.Contains(t, email.sent[0].body, "2026-08-10")

		require.Len(t, repo.records, 1)
		assert.Equal(t, entity.KindBooking, repo.records[0].Kind)
		assert.Equal(t, int64(1), repo.records[0].Meta.GetInt64("booking_id"))
	})

	t.Run("Cancelled", func(t *testing.T) {
		uc, email, _ := newTestUsecase()

		err := uc.ConsumeBookingStatus(context.Background(), BookingStatusInput{
			BookingID:   1,
			Email:       "asha@example.com",
			FullName:    "Asha Patel",
			VillageName: "Mawlynnong",
			Status:      "cancelled",
		})
		require.NoError(t, err)

		require.Len(t, email.sent, 1)
		assert.Equal(t, "Booking cancelled: Mawlynnong", email.sent[0].subject)
	})

	t.Run("UnknownStatusDropped", func(t *testing.T) {
		uc, email, repo := newTestUsecase()

		err := uc.ConsumeBookingStatus(context.Background(), BookingStatusInput{
			BookingID: 1,
			Email:     "asha@example.com",
			Status:    "awaiting_payment",
		})
		assert.NoError(t, err)
		assert.Empty(t, email.sent)
		assert.Empty(t, repo.records)
	})
}
