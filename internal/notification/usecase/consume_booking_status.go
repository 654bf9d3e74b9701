package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/desatrip/desatrip/internal/notification/entity"
	"github.com/desatrip/desatrip/internal/pkg/valueobject"
	"github.com/desatrip/desatrip/internal/shared/event"
)

type BookingStatusInput struct {
	BookingID   int64
	Email       string
	FullName    string
	VillageName string
	Status      string
	AmountPaise int64
	CheckIn     string
	CheckOut    string
}

// ConsumeBookingStatus mails the traveler when a booking is confirmed or
// cancelled.
func (s *Usecase) ConsumeBookingStatus(ctx context.Context, in BookingStatusInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeBookingStatus")
	defer span.End()

	var subject, line string
	switch in.Status {
	case event.BookingStatusConfirmed:
		subject = fmt.Sprintf("Booking confirmed: %s", in.VillageName)
		line = "Your stay is confirmed. See you in the village!"
	case event.BookingStatusCancelled:
		subject = fmt.Sprintf("Booking cancelled: %s", in.VillageName)
		line = "Your booking has been cancelled."
	default:
		slog.WarnContext(ctx, "ignoring booking status", "status", in.Status, "booking_id", in.BookingID)
		return nil
	}

	body := fmt.Sprintf(
		"Hi %s,\n\n%s\n\nVillage: %s\nCheck-in: %s\nCheck-out: %s\nAmount: INR %.2f\n",
		in.FullName, line, in.VillageName, in.CheckIn, in.CheckOut, float64(in.AmountPaise)/100)

	if err := s.repoEmail.Send(ctx, in.Email, subject, body); err != nil {
		slog.ErrorContext(ctx, "failed to send booking email", "email", in.Email, "booking_id", in.BookingID, "error", err)
		return err
	}

	s.record(ctx, in.Email, entity.KindBooking, subject, valueobject.JSONMap{
		"booking_id": in.BookingID,
		"status":     in.Status,
	})

	return nil
}
