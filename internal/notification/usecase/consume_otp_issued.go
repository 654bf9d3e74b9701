package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/desatrip/desatrip/internal/notification/entity"
	"github.com/desatrip/desatrip/internal/pkg/valueobject"
	"github.com/desatrip/desatrip/internal/shared/event"
)

type OTPIssuedInput struct {
	Email    string
	FullName string
	Code     string
	Purpose  string
}

// ConsumeOTPIssued mails the one-time code to the traveler. The code is
// short-lived, so delivery errors are returned to let the broker retry.
func (s *Usecase) ConsumeOTPIssued(ctx context.Context, in OTPIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPIssued")
	defer span.End()

	subject := "Your desatrip login code"
	if in.Purpose == event.OTPPurposeSignup {
		subject = "Welcome to desatrip, confirm your email"
	}

	name := in.FullName
	if name == "" {
		name = "traveler"
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour one-time code is: %s\n\nIt expires in a few minutes. If you did not request this, ignore this email.\n",
		name, in.Code)

	if err := s.repoEmail.Send(ctx, in.Email, subject, body); err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "email", in.Email, "error", err)
		return err
	}

	s.record(ctx, in.Email, entity.KindOTP, subject, valueobject.JSONMap{"purpose": in.Purpose})

	return nil
}

// record writes the delivery log entry. Logging failures never undo a sent
// email, so they are only reported.
func (s *Usecase) record(ctx context.Context, email string, kind entity.Kind, subject string, meta valueobject.JSONMap) {
	err := s.repoDB.RecordNotification(ctx, entity.NewNotification{
		ID:      s.uid.Generate(),
		Email:   email,
		Kind:    kind,
		Subject: subject,
		Meta:    meta,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to record notification", "email", email, "kind", kind.String(), "error", err)
	}
}
