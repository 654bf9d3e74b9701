package email

import (
	"context"

	"go.opentelemetry.io/otel/codes"

	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/mail"
)

// Email adapts the mail client to the usecase's delivery interface.
type Email struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func NewEmail(client mail.Mail, ins instrument.Instrumentation) *Email {
	return &Email{client: client, ins: ins}
}

func (e *Email) Send(ctx context.Context, to, subject, textBody string) error {
	ctx, span := e.ins.Tracer("notification.outbound.email").Start(ctx, "Send")
	defer span.End()

	err := e.client.Send(ctx, mail.Message{
		To:       []string{to},
		Subject:  subject,
		TextBody: textBody,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
