package notification

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/desatrip/desatrip/internal/notification/inbound"
	"github.com/desatrip/desatrip/internal/notification/outbound/db"
	"github.com/desatrip/desatrip/internal/notification/outbound/email"
	"github.com/desatrip/desatrip/internal/notification/usecase"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/mail"
	"github.com/desatrip/desatrip/internal/pkg/messaging"
	"github.com/desatrip/desatrip/internal/pkg/uid"
	"github.com/desatrip/desatrip/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Messaging  messaging.Client           `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	repoEmail := email.NewEmail(dep.Mail, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:     repoDB,
		RepoEmail:  repoEmail,
		UID:        dep.UID,
		Instrument: dep.Instrument,
	})

	return inbound.RegisterMQConsumer(ctx, dep.Messaging, uc, dep.Instrument)
}
