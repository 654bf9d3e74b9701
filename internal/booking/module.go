package booking

import (
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/desatrip/desatrip/internal/booking/inbound"
	"github.com/desatrip/desatrip/internal/booking/outbound/db"
	"github.com/desatrip/desatrip/internal/booking/outbound/gateway"
	"github.com/desatrip/desatrip/internal/booking/outbound/mq"
	"github.com/desatrip/desatrip/internal/booking/usecase"
	"github.com/desatrip/desatrip/internal/pkg/clock"
	"github.com/desatrip/desatrip/internal/pkg/config"
	"github.com/desatrip/desatrip/internal/pkg/goroutine"
	"github.com/desatrip/desatrip/internal/pkg/hash"
	"github.com/desatrip/desatrip/internal/pkg/idempotency"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/messaging"
	"github.com/desatrip/desatrip/internal/pkg/router"
	"github.com/desatrip/desatrip/internal/pkg/uid"
	"github.com/desatrip/desatrip/internal/pkg/validator"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Signer      hash.Hash                  `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Enforcer    *casbin.Enforcer           `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Messaging   messaging.Client           `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)
	repoGateway := gateway.New(gateway.Config{
		BaseURL:   dep.Config.GetString("modules.booking.gateway.base_url"),
		KeyID:     dep.Config.GetString("modules.booking.gateway.key_id"),
		KeySecret: dep.Config.GetString("modules.booking.gateway.key_secret"),
		Timeout:   dep.Config.GetSecond("modules.booking.gateway.timeout_seconds"),
	}, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        repoDB,
		RepoGateway:   repoGateway,
		RepoMessaging: repoMsg,
		Signer:        dep.Signer,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Enforcer:      dep.Enforcer,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
