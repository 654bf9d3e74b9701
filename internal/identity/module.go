package identity

import (
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/desatrip/desatrip/internal/identity/inbound"
	"github.com/desatrip/desatrip/internal/identity/outbound/db"
	"github.com/desatrip/desatrip/internal/identity/outbound/mq"
	"github.com/desatrip/desatrip/internal/identity/usecase"
	"github.com/desatrip/desatrip/internal/pkg/clock"
	"github.com/desatrip/desatrip/internal/pkg/config"
	"github.com/desatrip/desatrip/internal/pkg/goroutine"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/jwt"
	"github.com/desatrip/desatrip/internal/pkg/kv"
	"github.com/desatrip/desatrip/internal/pkg/messaging"
	"github.com/desatrip/desatrip/internal/pkg/otp"
	"github.com/desatrip/desatrip/internal/pkg/router"
	"github.com/desatrip/desatrip/internal/pkg/uid"
	"github.com/desatrip/desatrip/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	KV         kv.Store                   `validate:"required"`
	OTP        *otp.Manager               `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Enforcer   *casbin.Enforcer           `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Client           `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        repoDB,
		RepoMessaging: repoMsg,
		Sessions:      dep.KV,
		OTP:           dep.OTP,
		Validator:     dep.Validator,
		Config:        dep.Config,
		UID:           dep.UID,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
		Enforcer:      dep.Enforcer,
		Goroutine:     dep.Goroutine,
		RefreshTTL:    dep.Config.GetDay("modules.identity.refresh_ttl_days"),
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
