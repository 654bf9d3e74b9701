package app

import (
	"log/slog"
	"os"

	"github.com/desatrip/desatrip/internal/booking"
	"github.com/desatrip/desatrip/internal/identity"
	"github.com/desatrip/desatrip/internal/market"
	"github.com/desatrip/desatrip/internal/notification"
	"github.com/desatrip/desatrip/internal/review"
	"github.com/desatrip/desatrip/internal/village"
)

func (a *App) initModules() {
	if err := identity.New(identity.Dependency{
		DBConn:     a.dbConn,
		KV:         a.kv,
		OTP:        a.otp,
		Goroutine:  a.goroutine,
		Enforcer:   a.casbin,
		Router:     a.router,
		Messaging:  a.messaging,
		Config:     a.config,
		Instrument: a.ins,
		UID:        a.uid,
		Clock:      a.clock,
		Validator:  a.validator,
		JWT:        a.jwt,
	}); err != nil {
		slog.Error("failed to init module identity", "error", err)
		os.Exit(1)
	}

	if err := village.New(village.Dependency{
		DBConn:     a.dbConn,
		Blob:       a.blob,
		Enforcer:   a.casbin,
		Router:     a.router,
		Config:     a.config,
		Instrument: a.ins,
		UID:        a.uid,
		Clock:      a.clock,
		Validator:  a.validator,
	}); err != nil {
		slog.Error("failed to init module village", "error", err)
		os.Exit(1)
	}

	if err := market.New(market.Dependency{
		DBConn:     a.dbConn,
		Blob:       a.blob,
		Enforcer:   a.casbin,
		Router:     a.router,
		Instrument: a.ins,
		UID:        a.uid,
		Validator:  a.validator,
	}); err != nil {
		slog.Error("failed to init module market", "error", err)
		os.Exit(1)
	}

	if err := booking.New(booking.Dependency{
		DBConn:      a.dbConn,
		Signer:      a.signer,
		Idempotency: a.idemp,
		Goroutine:   a.goroutine,
		Enforcer:    a.casbin,
		Router:      a.router,
		Messaging:   a.messaging,
		Config:      a.config,
		Instrument:  a.ins,
		UID:         a.uid,
		Clock:       a.clock,
		Validator:   a.validator,
	}); err != nil {
		slog.Error("failed to init module booking", "error", err)
		os.Exit(1)
	}

	if err := review.New(review.Dependency{
		DBConn:     a.dbConn,
		Enforcer:   a.casbin,
		Router:     a.router,
		Instrument: a.ins,
		UID:        a.uid,
		Validator:  a.validator,
	}); err != nil {
		slog.Error("failed to init module review", "error", err)
		os.Exit(1)
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(a.ctx, notification.Dependency{
			DBConn:     a.dbConn,
			Mail:       a.mail,
			Messaging:  a.messaging,
			Instrument: a.ins,
			UID:        a.uid,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
