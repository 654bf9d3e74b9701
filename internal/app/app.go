package app

import (
	"context"
	"net/http"

	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/desatrip/desatrip/internal/pkg/clock"
	"github.com/desatrip/desatrip/internal/pkg/config"
	"github.com/desatrip/desatrip/internal/pkg/goroutine"
	"github.com/desatrip/desatrip/internal/pkg/hash"
	"github.com/desatrip/desatrip/internal/pkg/idempotency"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/jwt"
	"github.com/desatrip/desatrip/internal/pkg/kv"
	"github.com/desatrip/desatrip/internal/pkg/mail"
	"github.com/desatrip/desatrip/internal/pkg/messaging"
	"github.com/desatrip/desatrip/internal/pkg/otp"
	"github.com/desatrip/desatrip/internal/pkg/pgxauthz"
	"github.com/desatrip/desatrip/internal/pkg/router"
	"github.com/desatrip/desatrip/internal/pkg/storage"
	"github.com/desatrip/desatrip/internal/pkg/uid"
	"github.com/desatrip/desatrip/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	signer    hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	jwt       jwt.JWT
	otp       *otp.Manager

	// resources
	dbConn       *pgxpool.Pool
	cacheConn    *redis.Client
	kv           kv.Store
	idemp        idempotency.Idempotency
	mail         mail.Mail
	messaging    messaging.Client
	blob         storage.Blob
	casbin       *casbin.Enforcer
	authzWatcher *pgxauthz.Watcher

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initStorage()
	app.initMessaging()
	app.initAuthz()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
