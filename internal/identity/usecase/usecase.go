package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/casbin/casbin/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/desatrip/desatrip/internal/identity/entity"
	"github.com/desatrip/desatrip/internal/pkg/clock"
	"github.com/desatrip/desatrip/internal/pkg/config"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/pkg/goroutine"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/jwt"
	"github.com/desatrip/desatrip/internal/pkg/kv"
	"github.com/desatrip/desatrip/internal/pkg/otp"
	"github.com/desatrip/desatrip/internal/pkg/uid"
	"github.com/desatrip/desatrip/internal/pkg/validator"
)

// OTPIssuedEvent is handed to the messaging repo for email delivery.
type OTPIssuedEvent struct {
	Email    string
	FullName string
	Code     string
	Purpose  string
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
}

type repoDB interface {
	GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*entity.Account, error)
	CreateAccount(ctx context.Context, in entity.NewAccount) error
	UpdateAccountProfile(ctx context.Context, id int64, fullName string) error
}

// sessionKeyPrefix scopes the current-jti records in the kv store. One live
// refresh token per account: the record holds the jti of the most recently
// issued pair.
const sessionKeyPrefix = "session:"

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	sessions      kv.Store
	otp           *otp.Manager
	validator     validator.Validator
	cfg           config.Config
	uid           uid.NumberID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	enforcer      *casbin.Enforcer
	goroutine     *goroutine.Manager
	refreshTTL    time.Duration
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Sessions      kv.Store
	OTP           *otp.Manager
	Validator     validator.Validator
	Config        config.Config
	UID           uid.NumberID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Enforcer      *casbin.Enforcer
	Goroutine     *goroutine.Manager
	RefreshTTL    time.Duration
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		sessions:      dep.Sessions,
		otp:           dep.OTP,
		validator:     dep.Validator,
		cfg:           dep.Config,
		uid:           dep.UID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		enforcer:      dep.Enforcer,
		goroutine:     dep.Goroutine,
		refreshTTL:    dep.RefreshTTL,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

// issueSession mints a token pair and records its jti as the account's
// current session, displacing any previous pair.
func (s *Usecase) issueSession(ctx context.Context, accountID int64) (jwt.Pair, error) {
	pair, err := s.jwt.IssuePair(accountID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue token pair", "account_id", accountID, "error", err)
		return jwt.Pair{}, goerror.NewServer(err)
	}

	key := sessionKeyPrefix + strconv.FormatInt(accountID, 10)
	if err := s.sessions.Set(ctx, key, pair.JTI, s.refreshTTL); err != nil {
		slog.ErrorContext(ctx, "failed to record session jti", "account_id", accountID, "error", err)
		return jwt.Pair{}, goerror.NewServer(err)
	}

	return pair, nil
}

func (s *Usecase) authenticated(ctx context.Context) (int64, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return 0, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	id, err := strconv.ParseInt(clm.Subject, 10, 64)
	if err != nil {
		return 0, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	return id, nil
}

func (s *Usecase) ensureAccountAllowed(ctx context.Context, account *entity.Account) error {
	switch account.Status.Ensure() {
	case entity.AccountStatusBanned:
		slog.WarnContext(ctx, "account is banned", "account_id", account.ID)
		return goerror.NewBusiness("Account is banned", goerror.CodeForbidden)
	case entity.AccountStatusUnknown:
		slog.WarnContext(ctx, "account status is unrecognized", "account_id", account.ID)
		return goerror.NewBusiness("Account status is unrecognized", goerror.CodeForbidden)
	default:
		return nil
	}
}

// publishOTP delivers the OTP event off the request path. Delivery failures
// are logged, never surfaced: the code remains valid and can be re-requested.
func (s *Usecase) publishOTP(ctx context.Context, evt OTPIssuedEvent) {
	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.repoMessaging.PublishOTPIssued(ctx, evt); err != nil {
			slog.ErrorContext(ctx, "failed to publish otp issued event", "email", evt.Email, "error", err)
		}
		return nil
	})
}
