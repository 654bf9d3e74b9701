package usecase

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/casbin/casbin/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/jwt"
	"github.com/desatrip/desatrip/internal/pkg/uid"
	"github.com/desatrip/desatrip/internal/pkg/validator"
	"github.com/desatrip/desatrip/internal/review/entity"
)

type repoDB interface {
	VillageExists(ctx context.Context, villageID int64) (bool, error)
	ListReviews(ctx context.Context, villageID int64) ([]entity.Review, float64, error)
	CreateReview(ctx context.Context, in entity.NewReview) error
}

type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	uid       uid.NumberID
	ins       instrument.Instrumentation
	enforcer  *casbin.Enforcer
}

type Dependency struct {
	RepoDB     repoDB
	Validator  validator.Validator
	UID        uid.NumberID
	Instrument instrument.Instrumentation
	Enforcer   *casbin.Enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		uid:       dep.UID,
		ins:       dep.Instrument,
		enforcer:  dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("review.usecase").Start(ctx, name)
}

func (s *Usecase) authorized(ctx context.Context, act string) (int64, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return 0, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	accountID, err := strconv.ParseInt(clm.Subject, 10, 64)
	if err != nil {
		return 0, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	ok, err := s.enforcer.Enforce("user:"+clm.Subject, "reviews", act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "account_id", clm.Subject, "error", err)
		return 0, goerror.NewServer(err)
	}
	if !ok {
		return 0, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return accountID, nil
}
