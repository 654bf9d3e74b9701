package usecase

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/casbin/casbin/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/desatrip/desatrip/internal/pkg/clock"
	"github.com/desatrip/desatrip/internal/pkg/config"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/jwt"
	"github.com/desatrip/desatrip/internal/pkg/storage"
	"github.com/desatrip/desatrip/internal/pkg/uid"
	"github.com/desatrip/desatrip/internal/pkg/validator"
	"github.com/desatrip/desatrip/internal/village/entity"
)

type repoDB interface {
	ListVillages(ctx context.Context, filter entity.ListFilter) ([]entity.Village, int64, error)
	GetVillageByID(ctx context.Context, id int64) (*entity.Village, error)
	GetVillageBySlug(ctx context.Context, slug string) (*entity.Village, error)
	CreateVillage(ctx context.Context, in entity.NewVillage) error
	UpdateVillage(ctx context.Context, in entity.PatchVillage) error
	SetVillageCover(ctx context.Context, id int64, coverKey string) error

	ListRooms(ctx context.Context, villageID int64, filter entity.ListFilter) ([]entity.Room, int64, error)
	GetRoomByID(ctx context.Context, id int64) (*entity.Room, error)
	CreateRoom(ctx context.Context, in entity.NewRoom) error

	ListGuides(ctx context.Context, villageID int64) ([]entity.Guide, error)
	CreateGuide(ctx context.Context, in entity.NewGuide) error
}

type Usecase struct {
	repoDB    repoDB
	blob      storage.Blob
	validator validator.Validator
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
	enforcer  *casbin.Enforcer
}

type Dependency struct {
	RepoDB     repoDB
	Blob       storage.Blob
	Validator  validator.Validator
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
	Enforcer   *casbin.Enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		blob:      dep.Blob,
		validator: dep.Validator,
		cfg:       dep.Config,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
		enforcer:  dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("village.usecase").Start(ctx, name)
}

func (s *Usecase) authorized(ctx context.Context, obj, act string) (int64, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return 0, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	accountID, err := strconv.ParseInt(clm.Subject, 10, 64)
	if err != nil {
		return 0, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	ok, err := s.enforcer.Enforce("user:"+clm.Subject, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "account_id", clm.Subject, "error", err)
		return 0, goerror.NewServer(err)
	}
	if !ok {
		return 0, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return accountID, nil
}

func normalizeFilter(f entity.ListFilter) entity.ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	return f
}
