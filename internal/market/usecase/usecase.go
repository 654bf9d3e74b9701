package usecase

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/casbin/casbin/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/desatrip/desatrip/internal/market/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/jwt"
	"github.com/desatrip/desatrip/internal/pkg/storage"
	"github.com/desatrip/desatrip/internal/pkg/uid"
	"github.com/desatrip/desatrip/internal/pkg/validator"
)

type repoDB interface {
	GetVendorByID(ctx context.Context, id int64) (*entity.Vendor, error)
	GetVendorByAccountID(ctx context.Context, accountID int64) (*entity.Vendor, error)
	CreateVendor(ctx context.Context, in entity.NewVendor) error

	ListProducts(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, int64, error)
	GetProductByID(ctx context.Context, id int64) (*entity.Product, error)
	CreateProduct(ctx context.Context, in entity.NewProduct) error
	UpdateProduct(ctx context.Context, in entity.PatchProduct) error
	SetProductPhoto(ctx context.Context, id int64, photoKey string) error
}

type Usecase struct {
	repoDB    repoDB
	blob      storage.Blob
	validator validator.Validator
	uid       uid.NumberID
	ins       instrument.Instrumentation
	enforcer  *casbin.Enforcer
}

type Dependency struct {
	RepoDB     repoDB
	Blob       storage.Blob
	Validator  validator.Validator
	UID        uid.NumberID
	Instrument instrument.Instrumentation
	Enforcer   *casbin.Enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		blob:      dep.Blob,
		validator: dep.Validator,
		uid:       dep.UID,
		ins:       dep.Instrument,
		enforcer:  dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("market.usecase").Start(ctx, name)
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

// ownVendor resolves the vendor profile owned by the authenticated account.
func (s *Usecase) ownVendor(ctx context.Context, accountID int64) (*entity.Vendor, error) {
	vendor, err := s.repoDB.GetVendorByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

func normalizeProductFilter(f entity.ProductFilter) entity.ProductFilter {
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
