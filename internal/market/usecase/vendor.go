package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/desatrip/desatrip/internal/market/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
)

type VendorRegisterInput struct {
	Name        string `validate:"required,min=3,max=100"`
	Description string `validate:"max=2000"`
	Phone       string `validate:"required,numeric,min=8,max=15"`
}

type VendorRegisterOutput struct {
	ID int64
}

// VendorRegister creates the vendor profile for the authenticated account.
// An account can own at most one vendor.
func (s *Usecase) VendorRegister(ctx context.Context, in VendorRegisterInput) (*VendorRegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "VendorRegister")
	defer span.End()

	accountID, err := s.authorized(ctx, "vendors", "write")
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	vendor := entity.NewVendor{
		ID:          s.uid.Generate(),
		AccountID:   accountID,
		Name:        in.Name,
		Description: in.Description,
		Phone:       in.Phone,
	}

	if err := s.repoDB.CreateVendor(ctx, vendor); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("Vendor already registered for this account", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create vendor", "account_id", accountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VendorRegisterOutput{ID: vendor.ID}, nil
}

type VendorGetInput struct {
	ID int64 `validate:"required"`
}

type VendorGetOutput struct {
	Vendor   entity.Vendor
	Products []entity.Product
}

// VendorGet returns a vendor storefront with its active products.
func (s *Usecase) VendorGet(ctx context.Context, in VendorGetInput) (*VendorGetOutput, error) {
	ctx, span := s.startSpan(ctx, "VendorGet")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	vendor, err := s.repoDB.GetVendorByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Vendor not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get vendor", "vendor_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	products, _, err := s.repoDB.ListProducts(ctx, normalizeProductFilter(entity.ProductFilter{VendorID: in.ID}))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list vendor products", "vendor_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VendorGetOutput{Vendor: *vendor, Products: products}, nil
}
