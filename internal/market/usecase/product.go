package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/desatrip/desatrip/internal/market/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
)

type ProductListInput struct {
	Page     int32
	Limit    int32
	Search   string
	Category string
}

type ProductListOutput struct {
	Products []entity.Product
	Total    int64
	Page     int32
	Limit    int32
}

func (s *Usecase) ProductList(ctx context.Context, in ProductListInput) (*ProductListOutput, error) {
	ctx, span := s.startSpan(ctx, "ProductList")
	defer span.End()

	filter := normalizeProductFilter(entity.ProductFilter{
		Page:     in.Page,
		Limit:    in.Limit,
		Search:   in.Search,
		Category: in.Category,
	})

	products, total, err := s.repoDB.ListProducts(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list products", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ProductListOutput{Products: products, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

type ProductGetInput struct {
	ID int64 `validate:"required"`
}

type ProductGetOutput struct {
	Product  entity.Product
	PhotoURL string
}

func (s *Usecase) ProductGet(ctx context.Context, in ProductGetInput) (*ProductGetOutput, error) {
	ctx, span := s.startSpan(ctx, "ProductGet")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	product, err := s.repoDB.GetProductByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Product not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get product", "product_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	out := &ProductGetOutput{Product: *product}
	if product.PhotoKey != "" {
		url, err := s.blob.PresignGet(ctx, product.PhotoKey, 15*time.Minute)
		if err != nil {
			slog.WarnContext(ctx, "failed to presign product photo", "product_id", product.ID, "error", err)
		} else {
			out.PhotoURL = url
		}
	}

	return out, nil
}

type ProductCreateInput struct {
	Name        string `validate:"required,min=3,max=150"`
	Description string `validate:"max=2000"`
	Category    string `validate:"required,min=2,max=50"`
	PricePaise  int64  `validate:"required,min=1"`
	Stock       int32  `validate:"min=0"`
}

type ProductCreateOutput struct {
	ID int64
}

func (s *Usecase) ProductCreate(ctx context.Context, in ProductCreateInput) (*ProductCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "ProductCreate")
	defer span.End()

	accountID, err := s.authorized(ctx, "products", "write")
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(strings.ToLower(in.Category))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	vendor, err := s.ownVendor(ctx, accountID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Vendor profile not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get vendor by account", "account_id", accountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	product := entity.NewProduct{
		ID:          s.uid.Generate(),
		VendorID:    vendor.ID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		PricePaise:  in.PricePaise,
		Stock:       in.Stock,
	}

	if err := s.repoDB.CreateProduct(ctx, product); err != nil {
		slog.ErrorContext(ctx, "failed to repo create product", "vendor_id", vendor.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ProductCreateOutput{ID: product.ID}, nil
}

type ProductUpdateInput struct {
	ID          int64  `validate:"required"`
	Name        string `validate:"required,min=3,max=150"`
	Description string `validate:"max=2000"`
	Category    string `validate:"required,min=2,max=50"`
	PricePaise  int64  `validate:"required,min=1"`
	Stock       *int32
	Active      *bool
}

// ProductUpdate modifies a product. Only the vendor owning the product can
// change it.
func (s *Usecase) ProductUpdate(ctx context.Context, in ProductUpdateInput) error {
	ctx, span := s.startSpan(ctx, "ProductUpdate")
	defer span.End()

	accountID, err := s.authorized(ctx, "products", "write")
	if err != nil {
		return err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(strings.ToLower(in.Category))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if err := s.ensureProductOwned(ctx, in.ID, accountID); err != nil {
		return err
	}

	err = s.repoDB.UpdateProduct(ctx, entity.PatchProduct{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		PricePaise:  in.PricePaise,
		Stock:       in.Stock,
		Active:      in.Active,
	})
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Product not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update product", "product_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

type ProductUploadPhotoInput struct {
	ProductID   int64 `validate:"required"`
	File        io.Reader
	ContentType string
}

type ProductUploadPhotoOutput struct {
	PhotoKey string
}

func (s *Usecase) ProductUploadPhoto(ctx context.Context, in ProductUploadPhotoInput) (*ProductUploadPhotoOutput, error) {
	ctx, span := s.startSpan(ctx, "ProductUploadPhoto")
	defer span.End()

	accountID, err := s.authorized(ctx, "products", "write")
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.File == nil {
		return nil, goerror.NewInvalidFormat("Missing file")
	}

	if err := s.ensureProductOwned(ctx, in.ProductID, accountID); err != nil {
		return nil, err
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("products/%d/photo", in.ProductID)
	if _, err := s.blob.Upload(ctx, key, in.File, -1, contentType); err != nil {
		slog.ErrorContext(ctx, "failed to upload product photo", "product_id", in.ProductID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.SetProductPhoto(ctx, in.ProductID, key); err != nil {
		slog.ErrorContext(ctx, "failed to repo set product photo", "product_id", in.ProductID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ProductUploadPhotoOutput{PhotoKey: key}, nil
}

func (s *Usecase) ensureProductOwned(ctx context.Context, productID, accountID int64) error {
	product, err := s.repoDB.GetProductByID(ctx, productID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Product not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get product", "product_id", productID, "error", err)
		return goerror.NewServer(err)
	}

	vendor, err := s.ownVendor(ctx, accountID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Vendor profile not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get vendor by account", "account_id", accountID, "error", err)
		return goerror.NewServer(err)
	}

	if product.VendorID != vendor.ID {
		return goerror.NewBusiness("Product does not belong to your vendor", goerror.CodeForbidden)
	}

	return nil
}
