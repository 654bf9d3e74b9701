package inbound

import (
	"context"

	"github.com/desatrip/desatrip/internal/market/usecase"
	"github.com/desatrip/desatrip/internal/pkg/router"
)

type uc interface {
	VendorRegister(ctx context.Context, in usecase.VendorRegisterInput) (*usecase.VendorRegisterOutput, error)
	VendorGet(ctx context.Context, in usecase.VendorGetInput) (*usecase.VendorGetOutput, error)

	ProductList(ctx context.Context, in usecase.ProductListInput) (*usecase.ProductListOutput, error)
	ProductGet(ctx context.Context, in usecase.ProductGetInput) (*usecase.ProductGetOutput, error)
	ProductCreate(ctx context.Context, in usecase.ProductCreateInput) (*usecase.ProductCreateOutput, error)
	ProductUpdate(ctx context.Context, in usecase.ProductUpdateInput) error
	ProductUploadPhoto(ctx context.Context, in usecase.ProductUploadPhotoInput) (*usecase.ProductUploadPhotoOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Public storefront
	r.GET("/api/v1/market/products", end.ProductList)
	r.GET("/api/v1/market/products/:id", end.ProductGet)
	r.GET("/api/v1/market/vendors/:id", end.VendorGet)

	// Vendor management (need authenticated)
	r.POST("/api/v1/market/vendors", end.VendorRegister)
	r.POST("/api/v1/market/products", end.ProductCreate)
	r.PUT("/api/v1/market/products/:id", end.ProductUpdate)
	r.PUT("/api/v1/market/products/:id/photo", end.ProductUploadPhoto)
}
