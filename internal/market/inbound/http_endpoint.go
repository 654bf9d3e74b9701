package inbound

import (
	"github.com/samber/lo"

	"github.com/desatrip/desatrip/internal/market/entity"
	"github.com/desatrip/desatrip/internal/market/usecase"
	"github.com/desatrip/desatrip/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the village market.
type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) VendorRegister(r *router.Request) (any, error) {
	var req VendorRegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VendorRegister(r.Context(), usecase.VendorRegisterInput{
		Name:        req.Name,
		Description: req.Description,
		Phone:       req.Phone,
	})
	if err != nil {
		return nil, err
	}

	return VendorRegisterResponse{ID: resp.ID}, nil
}

func (h *HTTPEndpoint) VendorGet(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.VendorGet(r.Context(), usecase.VendorGetInput{ID: id})
	if err != nil {
		return nil, err
	}

	return VendorGetResponse{
		Vendor: toVendorResponse(resp.Vendor),
		Products: lo.Map(resp.Products, func(p entity.Product, _ int) ProductResponse {
			return toProductResponse(p, "")
		}),
	}, nil
}

func (h *HTTPEndpoint) ProductList(r *router.Request) (any, error) {
	page, _ := r.GetQueryInt32("page")
	limit, _ := r.GetQueryInt32("limit")

	resp, err := h.uc.ProductList(r.Context(), usecase.ProductListInput{
		Page:     page,
		Limit:    limit,
		Search:   r.GetQuery("search"),
		Category: r.GetQuery("category"),
	})
	if err != nil {
		return nil, err
	}

	return ProductListResponse{
		pagination: pagination{Total: resp.Total, Page: resp.Page, Limit: resp.Limit},
		Products: lo.Map(resp.Products, func(p entity.Product, _ int) ProductResponse {
			return toProductResponse(p, "")
		}),
	}, nil
}

func (h *HTTPEndpoint) ProductGet(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ProductGet(r.Context(), usecase.ProductGetInput{ID: id})
	if err != nil {
		return nil, err
	}

	return toProductResponse(resp.Product, resp.PhotoURL), nil
}

func (h *HTTPEndpoint) ProductCreate(r *router.Request) (any, error) {
	var req ProductCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ProductCreate(r.Context(), usecase.ProductCreateInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PricePaise:  req.PricePaise,
		Stock:       req.Stock,
	})
	if err != nil {
		return nil, err
	}

	return ProductCreateResponse{ID: resp.ID}, nil
}

func (h *HTTPEndpoint) ProductUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req ProductUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	err = h.uc.ProductUpdate(r.Context(), usecase.ProductUpdateInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PricePaise:  req.PricePaise,
		Stock:       req.Stock,
		Active:      req.Active,
	})

	return nil, err
}

// ProductUploadPhoto streams the multipart "photo" field into object storage.
func (h *HTTPEndpoint) ProductUploadPhoto(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	file, err := r.StreamSingleFile("photo")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	resp, err := h.uc.ProductUploadPhoto(r.Context(), usecase.ProductUploadPhotoInput{
		ProductID:   id,
		File:        file,
		ContentType: r.Header.Get("X-File-Content-Type"),
	})
	if err != nil {
		return nil, err
	}

	return ProductUploadPhotoResponse{PhotoKey: resp.PhotoKey}, nil
}
