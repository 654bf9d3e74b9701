package inbound

import (
	"net/http"
	"time"

	"github.com/desatrip/desatrip/internal/market/entity"
)

type pagination struct {
	Total int64
	Page  int32
	Limit int32
}

func (p pagination) Meta() map[string]any {
	return map[string]any{
		"total": p.Total,
		"page":  p.Page,
		"limit": p.Limit,
	}
}

type VendorRegisterRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
}

type VendorRegisterResponse struct {
	ID int64 `json:"id,string"`
}

func (VendorRegisterResponse) StatusCode() int { return http.StatusCreated }
func (VendorRegisterResponse) Message() string { return "Vendor registered" }

type VendorResponse struct {
	ID          int64     `json:"id,string"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Phone       string    `json:"phone"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toVendorResponse(v entity.Vendor) VendorResponse {
	return VendorResponse{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		Phone:       v.Phone,
		Active:      v.Active,
		CreatedAt:   v.CreatedAt,
	}
}

type VendorGetResponse struct {
	Vendor   VendorResponse    `json:"vendor"`
	Products []ProductResponse `json:"products"`
}

type ProductResponse struct {
	ID          int64     `json:"id,string"`
	VendorID    int64     `json:"vendor_id,string"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PricePaise  int64     `json:"price_paise"`
	Stock       int32     `json:"stock"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductResponse(p entity.Product, photoURL string) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		VendorID:    p.VendorID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		PricePaise:  p.PricePaise,
		Stock:       p.Stock,
		PhotoURL:    photoURL,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type ProductListResponse struct {
	pagination `json:"-"`

	Products []ProductResponse `json:"products"`
}

type ProductCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PricePaise  int64  `json:"price_paise"`
	Stock       int32  `json:"stock"`
}

type ProductCreateResponse struct {
	ID int64 `json:"id,string"`
}

func (ProductCreateResponse) StatusCode() int { return http.StatusCreated }
func (ProductCreateResponse) Message() string { return "Product created" }

type ProductUpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PricePaise  int64  `json:"price_paise"`
	Stock       *int32 `json:"stock"`
	Active      *bool  `json:"active"`
}

type ProductUploadPhotoResponse struct {
	PhotoKey string `json:"photo_key"`
}

func (ProductUploadPhotoResponse) Message() string { return "Photo uploaded" }
