package inbound

import (
	"net/http"
	"time"

	"github.com/desatrip/desatrip/internal/village/entity"
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

type VillageResponse struct {
	ID          int64     `json:"id,string"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	District    string    `json:"district"`
	State       string    `json:"state"`
	Description string    `json:"description"`
	CoverURL    string    `json:"cover_url,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toVillageResponse(v entity.Village, coverURL string) VillageResponse {
	return VillageResponse{
		ID:          v.ID,
		Name:        v.Name,
		Slug:        v.Slug,
		District:    v.District,
		State:       v.State,
		Description: v.Description,
		CoverURL:    coverURL,
		Active:      v.Active,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

type VillageListResponse struct {
	pagination `json:"-"`

	Villages []VillageResponse `json:"villages"`
}

type VillageCreateRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	District    string `json:"district"`
	State       string `json:"state"`
	Description string `json:"description"`
}

type VillageCreateResponse struct {
	ID int64 `json:"id,string"`
}

func (VillageCreateResponse) StatusCode() int { return http.StatusCreated }
func (VillageCreateResponse) Message() string { return "Village created" }

type VillageUpdateRequest struct {
	Name        string `json:"name"`
	District    string `json:"district"`
	State       string `json:"state"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

type VillageUploadCoverResponse struct {
	CoverKey string `json:"cover_key"`
}

func (VillageUploadCoverResponse) Message() string { return "Cover uploaded" }

type RoomResponse struct {
	ID              int64     `json:"id,string"`
	VillageID       int64     `json:"village_id,string"`
	HostID          int64     `json:"host_id,string"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Capacity        int16     `json:"capacity"`
	PriceNightPaise int64     `json:"price_night_paise"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toRoomResponse(r entity.Room) RoomResponse {
	return RoomResponse{
		ID:              r.ID,
		VillageID:       r.VillageID,
		HostID:          r.HostID,
		Title:           r.Title,
		Description:     r.Description,
		Capacity:        r.Capacity,
		PriceNightPaise: r.PriceNightPaise,
		Active:          r.Active,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type RoomListResponse struct {
	pagination `json:"-"`

	Rooms []RoomResponse `json:"rooms"`
}

type RoomCreateRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Capacity        int16  `json:"capacity"`
	PriceNightPaise int64  `json:"price_night_paise"`
}

type RoomCreateResponse struct {
	ID int64 `json:"id,string"`
}

func (RoomCreateResponse) StatusCode() int { return http.StatusCreated }
func (RoomCreateResponse) Message() string { return "Room created" }

type GuideResponse struct {
	ID          int64     `json:"id,string"`
	VillageID   int64     `json:"village_id,string"`
	FullName    string    `json:"full_name"`
	Bio         string    `json:"bio"`
	Languages   []string  `json:"languages"`
	FeeDayPaise int64     `json:"fee_day_paise"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toGuideResponse(g entity.Guide) GuideResponse {
	return GuideResponse{
		ID:          g.ID,
		VillageID:   g.VillageID,
		FullName:    g.FullName,
		Bio:         g.Bio,
		Languages:   g.Languages,
		FeeDayPaise: g.FeeDayPaise,
		Active:      g.Active,
		CreatedAt:   g.CreatedAt,
	}
}

type GuideListResponse struct {
	Guides []GuideResponse `json:"guides"`
}

type GuideCreateRequest struct {
	FullName    string   `json:"full_name"`
	Bio         string   `json:"bio"`
	Languages   []string `json:"languages"`
	FeeDayPaise int64    `json:"fee_day_paise"`
}

type GuideCreateResponse struct {
	ID int64 `json:"id,string"`
}

func (GuideCreateResponse) StatusCode() int { return http.StatusCreated }
func (GuideCreateResponse) Message() string { return "Guide registered" }
