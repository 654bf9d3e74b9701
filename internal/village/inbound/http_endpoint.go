package inbound

import (
	"github.com/samber/lo"

	"github.com/desatrip/desatrip/internal/pkg/router"
	"github.com/desatrip/desatrip/internal/village/entity"
	"github.com/desatrip/desatrip/internal/village/usecase"
)

// HTTPEndpoint exposes HTTP handlers for the village catalog.
type HTTPEndpoint struct {
	uc uc
}

// VillageList returns the active villages, optionally filtered by a search
// term over name and district.
func (h *HTTPEndpoint) VillageList(r *router.Request) (any, error) {
	page, _ := r.GetQueryInt32("page")
	limit, _ := r.GetQueryInt32("limit")

	resp, err := h.uc.VillageList(r.Context(), usecase.VillageListInput{
		Page:   page,
		Limit:  limit,
		Search: r.GetQuery("search"),
	})
	if err != nil {
		return nil, err
	}

	return VillageListResponse{
		pagination: pagination{Total: resp.Total, Page: resp.Page, Limit: resp.Limit},
		Villages: lo.Map(resp.Villages, func(v entity.Village, _ int) VillageResponse {
			return toVillageResponse(v, "")
		}),
	}, nil
}

// VillageGet returns one village by id or slug, with a presigned cover URL
// when a cover has been uploaded.
func (h *HTTPEndpoint) VillageGet(r *router.Request) (any, error) {
	resp, err := h.uc.VillageGet(r.Context(), usecase.VillageGetInput{
		IDOrSlug: r.GetParam("id"),
	})
	if err != nil {
		return nil, err
	}

	return toVillageResponse(resp.Village, resp.CoverURL), nil
}

func (h *HTTPEndpoint) VillageCreate(r *router.Request) (any, error) {
	var req VillageCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VillageCreate(r.Context(), usecase.VillageCreateInput{
		Name:        req.Name,
		Slug:        req.Slug,
		District:    req.District,
		State:       req.State,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}

	return VillageCreateResponse{ID: resp.ID}, nil
}

func (h *HTTPEndpoint) VillageUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req VillageUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	err = h.uc.VillageUpdate(r.Context(), usecase.VillageUpdateInput{
		ID:          id,
		Name:        req.Name,
		District:    req.District,
		State:       req.State,
		Description: req.Description,
		Active:      req.Active,
	})

	return nil, err
}

// VillageUploadCover streams the multipart "cover" field into object storage.
func (h *HTTPEndpoint) VillageUploadCover(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	file, err := r.StreamSingleFile("cover")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	resp, err := h.uc.VillageUploadCover(r.Context(), usecase.VillageUploadCoverInput{
		VillageID:   id,
		File:        file,
		ContentType: r.Header.Get("X-File-Content-Type"),
	})
	if err != nil {
		return nil, err
	}

	return VillageUploadCoverResponse{CoverKey: resp.CoverKey}, nil
}

func (h *HTTPEndpoint) RoomList(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	page, _ := r.GetQueryInt32("page")
	limit, _ := r.GetQueryInt32("limit")

	resp, err := h.uc.RoomList(r.Context(), usecase.RoomListInput{
		VillageID: id,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	return RoomListResponse{
		pagination: pagination{Total: resp.Total, Page: resp.Page, Limit: resp.Limit},
		Rooms: lo.Map(resp.Rooms, func(room entity.Room, _ int) RoomResponse {
			return toRoomResponse(room)
		}),
	}, nil
}

func (h *HTTPEndpoint) RoomCreate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req RoomCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RoomCreate(r.Context(), usecase.RoomCreateInput{
		VillageID:       id,
		Title:           req.Title,
		Description:     req.Description,
		Capacity:        req.Capacity,
		PriceNightPaise: req.PriceNightPaise,
	})
	if err != nil {
		return nil, err
	}

	return RoomCreateResponse{ID: resp.ID}, nil
}

func (h *HTTPEndpoint) GuideList(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.GuideList(r.Context(), usecase.GuideListInput{VillageID: id})
	if err != nil {
		return nil, err
	}

	return GuideListResponse{
		Guides: lo.Map(resp.Guides, func(g entity.Guide, _ int) GuideResponse {
			return toGuideResponse(g)
		}),
	}, nil
}

func (h *HTTPEndpoint) GuideCreate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req GuideCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.GuideCreate(r.Context(), usecase.GuideCreateInput{
		VillageID:   id,
		FullName:    req.FullName,
		Bio:         req.Bio,
		Languages:   req.Languages,
		FeeDayPaise: req.FeeDayPaise,
	})
	if err != nil {
		return nil, err
	}

	return GuideCreateResponse{ID: resp.ID}, nil
}
