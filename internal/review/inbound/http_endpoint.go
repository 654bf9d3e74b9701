package inbound

import (
	"github.com/samber/lo"

	"github.com/desatrip/desatrip/internal/pkg/router"
	"github.com/desatrip/desatrip/internal/review/entity"
	"github.com/desatrip/desatrip/internal/review/usecase"
)

// HTTPEndpoint exposes HTTP handlers for village reviews.
type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) ReviewList(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ReviewList(r.Context(), usecase.ReviewListInput{VillageID: id})
	if err != nil {
		return nil, err
	}

	return ReviewListResponse{
		Reviews: lo.Map(resp.Reviews, func(rv entity.Review, _ int) ReviewResponse {
			return toReviewResponse(rv)
		}),
		AverageRating: resp.AverageRating,
	}, nil
}

func (h *HTTPEndpoint) ReviewCreate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req ReviewCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ReviewCreate(r.Context(), usecase.ReviewCreateInput{
		VillageID: id,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return nil, err
	}

	return ReviewCreateResponse{ID: resp.ID}, nil
}
