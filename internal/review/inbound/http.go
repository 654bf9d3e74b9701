package inbound

import (
	"context"

	"github.com/desatrip/desatrip/internal/pkg/router"
	"github.com/desatrip/desatrip/internal/review/usecase"
)

type uc interface {
	ReviewList(ctx context.Context, in usecase.ReviewListInput) (*usecase.ReviewListOutput, error)
	ReviewCreate(ctx context.Context, in usecase.ReviewCreateInput) (*usecase.ReviewCreateOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/villages/:id/reviews", end.ReviewList)
	r.POST("/api/v1/villages/:id/reviews", end.ReviewCreate) // need authenticated
}
