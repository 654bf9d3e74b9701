package inbound

import (
	"context"

	"github.com/desatrip/desatrip/internal/pkg/router"
	"github.com/desatrip/desatrip/internal/village/usecase"
)

type uc interface {
	VillageList(ctx context.Context, in usecase.VillageListInput) (*usecase.VillageListOutput, error)
	VillageGet(ctx context.Context, in usecase.VillageGetInput) (*usecase.VillageGetOutput, error)
	VillageCreate(ctx context.Context, in usecase.VillageCreateInput) (*usecase.VillageCreateOutput, error)
	VillageUpdate(ctx context.Context, in usecase.VillageUpdateInput) error
	VillageUploadCover(ctx context.Context, in usecase.VillageUploadCoverInput) (*usecase.VillageUploadCoverOutput, error)

	RoomList(ctx context.Context, in usecase.RoomListInput) (*usecase.RoomListOutput, error)
	RoomCreate(ctx context.Context, in usecase.RoomCreateInput) (*usecase.RoomCreateOutput, error)

	GuideList(ctx context.Context, in usecase.GuideListInput) (*usecase.GuideListOutput, error)
	GuideCreate(ctx context.Context, in usecase.GuideCreateInput) (*usecase.GuideCreateOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Public catalog
	r.GET("/api/v1/villages", end.VillageList)
	r.GET("/api/v1/villages/:id", end.VillageGet)
	r.GET("/api/v1/villages/:id/rooms", end.RoomList)
	r.GET("/api/v1/villages/:id/guides", end.GuideList)

	// Management (need authenticated)
	r.POST("/api/v1/villages", end.VillageCreate)
	r.PUT("/api/v1/villages/:id", end.VillageUpdate)
	r.PUT("/api/v1/villages/:id/cover", end.VillageUploadCover)
	r.POST("/api/v1/villages/:id/rooms", end.RoomCreate)
	r.POST("/api/v1/villages/:id/guides", end.GuideCreate)
}
