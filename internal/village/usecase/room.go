package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/village/entity"
)

type RoomListInput struct {
	VillageID int64 `validate:"required"`
	Page      int32
	Limit     int32
}

type RoomListOutput struct {
	Rooms []entity.Room
	Total int64
	Page  int32
	Limit int32
}

func (s *Usecase) RoomList(ctx context.Context, in RoomListInput) (*RoomListOutput, error) {
	ctx, span := s.startSpan(ctx, "RoomList")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	filter := normalizeFilter(entity.ListFilter{Page: in.Page, Limit: in.Limit})

	rooms, total, err := s.repoDB.ListRooms(ctx, in.VillageID, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list rooms", "village_id", in.VillageID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RoomListOutput{Rooms: rooms, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

type RoomCreateInput struct {
	VillageID       int64  `validate:"required"`
	Title           string `validate:"required,min=3,max=150"`
	Description     string `validate:"max=2000"`
	Capacity        int16  `validate:"required,min=1,max=50"`
	PriceNightPaise int64  `validate:"required,min=1"`
}

type RoomCreateOutput struct {
	ID int64
}

// RoomCreate registers a room owned by the authenticated host inside a
// village.
func (s *Usecase) RoomCreate(ctx context.Context, in RoomCreateInput) (*RoomCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "RoomCreate")
	defer span.End()

	hostID, err := s.authorized(ctx, "rooms", "write")
	if err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.repoDB.GetVillageByID(ctx, in.VillageID); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return nil, goerror.NewBusiness("Village not found", goerror.CodeNotFound)
		}
		slog.ErrorContext(ctx, "failed to repo get village by id", "village_id", in.VillageID, "error", err)
		return nil, goerror.NewServer(err)
	}

	room := entity.NewRoom{
		ID:              s.uid.Generate(),
		VillageID:       in.VillageID,
		HostID:          hostID,
		Title:           in.Title,
		Description:     in.Description,
		Capacity:        in.Capacity,
		PriceNightPaise: in.PriceNightPaise,
	}

	if err := s.repoDB.CreateRoom(ctx, room); err != nil {
		slog.ErrorContext(ctx, "failed to repo create room", "village_id", in.VillageID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RoomCreateOutput{ID: room.ID}, nil
}
