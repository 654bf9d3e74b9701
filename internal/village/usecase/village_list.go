package usecase

import (
	"context"
	"log/slog"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/village/entity"
)

type VillageListInput struct {
	Page   int32
	Limit  int32
	Search string
}

type VillageListOutput struct {
	Villages []entity.Village
	Total    int64
	Page     int32
	Limit    int32
}

func (s *Usecase) VillageList(ctx context.Context, in VillageListInput) (*VillageListOutput, error) {
	ctx, span := s.startSpan(ctx, "VillageList")
	defer span.End()

	filter := normalizeFilter(entity.ListFilter{Page: in.Page, Limit: in.Limit, Search: in.Search})

	villages, total, err := s.repoDB.ListVillages(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list villages", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VillageListOutput{
		Villages: villages,
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}, nil
}
