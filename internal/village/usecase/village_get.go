package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/village/entity"
)

type VillageGetInput struct {
	// IDOrSlug is a numeric village id or its slug.
	IDOrSlug string `validate:"required"`
}

type VillageGetOutput struct {
	Village  entity.Village
	CoverURL string
}

func (s *Usecase) VillageGet(ctx context.Context, in VillageGetInput) (*VillageGetOutput, error) {
	ctx, span := s.startSpan(ctx, "VillageGet")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var village *entity.Village
	var err error
	if id, parseErr := strconv.ParseInt(in.IDOrSlug, 10, 64); parseErr == nil {
		village, err = s.repoDB.GetVillageByID(ctx, id)
	} else {
		village, err = s.repoDB.GetVillageBySlug(ctx, in.IDOrSlug)
	}
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Village not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get village", "village", in.IDOrSlug, "error", err)
		return nil, goerror.NewServer(err)
	}

	out := &VillageGetOutput{Village: *village}
	if village.CoverKey != "" {
		url, err := s.blob.PresignGet(ctx, village.CoverKey, 15*time.Minute)
		if err != nil {
			slog.WarnContext(ctx, "failed to presign village cover", "village_id", village.ID, "error", err)
		} else {
			out.CoverURL = url
		}
	}

	return out, nil
}
