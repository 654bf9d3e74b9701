package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/village/entity"
)

type GuideListInput struct {
	VillageID int64 `validate:"required"`
}

type GuideListOutput struct {
	Guides []entity.Guide
}

func (s *Usecase) GuideList(ctx context.Context, in GuideListInput) (*GuideListOutput, error) {
	ctx, span := s.startSpan(ctx, "GuideList")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	guides, err := s.repoDB.ListGuides(ctx, in.VillageID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list guides", "village_id", in.VillageID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &GuideListOutput{Guides: guides}, nil
}

type GuideCreateInput struct {
	VillageID   int64    `validate:"required"`
	FullName    string   `validate:"required,min=3,max=100,alphaspace"`
	Bio         string   `validate:"max=2000"`
	Languages   []string `validate:"required,min=1,dive,min=2,max=30"`
	FeeDayPaise int64    `validate:"required,min=1"`
}

type GuideCreateOutput struct {
	ID int64
}

func (s *Usecase) GuideCreate(ctx context.Context, in GuideCreateInput) (*GuideCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "GuideCreate")
	defer span.End()

	accountID, err := s.authorized(ctx, "guides", "write")
	if err != nil {
		return nil, err
	}

	in.FullName = strings.TrimSpace(in.FullName)

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

	guide := entity.NewGuide{
		ID:          s.uid.Generate(),
		VillageID:   in.VillageID,
		AccountID:   accountID,
		FullName:    in.FullName,
		Bio:         in.Bio,
		Languages:   in.Languages,
		FeeDayPaise: in.FeeDayPaise,
	}

	if err := s.repoDB.CreateGuide(ctx, guide); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("Guide already registered in this village", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create guide", "village_id", in.VillageID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &GuideCreateOutput{ID: guide.ID}, nil
}
