package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/village/entity"
)

type VillageCreateInput struct {
	Name        string `validate:"required,min=3,max=100"`
	Slug        string `validate:"required,min=3,max=100,slug"`
	District    string `validate:"required,min=2,max=100"`
	State       string `validate:"required,min=2,max=100"`
	Description string `validate:"max=2000"`
}

type VillageCreateOutput struct {
	ID int64
}

func (s *Usecase) VillageCreate(ctx context.Context, in VillageCreateInput) (*VillageCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "VillageCreate")
	defer span.End()

	if _, err := s.authorized(ctx, "villages", "write"); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(strings.ToLower(in.Slug))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	village := entity.NewVillage{
		ID:          s.uid.Generate(),
		Name:        in.Name,
		Slug:        in.Slug,
		District:    in.District,
		State:       in.State,
		Description: in.Description,
	}

	if err := s.repoDB.CreateVillage(ctx, village); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("Slug already in use", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create village", "slug", in.Slug, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VillageCreateOutput{ID: village.ID}, nil
}
