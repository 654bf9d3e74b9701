package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/village/entity"
)

type VillageUpdateInput struct {
	ID          int64  `validate:"required"`
	Name        string `validate:"required,min=3,max=100"`
	District    string `validate:"required,min=2,max=100"`
	State       string `validate:"required,min=2,max=100"`
	Description string `validate:"max=2000"`
	Active      *bool
}

func (s *Usecase) VillageUpdate(ctx context.Context, in VillageUpdateInput) error {
	ctx, span := s.startSpan(ctx, "VillageUpdate")
	defer span.End()

	if _, err := s.authorized(ctx, "villages", "write"); err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	err := s.repoDB.UpdateVillage(ctx, entity.PatchVillage{
		ID:          in.ID,
		Name:        in.Name,
		District:    in.District,
		State:       in.State,
		Description: in.Description,
		Active:      in.Active,
	})
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Village not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update village", "village_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
