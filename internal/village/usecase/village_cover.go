package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
)

type VillageUploadCoverInput struct {
	VillageID   int64 `validate:"required"`
	File        io.Reader
	ContentType string
}

type VillageUploadCoverOutput struct {
	CoverKey string
}

// VillageUploadCover streams a cover image into object storage and records
// the object key on the village.
func (s *Usecase) VillageUploadCover(ctx context.Context, in VillageUploadCoverInput) (*VillageUploadCoverOutput, error) {
	ctx, span := s.startSpan(ctx, "VillageUploadCover")
	defer span.End()

	if _, err := s.authorized(ctx, "villages", "write"); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.File == nil {
		return nil, goerror.NewInvalidFormat("Missing file")
	}

	if _, err := s.repoDB.GetVillageByID(ctx, in.VillageID); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return nil, goerror.NewBusiness("Village not found", goerror.CodeNotFound)
		}
		slog.ErrorContext(ctx, "failed to repo get village by id", "village_id", in.VillageID, "error", err)
		return nil, goerror.NewServer(err)
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("villages/%d/cover", in.VillageID)
	if _, err := s.blob.Upload(ctx, key, in.File, -1, contentType); err != nil {
		slog.ErrorContext(ctx, "failed to upload village cover", "village_id", in.VillageID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.SetVillageCover(ctx, in.VillageID, key); err != nil {
		slog.ErrorContext(ctx, "failed to repo set village cover", "village_id", in.VillageID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VillageUploadCoverOutput{CoverKey: key}, nil
}
