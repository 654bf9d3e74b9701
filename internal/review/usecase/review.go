package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/review/entity"
)

type ReviewListInput struct {
	VillageID int64 `validate:"required"`
}

type ReviewListOutput struct {
	Reviews       []entity.Review
	AverageRating float64
}

// ReviewList returns a village's reviews together with the average rating.
func (s *Usecase) ReviewList(ctx context.Context, in ReviewListInput) (*ReviewListOutput, error) {
	ctx, span := s.startSpan(ctx, "ReviewList")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	exists, err := s.repoDB.VillageExists(ctx, in.VillageID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check village", "village_id", in.VillageID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !exists {
		return nil, goerror.NewBusiness("Village not found", goerror.CodeNotFound)
	}

	reviews, avg, err := s.repoDB.ListReviews(ctx, in.VillageID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list reviews", "village_id", in.VillageID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ReviewListOutput{Reviews: reviews, AverageRating: avg}, nil
}

type ReviewCreateInput struct {
	VillageID int64  `validate:"required"`
	Rating    int16  `validate:"required,min=1,max=5"`
	Comment   string `validate:"max=2000"`
}

type ReviewCreateOutput struct {
	ID int64
}

// ReviewCreate records the traveler's rating for a village. One review per
// traveler per village.
func (s *Usecase) ReviewCreate(ctx context.Context, in ReviewCreateInput) (*ReviewCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "ReviewCreate")
	defer span.End()

	accountID, err := s.authorized(ctx, "write")
	if err != nil {
		return nil, err
	}

	in.Comment = strings.TrimSpace(in.Comment)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	exists, err := s.repoDB.VillageExists(ctx, in.VillageID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check village", "village_id", in.VillageID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !exists {
		return nil, goerror.NewBusiness("Village not found", goerror.CodeNotFound)
	}

	review := entity.NewReview{
		ID:        s.uid.Generate(),
		VillageID: in.VillageID,
		AccountID: accountID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}

	if err := s.repoDB.CreateReview(ctx, review); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("You already reviewed this village", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create review", "village_id", in.VillageID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ReviewCreateOutput{ID: review.ID}, nil
}
