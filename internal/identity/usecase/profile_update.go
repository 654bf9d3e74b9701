package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
)

type ProfileUpdateInput struct {
	FullName string `validate:"required,min=3,max=100,alphaspace"`
}

func (s *Usecase) ProfileUpdate(ctx context.Context, in ProfileUpdateInput) error {
	ctx, span := s.startSpan(ctx, "ProfileUpdate")
	defer span.End()

	accountID, err := s.authenticated(ctx)
	if err != nil {
		return err
	}

	in.FullName = strings.TrimSpace(in.FullName)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if err := s.repoDB.UpdateAccountProfile(ctx, accountID, in.FullName); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return goerror.NewBusiness("Account not found", goerror.CodeNotFound)
		}
		slog.ErrorContext(ctx, "failed to repo update account profile", "account_id", accountID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
