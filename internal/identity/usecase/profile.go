package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/desatrip/desatrip/internal/identity/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
)

type ProfileOutput struct {
	Account entity.Account
}

func (s *Usecase) Profile(ctx context.Context) (*ProfileOutput, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	accountID, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	account, err := s.repoDB.GetAccountByID(ctx, accountID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by id", "account_id", accountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ProfileOutput{Account: *account}, nil
}
