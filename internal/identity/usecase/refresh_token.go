package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/pkg/jwt"
	"github.com/desatrip/desatrip/internal/pkg/kv"
)

type RefreshTokenInput struct {
	RefreshToken string `validate:"required"`
}

type RefreshTokenOutput struct {
	AccessToken  string
	RefreshToken string
}

// RefreshToken rotates a session: the presented refresh token must carry the
// jti currently on record for its subject, then a fresh pair with a new jti
// replaces it. Stale pairs from before the rotation stop working.
func (s *Usecase) RefreshToken(ctx context.Context, in RefreshTokenInput) (*RefreshTokenOutput, error) {
	ctx, span := s.startSpan(ctx, "RefreshToken")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	claims, err := s.jwt.Verify(in.RefreshToken, jwt.UseRefresh)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, goerror.NewBusiness("Refresh token expired", goerror.CodeUnauthorized)
	case err != nil:
		return nil, goerror.NewBusiness("Invalid refresh token", goerror.CodeUnauthorized)
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, goerror.NewBusiness("Invalid refresh token", goerror.CodeUnauthorized)
	}

	currentJTI, err := s.sessions.Get(ctx, sessionKeyPrefix+claims.Subject)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, goerror.NewBusiness("Session revoked", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to read session jti", "account_id", accountID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if currentJTI != claims.ID {
		return nil, goerror.NewBusiness("Session revoked", goerror.CodeUnauthorized)
	}

	pair, err := s.issueSession(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &RefreshTokenOutput{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}
