package usecase

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
)

// Logout drops the account's current session record, invalidating its
// refresh token. Outstanding access tokens keep working until they expire.
func (s *Usecase) Logout(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	accountID, err := s.authenticated(ctx)
	if err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, sessionKeyPrefix+strconv.FormatInt(accountID, 10)); err != nil {
		slog.ErrorContext(ctx, "failed to delete session jti", "account_id", accountID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
