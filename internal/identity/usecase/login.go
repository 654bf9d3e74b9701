package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/shared/event"
)

func loginKey(accountID int64) string { return "login:" + strconv.FormatInt(accountID, 10) }

type LoginInput struct {
	Email string `validate:"required,email"`
}

type LoginOutput struct {
	// DebugCode carries the plaintext OTP only when
	// modules.identity.debug_otp is enabled.
	DebugCode string
}

// Login starts a passwordless login: the account holder receives an OTP by
// email and completes the flow with LoginVerify.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	account, err := s.repoDB.GetAccountByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureAccountAllowed(ctx, account); err != nil {
		return nil, err
	}

	code, err := s.otp.Issue(ctx, loginKey(account.ID), "")
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue login otp", "account_id", account.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.publishOTP(ctx, OTPIssuedEvent{
		Email:    account.Email,
		FullName: account.FullName,
		Code:     code,
		Purpose:  event.OTPPurposeLogin,
	})

	out := &LoginOutput{}
	if s.cfg.GetBool("modules.identity.debug_otp") {
		out.DebugCode = code
	}

	return out, nil
}
