package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/desatrip/desatrip/internal/identity/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/pkg/otp"
)

type LoginVerifyInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,otpcode"`
}

type LoginVerifyOutput struct {
	Account      entity.Account
	AccessToken  string
	RefreshToken string
}

func (s *Usecase) LoginVerify(ctx context.Context, in LoginVerifyInput) (*LoginVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "LoginVerify")
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

	_, err = s.otp.Validate(ctx, loginKey(account.ID), in.Code)
	switch {
	case errors.Is(err, otp.ErrExpired):
		return nil, goerror.NewBusiness("OTP expired or not found", goerror.CodeNotFound)
	case errors.Is(err, otp.ErrMismatch):
		return nil, goerror.NewBusiness("Invalid OTP", goerror.CodeInvalidInput)
	case errors.Is(err, otp.ErrTooManyAttempts):
		return nil, goerror.NewBusiness("Too many wrong attempts, request a new code", goerror.CodeTooManyRequest)
	case err != nil:
		slog.ErrorContext(ctx, "failed to validate login otp", "account_id", account.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	pair, err := s.issueSession(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return &LoginVerifyOutput{
		Account:      *account,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}
