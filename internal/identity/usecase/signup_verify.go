package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/desatrip/desatrip/internal/identity/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/pkg/otp"
)

type SignupVerifyInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,otpcode"`
}

type SignupVerifyOutput struct {
	Account      entity.Account
	AccessToken  string
	RefreshToken string
}

func (s *Usecase) SignupVerify(ctx context.Context, in SignupVerifyInput) (*SignupVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "SignupVerify")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	payload, err := s.otp.Validate(ctx, signupKey(in.Email), in.Code)
	switch {
	case errors.Is(err, otp.ErrExpired):
		return nil, goerror.NewBusiness("Signup request expired or not found", goerror.CodeNotFound)
	case errors.Is(err, otp.ErrMismatch):
		return nil, goerror.NewBusiness("Invalid OTP", goerror.CodeInvalidInput)
	case errors.Is(err, otp.ErrTooManyAttempts):
		return nil, goerror.NewBusiness("Too many wrong attempts, request a new code", goerror.CodeTooManyRequest)
	case err != nil:
		slog.ErrorContext(ctx, "failed to validate signup otp", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	var pending entity.PendingSignup
	if err := json.Unmarshal([]byte(payload), &pending); err != nil {
		slog.ErrorContext(ctx, "failed to decode pending signup", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	account := entity.NewAccount{
		ID:        s.uid.Generate(),
		Email:     pending.Email,
		FullName:  pending.FullName,
		AvatarURL: "https://ui-avatars.com/api/?name=" + url.QueryEscape(pending.FullName),
		Role:      entity.RoleTraveler,
		Status:    entity.AccountStatusActive,
	}

	if err := s.repoDB.CreateAccount(ctx, account); err != nil {
		// unique-constraint backstop for a concurrent signup on the same email
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create account", "email", account.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	subject := "user:" + strconv.FormatInt(account.ID, 10)
	if _, err := s.enforcer.AddGroupingPolicy(subject, "role:"+account.Role.String()); err != nil {
		slog.ErrorContext(ctx, "failed to grant role", "account_id", account.ID, "role", account.Role, "error", err)
	}

	pair, err := s.issueSession(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return &SignupVerifyOutput{
		Account: entity.Account{
			ID:        account.ID,
			Email:     account.Email,
			FullName:  account.FullName,
			AvatarURL: account.AvatarURL,
			Role:      account.Role,
			Status:    account.Status,
			CreatedAt: s.clock.Now(),
			UpdatedAt: s.clock.Now(),
		},
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}
