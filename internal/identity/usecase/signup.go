package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/desatrip/desatrip/internal/identity/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/shared/event"
)

// signupKey scopes pending signups in the OTP store by email. The pending
// profile data rides in the same entry as the code, so both expire together.
func signupKey(email string) string { return "signup:" + email }

type SignupInput struct {
	Email    string `validate:"required,email"`
	FullName string `validate:"required,min=3,max=100,alphaspace"`
}

type SignupOutput struct {
	// DebugCode carries the plaintext OTP only when
	// modules.identity.debug_otp is enabled. Production delivery is email.
	DebugCode string
}

func (s *Usecase) Signup(ctx context.Context, in SignupInput) (*SignupOutput, error) {
	ctx, span := s.startSpan(ctx, "Signup")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	// Existence check happens before any OTP side effect, so a duplicate
	// signup leaves no pending entry behind.
	_, err := s.repoDB.GetAccountByEmail(ctx, in.Email)
	if err == nil {
		return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	payload, err := json.Marshal(entity.PendingSignup{Email: in.Email, FullName: in.FullName})
	if err != nil {
		return nil, goerror.NewServer(err)
	}

	code, err := s.otp.Issue(ctx, signupKey(in.Email), string(payload))
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue signup otp", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.publishOTP(ctx, OTPIssuedEvent{
		Email:    in.Email,
		FullName: in.FullName,
		Code:     code,
		Purpose:  event.OTPPurposeSignup,
	})

	out := &SignupOutput{}
	if s.cfg.GetBool("modules.identity.debug_otp") {
		out.DebugCode = code
	}

	return out, nil
}
