package inbound

import (
	"github.com/desatrip/desatrip/internal/identity/usecase"
	"github.com/desatrip/desatrip/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the passwordless auth workflows.
type HTTPEndpoint struct {
	uc uc
}

// Signup starts registration: it parks the profile data and sends an OTP to
// the submitted email.
func (h *HTTPEndpoint) Signup(r *router.Request) (any, error) {
	var req SignupRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Signup(r.Context(), usecase.SignupInput{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		return nil, err
	}

	return SignupResponse{DebugCode: resp.DebugCode}, nil
}

// SignupVerify completes registration and returns the first token pair.
func (h *HTTPEndpoint) SignupVerify(r *router.Request) (any, error) {
	var req SignupVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SignupVerify(r.Context(), usecase.SignupVerifyInput{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return SignupVerifyResponse{
		Account:      toAccountResponse(resp.Account),
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// Login sends a login OTP to an existing account's email.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{Email: req.Email})
	if err != nil {
		return nil, err
	}

	return LoginResponse{DebugCode: resp.DebugCode}, nil
}

// LoginVerify exchanges a valid OTP for a token pair.
func (h *HTTPEndpoint) LoginVerify(r *router.Request) (any, error) {
	var req LoginVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.LoginVerify(r.Context(), usecase.LoginVerifyInput{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return LoginVerifyResponse{
		Account:      toAccountResponse(resp.Account),
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// RefreshToken rotates the session's token pair.
func (h *HTTPEndpoint) RefreshToken(r *router.Request) (any, error) {
	var req RefreshTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RefreshToken(r.Context(), usecase.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return nil, err
	}

	return RefreshTokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// Logout revokes the current session.
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	if err := h.uc.Logout(r.Context()); err != nil {
		return nil, err
	}

	return nil, nil
}

// Profile returns the authenticated account.
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return toAccountResponse(resp.Account), nil
}

// ProfileUpdate changes the authenticated account's display name.
func (h *HTTPEndpoint) ProfileUpdate(r *router.Request) (any, error) {
	var req ProfileUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ProfileUpdate(r.Context(), usecase.ProfileUpdateInput{FullName: req.FullName}); err != nil {
		return nil, err
	}

	return nil, nil
}
