package inbound

import (
	"net/http"
	"time"

	"github.com/desatrip/desatrip/internal/identity/entity"
)

type SignupRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type SignupResponse struct {
	DebugCode string `json:"debug_code,omitempty"`
}

func (SignupResponse) Message() string { return "OTP sent to your email" }

type SignupVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type AccountResponse struct {
	ID        int64     `json:"id,string"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAccountResponse(a entity.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Email:     a.Email,
		FullName:  a.FullName,
		AvatarURL: a.AvatarURL,
		Role:      a.Role.String(),
		Status:    a.Status.String(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type SignupVerifyResponse struct {
	Account      AccountResponse `json:"account"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
}

func (SignupVerifyResponse) StatusCode() int { return http.StatusCreated }
func (SignupVerifyResponse) Message() string { return "Account created" }

type LoginRequest struct {
	Email string `json:"email"`
}

type LoginResponse struct {
	DebugCode string `json:"debug_code,omitempty"`
}

func (LoginResponse) Message() string { return "OTP sent to your email" }

type LoginVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type LoginVerifyResponse struct {
	Account      AccountResponse `json:"account"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ProfileUpdateRequest struct {
	FullName string `json:"full_name"`
}
