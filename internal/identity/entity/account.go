package entity

import "time"

type Account struct {
	ID        int64
	Email     string
	FullName  string
	AvatarURL string
	Role      Role
	Status    AccountStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewAccount struct {
	ID        int64
	Email     string
	FullName  string
	AvatarURL string
	Role      Role
	Status    AccountStatus
}

// PendingSignup is the payload parked alongside the signup OTP until the
// code is verified.
type PendingSignup struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}
