package entity

import (
	"time"

	"github.com/desatrip/desatrip/internal/pkg/valueobject"
)

// Kind labels what triggered a notification.
type Kind string

const (
	KindOTP     Kind = "otp"
	KindBooking Kind = "booking"
)

func (k Kind) String() string { return string(k) }

// Notification is the delivery log entry kept for every email sent out.
type Notification struct {
	ID        int64
	Email     string
	Kind      Kind
	Subject   string
	Meta      valueobject.JSONMap
	CreatedAt time.Time
}

type NewNotification struct {
	ID      int64
	Email   string
	Kind    Kind
	Subject string
	// Meta carries event context such as the OTP purpose or booking id.
	Meta valueobject.JSONMap
}
