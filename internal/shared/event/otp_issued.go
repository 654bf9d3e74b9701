// Package event defines the message contracts exchanged between modules
// over the broker.
package event

const OTPIssuedDestination string = "otp_issued"
const OTPIssuedConsumerNotification string = "otp_issued_notification"

// OTP issuance purposes.
const (
	OTPPurposeSignup = "signup"
	OTPPurposeLogin  = "login"
)

type OTPIssuedMessage struct {
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Code     string `json:"code"`
	Purpose  string `json:"purpose"`
}
