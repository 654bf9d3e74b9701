package entity

// Status tracks a booking through its payment lifecycle.
type Status string

const (
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusConfirmed       Status = "confirmed"
	StatusCancelled       Status = "cancelled"
	StatusExpired         Status = "expired"
)

func (s Status) String() string { return string(s) }

// CanTransition reports whether moving to the target status is allowed.
// Confirmed bookings can still be cancelled; terminal states never move.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusAwaitingPayment:
		return to == StatusConfirmed || to == StatusCancelled || to == StatusExpired
	case StatusConfirmed:
		return to == StatusCancelled
	default:
		return false
	}
}
