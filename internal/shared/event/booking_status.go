package event

const BookingStatusDestination string = "booking_status_changed"
const BookingStatusConsumerNotification string = "booking_status_notification"

// BookingDateFormat is the layout for the stay dates carried on the wire.
const BookingDateFormat = "2006-01-02"

// Booking status values carried on the wire.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

type BookingStatusMessage struct {
	BookingID   int64  `json:"booking_id"`
	AccountID   int64  `json:"account_id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	VillageName string `json:"village_name"`
	Status      string `json:"status"`
	AmountPaise int64  `json:"amount_paise"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
}
