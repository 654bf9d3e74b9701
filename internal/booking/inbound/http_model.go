package inbound

import (
	"net/http"
	"time"

	"github.com/desatrip/desatrip/internal/booking/entity"
	"github.com/desatrip/desatrip/internal/shared/event"
)

type BookingCreateRequest struct {
	RoomID   int64  `json:"room_id,string"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int16  `json:"guests"`
}

type BookingCreateResponse struct {
	ID          int64  `json:"id,string"`
	OrderID     string `json:"order_id"`
	AmountPaise int64  `json:"amount_paise"`
	Status      string `json:"status"`
}

func (BookingCreateResponse) StatusCode() int { return http.StatusCreated }
func (BookingCreateResponse) Message() string { return "Booking created, awaiting payment" }

type BookingResponse struct {
	ID          int64     `json:"id,string"`
	RoomID      int64     `json:"room_id,string"`
	VillageID   int64     `json:"village_id,string"`
	CheckIn     string    `json:"check_in"`
	CheckOut    string    `json:"check_out"`
	Guests      int16     `json:"guests"`
	AmountPaise int64     `json:"amount_paise"`
	Status      string    `json:"status"`
	OrderID     string    `json:"order_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toBookingResponse(b entity.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		RoomID:      b.RoomID,
		VillageID:   b.VillageID,
		CheckIn:     b.CheckIn.Format(event.BookingDateFormat),
		CheckOut:    b.CheckOut.Format(event.BookingDateFormat),
		Guests:      b.Guests,
		AmountPaise: b.AmountPaise,
		Status:      b.Status.String(),
		OrderID:     b.OrderID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

type PaymentVerifyRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

type PaymentVerifyResponse struct {
	BookingID int64  `json:"booking_id,string"`
	Status    string `json:"status"`
}

func (PaymentVerifyResponse) Message() string { return "Payment verified" }

type paymentWebhookRequest struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
}
