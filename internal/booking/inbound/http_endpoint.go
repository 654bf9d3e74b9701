package inbound

import (
	"encoding/json"
	"io"

	"github.com/samber/lo"

	"github.com/desatrip/desatrip/internal/booking/entity"
	"github.com/desatrip/desatrip/internal/booking/usecase"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/pkg/router"
)

// webhookSignatureHeader carries the gateway's HMAC over the raw body.
const webhookSignatureHeader = "X-Webhook-Signature"

// HTTPEndpoint exposes HTTP handlers for bookings and payments.
type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) BookingCreate(r *router.Request) (any, error) {
	var req BookingCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.BookingCreate(r.Context(), usecase.BookingCreateInput{
		RoomID:   req.RoomID,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Guests:   req.Guests,
	})
	if err != nil {
		return nil, err
	}

	return BookingCreateResponse{
		ID:          resp.ID,
		OrderID:     resp.OrderID,
		AmountPaise: resp.AmountPaise,
		Status:      resp.Status,
	}, nil
}

func (h *HTTPEndpoint) BookingList(r *router.Request) (any, error) {
	resp, err := h.uc.BookingList(r.Context())
	if err != nil {
		return nil, err
	}

	return BookingListResponse{
		Bookings: lo.Map(resp.Bookings, func(b entity.Booking, _ int) BookingResponse {
			return toBookingResponse(b)
		}),
	}, nil
}

func (h *HTTPEndpoint) BookingGet(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.BookingGet(r.Context(), usecase.BookingGetInput{ID: id})
	if err != nil {
		return nil, err
	}

	return toBookingResponse(resp.Booking), nil
}

func (h *HTTPEndpoint) BookingCancel(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.BookingCancel(r.Context(), usecase.BookingCancelInput{ID: id})
}

// PaymentVerify handles the checkout callback after the traveler pays.
func (h *HTTPEndpoint) PaymentVerify(r *router.Request) (any, error) {
	var req PaymentVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.PaymentVerify(r.Context(), usecase.PaymentVerifyInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		return nil, err
	}

	return PaymentVerifyResponse{BookingID: resp.BookingID, Status: resp.Status}, nil
}

// PaymentWebhook receives server-to-server payment events. The signature is
// computed over the raw body, so the body is read before decoding.
func (h *HTTPEndpoint) PaymentWebhook(r *router.Request) (any, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	var req paymentWebhookRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	err = h.uc.PaymentWebhook(r.Context(), usecase.PaymentWebhookInput{
		EventID:   req.ID,
		Event:     req.Event,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: r.Header.Get(webhookSignatureHeader),
		RawBody:   raw,
	})

	return nil, err
}
