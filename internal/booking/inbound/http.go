package inbound

import (
	"context"

	"github.com/desatrip/desatrip/internal/booking/usecase"
	"github.com/desatrip/desatrip/internal/pkg/router"
)

type uc interface {
	BookingCreate(ctx context.Context, in usecase.BookingCreateInput) (*usecase.BookingCreateOutput, error)
	BookingList(ctx context.Context) (*usecase.BookingListOutput, error)
	BookingGet(ctx context.Context, in usecase.BookingGetInput) (*usecase.BookingGetOutput, error)
	BookingCancel(ctx context.Context, in usecase.BookingCancelInput) error

	PaymentVerify(ctx context.Context, in usecase.PaymentVerifyInput) (*usecase.PaymentVerifyOutput, error)
	PaymentWebhook(ctx context.Context, in usecase.PaymentWebhookInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Bookings (need authenticated)
	r.POST("/api/v1/bookings", end.BookingCreate)
	r.GET("/api/v1/bookings", end.BookingList)
	r.GET("/api/v1/bookings/:id", end.BookingGet)
	r.POST("/api/v1/bookings/:id/cancel", end.BookingCancel)

	// Payments
	r.POST("/api/v1/payments/verify", end.PaymentVerify) // need authenticated
	r.POST("/api/v1/payments/webhook", end.PaymentWebhook)
}
