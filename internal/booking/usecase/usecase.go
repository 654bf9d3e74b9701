package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/casbin/casbin/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/desatrip/desatrip/internal/booking/entity"
	"github.com/desatrip/desatrip/internal/pkg/clock"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/pkg/goroutine"
	"github.com/desatrip/desatrip/internal/pkg/hash"
	"github.com/desatrip/desatrip/internal/pkg/idempotency"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/jwt"
	"github.com/desatrip/desatrip/internal/pkg/uid"
	"github.com/desatrip/desatrip/internal/pkg/validator"
	"github.com/desatrip/desatrip/internal/shared/event"
)

// BookingStatusEvent is handed to the messaging repo when a booking moves
// to a new status.
type BookingStatusEvent struct {
	BookingID   int64
	AccountID   int64
	Email       string
	FullName    string
	VillageName string
	Status      string
	AmountPaise int64
	CheckIn     string
	CheckOut    string
}

type repoMessaging interface {
	PublishBookingStatus(ctx context.Context, msg BookingStatusEvent) error
}

type repoGateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, receipt string) (string, error)
}

type repoDB interface {
	GetRoomSnapshot(ctx context.Context, roomID int64) (*entity.RoomSnapshot, error)
	HasOverlap(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error)
	CreateBooking(ctx context.Context, in entity.NewBooking) error
	GetBookingByID(ctx context.Context, id int64) (*entity.Booking, error)
	GetBookingByOrderID(ctx context.Context, orderID string) (*entity.Booking, error)
	ListBookingsByAccount(ctx context.Context, accountID int64) ([]entity.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, from, to entity.Status, paymentID string) error
	GetContact(ctx context.Context, bookingID int64) (*entity.Contact, error)
}

type Usecase struct {
	repoDB        repoDB
	repoGateway   repoGateway
	repoMessaging repoMessaging
	signer        hash.Hash
	idem          idempotency.Idempotency
	validator     validator.Validator
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	enforcer      *casbin.Enforcer
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoGateway   repoGateway
	RepoMessaging repoMessaging
	Signer        hash.Hash
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Enforcer      *casbin.Enforcer
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoGateway:   dep.RepoGateway,
		repoMessaging: dep.RepoMessaging,
		signer:        dep.Signer,
		idem:          dep.Idempotency,
		validator:     dep.Validator,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		enforcer:      dep.Enforcer,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("booking.usecase").Start(ctx, name)
}

func (s *Usecase) authorized(ctx context.Context, act string) (int64, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return 0, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	accountID, err := strconv.ParseInt(clm.Subject, 10, 64)
	if err != nil {
		return 0, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	ok, err := s.enforcer.Enforce("user:"+clm.Subject, "bookings", act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "account_id", clm.Subject, "error", err)
		return 0, goerror.NewServer(err)
	}
	if !ok {
		return 0, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return accountID, nil
}

// publishStatus hands the status change to the broker off the request path.
// Delivery failures are logged, never surfaced to the caller.
func (s *Usecase) publishStatus(ctx context.Context, booking *entity.Booking, status entity.Status) {
	contact, err := s.repoDB.GetContact(ctx, booking.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load booking contact", "booking_id", booking.ID, "error", err)
		return
	}

	msg := BookingStatusEvent{
		BookingID:   booking.ID,
		AccountID:   booking.AccountID,
		Email:       contact.Email,
		FullName:    contact.FullName,
		VillageName: contact.VillageName,
		Status:      status.String(),
		AmountPaise: booking.AmountPaise,
		CheckIn:     booking.CheckIn.Format(event.BookingDateFormat),
		CheckOut:    booking.CheckOut.Format(event.BookingDateFormat),
	}

	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.repoMessaging.PublishBookingStatus(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "failed to publish booking status", "booking_id", msg.BookingID, "error", err)
		}
		return nil
	})
}
