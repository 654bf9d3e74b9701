package usecase

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	libJWT "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/desatrip/desatrip/internal/booking/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
	"github.com/desatrip/desatrip/internal/pkg/goroutine"
	"github.com/desatrip/desatrip/internal/pkg/hash"
	"github.com/desatrip/desatrip/internal/pkg/idempotency"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/jwt"
	"github.com/desatrip/desatrip/internal/pkg/kv"
	"github.com/desatrip/desatrip/internal/pkg/validator"
)

const testWebhookSecret = "webhook-secret"

type fakeRepoDB struct {
	mu       sync.Mutex
	rooms    map[int64]*entity.RoomSnapshot
	bookings map[int64]*entity.Booking
	contacts map[int64]*entity.Contact
	overlap  bool
}

func newFakeRepoDB() *fakeRepoDB {
	return &fakeRepoDB{
		rooms:    map[int64]*entity.RoomSnapshot{},
		bookings: map[int64]*entity.Booking{},
		contacts: map[int64]*entity.Contact{},
	}
}

func (f *fakeRepoDB) GetRoomSnapshot(_ context.Context, roomID int64) (*entity.RoomSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[roomID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *room
	return &cp, nil
}

func (f *fakeRepoDB) HasOverlap(_ context.Context, _ int64, _, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.overlap, nil
}

func (f *fakeRepoDB) CreateBooking(_ context.Context, in entity.NewBooking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.bookings[in.ID]; ok {
		return goerror.ErrConflict
	}
	f.bookings[in.ID] = &entity.Booking{
		ID:          in.ID,
		AccountID:   in.AccountID,
		RoomID:      in.RoomID,
		VillageID:   in.VillageID,
		CheckIn:     in.CheckIn,
		CheckOut:    in.CheckOut,
		Guests:      in.Guests,
		AmountPaise: in.AmountPaise,
		Status:      entity.StatusAwaitingPayment,
		OrderID:     in.OrderID,
	}
	f.contacts[in.ID] = &entity.Contact{
		Email:       "traveler@example.com",
		FullName:    "Asha Patel",
		VillageName: "Mawlynnong",
	}
	return nil
}

func (f *fakeRepoDB) GetBookingByID(_ context.Context, id int64) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepoDB) GetBookingByOrderID(_ context.Context, orderID string) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bookings {
		if b.OrderID == orderID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepoDB) ListBookingsByAccount(_ context.Context, accountID int64) ([]entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []entity.Booking
	for _, b := range f.bookings {
		if b.AccountID == accountID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepoDB) UpdateBookingStatus(_ context.Context, id int64, from, to entity.Status, paymentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return goerror.ErrNotFound
	}
	b.Status = to
	if paymentID != "" {
		b.PaymentID = paymentID
	}
	return nil
}

func (f *fakeRepoDB) GetContact(_ context.Context, bookingID int64) (*entity.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.contacts[bookingID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepoDB) status(t *testing.T, id int64) entity.Status {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	require.True(t, ok)
	return b.Status
}

type fakeGateway struct {
	mu     sync.Mutex
	orders int
	fail   error
}

func (f *fakeGateway) CreateOrder(_ context.Context, _ int64, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail != nil {
		return "", f.fail
	}
	f.orders++
	return "order_" + strconv.Itoa(f.orders), nil
}

type fakeMessaging struct {
	mu     sync.Mutex
	events []BookingStatusEvent
}

func (f *fakeMessaging) PublishBookingStatus(_ context.Context, msg BookingStatusEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, msg)
	return nil
}

func (f *fakeMessaging) published() []BookingStatusEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]BookingStatusEvent(nil), f.events...)
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type seqNumberID struct{ n int64 }

func (g *seqNumberID) Generate() int64 {
	g.n++
	return g.n
}

const testRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

type testEnv struct {
	uc        *Usecase
	repo      *fakeRepoDB
	gateway   *fakeGateway
	messaging *fakeMessaging
	clock     *fakeClock
	signer    hash.Hash
	enforcer  *casbin.Enforcer
	goroutine *goroutine.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	m, err := model.NewModelFromString(testRBACModel)
	require.NoError(t, err)

	enforcer, err := casbin.NewEnforcer(m)
	require.NoError(t, err)

	_, err = enforcer.AddPolicy("role:traveler", "bookings", "read")
	require.NoError(t, err)
	_, err = enforcer.AddPolicy("role:traveler", "bookings", "write")
	require.NoError(t, err)
	_, err = enforcer.AddGroupingPolicy("user:7", "role:traveler")
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	env := &testEnv{
		repo:      newFakeRepoDB(),
		gateway:   &fakeGateway{},
		messaging: &fakeMessaging{},
		clock:     &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)},
		signer:    hash.NewHMACSHA256(testWebhookSecret),
		enforcer:  enforcer,
		goroutine: goroutine.NewManager(8),
	}

	env.repo.rooms[100] = &entity.RoomSnapshot{
		RoomID:          100,
		VillageID:       10,
		VillageName:     "Mawlynnong",
		Capacity:        3,
		PriceNightPaise: 250000,
		Active:          true,
	}

	env.uc = New(Dependency{
		RepoDB:        env.repo,
		RepoGateway:   env.gateway,
		RepoMessaging: env.messaging,
		Signer:        env.signer,
		Idempotency:   idempotency.New(kv.NewMemory(env.clock.Now)),
		Validator:     v,
		UID:           &seqNumberID{},
		Clock:         env.clock,
		Instrument:    instrument.NewNoop(),
		Enforcer:      enforcer,
		Goroutine:     env.goroutine,
	})

	return env
}

func authCtx(accountID int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			Subject: strconv.FormatInt(accountID, 10),
		},
		Use: jwt.UseAccess,
	})
}

func (e *testEnv) createBooking(t *testing.T) *BookingCreateOutput {
	t.Helper()

	out, err := e.uc.BookingCreate(authCtx(7), BookingCreateInput{
		RoomID:   100,
		CheckIn:  "2026-08-10",
		CheckOut: "2026-08-13",
		Guests:   2,
	})
	require.NoError(t, err)

	return out
}

func (e *testEnv) sign(t *testing.T, payload string) string {
	t.Helper()

	sig, err := e.signer.Hash(payload)
	require.NoError(t, err)

	return string(sig)
}

func errCode(t *testing.T, err error) goerror.Code {
	t.Helper()

	var ge *goerror.Error
	require.ErrorAs(t, err, &ge)

	return ge.Code()
}
