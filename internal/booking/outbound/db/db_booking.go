package db

import (
	"context"
	"time"

	"github.com/desatrip/desatrip/internal/booking/entity"
	"github.com/desatrip/desatrip/internal/pkg/goerror"
)

const bookingColumns = `id, account_id, room_id, village_id, check_in, check_out, guests, amount_paise, status, order_id, coalesce(payment_id, '')`

func (s *DB) GetRoomSnapshot(ctx context.Context, roomID int64) (_ *entity.RoomSnapshot, err error) {
	ctx, span := s.startSpan(ctx, "GetRoomSnapshot")
	defer func() { s.endSpan(span, err) }()

	var snap entity.RoomSnapshot
	err = s.conn.QueryRow(ctx,
		`select r.id, r.village_id, v.name, r.capacity, r.price_night_paise, r.active
		 from rooms r join villages v on v.id = r.village_id
		 where r.id = $1`, roomID).
		Scan(&snap.RoomID, &snap.VillageID, &snap.VillageName, &snap.Capacity, &snap.PriceNightPaise, &snap.Active)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &snap, nil
}

// HasOverlap reports whether the room already has a live booking touching
// the date range. Cancelled and expired bookings do not block.
func (s *DB) HasOverlap(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "HasOverlap")
	defer func() { s.endSpan(span, err) }()

	var overlap bool
	err = s.conn.QueryRow(ctx,
		`select exists(
			select 1 from bookings
			where room_id = $1
			and status in ('awaiting_payment', 'confirmed')
			and check_in < $3 and check_out > $2
		)`, roomID, checkIn, checkOut).Scan(&overlap)
	if err != nil {
		return false, s.mapError(err)
	}

	return overlap, nil
}

func (s *DB) CreateBooking(ctx context.Context, in entity.NewBooking) (err error) {
	ctx, span := s.startSpan(ctx, "CreateBooking")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`insert into bookings (id, account_id, room_id, village_id, check_in, check_out, guests, amount_paise, status, order_id)
		 values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		in.ID, in.AccountID, in.RoomID, in.VillageID, in.CheckIn, in.CheckOut,
		in.Guests, in.AmountPaise, entity.StatusAwaitingPayment.String(), in.OrderID)

	return s.mapError(err)
}

func (s *DB) GetBookingByID(ctx context.Context, id int64) (*entity.Booking, error) {
	return s.getBooking(ctx, "GetBookingByID", `where id = $1`, id)
}

func (s *DB) GetBookingByOrderID(ctx context.Context, orderID string) (*entity.Booking, error) {
	return s.getBooking(ctx, "GetBookingByOrderID", `where order_id = $1`, orderID)
}

func (s *DB) getBooking(ctx context.Context, spanName, where string, arg any) (_ *entity.Booking, err error) {
	ctx, span := s.startSpan(ctx, spanName)
	defer func() { s.endSpan(span, err) }()

	var b entity.Booking
	err = s.conn.QueryRow(ctx,
		`select `+bookingColumns+`, created_at, updated_at from bookings `+where, arg).
		Scan(&b.ID, &b.AccountID, &b.RoomID, &b.VillageID, &b.CheckIn, &b.CheckOut,
			&b.Guests, &b.AmountPaise, &b.Status, &b.OrderID, &b.PaymentID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &b, nil
}

func (s *DB) ListBookingsByAccount(ctx context.Context, accountID int64) (_ []entity.Booking, err error) {
	ctx, span := s.startSpan(ctx, "ListBookingsByAccount")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx,
		`select `+bookingColumns+`, created_at, updated_at from bookings
		 where account_id = $1 order by created_at desc`, accountID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var bookings []entity.Booking
	for rows.Next() {
		var b entity.Booking
		if err = rows.Scan(&b.ID, &b.AccountID, &b.RoomID, &b.VillageID, &b.CheckIn, &b.CheckOut,
			&b.Guests, &b.AmountPaise, &b.Status, &b.OrderID, &b.PaymentID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, s.mapError(err)
		}
		bookings = append(bookings, b)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return bookings, nil
}

// UpdateBookingStatus moves a booking from one status to another. The
// current status is part of the predicate, so a stale transition affects
// zero rows and surfaces as not found.
func (s *DB) UpdateBookingStatus(ctx context.Context, id int64, from, to entity.Status, paymentID string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateBookingStatus")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`update bookings set
			status = $3, payment_id = coalesce(nullif($4, ''), payment_id), updated_at = now()
		 where id = $1 and status = $2`,
		id, from.String(), to.String(), paymentID)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) GetContact(ctx context.Context, bookingID int64) (_ *entity.Contact, err error) {
	ctx, span := s.startSpan(ctx, "GetContact")
	defer func() { s.endSpan(span, err) }()

	var c entity.Contact
	err = s.conn.QueryRow(ctx,
		`select a.email, a.full_name, v.name
		 from bookings b
		 join accounts a on a.id = b.account_id
		 join villages v on v.id = b.village_id
		 where b.id = $1`, bookingID).
		Scan(&c.Email, &c.FullName, &c.VillageName)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &c, nil
}
