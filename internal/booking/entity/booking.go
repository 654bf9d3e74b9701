package entity

import "time"

type Booking struct {
	ID          int64
	AccountID   int64
	RoomID      int64
	VillageID   int64
	CheckIn     time.Time
	CheckOut    time.Time
	Guests      int16
	AmountPaise int64
	Status      Status
	OrderID     string
	PaymentID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Nights returns the number of nights covered by the stay.
func (b Booking) Nights() int64 {
	return int64(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

type NewBooking struct {
	ID          int64
	AccountID   int64
	RoomID      int64
	VillageID   int64
	CheckIn     time.Time
	CheckOut    time.Time
	Guests      int16
	AmountPaise int64
	OrderID     string
}

// RoomSnapshot carries the room attributes needed to price and validate a
// booking request.
type RoomSnapshot struct {
	RoomID          int64
	VillageID       int64
	VillageName     string
	Capacity        int16
	PriceNightPaise int64
	Active          bool
}

// Contact carries the traveler and village details used when notifying
// about a booking status change.
type Contact struct {
	Email       string
	FullName    string
	VillageName string
}
