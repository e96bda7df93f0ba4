package domain

import (
	"time"

	"github.com/Domenick1991/hotelbooking/internal/dates"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	BookingID   string        `json:"booking_id"`
	GuestName   string        `json:"guest_name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	RoomType    string        `json:"room_type"`
	CheckIn     dates.Date    `json:"check_in"`
	CheckOut    dates.Date    `json:"check_out"`
	Guests      int           `json:"guests"`
	Nights      int           `json:"nights"`
	TotalPrice  int64         `json:"total_price"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`
}

// IsConfirmed reports whether the booking still holds a unit.
func (b Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// Clone returns a copy that shares no pointers with b.
func (b Booking) Clone() Booking {
	if b.CancelledAt != nil {
		at := *b.CancelledAt
		b.CancelledAt = &at
	}
	return b
}
