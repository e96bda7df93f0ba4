package repository

import (
	"time"

	"github.com/Domenick1991/hotelbooking/internal/dates"
	"github.com/Domenick1991/hotelbooking/internal/domain"
)

func sampleBookings() []domain.Booking {
	created := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	cancelled := created.Add(48 * time.Hour)
	return []domain.Booking{
		{
			BookingID:  "BK0001",
			GuestName:  "ALICE SMITH",
			Email:      "alice@example.com",
			Phone:      "+1 555 0100",
			RoomType:   "single",
			CheckIn:    dates.MustParse("2024-01-01"),
			CheckOut:   dates.MustParse("2024-01-03"),
			Guests:     1,
			Nights:     2,
			TotalPrice: 4000,
			Status:     domain.BookingStatusConfirmed,
			CreatedAt:  created,
		},
		{
			BookingID:   "BK0002",
			GuestName:   "Bob Jones",
			Email:       "bob@example.com",
			Phone:       "555-0101",
			RoomType:    "suite",
			CheckIn:     dates.MustParse("2024-02-10"),
			CheckOut:    dates.MustParse("2024-02-11"),
			Guests:      3,
			Nights:      1,
			TotalPrice:  3000,
			Status:      domain.BookingStatusCancelled,
			CreatedAt:   created.Add(time.Hour),
			CancelledAt: &cancelled,
		},
	}
}
