package repository

import (
	"context"

	"github.com/Domenick1991/hotelbooking/internal/domain"
)

// BookingRepository stores the whole ledger as one snapshot. Save always
// replaces the previous contents; Load returns records in ledger order.
type BookingRepository interface {
	Load(ctx context.Context) ([]domain.Booking, error)
	Save(ctx context.Context, bookings []domain.Booking) error
}
