package availability

import (
	"time"

	"github.com/Domenick1991/hotelbooking/internal/dates"
	"github.com/Domenick1991/hotelbooking/internal/domain"
)

// Engine derives remaining capacity per room type from a set of bookings.
type Engine struct {
	catalog domain.Catalog
}

func NewEngine(catalog domain.Catalog) *Engine {
	return &Engine{catalog: catalog}
}

func (e *Engine) Catalog() domain.Catalog {
	return e.catalog
}

// BookedCount counts confirmed bookings of roomType whose stay overlaps
// [checkIn, checkOut). It returns false if either query date is invalid.
func (e *Engine) BookedCount(bookings []domain.Booking, roomType, checkIn, checkOut string) (int, bool) {
	in, ok := dates.Parse(checkIn)
	if !ok {
		return 0, false
	}
	out, ok := dates.Parse(checkOut)
	if !ok {
		return 0, false
	}
	return e.bookedCount(bookings, roomType, in, out), true
}

func (e *Engine) bookedCount(bookings []domain.Booking, roomType string, in, out dates.Date) int {
	count := 0
	for _, b := range bookings {
		if b.RoomType != roomType || !b.IsConfirmed() {
			continue
		}
		if dates.Overlaps(in, out, b.CheckIn, b.CheckOut) {
			count++
		}
	}
	return count
}

// AvailableUnits returns the unbooked units of roomType for the range,
// clamped at zero. It returns false for an unknown room type or invalid dates.
func (e *Engine) AvailableUnits(bookings []domain.Booking, roomType, checkIn, checkOut string) (int, bool) {
	rt, ok := e.catalog.Lookup(roomType)
	if !ok {
		return 0, false
	}
	booked, ok := e.BookedCount(bookings, roomType, checkIn, checkOut)
	if !ok {
		return 0, false
	}
	return max(0, rt.TotalUnits-booked), true
}

// Snapshot reports availability of every catalog room type for the range, in
// catalog order.
func (e *Engine) Snapshot(bookings []domain.Booking, checkIn, checkOut string) ([]domain.RoomAvailability, bool) {
	result := make([]domain.RoomAvailability, 0, len(e.catalog))
	for _, rt := range e.catalog {
		available, ok := e.AvailableUnits(bookings, rt.Name, checkIn, checkOut)
		if !ok {
			return nil, false
		}
		result = append(result, domain.RoomAvailability{
			RoomType:   rt.Name,
			Available:  available,
			TotalUnits: rt.TotalUnits,
		})
	}
	return result, true
}

// Tonight reports availability for the single night starting on now's date.
func (e *Engine) Tonight(bookings []domain.Booking, now time.Time) []domain.RoomAvailability {
	today := dates.FromTime(now)
	snapshot, _ := e.Snapshot(bookings, today.String(), today.AddDays(1).String())
	return snapshot
}
