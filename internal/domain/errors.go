package domain

import "errors"

var (
	// Booking request rejections, checked in this order.
	ErrInvalidRoomType     = errors.New("invalid room type")
	ErrInvalidDateFormat   = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidStayLength   = errors.New("check-out must be after check-in")
	ErrAvailabilityUnknown = errors.New("error calculating availability")
	ErrNoRoomsAvailable    = errors.New("no rooms available for those dates")

	ErrBookingNotFound = errors.New("booking not found")

	ErrCorruptStore = errors.New("booking store is corrupt")
)
