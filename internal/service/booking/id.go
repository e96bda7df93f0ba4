package booking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Domenick1991/hotelbooking/internal/domain"
)

const bookingIDPrefix = "BK"

// GenerateBookingID returns the prefix followed by one more than the highest
// numeric suffix in use, zero-padded to four digits. IDs whose suffix is not a
// number are ignored.
func GenerateBookingID(bookings []domain.Booking) string {
	highest := 0
	for _, b := range bookings {
		suffix, ok := strings.CutPrefix(b.BookingID, bookingIDPrefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return fmt.Sprintf("%s%04d", bookingIDPrefix, highest+1)
}
