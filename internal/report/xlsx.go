package report

import (
	"fmt"
	"io"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Bookings"

var header = []interface{}{
	"Booking ID", "Guest", "Email", "Phone", "Room Type", "Check-in", "Check-out",
	"Guests", "Nights", "Total Price", "Status", "Created At", "Cancelled At",
}

// WriteBookingsXLSX writes one sheet with a header row and one row per
// booking, in the order given.
func WriteBookingsXLSX(w io.Writer, bookings []domain.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, b := range bookings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := bookingRow(b)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write booking %s: %w", b.BookingID, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	_, err := f.WriteTo(w)
	return err
}

func bookingRow(b domain.Booking) []interface{} {
	cancelledAt := ""
	if b.CancelledAt != nil {
		cancelledAt = b.CancelledAt.Format(time.RFC3339)
	}
	return []interface{}{
		b.BookingID, b.GuestName, b.Email, b.Phone, b.RoomType,
		b.CheckIn.String(), b.CheckOut.String(),
		b.Guests, b.Nights, b.TotalPrice, string(b.Status),
		b.CreatedAt.Format(time.RFC3339), cancelledAt,
	}
}
