package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
)

const menu = `
=== Hotel Booking Management System ===
1. Create Booking
2. View All Bookings
3. Search Booking
4. Cancel Booking
5. View Available Rooms (for a date range)
6. Exit`

// Shell is the numbered text menu over a booking ledger.
type Shell struct {
	ledger booking.BookingUseCase
	in     *bufio.Scanner
	out    io.Writer
}

func New(ledger booking.BookingUseCase, in io.Reader, out io.Writer) *Shell {
	return &Shell{ledger: ledger, in: bufio.NewScanner(in), out: out}
}

// Run shows the menu until the user exits, input ends or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(s.out, menu)
		choice, ok := s.prompt("\nEnter choice: ")
		if !ok {
			return s.in.Err()
		}

		var err error
		switch choice {
		case "1":
			err = s.create(ctx)
		case "2":
			err = s.list(ctx)
		case "3":
			err = s.search(ctx)
		case "4":
			err = s.cancel(ctx)
		case "5":
			err = s.availability(ctx)
		case "6":
			fmt.Fprintln(s.out, "\nThank you for using Hotel Booking System!")
			return nil
		default:
			fmt.Fprintln(s.out, "\nInvalid choice.")
		}
		if err != nil {
			return err
		}
	}
}

// prompt prints label and reads one trimmed line. ok is false at end of input.
func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Shell) create(ctx context.Context) error {
	fmt.Fprintln(s.out, "\n--- New Booking ---")
	input := booking.CreateBookingInput{}
	input.GuestName, _ = s.prompt("Guest Name: ")
	input.Email, _ = s.prompt("Email: ")
	input.Phone, _ = s.prompt("Phone: ")

	fmt.Fprintln(s.out, "\nRoom Types:")
	for _, rt := range s.ledger.Catalog() {
		fmt.Fprintf(s.out, "  %s: %d/night (total %d)\n", title(rt.Name), rt.PricePerNight, rt.TotalUnits)
	}

	roomType, _ := s.prompt("Room Type: ")
	input.RoomType = strings.ToLower(roomType)
	input.CheckIn, _ = s.prompt("Check-in (YYYY-MM-DD): ")
	input.CheckOut, _ = s.prompt("Check-out (YYYY-MM-DD): ")
	guests, _ := s.prompt("Number of Guests: ")
	input.Guests = parseGuests(guests)

	created, err := s.ledger.CreateBooking(ctx, input)
	if err != nil {
		fmt.Fprintf(s.out, "\n✗ %s\n", err)
		return nil
	}

	fmt.Fprintln(s.out, "\n✓ Booking created successfully")
	fmt.Fprintf(s.out, "Booking ID: %s\n", created.BookingID)
	fmt.Fprintf(s.out, "Total: %d for %d nights\n", created.TotalPrice, created.Nights)
	return nil
}

func (s *Shell) list(ctx context.Context) error {
	bookings, err := s.ledger.ListBookings(ctx)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		fmt.Fprintln(s.out, "\nNo bookings found.")
		return nil
	}

	fmt.Fprintln(s.out, "\n--- All Bookings ---")
	for _, b := range bookings {
		s.printBooking(b)
		fmt.Fprintf(s.out, "Total: %d (%d nights)\n", b.TotalPrice, b.Nights)
	}
	return nil
}

func (s *Shell) search(ctx context.Context) error {
	query, _ := s.prompt("Search (Booking ID/Name/Email): ")
	matches, err := s.ledger.SearchBookings(ctx, query)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(s.out, "\nNo matches found.")
		return nil
	}

	fmt.Fprintln(s.out, "\n--- Search Results ---")
	for _, b := range matches {
		s.printBooking(b)
	}
	return nil
}

func (s *Shell) cancel(ctx context.Context) error {
	id, _ := s.prompt("Booking ID to cancel: ")
	_, err := s.ledger.CancelBooking(ctx, id)
	switch {
	case errors.Is(err, domain.ErrBookingNotFound):
		fmt.Fprintln(s.out, "\n✗ Booking not found")
		return nil
	case err != nil:
		fmt.Fprintf(s.out, "\n✗ %s\n", err)
		return nil
	}
	fmt.Fprintf(s.out, "\n✓ Booking %s cancelled successfully\n", id)
	return nil
}

func (s *Shell) availability(ctx context.Context) error {
	fmt.Fprintln(s.out, "\nEnter date range to check availability.")
	checkIn, _ := s.prompt("Check-in (YYYY-MM-DD): ")
	checkOut, _ := s.prompt("Check-out (YYYY-MM-DD): ")

	fmt.Fprintln(s.out, "\n--- Availability ---")
	result, err := s.ledger.Availability(ctx, checkIn, checkOut)
	if errors.Is(err, domain.ErrInvalidDateFormat) {
		fmt.Fprintln(s.out, "Invalid date(s) provided.")
		return nil
	}
	if err != nil {
		fmt.Fprintf(s.out, "✗ %s\n", err)
		return nil
	}
	for _, a := range result {
		fmt.Fprintf(s.out, "%s: %d available out of %d\n", title(a.RoomType), a.Available, a.TotalUnits)
	}
	return nil
}

func (s *Shell) printBooking(b domain.Booking) {
	fmt.Fprintf(s.out, "\nID: %s | Guest: %s | Room: %s\n", b.BookingID, b.GuestName, title(b.RoomType))
	fmt.Fprintf(s.out, "Check-in: %s | Check-out: %s | Status: %s\n", b.CheckIn, b.CheckOut, b.Status)
}

// parseGuests falls back to 1 for anything that is not a whole number.
func parseGuests(text string) int {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 1
	}
	return n
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
