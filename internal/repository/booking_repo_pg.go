package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/dates"
	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `CREATE TABLE IF NOT EXISTS bookings (
	position     BIGINT PRIMARY KEY,
	booking_id   TEXT NOT NULL UNIQUE,
	guest_name   TEXT NOT NULL,
	email        TEXT NOT NULL,
	phone        TEXT NOT NULL,
	room_type    TEXT NOT NULL,
	check_in     DATE NOT NULL,
	check_out    DATE NOT NULL,
	guests       INTEGER NOT NULL,
	nights       INTEGER NOT NULL,
	total_price  BIGINT NOT NULL,
	status       TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	cancelled_at TIMESTAMPTZ
)`

var pgColumns = []string{
	"position", "booking_id", "guest_name", "email", "phone", "room_type",
	"check_in", "check_out", "guests", "nights", "total_price", "status",
	"created_at", "cancelled_at",
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewPGBookingRepository(db *pgxpool.Pool) *PGBookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, pgSchema); err != nil {
		return fmt.Errorf("failed to create bookings table: %w", err)
	}
	return nil
}

func (r *PGBookingRepository) Load(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT booking_id, guest_name, email, phone, room_type, check_in, check_out, guests, nights, total_price, status, created_at, cancelled_at FROM bookings ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var (
			b        domain.Booking
			checkIn  time.Time
			checkOut time.Time
		)
		if err := rows.Scan(&b.BookingID, &b.GuestName, &b.Email, &b.Phone, &b.RoomType, &checkIn, &checkOut, &b.Guests, &b.Nights, &b.TotalPrice, &b.Status, &b.CreatedAt, &b.CancelledAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		b.CheckIn = dates.FromTime(checkIn)
		b.CheckOut = dates.FromTime(checkOut)
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// Save replaces the table contents with the snapshot in one transaction.
func (r *PGBookingRepository) Save(ctx context.Context, bookings []domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM bookings`); err != nil {
		return fmt.Errorf("failed to clear bookings: %w", err)
	}

	rows := make([][]any, 0, len(bookings))
	for i, b := range bookings {
		rows = append(rows, []any{
			int64(i + 1), b.BookingID, b.GuestName, b.Email, b.Phone, b.RoomType,
			b.CheckIn.Time(), b.CheckOut.Time(), b.Guests, b.Nights, b.TotalPrice, string(b.Status),
			b.CreatedAt, b.CancelledAt,
		})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"bookings"}, pgColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("failed to copy bookings: %w", err)
	}

	return tx.Commit(ctx)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
