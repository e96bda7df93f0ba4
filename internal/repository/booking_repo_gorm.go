package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/dates"
	"github.com/Domenick1991/hotelbooking/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type bookingRecord struct {
	Position    int64  `gorm:"primaryKey;autoIncrement:false"`
	BookingID   string `gorm:"uniqueIndex;not null"`
	GuestName   string `gorm:"not null"`
	Email       string `gorm:"not null"`
	Phone       string `gorm:"not null"`
	RoomType    string `gorm:"not null"`
	CheckIn     string `gorm:"type:varchar(10);not null"`
	CheckOut    string `gorm:"type:varchar(10);not null"`
	Guests      int
	Nights      int
	TotalPrice  int64
	Status      string `gorm:"not null"`
	CreatedAt   time.Time
	CancelledAt *time.Time
}

func (bookingRecord) TableName() string {
	return "bookings"
}

// OpenSQLite opens the sqlite database at path and migrates the bookings table.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(&bookingRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate bookings: %w", err)
	}
	return db, nil
}

type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Load(ctx context.Context) ([]domain.Booking, error) {
	var records []bookingRecord
	if err := r.db.WithContext(ctx).Order("position").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}

	bookings := make([]domain.Booking, 0, len(records))
	for _, rec := range records {
		b, err := rec.toDomain()
		if err != nil {
			return []domain.Booking{}, fmt.Errorf("%w: %v", domain.ErrCorruptStore, err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (r *GormBookingRepository) Save(ctx context.Context, bookings []domain.Booking) error {
	records := make([]bookingRecord, 0, len(bookings))
	for i, b := range bookings {
		records = append(records, newBookingRecord(int64(i+1), b))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&bookingRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear bookings: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(records, 100).Error; err != nil {
			return fmt.Errorf("failed to insert bookings: %w", err)
		}
		return nil
	})
}

func newBookingRecord(position int64, b domain.Booking) bookingRecord {
	return bookingRecord{
		Position:    position,
		BookingID:   b.BookingID,
		GuestName:   b.GuestName,
		Email:       b.Email,
		Phone:       b.Phone,
		RoomType:    b.RoomType,
		CheckIn:     b.CheckIn.String(),
		CheckOut:    b.CheckOut.String(),
		Guests:      b.Guests,
		Nights:      b.Nights,
		TotalPrice:  b.TotalPrice,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		CancelledAt: b.CancelledAt,
	}
}

func (rec bookingRecord) toDomain() (domain.Booking, error) {
	checkIn, ok := dates.Parse(rec.CheckIn)
	if !ok {
		return domain.Booking{}, fmt.Errorf("booking %s: bad check_in %q", rec.BookingID, rec.CheckIn)
	}
	checkOut, ok := dates.Parse(rec.CheckOut)
	if !ok {
		return domain.Booking{}, fmt.Errorf("booking %s: bad check_out %q", rec.BookingID, rec.CheckOut)
	}
	return domain.Booking{
		BookingID:   rec.BookingID,
		GuestName:   rec.GuestName,
		Email:       rec.Email,
		Phone:       rec.Phone,
		RoomType:    rec.RoomType,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Guests:      rec.Guests,
		Nights:      rec.Nights,
		TotalPrice:  rec.TotalPrice,
		Status:      domain.BookingStatus(rec.Status),
		CreatedAt:   rec.CreatedAt,
		CancelledAt: rec.CancelledAt,
	}, nil
}

var _ BookingRepository = (*GormBookingRepository)(nil)
