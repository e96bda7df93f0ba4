package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/dates"
	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/Domenick1991/hotelbooking/internal/service/availability"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	SearchBookings(ctx context.Context, query string) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, id string) (*domain.Booking, error)
	Availability(ctx context.Context, checkIn, checkOut string) ([]domain.RoomAvailability, error)
	Catalog() domain.Catalog
}

// Cache is the optional layer shared between ledger instances over one store:
// a store-wide lock held from reload through save, and a read-side
// availability cache whose entries are keyed by a per-room-type version.
type Cache interface {
	AcquireLedgerLock(ctx context.Context, ttl time.Duration) (bool, error)
	ReleaseLedgerLock(ctx context.Context) error
	AvailabilityVersion(ctx context.Context, roomType string) (int64, error)
	GetAvailability(ctx context.Context, roomType string, version int64, checkIn, checkOut string) (int, bool, error)
	SetAvailability(ctx context.Context, roomType string, version int64, checkIn, checkOut string, available int) error
	InvalidateRoomType(ctx context.Context, roomType string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	GuestName string `json:"guest_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	RoomType  string `json:"room_type"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Guests    int    `json:"guests"`
}

const (
	defaultLockTTL     = 10 * time.Second
	lockRetryBaseDelay = 10 * time.Millisecond
	lockRetryMaxDelay  = 200 * time.Millisecond
)

// Ledger owns every booking record, confirmed and cancelled, in creation
// order. All reads and writes go through its mutex; the store is rewritten
// after each mutation.
//
// With a Cache configured the store may be shared with other instances: the
// ledger reloads it before every operation and writes only under the
// store-wide lock.
type Ledger struct {
	mu       sync.Mutex
	bookings []domain.Booking
	dirty    bool

	repo     repository.BookingRepository
	engine   *availability.Engine
	cache    Cache
	producer Producer

	bookingTopic       string
	notificationsTopic string
	lockTTL            time.Duration

	log logrus.FieldLogger
	now func() time.Time
}

type LedgerOption func(*Ledger)

func WithCatalog(catalog domain.Catalog) LedgerOption {
	return func(l *Ledger) {
		l.engine = availability.NewEngine(catalog)
	}
}

func WithCache(cache Cache, lockTTL time.Duration) LedgerOption {
	return func(l *Ledger) {
		l.cache = cache
		if lockTTL > 0 {
			l.lockTTL = lockTTL
		}
	}
}

func WithProducer(producer Producer, bookingTopic string) LedgerOption {
	return func(l *Ledger) {
		l.producer = producer
		l.bookingTopic = bookingTopic
	}
}

func WithNotificationsTopic(topic string) LedgerOption {
	return func(l *Ledger) {
		l.notificationsTopic = topic
	}
}

func WithLogger(log logrus.FieldLogger) LedgerOption {
	return func(l *Ledger) {
		l.log = log
	}
}

func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		l.now = now
	}
}

// NewLedger loads the ledger from repo. A corrupt store is logged as a
// warning and replaced by an empty ledger; any other load error is returned.
func NewLedger(ctx context.Context, repo repository.BookingRepository, opts ...LedgerOption) (*Ledger, error) {
	l := &Ledger{
		repo:    repo,
		engine:  availability.NewEngine(domain.DefaultCatalog()),
		lockTTL: defaultLockTTL,
		log:     logrus.StandardLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	bookings, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	l.bookings = bookings

	l.log.WithField("bookings", len(bookings)).Info("booking ledger loaded")
	return l, nil
}

func (l *Ledger) Catalog() domain.Catalog {
	return l.engine.Catalog()
}

// CreateBooking validates the request and, if a unit is free for the whole
// stay, records a confirmed booking. Rejections are returned as the domain
// sentinel errors, in this order: room type, date format, stay length,
// availability.
func (l *Ledger) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	rt, ok := l.engine.Catalog().Lookup(input.RoomType)
	if !ok {
		return nil, domain.ErrInvalidRoomType
	}
	nights, ok := dates.NightsBetween(input.CheckIn, input.CheckOut)
	if !ok {
		return nil, domain.ErrInvalidDateFormat
	}
	if nights <= 0 {
		return nil, domain.ErrInvalidStayLength
	}

	unlock, err := l.lockLedger(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.reload(ctx); err != nil {
		return nil, err
	}

	available, ok := l.engine.AvailableUnits(l.bookings, rt.Name, input.CheckIn, input.CheckOut)
	if !ok {
		return nil, domain.ErrAvailabilityUnknown
	}
	if available <= 0 {
		return nil, fmt.Errorf("%s: %w", rt.Name, domain.ErrNoRoomsAvailable)
	}

	checkIn, _ := dates.Parse(input.CheckIn)
	checkOut, _ := dates.Parse(input.CheckOut)
	booking := domain.Booking{
		BookingID:  GenerateBookingID(l.bookings),
		GuestName:  input.GuestName,
		Email:      input.Email,
		Phone:      input.Phone,
		RoomType:   rt.Name,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     input.Guests,
		Nights:     nights,
		TotalPrice: int64(nights) * rt.PricePerNight,
		Status:     domain.BookingStatusConfirmed,
		CreatedAt:  l.now(),
	}

	l.bookings = append(l.bookings, booking)
	l.dirty = true
	if err := l.persist(ctx); err != nil {
		l.bookings = l.bookings[:len(l.bookings)-1]
		l.dirty = false
		return nil, err
	}

	l.log.WithFields(logrus.Fields{
		"booking_id": booking.BookingID,
		"room_type":  booking.RoomType,
		"check_in":   booking.CheckIn.String(),
		"check_out":  booking.CheckOut.String(),
	}).Info("booking created")

	l.afterMutation(ctx, kafka.EventBookingCreated, booking)

	created := booking.Clone()
	return &created, nil
}

func (l *Ledger) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refresh(ctx)

	idx := l.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrBookingNotFound
	}
	b := l.bookings[idx].Clone()
	return &b, nil
}

// ListBookings returns every booking, cancelled ones included, in creation
// order.
func (l *Ledger) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refresh(ctx)

	result := make([]domain.Booking, 0, len(l.bookings))
	for _, b := range l.bookings {
		result = append(result, b.Clone())
	}
	return result, nil
}

// SearchBookings matches query case-insensitively as a substring of the guest
// name, email or booking ID.
func (l *Ledger) SearchBookings(ctx context.Context, query string) ([]domain.Booking, error) {
	q := strings.ToLower(query)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.refresh(ctx)

	result := make([]domain.Booking, 0)
	for _, b := range l.bookings {
		if strings.Contains(strings.ToLower(b.GuestName), q) ||
			strings.Contains(strings.ToLower(b.Email), q) ||
			strings.Contains(strings.ToLower(b.BookingID), q) {
			result = append(result, b.Clone())
		}
	}
	return result, nil
}

// CancelBooking marks a confirmed booking cancelled. Cancelling an already
// cancelled booking returns it unchanged and writes nothing.
func (l *Ledger) CancelBooking(ctx context.Context, id string) (*domain.Booking, error) {
	unlock, err := l.lockLedger(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.reload(ctx); err != nil {
		return nil, err
	}

	idx := l.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrBookingNotFound
	}
	if !l.bookings[idx].IsConfirmed() {
		b := l.bookings[idx].Clone()
		return &b, nil
	}

	previous := l.bookings[idx].Clone()
	cancelledAt := l.now()
	l.bookings[idx].Status = domain.BookingStatusCancelled
	l.bookings[idx].CancelledAt = &cancelledAt
	l.dirty = true

	if err := l.persist(ctx); err != nil {
		l.bookings[idx] = previous
		l.dirty = false
		return nil, err
	}

	cancelled := l.bookings[idx].Clone()
	l.log.WithField("booking_id", cancelled.BookingID).Info("booking cancelled")
	l.afterMutation(ctx, kafka.EventBookingCancelled, cancelled)

	return &cancelled, nil
}

// BookedCount counts confirmed bookings of roomType overlapping the range.
func (l *Ledger) BookedCount(roomType, checkIn, checkOut string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.BookedCount(l.bookings, roomType, checkIn, checkOut)
}

// AvailableUnits returns the free units of roomType for the range, or false
// when the room type or a date is invalid. Results may come from the cache.
//
// The cache version is read before counting, so a value counted before a
// concurrent booking lands under a version that booking has already retired.
func (l *Ledger) AvailableUnits(ctx context.Context, roomType, checkIn, checkOut string) (int, bool) {
	version, cached := l.availabilityVersion(ctx, roomType)
	if cached {
		available, hit, err := l.cache.GetAvailability(ctx, roomType, version, checkIn, checkOut)
		if err == nil && hit {
			return available, true
		}
	}

	l.mu.Lock()
	l.refresh(ctx)
	available, ok := l.engine.AvailableUnits(l.bookings, roomType, checkIn, checkOut)
	l.mu.Unlock()
	if !ok {
		return 0, false
	}

	if cached {
		if err := l.cache.SetAvailability(ctx, roomType, version, checkIn, checkOut, available); err != nil {
			l.log.WithError(err).Warn("failed to cache availability")
		}
	}
	return available, true
}

func (l *Ledger) availabilityVersion(ctx context.Context, roomType string) (int64, bool) {
	if l.cache == nil {
		return 0, false
	}
	version, err := l.cache.AvailabilityVersion(ctx, roomType)
	if err != nil {
		l.log.WithError(err).Warn("availability cache unavailable")
		return 0, false
	}
	return version, true
}

// Availability reports every room type's free units for the range.
func (l *Ledger) Availability(ctx context.Context, checkIn, checkOut string) ([]domain.RoomAvailability, error) {
	if _, ok := dates.Parse(checkIn); !ok {
		return nil, domain.ErrInvalidDateFormat
	}
	if _, ok := dates.Parse(checkOut); !ok {
		return nil, domain.ErrInvalidDateFormat
	}

	catalog := l.engine.Catalog()
	result := make([]domain.RoomAvailability, 0, len(catalog))
	for _, rt := range catalog {
		available, ok := l.AvailableUnits(ctx, rt.Name, checkIn, checkOut)
		if !ok {
			return nil, domain.ErrAvailabilityUnknown
		}
		result = append(result, domain.RoomAvailability{
			RoomType:   rt.Name,
			Available:  available,
			TotalUnits: rt.TotalUnits,
		})
	}
	return result, nil
}

// AvailabilityTonight reports availability for the night starting today.
func (l *Ledger) AvailabilityTonight(ctx context.Context) []domain.RoomAvailability {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refresh(ctx)
	return l.engine.Tonight(l.bookings, l.now())
}

// Close writes the ledger if it holds changes the store has not seen. A
// ledger that was only read leaves the store untouched.
func (l *Ledger) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.dirty {
		return nil
	}
	return l.persist(ctx)
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.bookings {
		if l.bookings[i].BookingID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) persist(ctx context.Context) error {
	if err := l.repo.Save(ctx, l.bookings); err != nil {
		return fmt.Errorf("save bookings: %w", err)
	}
	l.dirty = false
	return nil
}

// load reads the store, treating a corrupt one as empty.
func (l *Ledger) load(ctx context.Context) ([]domain.Booking, error) {
	bookings, err := l.repo.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrCorruptStore):
		l.log.WithError(err).Warn("discarding unreadable booking store, starting with an empty ledger")
		bookings = nil
	case err != nil:
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}

// reload replaces the in-memory ledger with the store's contents when the
// store is shared. Callers hold l.mu and, before a write, the ledger lock.
func (l *Ledger) reload(ctx context.Context) error {
	if l.cache == nil || l.dirty {
		return nil
	}
	bookings, err := l.load(ctx)
	if err != nil {
		return err
	}
	l.bookings = bookings
	return nil
}

// refresh is reload for read paths: on failure the last known ledger is
// served.
func (l *Ledger) refresh(ctx context.Context) {
	if err := l.reload(ctx); err != nil {
		l.log.WithError(err).Warn("serving cached ledger, reload failed")
	}
}

// lockLedger takes the store-wide lock when a cache is configured, waiting
// for other holders until ctx is done. The returned func releases it.
func (l *Ledger) lockLedger(ctx context.Context) (func(), error) {
	if l.cache == nil {
		return func() {}, nil
	}

	delay := lockRetryBaseDelay
	for {
		ok, err := l.cache.AcquireLedgerLock(ctx, l.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire booking lock: %w", err)
		}
		if ok {
			return func() {
				if err := l.cache.ReleaseLedgerLock(context.WithoutCancel(ctx)); err != nil {
					l.log.WithError(err).Warn("failed to release booking lock")
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire booking lock: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay = min(2*delay, lockRetryMaxDelay)
	}
}

func (l *Ledger) afterMutation(ctx context.Context, eventType string, b domain.Booking) {
	if l.cache != nil {
		if err := l.cache.InvalidateRoomType(ctx, b.RoomType); err != nil {
			l.log.WithError(err).WithField("room_type", b.RoomType).Warn("failed to invalidate availability cache")
		}
	}
	if err := l.publish(ctx, eventType, b); err != nil {
		l.log.WithError(err).WithField("booking_id", b.BookingID).Warnf("failed to publish %s event", eventType)
	}
}

func (l *Ledger) publish(ctx context.Context, eventType string, b domain.Booking) error {
	if l.producer == nil || l.bookingTopic == "" {
		return nil
	}
	event := kafka.NewBookingEvent(eventType, b, l.now())
	if err := l.producer.Publish(ctx, l.bookingTopic, b.BookingID, event); err != nil {
		return err
	}
	if l.notificationsTopic != "" {
		return l.producer.Publish(ctx, l.notificationsTopic, b.BookingID, event)
	}
	return nil
}

var _ BookingUseCase = (*Ledger)(nil)
