package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Load(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Save(ctx context.Context, bookings []domain.Booking) error {
	args := m.Called(ctx, bookings)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) AcquireLedgerLock(ctx context.Context, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseLedgerLock(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCache) AvailabilityVersion(ctx context.Context, roomType string) (int64, error) {
	args := m.Called(ctx, roomType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) GetAvailability(ctx context.Context, roomType string, version int64, checkIn, checkOut string) (int, bool, error) {
	args := m.Called(ctx, roomType, version, checkIn, checkOut)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockCache) SetAvailability(ctx context.Context, roomType string, version int64, checkIn, checkOut string, available int) error {
	args := m.Called(ctx, roomType, version, checkIn, checkOut, available)
	return args.Error(0)
}

func (m *MockCache) InvalidateRoomType(ctx context.Context, roomType string) error {
	args := m.Called(ctx, roomType)
	return args.Error(0)
}

// memoryCache is a Cache shared by several ledgers in one test, with the
// lock and versioning behaviour of the Redis implementation.
type memoryCache struct {
	mu       sync.Mutex
	locked   bool
	versions map[string]int64
	entries  map[string]int

	// onSet runs before an entry is stored, outside the cache's mutex.
	onSet func()
}

func newMemoryCache() *memoryCache {
	return &memoryCache{versions: map[string]int64{}, entries: map[string]int{}}
}

func (c *memoryCache) AcquireLedgerLock(_ context.Context, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locked {
		return false, nil
	}
	c.locked = true
	return true, nil
}

func (c *memoryCache) ReleaseLedgerLock(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locked = false
	return nil
}

func (c *memoryCache) AvailabilityVersion(_ context.Context, roomType string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[roomType], nil
}

func (c *memoryCache) GetAvailability(_ context.Context, roomType string, version int64, checkIn, checkOut string) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	available, ok := c.entries[fmt.Sprintf("%s:%d:%s:%s", roomType, version, checkIn, checkOut)]
	return available, ok, nil
}

func (c *memoryCache) SetAvailability(_ context.Context, roomType string, version int64, checkIn, checkOut string, available int) error {
	if c.onSet != nil {
		c.onSet()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fmt.Sprintf("%s:%d:%s:%s", roomType, version, checkIn, checkOut)] = available
	return nil
}

func (c *memoryCache) InvalidateRoomType(_ context.Context, roomType string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[roomType]++
	return nil
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}
