package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBookingRepository_LoadMissingFile(t *testing.T) {
	repo := NewFileBookingRepository(filepath.Join(t.TempDir(), "bookings.json"))

	bookings, err := repo.Load(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NotNil(t, bookings)
}

func TestFileBookingRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bookings.json")
	repo := NewFileBookingRepository(path)
	want := sampleBookings()

	require.NoError(t, repo.Save(ctx, want))

	got, err := NewFileBookingRepository(path).Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].BookingID, got[i].BookingID)
		assert.Equal(t, want[i].GuestName, got[i].GuestName)
		assert.True(t, want[i].CheckIn.Equal(got[i].CheckIn))
		assert.True(t, want[i].CheckOut.Equal(got[i].CheckOut))
		assert.Equal(t, want[i].TotalPrice, got[i].TotalPrice)
		assert.Equal(t, want[i].Status, got[i].Status)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
	}
	assert.Nil(t, got[0].CancelledAt)
	require.NotNil(t, got[1].CancelledAt)
	assert.True(t, want[1].CancelledAt.Equal(*got[1].CancelledAt))
}

func TestFileBookingRepository_StoresDatesAsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.json")
	repo := NewFileBookingRepository(path)

	require.NoError(t, repo.Save(context.Background(), sampleBookings()[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"check_in": "2024-01-01"`)
	assert.Contains(t, string(data), `"booking_id": "BK0001"`)
	assert.NotContains(t, string(data), "cancelled_at")
}

func TestFileBookingRepository_LoadCorruptFile(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "truncated", content: `[{"booking_id": "BK0001"`},
		{name: "empty", content: ``},
		{name: "bad date", content: `[{"booking_id": "BK0001", "check_in": "01/01/2024"}]`},
		{name: "wrong shape", content: `{"bookings": []}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bookings.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			bookings, err := NewFileBookingRepository(path).Load(context.Background())

			assert.ErrorIs(t, err, domain.ErrCorruptStore)
			assert.NotNil(t, bookings)
			assert.Empty(t, bookings)
		})
	}
}

func TestFileBookingRepository_SaveOverwritesAndLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "bookings.json")
	repo := NewFileBookingRepository(path)

	require.NoError(t, repo.Save(ctx, sampleBookings()))
	require.NoError(t, repo.Save(ctx, sampleBookings()[:1]))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewFileBookingRepository_DefaultPath(t *testing.T) {
	assert.Equal(t, DefaultStorePath, NewFileBookingRepository("").Path())
}
