package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	jsoniter "github.com/json-iterator/go"
)

const DefaultStorePath = "bookings.json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type FileBookingRepository struct {
	path string
}

func NewFileBookingRepository(path string) *FileBookingRepository {
	if path == "" {
		path = DefaultStorePath
	}
	return &FileBookingRepository{path: path}
}

func (r *FileBookingRepository) Path() string {
	return r.path
}

// Load reads the store. A missing file is an empty ledger. A file that cannot
// be decoded also yields an empty ledger, together with domain.ErrCorruptStore
// so the caller can report it.
func (r *FileBookingRepository) Load(_ context.Context) ([]domain.Booking, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Booking{}, nil
		}
		return nil, fmt.Errorf("failed to read booking store: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Booking{}, fmt.Errorf("%w: %s: empty file", domain.ErrCorruptStore, r.path)
	}

	var bookings []domain.Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		return []domain.Booking{}, fmt.Errorf("%w: %s: %v", domain.ErrCorruptStore, r.path, err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}

// Save writes the snapshot to a temporary file next to the store and renames
// it over the store, so readers see either the old or the new contents.
func (r *FileBookingRepository) Save(_ context.Context, bookings []domain.Booking) error {
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	data, err := json.MarshalIndent(bookings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bookings: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp store: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp store: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace booking store: %w", err)
	}
	return nil
}

var _ BookingRepository = (*FileBookingRepository)(nil)
