package rooms

import (
	"context"

	"github.com/Domenick1991/hotelbooking/internal/domain"
)

type RoomUseCase interface {
	List(ctx context.Context) ([]RoomView, error)
	Availability(ctx context.Context, checkIn, checkOut string) ([]domain.RoomAvailability, error)
}

// AvailabilitySource is the part of the booking ledger the room views read.
type AvailabilitySource interface {
	Catalog() domain.Catalog
	Availability(ctx context.Context, checkIn, checkOut string) ([]domain.RoomAvailability, error)
	AvailabilityTonight(ctx context.Context) []domain.RoomAvailability
}

type RoomView struct {
	domain.RoomType
	AvailableTonight int `json:"available_tonight"`
}

type RoomService struct {
	source AvailabilitySource
}

func NewRoomService(source AvailabilitySource) *RoomService {
	return &RoomService{source: source}
}

// List returns the catalog in order, each room type with tonight's free units.
func (s *RoomService) List(ctx context.Context) ([]RoomView, error) {
	tonight := make(map[string]int)
	for _, a := range s.source.AvailabilityTonight(ctx) {
		tonight[a.RoomType] = a.Available
	}

	catalog := s.source.Catalog()
	views := make([]RoomView, 0, len(catalog))
	for _, rt := range catalog {
		views = append(views, RoomView{RoomType: rt, AvailableTonight: tonight[rt.Name]})
	}
	return views, nil
}

func (s *RoomService) Availability(ctx context.Context, checkIn, checkOut string) ([]domain.RoomAvailability, error) {
	return s.source.Availability(ctx, checkIn, checkOut)
}

var _ RoomUseCase = (*RoomService)(nil)
