package domain

type RoomType struct {
	Name          string `json:"name"`
	PricePerNight int64  `json:"price_per_night"`
	TotalUnits    int    `json:"total_units"`
}

// Catalog is the fixed, ordered set of room types the hotel sells.
type Catalog []RoomType

// DefaultCatalog is the room table established at startup.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "single", PricePerNight: 2000, TotalUnits: 10},
		{Name: "double", PricePerNight: 2500, TotalUnits: 8},
		{Name: "suite", PricePerNight: 3000, TotalUnits: 5},
	}
}

func (c Catalog) Lookup(name string) (RoomType, bool) {
	for _, rt := range c {
		if rt.Name == name {
			return rt, true
		}
	}
	return RoomType{}, false
}

func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, rt := range c {
		names = append(names, rt.Name)
	}
	return names
}

// RoomAvailability is the remaining capacity of one room type for a range.
type RoomAvailability struct {
	RoomType   string `json:"room_type"`
	Available  int    `json:"available"`
	TotalUnits int    `json:"total_units"`
}
