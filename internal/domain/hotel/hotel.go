package hotel

import "time"

// Address is the postal address of a hotel.
type Address struct {
	StreetAddress string `json:"StreetAddress"`
	City          string `json:"City"`
	StateProvince string `json:"StateProvince"`
	PostalCode    string `json:"PostalCode"`
	Country       string `json:"Country"`
}

// Location is a GeoJSON point as found in the source data file.
type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Source is a hotel as read from the static data file. Fields the store never
// needs (French description, location, rooms) are dropped by Record.
type Source struct {
	HotelID            string    `json:"HotelId"`
	HotelName          string    `json:"HotelName"`
	Description        string    `json:"Description"`
	DescriptionFr      string    `json:"Description_fr,omitempty"`
	Category           string    `json:"Category"`
	Tags               []string  `json:"Tags"`
	ParkingIncluded    bool      `json:"ParkingIncluded"`
	IsDeleted          bool      `json:"IsDeleted"`
	LastRenovationDate time.Time `json:"LastRenovationDate"`
	Rating             float64   `json:"Rating"`
	Address            Address   `json:"Address"`
	Location           *Location `json:"Location,omitempty"`
	Rooms              []any     `json:"Rooms,omitempty"`
}

// Hotel is the stored record. The embedding lives next to it in the store and
// is regenerated whenever Name or Description change.
type Hotel struct {
	ID                 string
	Name               string
	Description        string
	Category           string
	Tags               []string
	ParkingIncluded    bool
	IsDeleted          bool
	LastRenovationDate time.Time
	Rating             float64
	Address            Address
}

// Record converts the source document to the stored form.
func (s *Source) Record() Hotel {
	return Hotel{
		ID:                 s.HotelID,
		Name:               s.HotelName,
		Description:        s.Description,
		Category:           s.Category,
		Tags:               s.Tags,
		ParkingIncluded:    s.ParkingIncluded,
		IsDeleted:          s.IsDeleted,
		LastRenovationDate: s.LastRenovationDate,
		Rating:             s.Rating,
		Address:            s.Address,
	}
}

// PageContent is the text that gets embedded for a hotel.
func (h *Hotel) PageContent() string {
	return "Hotel: " + h.Name + "\n\n" + h.Description
}
