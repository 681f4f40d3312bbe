package hotel

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kailas-cloud/vecagent/internal/domain/hotel"
)

type addressDoc struct {
	StreetAddress string `bson:"StreetAddress"`
	City          string `bson:"City"`
	StateProvince string `bson:"StateProvince"`
	PostalCode    string `bson:"PostalCode"`
	Country       string `bson:"Country"`
}

// hotelDoc is the stored document. The vector goes into Extra under the configured
// field name; on read Extra also soaks up _id and the vector.
type hotelDoc struct {
	HotelID            string         `bson:"HotelId"`
	HotelName          string         `bson:"HotelName"`
	Description        string         `bson:"Description"`
	Category           string         `bson:"Category"`
	Tags               []string       `bson:"Tags"`
	ParkingIncluded    bool           `bson:"ParkingIncluded"`
	IsDeleted          bool           `bson:"IsDeleted"`
	LastRenovationDate time.Time      `bson:"LastRenovationDate"`
	Rating             float64        `bson:"Rating"`
	Address            addressDoc     `bson:"Address"`
	Extra              map[string]any `bson:",inline"`
}

func toDoc(h *hotel.Hotel, field string, vec []float32) *hotelDoc {
	return &hotelDoc{
		HotelID:            h.ID,
		HotelName:          h.Name,
		Description:        h.Description,
		Category:           h.Category,
		Tags:               h.Tags,
		ParkingIncluded:    h.ParkingIncluded,
		IsDeleted:          h.IsDeleted,
		LastRenovationDate: h.LastRenovationDate.UTC(),
		Rating:             h.Rating,
		Address: addressDoc{
			StreetAddress: h.Address.StreetAddress,
			City:          h.Address.City,
			StateProvince: h.Address.StateProvince,
			PostalCode:    h.Address.PostalCode,
			Country:       h.Address.Country,
		},
		Extra: map[string]any{field: vec},
	}
}

func fromRaw(raw []byte) (hotel.Hotel, error) {
	var d hotelDoc
	if err := bson.Unmarshal(raw, &d); err != nil {
		return hotel.Hotel{}, fmt.Errorf("decode hotel document: %w", err)
	}
	return hotel.Hotel{
		ID:                 d.HotelID,
		Name:               d.HotelName,
		Description:        d.Description,
		Category:           d.Category,
		Tags:               d.Tags,
		ParkingIncluded:    d.ParkingIncluded,
		IsDeleted:          d.IsDeleted,
		LastRenovationDate: d.LastRenovationDate,
		Rating:             d.Rating,
		Address: hotel.Address{
			StreetAddress: d.Address.StreetAddress,
			City:          d.Address.City,
			StateProvince: d.Address.StateProvince,
			PostalCode:    d.Address.PostalCode,
			Country:       d.Address.Country,
		},
	}, nil
}
