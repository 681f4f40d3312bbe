package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleData = `[
  {
    "HotelId": "1",
    "HotelName": "Stay-Kay City Hotel",
    "Description": "This classic hotel is fully-refurbished.",
    "Description_fr": "Cet hôtel classique entièrement rénové.",
    "Category": "Boutique",
    "Tags": ["view", "air conditioning", "concierge"],
    "ParkingIncluded": false,
    "IsDeleted": false,
    "LastRenovationDate": "2022-01-18T00:00:00Z",
    "Rating": 3.6,
    "Address": {
      "StreetAddress": "677 5th Ave",
      "City": "New York",
      "StateProvince": "NY",
      "PostalCode": "10022",
      "Country": "USA"
    },
    "Location": {"type": "Point", "coordinates": [-73.975403, 40.760586]},
    "Rooms": [{"Description": "Budget Room, 1 Queen Bed"}]
  }
]`

func TestLoadHotels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hotels.json")
	if err := os.WriteFile(path, []byte(sampleData), 0o600); err != nil {
		t.Fatal(err)
	}

	hotels, err := LoadHotels(path)
	if err != nil {
		t.Fatalf("LoadHotels: %v", err)
	}
	if len(hotels) != 1 {
		t.Fatalf("expected 1 hotel, got %d", len(hotels))
	}
	h := hotels[0]
	if h.HotelName != "Stay-Kay City Hotel" || h.Rating != 3.6 || h.Address.City != "New York" {
		t.Errorf("unexpected hotel: %+v", h)
	}
	if h.LastRenovationDate.Year() != 2022 {
		t.Errorf("unexpected renovation date %v", h.LastRenovationDate)
	}
}

func TestLoadHotels_Errors(t *testing.T) {
	if _, err := LoadHotels(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"not":"an array"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadHotels(path); err == nil {
		t.Error("expected error for malformed file")
	}
}
