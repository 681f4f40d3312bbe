package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kailas-cloud/vecagent/internal/domain/hotel"
)

// LoadHotels reads a JSON array of hotels from path.
func LoadHotels(path string) ([]hotel.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hotels file: %w", err)
	}
	var hotels []hotel.Source
	if err := json.Unmarshal(data, &hotels); err != nil {
		return nil, fmt.Errorf("parse hotels file %s: %w", path, err)
	}
	return hotels, nil
}
