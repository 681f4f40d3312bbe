package search

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/vecagent/internal/domain/search/result"
)

// Record block markers. Each marker sits alone on its own line; field
// values are flattened to a single line so they can never form one.
const (
	RecordStart = "--- RECORD START ---"
	RecordEnd   = "--- RECORD END ---"
)

// FormatResult renders one hit as a fixed-field text block.
func FormatResult(r result.Result) string {
	h := r.Hotel()
	lines := []string{
		RecordStart,
		"HotelId: " + h.ID,
		"HotelName: " + h.Name,
		"Description: " + h.Description,
		"Category: " + h.Category,
		"Tags: " + oneLine(strings.Join(h.Tags, ", ")),
		fmt.Sprintf("ParkingIncluded: %t", h.ParkingIncluded),
		fmt.Sprintf("IsDeleted: %t", h.IsDeleted),
		"LastRenovationDate: " + h.LastRenovationDate.Format("2006-01-02"),
		fmt.Sprintf("Rating: %.1f", h.Rating),
		"Address.StreetAddress: " + h.Address.StreetAddress,
		"Address.City: " + h.Address.City,
		"Address.StateProvince: " + h.Address.StateProvince,
		"Address.PostalCode: " + h.Address.PostalCode,
		"Address.Country: " + h.Address.Country,
		fmt.Sprintf("Score: %.6f", r.Score()),
		RecordEnd,
	}
	return strings.Join(lines, "\n")
}

// FormatResults renders hits best-first, separated by a blank line.
func FormatResults(results []result.Result) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, FormatResult(r))
	}
	return strings.Join(blocks, "\n\n")
}

// TopBlocks keeps the first n record blocks of a formatted tool output,
// cutting right after the n-th RecordEnd line.
// Text that carries no record markers is returned unchanged.
func TopBlocks(output string, n int) string {
	if n <= 0 {
		return output
	}
	seen, pos := 0, 0
	for pos < len(output) {
		end := strings.IndexByte(output[pos:], '\n')
		if end < 0 {
			end = len(output)
		} else {
			end += pos
		}
		if output[pos:end] == RecordEnd {
			seen++
			if seen == n {
				return output[:end]
			}
		}
		pos = end + 1
	}
	return output
}

// CountBlocks returns the number of record blocks in a formatted tool output.
func CountBlocks(output string) int {
	n := 0
	for _, line := range strings.Split(output, "\n") {
		if line == RecordStart {
			n++
		}
	}
	return n
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func oneLine(s string) string {
	return lineBreaks.Replace(s)
}
