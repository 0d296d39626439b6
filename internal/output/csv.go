package output

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/lead-miners/scout/pkg/models"
)

var csvHeader = []string{
	"name", "category", "address", "phone", "website",
	"rating", "review_count", "place_url", "city", "state", "country",
}

// SaveCSV writes listings to a CSV file with a fixed header row
func SaveCSV(listings []models.Listing, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, l := range listings {
		row := []string{
			l.Name,
			l.Category,
			l.Address,
			l.Phone,
			l.Website,
			strconv.FormatFloat(l.Rating, 'f', -1, 64),
			strconv.Itoa(l.ReviewCount),
			l.PlaceURL,
			l.City,
			l.State,
			l.Country,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return writer.Error()
}
