package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/lead-miners/scout/pkg/models"
)

// SaveJSON writes an indented JSON export of the listings to path
func SaveJSON(listings []models.Listing, path string) error {
	content, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

// WriteJSON streams the indented JSON export to w (stdout, typically)
func WriteJSON(listings []models.Listing, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listings)
}
