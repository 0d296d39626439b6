// Package output exports listing sets to files in json, csv, or markdown.
package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lead-miners/scout/pkg/models"
)

// Save writes listings to path, picking the format from the file extension
func Save(listings []models.Listing, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SaveJSON(listings, path)
	case ".csv":
		return SaveCSV(listings, path)
	case ".md", ".markdown":
		return SaveMarkdown(listings, path)
	default:
		return fmt.Errorf("unsupported output format %q (use .json, .csv, or .md)", filepath.Ext(path))
	}
}
