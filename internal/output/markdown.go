package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/lead-miners/scout/pkg/models"
)

// SaveMarkdown writes listings as a markdown table, one row per business
func SaveMarkdown(listings []models.Listing, path string) error {
	var b strings.Builder

	b.WriteString("| Name | Category | Address | Phone | Website | Rating | Reviews |\n")
	b.WriteString("|------|----------|---------|-------|---------|--------|---------|\n")
	for _, l := range listings {
		rating := ""
		if l.Rating > 0 {
			rating = fmt.Sprintf("%.1f", l.Rating)
		}
		reviews := ""
		if l.ReviewCount > 0 {
			reviews = fmt.Sprintf("%d", l.ReviewCount)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			escapeCell(l.Name),
			escapeCell(l.Category),
			escapeCell(l.Address),
			escapeCell(l.Phone),
			escapeCell(l.Website),
			rating,
			reviews,
		)
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
