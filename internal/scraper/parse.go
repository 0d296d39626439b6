// Package scraper holds the work functions executed by the pool: rendered-
// page scraping of map search results and place detail pages. The pool
// treats these as opaque; everything markup-specific stays in this package.
package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/lead-miners/scout/pkg/models"
)

var (
	reviewCountRe = regexp.MustCompile(`[\d,.]+`)
	phoneRe       = regexp.MustCompile(`\+?[\d][\d\s().-]{6,}\d`)
)

// ParseSearchResults extracts listing cards from a rendered search page
func ParseSearchResults(html string) ([]models.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing search page: %w", err)
	}

	var listings []models.Listing
	doc.Find(selResultCard).Each(func(_ int, card *goquery.Selection) {
		link := card.Find(selResultLink)
		name := strings.TrimSpace(link.AttrOr("aria-label", ""))
		if name == "" {
			return
		}

		l := models.Listing{
			Name:      name,
			PlaceURL:  link.AttrOr("href", ""),
			Website:   card.Find(selCardSite).AttrOr("href", ""),
			ScrapedAt: time.Now(),
		}

		if txt := card.Find(selCardRating).First().Text(); txt != "" {
			l.Rating = parseRating(txt)
		}
		if txt := card.Find(selCardReview).First().Text(); txt != "" {
			l.ReviewCount = parseReviewCount(txt)
		}

		// Info rows hold "category · address" and "hours · phone" style
		// fragments separated by interpuncts.
		card.Find(selCardRow).Each(func(_ int, row *goquery.Selection) {
			for _, part := range strings.Split(row.Text(), "·") {
				part = strings.TrimSpace(part)
				switch {
				case part == "":
				case phoneRe.MatchString(part) && l.Phone == "":
					l.Phone = strings.TrimSpace(phoneRe.FindString(part))
				case l.Category == "" && !strings.ContainsAny(part, "0123456789"):
					l.Category = part
				case l.Address == "" && strings.ContainsAny(part, "0123456789"):
					l.Address = part
				}
			}
		})

		listings = append(listings, l)
	})

	return listings, nil
}

// ParseDetail extracts the full field set from a rendered place page
func ParseDetail(html string) (models.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.Listing{}, fmt.Errorf("parsing detail page: %w", err)
	}

	l := models.Listing{
		Name:      strings.TrimSpace(doc.Find(selDetailName).First().Text()),
		Category:  strings.TrimSpace(doc.Find(selDetailCategory).First().Text()),
		Website:   doc.Find(selDetailWebsite).AttrOr("href", ""),
		ScrapedAt: time.Now(),
	}
	if l.Name == "" {
		return l, fmt.Errorf("detail page has no listing name; markup may have changed")
	}

	// Address and phone buttons carry "Address: ..." / "Phone: ..." labels
	if label := doc.Find(selDetailAddress).AttrOr("aria-label", ""); label != "" {
		l.Address = trimLabel(label)
	}
	if label := doc.Find(selDetailPhone).AttrOr("aria-label", ""); label != "" {
		l.Phone = trimLabel(label)
	}

	if txt := doc.Find(selDetailRating).First().Text(); txt != "" {
		l.Rating = parseRating(txt)
	}
	doc.Find(selDetailReviews).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label := s.AttrOr("aria-label", "")
		if strings.Contains(label, "review") {
			l.ReviewCount = parseReviewCount(label)
			return false
		}
		return true
	})

	if about := doc.Find(selDetailAbout).First(); about.Length() > 0 {
		if h, err := about.Html(); err == nil {
			l.Description = htmlToMarkdown(h)
		}
	}

	return l, nil
}

func trimLabel(label string) string {
	if i := strings.Index(label, ":"); i >= 0 {
		return strings.TrimSpace(label[i+1:])
	}
	return strings.TrimSpace(label)
}

func parseRating(s string) float64 {
	s = strings.TrimSpace(s)
	// Some locales render "4,5"
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 5 {
		return 0
	}
	return v
}

func parseReviewCount(s string) int {
	m := reviewCountRe.FindString(s)
	if m == "" {
		return 0
	}
	m = strings.ReplaceAll(m, ",", "")
	m = strings.ReplaceAll(m, ".", "")
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
