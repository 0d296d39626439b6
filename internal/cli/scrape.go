package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lead-miners/scout/internal/geo"
	"github.com/lead-miners/scout/internal/output"
	"github.com/lead-miners/scout/internal/progress"
	"github.com/lead-miners/scout/internal/scraper"
	"github.com/lead-miners/scout/internal/transform"
	"github.com/lead-miners/scout/internal/ui"
	"github.com/lead-miners/scout/pkg/models"
)

var (
	scrapeCountry   string
	scrapeStates    []string
	scrapeCities    []string
	scrapeURLs      []string
	scrapeDetails   bool
	scrapeStore     bool
	scrapeOutput    string
	scrapeTransform string
	scrapeNoBar     bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <query>",
	Short: "Run a map search across cities and extract business listings",
	Long: `Expands the query into one map search per city, scrapes each search
through the browser pool, and writes the extracted listings to a file.

Targets can be given three ways: explicit search URLs, explicit cities,
or a country (optionally narrowed to states) resolved through the geo
API. Explicit URLs win over cities, cities win over country.`,
	Example: `  # Every city in two US states
  scout scrape "coffee roasters" --country US --states TX,CA -o roasters.json

  # Explicit cities, with detail pages and Redis persistence
  scout scrape "dentist" --cities "Austin,Dallas" --details --store -o dentists.csv

  # Pre-built search URLs, post-processed by a JS transform
  scout scrape --urls "https://www.google.com/maps/search/gyms+in+Miami" --transform keep_rated.js -o gyms.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&scrapeCountry, "country", "", "ISO2 country code to fan out across")
	scrapeCmd.Flags().StringSliceVar(&scrapeStates, "states", nil, "State codes to narrow the fan-out (default: all)")
	scrapeCmd.Flags().StringSliceVar(&scrapeCities, "cities", nil, "Explicit city names (skips the geo API)")
	scrapeCmd.Flags().StringSliceVar(&scrapeURLs, "urls", nil, "Explicit search URLs (skips fan-out entirely)")
	scrapeCmd.Flags().BoolVar(&scrapeDetails, "details", false, "Also scrape each place's detail page")
	scrapeCmd.Flags().BoolVar(&scrapeStore, "store", false, "Persist listings to Redis")
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "Output file (.json, .csv, or .md)")
	scrapeCmd.Flags().StringVar(&scrapeTransform, "transform", "", "JavaScript file applied to each listing")
	scrapeCmd.Flags().BoolVar(&scrapeNoBar, "no-progress", false, "Disable the progress bar")
}

func runScrape(cmd *cobra.Command, args []string) error {
	a := GetApp()

	req := models.ScrapeRequest{
		Country: scrapeCountry,
		States:  scrapeStates,
		Cities:  scrapeCities,
		URLs:    scrapeURLs,
		Details: scrapeDetails,
		Store:   scrapeStore,
	}
	if len(args) > 0 {
		req.Query = strings.TrimSpace(args[0])
	}
	if req.Query == "" && len(req.URLs) == 0 {
		return fmt.Errorf("a query argument is required unless --urls is given")
	}

	var tr *transform.Transformer
	if scrapeTransform != "" {
		src, err := os.ReadFile(scrapeTransform)
		if err != nil {
			return fmt.Errorf("reading transform script: %w", err)
		}
		if tr, err = transform.New(string(src)); err != nil {
			return fmt.Errorf("compiling transform script: %w", err)
		}
	}

	ctx := cmd.Context()
	targets, err := geo.Expand(ctx, a.Geo, req)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("request expands to no search targets")
	}

	fmt.Fprintf(os.Stderr, "%s %s across %s\n",
		ui.Info("Scraping"), ui.Bold(req.Query), ui.Bold(fmt.Sprintf("%d targets", len(targets))))

	var bar *progress.BarSink
	sinks := progress.MultiSink{progress.LogSink{Logger: log.Logger}}
	if !scrapeNoBar && !a.Config.JSONLog && a.Config.LogLevel != "debug" {
		bar = progress.NewBarSink(len(targets), "scraping")
		sinks = append(sinks, bar)
	}

	pl := &scraper.Pipeline{
		Launcher:   a.Launcher,
		Pool:       a.PoolConfig(),
		Limiter:    a.Limiter,
		Seen:       a.Seen,
		MaxScrolls: a.Config.MaxScrolls,
		Details:    scrapeDetails,
	}
	summary := pl.Run(ctx, targets, sinks)
	if bar != nil {
		bar.Finish()
	}

	listings := summary.Listings
	if tr != nil {
		listings = applyTransform(tr, listings)
	}

	if scrapeStore && len(listings) > 0 {
		runID := uuid.NewString()
		st, err := a.EnsureStore(ctx)
		if err == nil {
			err = st.UpsertListings(ctx, runID, listings)
		}
		if err != nil {
			log.Error().Err(err).Msg("Persisting listings")
			fmt.Fprintln(os.Stderr, ui.Error("Persisting to Redis failed: "+err.Error()))
		} else {
			fmt.Fprintf(os.Stderr, "%s %d listings under run %s\n", ui.Info("Stored"), len(listings), runID)
		}
	}

	if scrapeOutput != "" {
		if err := output.Save(listings, scrapeOutput); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "%s %d listings to %s\n",
			ui.Success("Saved"), len(listings), ui.Bold(scrapeOutput))
	} else if err := output.WriteJSON(listings, os.Stdout); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	printRunSummary(summary)

	if !summary.Search.Success {
		return fmt.Errorf("every search target failed")
	}
	return nil
}

func applyTransform(tr *transform.Transformer, listings []models.Listing) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		mapped, keep, err := transform.Apply(tr, l)
		if err != nil {
			log.Warn().Err(err).Str("name", l.Name).Msg("Transform failed, keeping original")
			out = append(out, l)
			continue
		}
		if keep {
			out = append(out, mapped)
		}
	}
	return out
}

func printRunSummary(summary *scraper.RunSummary) {
	s := summary.Search
	fmt.Fprintf(os.Stderr, "%s %d/%d searches ok, %d listings",
		ui.Info("Done:"), s.SuccessCount, s.TotalItems, len(summary.Listings))
	if summary.Detail != nil {
		fmt.Fprintf(os.Stderr, ", %d/%d details ok", summary.Detail.SuccessCount, summary.Detail.TotalItems)
	}
	fmt.Fprintf(os.Stderr, " in %s\n", s.Duration.Round(10*time.Millisecond))
	for _, e := range s.Errors {
		log.Debug().Str("error", e).Msg("Search item failed")
	}
}
