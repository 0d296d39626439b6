// Package cli provides the command-line interface for the scout application.
package cli

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lead-miners/scout/internal/app"
	"github.com/lead-miners/scout/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "scout",
	Short:   "Scrape business listings from map searches at scale",
	Long: `Scout fans a search query out across cities and runs the resulting
map searches through a bounded pool of headless browsers, extracting
business listings as it goes.`,
	Version: "0.1.0",
}

// ExecuteContext runs the root command under ctx. The application is
// initialized lazily in PersistentPreRunE so help and version never start a
// browser stack.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// globalApp holds the initialized application for the running command
var globalApp *app.Application

// GetApp retrieves the initialized Application
func GetApp() *app.Application {
	return globalApp
}

func init() {
	config.RegisterFlags(rootCmd)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if globalApp != nil {
			return nil
		}

		cfg, err := config.Load(rootCmd)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		globalApp = a
		return nil
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if globalApp == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := globalApp.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("Error during shutdown")
		}
		globalApp = nil
	}
}
