package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Log in JSON format")
	cmd.PersistentFlags().Int("sessions", DefaultSessionCount, "Concurrent browser processes per batch")
	cmd.PersistentFlags().Int("per-session", DefaultSessionCapacity, "Pages scraped per browser process")
	cmd.PersistentFlags().String("page-timeout", DefaultPageTimeout.String(), "Per-page operation timeout")
	cmd.PersistentFlags().String("batch-delay", DefaultInterBatchDelay.String(), "Pause between super-batches")
	cmd.PersistentFlags().Bool("headed", false, "Run browsers with a visible window")
	cmd.PersistentFlags().String("chrome-path", "", "Path to the Chrome/Chromium binary")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().String("proxies", "", "Comma-separated proxy URLs, rotated per browser session")
	cmd.PersistentFlags().String("geo-api-key", "", "API key for the countries/states/cities service")
	cmd.PersistentFlags().String("redis", "", "Redis address for listing persistence")
}
