// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/gopherstats/readme-stats/internal/cache"
	"github.com/gopherstats/readme-stats/internal/config"
	"github.com/gopherstats/readme-stats/internal/gateway"
	"github.com/gopherstats/readme-stats/internal/inflight"
	"github.com/gopherstats/readme-stats/internal/usecase"
)

var rootCmd = &cobra.Command{
	Use:   "readme-stats",
	Short: "A CLI tool to aggregate GitHub user statistics.",
	Long: `readme-stats aggregates a GitHub user's activity into derived metrics:
headline stats with a rank grade, a byte-weighted top-languages breakdown,
and a leveled contribution heatmap with streaks. Results are cached in
memory and printed as JSON.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// newAggregator wires the full stack for a command invocation: config from
// the environment, the authenticated gateway with in-flight deduplication,
// and the aggregator with its named caches (unless caching is disabled).
func newAggregator(cmd *cobra.Command) (*usecase.Aggregator, *config.Config, error) {
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
	if verbose {
		logger.SetOutput(os.Stderr) // If verbose, log to standard error.
	}

	cfg := config.Load()
	if cfg.Token == "" {
		return nil, nil, fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}

	flights := &inflight.Group{}
	fetcher, err := gateway.NewGitHubGateway(cfg.Token, flights, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	var registry *cache.Registry
	if cfg.CacheEnabled {
		registry = cache.NewRegistry()
	}
	return usecase.NewAggregator(fetcher, registry, cfg.CacheTTL, cfg.CacheMaxSize, logger), cfg, nil
}

// reportError prints an upstream failure in user terms and exits non-zero.
func reportError(username string, err error) {
	switch {
	case gateway.IsNotFound(err):
		fmt.Fprintf(os.Stderr, "Error: GitHub user %q was not found.\n", username)
	case gateway.IsTransient(err):
		fmt.Fprintf(os.Stderr, "Error: GitHub is rate limiting or temporarily unavailable, try again later: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
