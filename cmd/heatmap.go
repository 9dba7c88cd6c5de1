package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Aggregates a user's contribution heatmap and streaks, output as JSON",
	Long: `Fetches the contribution calendar for a trailing window of days,
levels each day 0-4 relative to the busiest day, computes the current and
longest streaks, and outputs the result in JSON format.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		username, _ := cmd.Flags().GetString("user")
		days, _ := cmd.Flags().GetInt("days")

		aggregator, cfg, err := newAggregator(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !cfg.IsUsernameAllowed(username) {
			fmt.Fprintf(os.Stderr, "Error: username %q is not on the whitelist.\n", username)
			os.Exit(1)
		}

		contributions, err := aggregator.ContributionWindow(ctx, username, days)
		if err != nil {
			reportError(username, err)
		}

		jsonData, err := json.MarshalIndent(contributions, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal results to JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(heatmapCmd)
	heatmapCmd.Flags().StringP("user", "u", "", "Target GitHub user name (required)")
	heatmapCmd.Flags().Int("days", 365, "Trailing window length in days (1-365)")
	heatmapCmd.MarkFlagRequired("user")
}
