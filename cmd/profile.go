package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Aggregates stats, languages and contributions in one go, output as JSON",
	Long: `Runs all three aggregations concurrently for a user and outputs the
combined result in JSON format.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		username, _ := cmd.Flags().GetString("user")
		days, _ := cmd.Flags().GetInt("days")
		exclude, _ := cmd.Flags().GetStringSlice("exclude")

		aggregator, cfg, err := newAggregator(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !cfg.IsUsernameAllowed(username) {
			fmt.Fprintf(os.Stderr, "Error: username %q is not on the whitelist.\n", username)
			os.Exit(1)
		}

		profile, err := aggregator.Profile(ctx, username, days, exclude)
		if err != nil {
			reportError(username, err)
		}

		jsonData, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal results to JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringP("user", "u", "", "Target GitHub user name (required)")
	profileCmd.Flags().Int("days", 365, "Trailing window length in days (1-365)")
	profileCmd.Flags().StringSlice("exclude", nil, "Language names to exclude (case-insensitive)")
	profileCmd.MarkFlagRequired("user")
}
