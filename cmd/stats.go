// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregates a user's headline stats and rank, output as JSON",
	Long: `Fetches a user's starred/commit/PR/issue totals, pages through the
repository list to sum stargazers, computes the rank grade, and outputs
the result in JSON format.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		username, _ := cmd.Flags().GetString("user")

		aggregator, cfg, err := newAggregator(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !cfg.IsUsernameAllowed(username) {
			fmt.Fprintf(os.Stderr, "Error: username %q is not on the whitelist.\n", username)
			os.Exit(1)
		}

		stats, err := aggregator.UserStats(ctx, username)
		if err != nil {
			reportError(username, err)
		}

		jsonData, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal results to JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("user", "u", "", "Target GitHub user name (required)")
	statsCmd.MarkFlagRequired("user")
}
