package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var langsCmd = &cobra.Command{
	Use:   "langs",
	Short: "Aggregates a user's top languages by byte count, output as JSON",
	Long: `Sums language byte counts across a user's owned non-fork repositories
and outputs the percentage breakdown in JSON format, most-used first.
Languages can be excluded by name with --exclude.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		username, _ := cmd.Flags().GetString("user")
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

		langs, err := aggregator.TopLanguages(ctx, username, exclude)
		if err != nil {
			reportError(username, err)
		}

		jsonData, err := json.MarshalIndent(langs, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal results to JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(langsCmd)
	langsCmd.Flags().StringP("user", "u", "", "Target GitHub user name (required)")
	langsCmd.Flags().StringSlice("exclude", nil, "Language names to exclude (case-insensitive)")
	langsCmd.MarkFlagRequired("user")
}
