// Mailscrub is a Telegram bot that extracts email addresses from pasted
// text and uploaded files, and replies with a deduplicated one-per-line
// list plus a summary of what was found.
//
// Configuration is loaded from an optional YAML file plus environment
// variables. See internal/config for details.
//
// Usage:
//
//	# Run the bot
//	TELEGRAM_TOKEN=123:abc mailscrub serve
//
//	# Clean a file offline, no bot involved
//	mailscrub clean leads.csv
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// configPath is the optional YAML config file, shared by all commands.
var configPath string

var rootCmd = &cobra.Command{
	Use:     "mailscrub",
	Short:   "Telegram bot that cleans email lists",
	Version: version,
	Long: `mailscrub extracts email addresses from pasted text and uploaded
txt, CSV, TSV and xlsx files, deduplicates them, and returns a cleaned
one-per-line list.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mailscrub by Fernweh Labs\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}
