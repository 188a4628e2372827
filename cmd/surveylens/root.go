package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "surveylens",
	Short: "Explore developer survey and rural investment data",
	Long: `SurveyLens loads the developer survey and rural investments CSV files
and answers cross-tabulation queries: which technologies respondents have
worked with, which they want to work with, and how those proportions vary
across demographic groups. Run "serve" for the HTTP API and explorer UI, or
use the one-shot subcommands for quick lookups.`,
}

// Execute is the entry point called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (defaults are built in)")
}
