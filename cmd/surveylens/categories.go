package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/surveylens/surveylens/internal/config"
	"github.com/surveylens/surveylens/internal/engine"
	"github.com/surveylens/surveylens/internal/ingest"
)

var categoriesShowTokens bool

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the have/want category pairs in the survey file",
	RunE:  runCategories,
}

func init() {
	categoriesCmd.Flags().BoolVar(&categoriesShowTokens, "tokens", false, "also list each category's token vocabulary")
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	eng, err := loadEngine()
	if err != nil {
		return err
	}

	for _, cat := range eng.Categories() {
		fmt.Println(cat.Name)
		if !categoriesShowTokens {
			continue
		}
		tokens, err := eng.Tokens(cat.Name)
		if err != nil {
			return err
		}
		for _, tok := range tokens {
			fmt.Printf("  %s\n", tok)
		}
	}
	return nil
}

// loadEngine reads the configured survey file into a fresh engine for the
// one-shot subcommands.
func loadEngine() (*engine.Engine, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	ds, err := ingest.LoadSurvey(cfg.SurveyCSV, ingest.SurveyOptions{
		Groups: cfg.Groups,
		Remaps: cfg.Remaps,
	})
	if err != nil {
		return nil, fmt.Errorf("loading survey data: %w", err)
	}
	return engine.New(ds), nil
}
