package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/surveylens/surveylens/internal/api"
	"github.com/surveylens/surveylens/internal/config"
	"github.com/surveylens/surveylens/internal/engine"
	"github.com/surveylens/surveylens/internal/ingest"
	"github.com/surveylens/surveylens/internal/investments"
	"github.com/surveylens/surveylens/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the data files and serve the API and explorer UI",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	log.Printf("Loading survey data from %s...", cfg.SurveyCSV)
	surveyDS, err := ingest.LoadSurvey(cfg.SurveyCSV, ingest.SurveyOptions{
		Groups: cfg.Groups,
		Remaps: cfg.Remaps,
	})
	if err != nil {
		return fmt.Errorf("loading survey data: %w", err)
	}
	log.Printf("Loaded %d survey responses, %d categories", surveyDS.Len(), len(surveyDS.Categories()))

	var invService *investments.Service
	if cfg.InvestmentsCSV != "" {
		log.Printf("Loading investment data from %s...", cfg.InvestmentsCSV)
		invDS, err := ingest.LoadInvestments(cfg.InvestmentsCSV)
		if err != nil {
			// The survey routes still work without the investments file.
			log.Printf("Investment data unavailable: %v", err)
		} else {
			log.Printf("Loaded %d investment records", invDS.Len())
			invService = investments.NewService(invDS)
		}
	}

	store, err := storage.New(cmd.Context(), cfg.StorageConfigFor())
	if err != nil {
		return fmt.Errorf("creating result cache: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing result cache: %v", err)
		}
	}()

	server := api.NewServer(cfg.Listen, engine.New(surveyDS), invService, store)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting API server on %s", cfg.Listen)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Printf("Received signal: %v, shutting down...", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	log.Println("Shutdown complete")
	return nil
}
