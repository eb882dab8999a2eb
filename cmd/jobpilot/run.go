package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run one daily scraping and application cycle",
	Long: `Crawls the search URL, scores discovered jobs against the user's profile,
generates applications for jobs above the application threshold, and sends due follow-ups.`,
	RunE: runOnceCmd,
}

var (
	runUserID    string
	runSearchURL string
	runMaxPages  int
	runThreshold float64
	runJSONLog   bool
	runDebug     bool
)

func init() {
	runCommand.Flags().StringVarP(&runUserID, "user", "u", "", "User UUID to run the pipeline for (required)")
	runCommand.Flags().StringVarP(&runSearchURL, "search-url", "s", "", "Job search start URL (required)")
	runCommand.Flags().IntVar(&runMaxPages, "max-pages", 5, "Maximum result pages to crawl")
	runCommand.Flags().Float64Var(&runThreshold, "threshold", 50, "Relevance threshold for reporting a job as relevant")
	runCommand.Flags().BoolVar(&runJSONLog, "json-log", false, "Emit JSON logs")
	runCommand.Flags().BoolVarP(&runDebug, "debug", "d", false, "Enable debug logging")
	_ = runCommand.MarkFlagRequired("user")
	_ = runCommand.MarkFlagRequired("search-url")

	rootCmd.AddCommand(runCommand)
}

func runOnceCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	userID, err := uuid.Parse(runUserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", runUserID, err)
	}

	a, err := newApp(ctx, runJSONLog, runDebug)
	if err != nil {
		return err
	}
	defer a.close()

	summary, err := a.runOnce(ctx, userID, runSearchURL, runMaxPages, runThreshold)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}
