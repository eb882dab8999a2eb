// Package main provides the jobpilot CLI: automated job discovery,
// relevance scoring, application generation, and follow-up.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobpilot",
	Short: "Automated job application pipeline",
	Long:  "jobpilot discovers job postings on third-party sites, scores them against a user profile, and drives them through an application and follow-up lifecycle.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
