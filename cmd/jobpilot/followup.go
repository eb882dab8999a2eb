package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobpilot/internal/followup"
)

var followupCommand = &cobra.Command{
	Use:   "followup",
	Short: "Send follow-up email for applications past the follow-up window",
	RunE:  runFollowupCmd,
}

var (
	followupDays    int
	followupJSONLog bool
	followupDebug   bool
)

func init() {
	followupCommand.Flags().IntVar(&followupDays, "days", 0, "Minimum days since application (defaults to FOLLOW_UP_DAYS)")
	followupCommand.Flags().BoolVar(&followupJSONLog, "json-log", false, "Emit JSON logs")
	followupCommand.Flags().BoolVarP(&followupDebug, "debug", "d", false, "Enable debug logging")

	rootCmd.AddCommand(followupCommand)
}

func runFollowupCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	a, err := newApp(ctx, followupJSONLog, followupDebug)
	if err != nil {
		return err
	}
	defer a.close()

	if a.mail == nil {
		return fmt.Errorf("email transport is not configured (set SMTP_SERVER and SENDER_EMAIL)")
	}

	days := followupDays
	if days <= 0 {
		days = a.cfg.FollowUpDays
	}

	manager := followup.New(a.store, a.mail, a.log)
	sent, err := manager.SendFollowUps(ctx, days)
	if err != nil {
		return err
	}

	cmd.Printf("Sent %d follow-up emails.\n", sent)
	return nil
}
