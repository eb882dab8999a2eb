package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scheduleCommand = &cobra.Command{
	Use:   "schedule",
	Short: "Run the daily cycle on a fixed interval until interrupted",
	RunE:  runScheduleCmd,
}

var (
	scheduleEvery     time.Duration
	scheduleUserID    string
	scheduleSearchURL string
	scheduleMaxPages  int
	scheduleThreshold float64
	scheduleJSONLog   bool
	scheduleDebug     bool
)

func init() {
	scheduleCommand.Flags().DurationVar(&scheduleEvery, "every", 24*time.Hour, "Interval between runs")
	scheduleCommand.Flags().StringVarP(&scheduleUserID, "user", "u", "", "User UUID to run the pipeline for (required)")
	scheduleCommand.Flags().StringVarP(&scheduleSearchURL, "search-url", "s", "", "Job search start URL (required)")
	scheduleCommand.Flags().IntVar(&scheduleMaxPages, "max-pages", 5, "Maximum result pages to crawl")
	scheduleCommand.Flags().Float64Var(&scheduleThreshold, "threshold", 50, "Relevance threshold for reporting a job as relevant")
	scheduleCommand.Flags().BoolVar(&scheduleJSONLog, "json-log", true, "Emit JSON logs")
	scheduleCommand.Flags().BoolVarP(&scheduleDebug, "debug", "d", false, "Enable debug logging")
	_ = scheduleCommand.MarkFlagRequired("user")
	_ = scheduleCommand.MarkFlagRequired("search-url")

	rootCmd.AddCommand(scheduleCommand)
}

func runScheduleCmd(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userID, err := uuid.Parse(scheduleUserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", scheduleUserID, err)
	}

	a, err := newApp(ctx, scheduleJSONLog, scheduleDebug)
	if err != nil {
		return err
	}
	defer a.close()

	runScrape := func() {
		summary, err := a.runOnce(ctx, userID, scheduleSearchURL, scheduleMaxPages, scheduleThreshold)
		if err != nil {
			a.log.Error("scheduled run failed", zap.Error(err))
			return
		}
		a.log.Info("scheduled run completed",
			zap.Int("scraped", summary.JobsScraped),
			zap.Int("applications", summary.ApplicationsGenerated))
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", scheduleEvery), runScrape); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	c.Start()
	defer c.Stop()
	a.log.Info("scheduler started", zap.Duration("every", scheduleEvery))

	// Run immediately so the first cycle does not wait a full interval.
	go runScrape()

	<-ctx.Done()
	a.log.Info("scheduler stopping")
	return nil
}
