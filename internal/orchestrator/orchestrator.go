// Package orchestrator drives each discovered job through the
// scoring → application → follow-up lifecycle for one user. It is the sole
// entry point the pipeline exposes to callers.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/jobpilot/internal/filter"
	"github.com/jonathan/jobpilot/internal/followup"
	"github.com/jonathan/jobpilot/internal/letter"
	"github.com/jonathan/jobpilot/internal/mailer"
	"github.com/jonathan/jobpilot/internal/scoring"
	"github.com/jonathan/jobpilot/internal/types"
)

// DefaultApplicationOffset is the gap between the reporting threshold and
// the stricter threshold required to actually generate an application.
const DefaultApplicationOffset = 10.0

// Store is the persistence surface a run needs. *db.DB satisfies it.
type Store interface {
	followup.Store

	SaveJob(ctx context.Context, job *types.JobPosting) (uuid.UUID, bool, error)
	UpdateJobScore(ctx context.Context, id uuid.UUID, score float64) error
	UnscoredJobs(ctx context.Context) ([]*types.JobPosting, error)
	JobsForApplication(ctx context.Context, threshold float64) ([]*types.JobPosting, error)
	HasApplication(ctx context.Context, jobID, userID uuid.UUID) (bool, error)
	SaveApplication(ctx context.Context, rec *types.ApplicationRecord) (uuid.UUID, bool, error)
}

// Crawler produces raw job records from a search URL.
type Crawler interface {
	Run(ctx context.Context, searchURL string, maxPages int) []*types.JobPosting
}

// FollowUpSender runs the follow-up pass.
type FollowUpSender interface {
	SendFollowUps(ctx context.Context, windowDays int) (int, error)
}

// Options configures optional collaborators and thresholds. Letters, Mail,
// and FollowUps may each be nil; the corresponding phase is skipped and
// counted as zero in the summary.
type Options struct {
	Letters           letter.Generator
	Mail              mailer.Mailer
	FollowUps         FollowUpSender
	Log               *zap.Logger
	ApplicationOffset float64
	FollowUpDays      int
	ReportRecipient   string
}

// Orchestrator coordinates one user's daily pipeline run.
type Orchestrator struct {
	store Store
	crawl Crawler
	opts  Options
	log   *zap.Logger
	nowFn func() time.Time
}

// New creates an Orchestrator.
func New(store Store, crawl Crawler, opts Options) *Orchestrator {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.ApplicationOffset <= 0 {
		opts.ApplicationOffset = DefaultApplicationOffset
	}
	if opts.FollowUpDays <= 0 {
		opts.FollowUpDays = followup.DefaultWindowDays
	}
	return &Orchestrator{
		store: store,
		crawl: crawl,
		opts:  opts,
		log:   opts.Log,
		nowFn: time.Now,
	}
}

// RunDailyScraping crawls the search URL, scores and persists discovered
// jobs against the user's profile, generates applications for jobs above
// the application threshold, and dispatches due follow-ups.
//
// The run fails outright only for run-level problems (a missing user
// profile, a cancelled context). Any single job's failure is logged and
// skipped; the aggregate summary is produced regardless of partial
// failures along the way.
func (o *Orchestrator) RunDailyScraping(ctx context.Context, userID uuid.UUID, searchURL string, maxPages int, relevanceThreshold float64) (*types.RunSummary, error) {
	summary := &types.RunSummary{
		UserID:             userID,
		SearchURL:          searchURL,
		RelevanceThreshold: relevanceThreshold,
	}

	profile, err := o.store.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("user profile %s not found", userID)
	}

	o.log.Info("starting daily scraping",
		zap.String("user_id", userID.String()),
		zap.String("search_url", searchURL),
		zap.Int("max_pages", maxPages))

	raw := o.crawl.Run(ctx, searchURL, maxPages)
	summary.JobsScraped = len(raw)

	matched := filter.Apply(raw, profile.Criteria)
	summary.JobsFiltered = len(matched)
	o.log.Info("filtered scraped jobs",
		zap.Int("scraped", summary.JobsScraped),
		zap.Int("matched", summary.JobsFiltered))

	summary.RelevantJobsFound = o.scoreAndSave(ctx, matched, profile, relevanceThreshold)
	summary.JobsScoredInBatch = o.scoreUnscored(ctx, profile)

	if o.opts.Letters != nil {
		summary.ApplicationsGenerated = o.generateApplications(ctx, profile, relevanceThreshold+o.opts.ApplicationOffset)
	} else {
		o.log.Info("cover letter generation not configured, skipping applications")
	}

	if o.opts.FollowUps != nil {
		sent, err := o.opts.FollowUps.SendFollowUps(ctx, o.opts.FollowUpDays)
		if err != nil {
			o.log.Warn("follow-up pass failed", zap.Error(err))
		}
		summary.FollowUpsSent = sent
	}

	summary.ReportSent = o.sendReport(summary)

	o.log.Info("daily scraping completed",
		zap.Int("scraped", summary.JobsScraped),
		zap.Int("relevant", summary.RelevantJobsFound),
		zap.Int("applications", summary.ApplicationsGenerated),
		zap.Int("follow_ups", summary.FollowUpsSent))
	return summary, nil
}

// scoreAndSave persists each filtered job with its relevance score.
// Duplicate discoveries of the same application link reuse the existing
// row; a rescore simply overwrites. Returns how many jobs met the
// reporting threshold.
func (o *Orchestrator) scoreAndSave(ctx context.Context, jobs []*types.JobPosting, profile *types.UserProfile, threshold float64) int {
	relevant := 0
	for _, job := range jobs {
		if ctx.Err() != nil {
			return relevant
		}

		score := scoring.Score(job.Description, profile.ProfileText)
		job.RelevanceScore = &score

		id, inserted, err := o.store.SaveJob(ctx, job)
		if err != nil {
			o.log.Warn("failed to save job, skipping",
				zap.String("link", job.ApplicationLink), zap.Error(err))
			continue
		}
		job.ID = id
		if !inserted {
			o.log.Debug("job already known", zap.String("link", job.ApplicationLink))
		}

		if err := o.store.UpdateJobScore(ctx, id, score); err != nil {
			o.log.Warn("failed to write relevance score",
				zap.String("job_id", id.String()), zap.Error(err))
			continue
		}

		if score >= threshold {
			relevant++
		}
		o.log.Debug("job scored",
			zap.String("title", job.Title),
			zap.String("company", job.CompanyName),
			zap.Float64("score", score))
	}
	return relevant
}

// scoreUnscored scores jobs left unscored by earlier runs. Jobs with no
// description cannot be scored and are skipped.
func (o *Orchestrator) scoreUnscored(ctx context.Context, profile *types.UserProfile) int {
	if profile.ProfileText == "" {
		o.log.Warn("user profile text is empty, skipping backlog scoring")
		return 0
	}

	unscored, err := o.store.UnscoredJobs(ctx)
	if err != nil {
		o.log.Warn("failed to list unscored jobs", zap.Error(err))
		return 0
	}

	scored := 0
	for _, job := range unscored {
		if ctx.Err() != nil {
			return scored
		}
		if job.Description == "" {
			o.log.Debug("job has no description, cannot score",
				zap.String("job_id", job.ID.String()))
			continue
		}

		score := scoring.Score(job.Description, profile.ProfileText)
		if err := o.store.UpdateJobScore(ctx, job.ID, score); err != nil {
			o.log.Warn("failed to write relevance score",
				zap.String("job_id", job.ID.String()), zap.Error(err))
			continue
		}
		scored++
	}
	return scored
}

// generateApplications creates one application per eligible job: score at
// or above the application threshold and no existing record for this
// (job, user) pair. Generation failure leaves the job scored so a later
// run retries it.
func (o *Orchestrator) generateApplications(ctx context.Context, profile *types.UserProfile, applicationThreshold float64) int {
	candidates, err := o.store.JobsForApplication(ctx, applicationThreshold)
	if err != nil {
		o.log.Warn("failed to list jobs for application", zap.Error(err))
		return 0
	}
	if len(candidates) == 0 {
		o.log.Info("no jobs meet the application threshold",
			zap.Float64("threshold", applicationThreshold))
		return 0
	}

	generated := 0
	for _, job := range candidates {
		if ctx.Err() != nil {
			return generated
		}
		if err := o.applyToJob(ctx, job, profile); err != nil {
			o.log.Warn("application skipped",
				zap.String("job_id", job.ID.String()),
				zap.String("title", job.Title),
				zap.Error(err))
			continue
		}
		generated++
	}
	return generated
}

func (o *Orchestrator) applyToJob(ctx context.Context, job *types.JobPosting, profile *types.UserProfile) error {
	exists, err := o.store.HasApplication(ctx, job.ID, profile.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("application already exists")
	}

	coverLetter, err := o.opts.Letters.Generate(ctx, job, profile)
	if err != nil {
		// Job stays scored; a later run retries generation.
		return fmt.Errorf("cover letter generation failed: %w", err)
	}

	rec := &types.ApplicationRecord{
		JobID:       job.ID,
		UserID:      profile.ID,
		AppliedOn:   o.nowFn(),
		CoverLetter: coverLetter,
		Status:      types.ApplicationSent,
	}
	id, inserted, err := o.store.SaveApplication(ctx, rec)
	if err != nil {
		return err
	}
	if !inserted {
		return fmt.Errorf("application already exists")
	}

	if _, err := o.store.TransitionJobStatus(ctx, job.ID, types.StatusApplied); err != nil {
		o.log.Warn("application saved but job status write failed",
			zap.String("job_id", job.ID.String()), zap.Error(err))
	}

	o.log.Info("application generated",
		zap.String("job_id", job.ID.String()),
		zap.String("application_id", id.String()),
		zap.String("title", job.Title),
		zap.String("company", job.CompanyName))
	return nil
}

// sendReport emails the run summary to the configured recipient. A report
// failure never fails the run.
func (o *Orchestrator) sendReport(summary *types.RunSummary) bool {
	if o.opts.Mail == nil || o.opts.ReportRecipient == "" {
		return false
	}

	subject := fmt.Sprintf("Daily Job Application Report - User %s", summary.UserID)
	if err := o.opts.Mail.Send(o.opts.ReportRecipient, subject, FormatReport(summary), ""); err != nil {
		o.log.Warn("failed to send daily report", zap.Error(err))
		return false
	}
	return true
}

// FormatReport renders the run summary as the daily report email body.
func FormatReport(s *types.RunSummary) string {
	return fmt.Sprintf(
		"Daily Job Application Report for User %s:\n\n"+
			"Jobs Scraped: %d\n"+
			"Jobs Filtered: %d\n"+
			"Relevant Jobs Found (score >= %.0f): %d\n"+
			"Jobs Scored in Batch: %d\n"+
			"Applications Generated: %d\n"+
			"Follow-up Emails Sent: %d\n\n"+
			"Search URL: %s",
		s.UserID, s.JobsScraped, s.JobsFiltered, s.RelevanceThreshold,
		s.RelevantJobsFound, s.JobsScoredInBatch, s.ApplicationsGenerated,
		s.FollowUpsSent, s.SearchURL)
}
