package types

import (
	"time"

	"github.com/google/uuid"
)

// Application lifecycle status constants.
const (
	ApplicationSent       = "sent"
	ApplicationFollowedUp = "followed_up"
)

// ApplicationRecord tracks one generated application. The (JobID, UserID)
// pair is unique: at most one application per job per user, enforced by
// the storage layer across repeated runs.
type ApplicationRecord struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	UserID      uuid.UUID `json:"user_id"`
	AppliedOn   time.Time `json:"applied_on"` // calendar date of submission
	CoverLetter string    `json:"cover_letter,omitempty"`
	CVLink      string    `json:"cv_link,omitempty"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
}

// RunSummary is the aggregate produced by every orchestration run,
// regardless of partial failures along the way. It is ephemeral and
// never persisted.
type RunSummary struct {
	UserID                uuid.UUID `json:"user_id"`
	SearchURL             string    `json:"search_url"`
	JobsScraped           int       `json:"jobs_scraped"`
	JobsFiltered          int       `json:"jobs_filtered"`
	RelevantJobsFound     int       `json:"relevant_jobs_found"`
	JobsScoredInBatch     int       `json:"jobs_scored_in_batch"`
	RelevanceThreshold    float64   `json:"relevance_threshold"`
	ApplicationsGenerated int       `json:"applications_generated"`
	FollowUpsSent         int       `json:"follow_ups_sent"`
	ReportSent            bool      `json:"daily_report_sent"`
}
