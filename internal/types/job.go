// Package types provides type definitions for structured data used throughout the jobpilot system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a discovered job posting.
type JobStatus string

// Lifecycle states, in order. A job only ever moves forward.
const (
	StatusPending    JobStatus = "pending"
	StatusScored     JobStatus = "scored"
	StatusApplied    JobStatus = "applied"
	StatusFollowedUp JobStatus = "followed_up"
)

// transitions is the explicit state machine: for each target state,
// the set of states it may legally be reached from.
var transitions = map[JobStatus][]JobStatus{
	StatusScored:     {StatusPending, StatusScored},
	StatusApplied:    {StatusScored},
	StatusFollowedUp: {StatusApplied},
}

// CanTransition reports whether moving from one status to another is legal.
// Re-scoring an already scored job is allowed (score overwrites are idempotent);
// every other transition is strictly forward.
func CanTransition(from, to JobStatus) bool {
	for _, legal := range transitions[to] {
		if legal == from {
			return true
		}
	}
	return false
}

// LegalSources returns the set of statuses a job may hold immediately
// before entering the given status. Used to guard status writes in SQL.
func LegalSources(to JobStatus) []JobStatus {
	return transitions[to]
}

// IsTerminal reports whether a status has no outgoing transitions.
func (s JobStatus) IsTerminal() bool {
	return s == StatusFollowedUp
}

// JobPosting represents a job discovered on an external site.
// The application link is the external identity: two crawls that find the
// same link refer to the same job.
type JobPosting struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	CompanyName     string    `json:"company_name"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	Skills          []string  `json:"skills,omitempty"`
	PublicationDate *string   `json:"publication_date,omitempty"` // ISO calendar date (2006-01-02)
	ApplicationLink string    `json:"application_link"`
	RelevanceScore  *float64  `json:"relevance_score,omitempty"` // 0-100 when set
	Status          JobStatus `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Scored reports whether the job carries a relevance score.
func (j *JobPosting) Scored() bool {
	return j.RelevanceScore != nil
}
