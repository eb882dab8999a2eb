package types

import "github.com/google/uuid"

// PreferredCriteria holds a user's hard filters for discovered jobs.
// Empty slices/fields mean "no preference" and match everything.
type PreferredCriteria struct {
	LocationPreferences []string `json:"location_preferences,omitempty"`
	JobDuration         string   `json:"job_duration,omitempty"`
	TechnologyKeywords  []string `json:"technologies_keywords,omitempty"`
	PreferredLanguages  []string `json:"preferred_languages,omitempty"`
}

// UserProfile is the read-only view of a user this pipeline consumes.
// The user row itself is owned by an external service.
type UserProfile struct {
	ID            uuid.UUID         `json:"id"`
	Email         string            `json:"email"`
	Name          string            `json:"name,omitempty"`
	Phone         string            `json:"phone,omitempty"`
	Criteria      PreferredCriteria `json:"preferred_criteria"`
	ProfileText   string            `json:"profile_text"`
	Summary       string            `json:"summary,omitempty"`
	Skills        []string          `json:"skills,omitempty"`
	LinkedInLink  string            `json:"linkedin_link,omitempty"`
	GitHubLink    string            `json:"github_link,omitempty"`
	PortfolioLink string            `json:"portfolio_link,omitempty"`
}
