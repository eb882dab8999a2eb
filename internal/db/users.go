package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobpilot/internal/types"
)

// GetUserProfile fetches the read-only profile view for a user. Returns
// nil when the user does not exist; callers treat that as a run-level
// configuration problem, not a per-job skip.
func (db *DB) GetUserProfile(ctx context.Context, id uuid.UUID) (*types.UserProfile, error) {
	var p types.UserProfile
	var criteriaJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, email, COALESCE(name, ''), COALESCE(phone, ''),
		        preferred_criteria, COALESCE(profile_text, ''),
		        COALESCE(summary, ''), skills,
		        COALESCE(linkedin_link, ''), COALESCE(github_link, ''),
		        COALESCE(portfolio_link, '')
		 FROM users WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Email, &p.Name, &p.Phone, &criteriaJSON, &p.ProfileText,
		&p.Summary, &p.Skills, &p.LinkedInLink, &p.GitHubLink, &p.PortfolioLink)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	if criteriaJSON != nil {
		_ = json.Unmarshal(criteriaJSON, &p.Criteria)
	}

	return &p, nil
}
