package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobpilot/internal/types"
)

// SaveApplication records a generated application. At most one application
// exists per (job, user) pair: a duplicate insert is a no-op that returns
// the existing record's ID with inserted false, so repeated orchestration
// runs never double-apply.
func (db *DB) SaveApplication(ctx context.Context, rec *types.ApplicationRecord) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications (job_id, user_id, applied_on, cover_letter, cv_link, status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (job_id, user_id) DO NOTHING
		 RETURNING id`,
		rec.JobID, rec.UserID, rec.AppliedOn, rec.CoverLetter,
		nullIfEmpty(rec.CVLink), rec.Status, nullIfEmpty(rec.Notes),
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, fmt.Errorf("failed to save application: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`SELECT id FROM applications WHERE job_id = $1 AND user_id = $2`,
		rec.JobID, rec.UserID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to look up existing application: %w", err)
	}
	return id, false, nil
}

// HasApplication reports whether a (job, user) application already exists.
func (db *DB) HasApplication(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND user_id = $2)`,
		jobID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for application: %w", err)
	}
	return exists, nil
}

// ApplicationsForFollowUp returns sent applications whose submission date
// is at or before the cutoff. Records already followed up are never
// re-selected.
func (db *DB) ApplicationsForFollowUp(ctx context.Context, cutoff time.Time) ([]*types.ApplicationRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_id, user_id, applied_on, cover_letter,
		        COALESCE(cv_link, ''), status, COALESCE(notes, '')
		 FROM applications
		 WHERE status = $1 AND applied_on <= $2
		 ORDER BY applied_on`,
		types.ApplicationSent, cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications for follow-up: %w", err)
	}
	defer rows.Close()

	var recs []*types.ApplicationRecord
	for rows.Next() {
		var r types.ApplicationRecord
		if err := rows.Scan(&r.ID, &r.JobID, &r.UserID, &r.AppliedOn,
			&r.CoverLetter, &r.CVLink, &r.Status, &r.Notes); err != nil {
			return nil, err
		}
		recs = append(recs, &r)
	}
	return recs, rows.Err()
}

// UpdateApplicationStatus writes an application's lifecycle status.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE applications SET status = $2 WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
