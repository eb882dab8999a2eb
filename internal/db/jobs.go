package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobpilot/internal/types"
)

const jobColumns = `id, title, company_name, location, description, skills,
	to_char(publication_date, 'YYYY-MM-DD'), application_link,
	relevance_score, status, created_at, updated_at`

// SaveJob inserts a job keyed by its application link. A link already in
// the table is a no-op, not an error: the existing row's ID is returned
// and inserted is false. Re-saving the same listing any number of times
// leaves exactly one row.
func (db *DB) SaveJob(ctx context.Context, job *types.JobPosting) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, company_name, location, description, skills,
		                   publication_date, application_link, status)
		 VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8)
		 ON CONFLICT (application_link) DO NOTHING
		 RETURNING id`,
		job.Title, job.CompanyName, job.Location, job.Description, job.Skills,
		job.PublicationDate, job.ApplicationLink, types.StatusPending,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, fmt.Errorf("failed to save job: %w", err)
	}

	// Conflict: the listing has been seen before.
	err = db.pool.QueryRow(ctx,
		`SELECT id FROM jobs WHERE application_link = $1`,
		job.ApplicationLink,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to look up existing job: %w", err)
	}
	return id, false, nil
}

// GetJob retrieves a job by ID. Returns nil when the row does not exist.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*types.JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM jobs WHERE id = $1`, jobColumns), id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// UpdateJobScore writes a job's relevance score. A pending job advances to
// scored; a job further along keeps its status (scores are last-write-wins,
// statuses never regress). Rerunning is idempotent.
func (db *DB) UpdateJobScore(ctx context.Context, id uuid.UUID, score float64) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE jobs
		 SET relevance_score = $2,
		     status = CASE WHEN status = $3 THEN $4 ELSE status END,
		     updated_at = NOW()
		 WHERE id = $1`,
		id, score, types.StatusPending, types.StatusScored,
	)
	if err != nil {
		return fmt.Errorf("failed to update job score: %w", err)
	}
	return nil
}

// TransitionJobStatus advances a job to the given status, guarded by the
// lifecycle transition table: the UPDATE only applies when the current
// status is a legal predecessor. Returns whether the transition applied;
// an illegal transition is ignored, never an error.
func (db *DB) TransitionJobStatus(ctx context.Context, id uuid.UUID, to types.JobStatus) (bool, error) {
	sources := types.LegalSources(to)
	if len(sources) == 0 {
		return false, nil
	}
	from := make([]string, len(sources))
	for i, s := range sources {
		from[i] = string(s)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE jobs SET status = $2, updated_at = NOW()
		 WHERE id = $1 AND status = ANY($3)`,
		id, to, from,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update job status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UnscoredJobs returns jobs that have never received a meaningful
// relevance score (NULL or zero).
func (db *DB) UnscoredJobs(ctx context.Context) ([]*types.JobPosting, error) {
	rows, err := db.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM jobs
		 WHERE relevance_score IS NULL OR relevance_score = 0
		 ORDER BY created_at`, jobColumns),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unscored jobs: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

// JobsForApplication returns scored jobs at or above the application
// threshold that have not yet been applied to.
func (db *DB) JobsForApplication(ctx context.Context, threshold float64) ([]*types.JobPosting, error) {
	rows, err := db.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM jobs
		 WHERE relevance_score >= $1 AND status = $2
		 ORDER BY relevance_score DESC`, jobColumns),
		threshold, types.StatusScored,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs for application: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func scanJobs(rows pgx.Rows) ([]*types.JobPosting, error) {
	var jobs []*types.JobPosting
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func scanJob(row pgx.Row) (*types.JobPosting, error) {
	var j types.JobPosting
	err := row.Scan(&j.ID, &j.Title, &j.CompanyName, &j.Location, &j.Description,
		&j.Skills, &j.PublicationDate, &j.ApplicationLink,
		&j.RelevanceScore, &j.Status, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}
