// Package followup re-selects applied-but-unanswered applications after a
// time window and dispatches follow-up email for each.
package followup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/jobpilot/internal/mailer"
	"github.com/jonathan/jobpilot/internal/types"
)

// DefaultWindowDays is the minimum application age before a follow-up.
const DefaultWindowDays = 7

// Store is the persistence surface the follow-up pass needs.
type Store interface {
	ApplicationsForFollowUp(ctx context.Context, cutoff time.Time) ([]*types.ApplicationRecord, error)
	GetJob(ctx context.Context, id uuid.UUID) (*types.JobPosting, error)
	GetUserProfile(ctx context.Context, id uuid.UUID) (*types.UserProfile, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string) error
	TransitionJobStatus(ctx context.Context, id uuid.UUID, to types.JobStatus) (bool, error)
}

// Manager runs the time-windowed follow-up selection and dispatch.
type Manager struct {
	store Store
	mail  mailer.Mailer
	log   *zap.Logger
	nowFn func() time.Time
}

// New creates a Manager.
func New(store Store, mail mailer.Mailer, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, mail: mail, log: log, nowFn: time.Now}
}

// SendFollowUps selects every application with status "sent" submitted at
// least windowDays ago and dispatches a follow-up for each. Dispatch
// success advances the record (and its job) to followed_up; failure
// leaves it untouched so a later run re-selects it. Delivery is therefore
// at-least-once: a send that succeeds just before a failed status write
// may repeat, which is accepted and logged.
//
// Any single record's failure is logged and skipped; the pass always
// processes the whole batch. The returned count is successful dispatches.
func (m *Manager) SendFollowUps(ctx context.Context, windowDays int) (int, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	cutoff := m.nowFn().AddDate(0, 0, -windowDays)

	apps, err := m.store.ApplicationsForFollowUp(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to select applications for follow-up: %w", err)
	}
	if len(apps) == 0 {
		m.log.Info("no applications due for follow-up")
		return 0, nil
	}
	m.log.Info("applications due for follow-up", zap.Int("count", len(apps)))

	sent := 0
	for _, app := range apps {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := m.followUpOne(ctx, app); err != nil {
			m.log.Warn("follow-up skipped",
				zap.String("application_id", app.ID.String()), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

func (m *Manager) followUpOne(ctx context.Context, app *types.ApplicationRecord) error {
	job, err := m.store.GetJob(ctx, app.JobID)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job %s no longer exists", app.JobID)
	}

	profile, err := m.store.GetUserProfile(ctx, app.UserID)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("user %s no longer exists", app.UserID)
	}

	subject, body := ComposeMessage(job, profile, app)
	if err := m.mail.Send(profile.Email, subject, body, ""); err != nil {
		return err
	}

	// Past this point the email is out; status write failures mean the
	// record may be followed up again on a later run.
	if err := m.store.UpdateApplicationStatus(ctx, app.ID, types.ApplicationFollowedUp); err != nil {
		m.log.Warn("follow-up sent but status write failed, may re-send",
			zap.String("application_id", app.ID.String()), zap.Error(err))
		return nil
	}
	if _, err := m.store.TransitionJobStatus(ctx, app.JobID, types.StatusFollowedUp); err != nil {
		m.log.Warn("failed to advance job status after follow-up",
			zap.String("job_id", app.JobID.String()), zap.Error(err))
	}

	m.log.Info("follow-up sent",
		zap.String("application_id", app.ID.String()),
		zap.String("job", job.Title),
		zap.String("company", job.CompanyName))
	return nil
}

// ComposeMessage builds the follow-up subject and body for an application.
func ComposeMessage(job *types.JobPosting, profile *types.UserProfile, app *types.ApplicationRecord) (subject, body string) {
	subject = fmt.Sprintf("Following up on my application for %s at %s", job.Title, job.CompanyName)

	signature := profile.Name
	if signature == "" {
		signature = profile.Email
	}

	body = fmt.Sprintf(
		"Dear Hiring Manager,\n\n"+
			"I hope this email finds you well. I am writing to follow up on my application for the "+
			"%s position at %s, which I submitted on %s.\n\n"+
			"I remain very interested in this opportunity and believe my skills and experience "+
			"align well with the requirements of this role.\n\n"+
			"Thank you for your time and consideration. I look forward to hearing from you soon.\n\n"+
			"Sincerely,\n%s",
		job.Title, job.CompanyName, app.AppliedOn.Format("2006-01-02"), signature)
	return subject, body
}
