package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobpilot/internal/types"
)

// memStore is an in-memory Store with the same conflict and transition
// semantics as the SQL layer.
type memStore struct {
	profiles   map[uuid.UUID]*types.UserProfile
	jobsByLink map[string]*types.JobPosting
	jobsByID   map[uuid.UUID]*types.JobPosting
	apps       map[string]*types.ApplicationRecord // jobID|userID

	saveJobErr error
}

func newMemStore() *memStore {
	return &memStore{
		profiles:   map[uuid.UUID]*types.UserProfile{},
		jobsByLink: map[string]*types.JobPosting{},
		jobsByID:   map[uuid.UUID]*types.JobPosting{},
		apps:       map[string]*types.ApplicationRecord{},
	}
}

func appKey(jobID, userID uuid.UUID) string {
	return jobID.String() + "|" + userID.String()
}

func (s *memStore) GetUserProfile(_ context.Context, id uuid.UUID) (*types.UserProfile, error) {
	return s.profiles[id], nil
}

func (s *memStore) SaveJob(_ context.Context, job *types.JobPosting) (uuid.UUID, bool, error) {
	if s.saveJobErr != nil {
		return uuid.Nil, false, s.saveJobErr
	}
	if existing, ok := s.jobsByLink[job.ApplicationLink]; ok {
		return existing.ID, false, nil
	}
	stored := *job
	stored.ID = uuid.New()
	stored.Status = types.StatusPending
	stored.RelevanceScore = nil
	s.jobsByLink[stored.ApplicationLink] = &stored
	s.jobsByID[stored.ID] = &stored
	return stored.ID, true, nil
}

func (s *memStore) GetJob(_ context.Context, id uuid.UUID) (*types.JobPosting, error) {
	return s.jobsByID[id], nil
}

func (s *memStore) UpdateJobScore(_ context.Context, id uuid.UUID, score float64) error {
	job, ok := s.jobsByID[id]
	if !ok {
		return errors.New("no such job")
	}
	job.RelevanceScore = &score
	if job.Status == types.StatusPending {
		job.Status = types.StatusScored
	}
	return nil
}

func (s *memStore) TransitionJobStatus(_ context.Context, id uuid.UUID, to types.JobStatus) (bool, error) {
	job, ok := s.jobsByID[id]
	if !ok || !types.CanTransition(job.Status, to) {
		return false, nil
	}
	job.Status = to
	return true, nil
}

func (s *memStore) UnscoredJobs(context.Context) ([]*types.JobPosting, error) {
	var jobs []*types.JobPosting
	for _, job := range s.jobsByID {
		if job.RelevanceScore == nil || *job.RelevanceScore == 0 {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (s *memStore) JobsForApplication(_ context.Context, threshold float64) ([]*types.JobPosting, error) {
	var jobs []*types.JobPosting
	for _, job := range s.jobsByID {
		if job.Status == types.StatusScored && job.RelevanceScore != nil && *job.RelevanceScore >= threshold {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (s *memStore) HasApplication(_ context.Context, jobID, userID uuid.UUID) (bool, error) {
	_, ok := s.apps[appKey(jobID, userID)]
	return ok, nil
}

func (s *memStore) SaveApplication(_ context.Context, rec *types.ApplicationRecord) (uuid.UUID, bool, error) {
	key := appKey(rec.JobID, rec.UserID)
	if existing, ok := s.apps[key]; ok {
		return existing.ID, false, nil
	}
	stored := *rec
	stored.ID = uuid.New()
	s.apps[key] = &stored
	return stored.ID, true, nil
}

func (s *memStore) ApplicationsForFollowUp(_ context.Context, cutoff time.Time) ([]*types.ApplicationRecord, error) {
	var due []*types.ApplicationRecord
	for _, app := range s.apps {
		if app.Status == types.ApplicationSent && !app.AppliedOn.After(cutoff) {
			due = append(due, app)
		}
	}
	return due, nil
}

func (s *memStore) UpdateApplicationStatus(_ context.Context, id uuid.UUID, status string) error {
	for _, app := range s.apps {
		if app.ID == id {
			app.Status = status
			return nil
		}
	}
	return errors.New("no such application")
}

type fakeCrawler struct {
	jobs []*types.JobPosting
}

func (c *fakeCrawler) Run(context.Context, string, int) []*types.JobPosting {
	return c.jobs
}

type fakeGenerator struct {
	err   error
	calls int
}

func (g *fakeGenerator) Generate(_ context.Context, job *types.JobPosting, _ *types.UserProfile) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return "Dear Hiring Manager at " + job.CompanyName, nil
}

type fakeMailer struct {
	subjects []string
	bodies   []string
	sendErr  error
}

func (m *fakeMailer) Send(_, subject, body, _ string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, body)
	return nil
}

type fakeFollowUps struct {
	sent int
	err  error
}

func (f *fakeFollowUps) SendFollowUps(context.Context, int) (int, error) {
	return f.sent, f.err
}

const profileText = `Experienced Python engineer with strong Django and AWS
background building backend services and data pipelines.`

func seedProfile(s *memStore) *types.UserProfile {
	p := &types.UserProfile{
		ID:          uuid.New(),
		Email:       "jane@example.com",
		Name:        "Jane Doe",
		ProfileText: profileText,
	}
	s.profiles[p.ID] = p
	return p
}

// crawledJob builds a raw posting whose description controls its score
// relative to profileText: identical text scores 100, disjoint text 0.
func crawledJob(link, description string) *types.JobPosting {
	return &types.JobPosting{
		Title:           "Role " + link,
		CompanyName:     "Acme Corp",
		Description:     description,
		ApplicationLink: link,
		Status:          types.StatusPending,
	}
}

func exampleBatch() []*types.JobPosting {
	jobs := []*types.JobPosting{
		// Scores 100: identical to the profile text.
		crawledJob("https://b.example.com/jobs/exact", profileText),
		// Materially similar: shares most vocabulary with the profile.
		crawledJob("https://b.example.com/jobs/close-1",
			"Seeking an experienced Python engineer with Django and AWS background"),
		crawledJob("https://b.example.com/jobs/close-2",
			"Python engineer for backend services and data pipelines on AWS"),
	}
	// Seven unrelated postings scoring 0.
	for i := 0; i < 7; i++ {
		jobs = append(jobs, crawledJob(
			fmt.Sprintf("https://b.example.com/jobs/noise-%d", i),
			"Barista wanted for busy downtown cafe, latte art appreciated"))
	}
	return jobs
}

func TestRunDailyScraping_ExampleBatch(t *testing.T) {
	store := newMemStore()
	profile := seedProfile(store)
	gen := &fakeGenerator{}

	o := New(store, &fakeCrawler{jobs: exampleBatch()}, Options{
		Letters:           gen,
		ApplicationOffset: 50,
	})

	summary, err := o.RunDailyScraping(context.Background(), profile.ID, "https://b.example.com/search", 5, 20)
	require.NoError(t, err)

	// 10 scraped, 3 above the reporting threshold, and with the stricter
	// application threshold (20+50) only the exact match gets an application.
	assert.Equal(t, 10, summary.JobsScraped)
	assert.Equal(t, 10, summary.JobsFiltered)
	assert.Equal(t, 3, summary.RelevantJobsFound)
	assert.Equal(t, 1, summary.ApplicationsGenerated)
	assert.Equal(t, 1, gen.calls)
	assert.Len(t, store.apps, 1)

	exact := store.jobsByLink["https://b.example.com/jobs/exact"]
	assert.Equal(t, types.StatusApplied, exact.Status)
}

func TestRunDailyScraping_BelowThresholdJobsGetNoApplication(t *testing.T) {
	store := newMemStore()
	profile := seedProfile(store)
	gen := &fakeGenerator{}

	jobs := []*types.JobPosting{
		crawledJob("https://b.example.com/jobs/1",
			"Barista wanted for busy downtown cafe"),
	}
	o := New(store, &fakeCrawler{jobs: jobs}, Options{Letters: gen})

	summary, err := o.RunDailyScraping(context.Background(), profile.ID, "https://b.example.com/search", 5, 50)
	require.NoError(t, err)

	assert.Zero(t, summary.RelevantJobsFound)
	assert.Zero(t, summary.ApplicationsGenerated)
	assert.Zero(t, gen.calls)
	// The job was still persisted and scored for later inspection.
	job := store.jobsByLink["https://b.example.com/jobs/1"]
	require.NotNil(t, job)
	assert.Equal(t, types.StatusScored, job.Status)
	require.NotNil(t, job.RelevanceScore)
}

func TestRunDailyScraping_RerunIsIdempotent(t *testing.T) {
	store := newMemStore()
	profile := seedProfile(store)
	gen := &fakeGenerator{}

	jobs := []*types.JobPosting{crawledJob("https://b.example.com/jobs/exact", profileText)}
	o := New(store, &fakeCrawler{jobs: jobs}, Options{Letters: gen})

	first, err := o.RunDailyScraping(context.Background(), profile.ID, "https://b.example.com/search", 5, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ApplicationsGenerated)

	second, err := o.RunDailyScraping(context.Background(), profile.ID, "https://b.example.com/search", 5, 50)
	require.NoError(t, err)

	// The same discovery reuses the existing row and the existing
	// application; nothing is duplicated.
	assert.Zero(t, second.ApplicationsGenerated)
	assert.Len(t, store.jobsByID, 1)
	assert.Len(t, store.apps, 1)
	assert.Equal(t, 1, gen.calls)
}

func TestRunDailyScraping_GenerationFailureLeavesJobScored(t *testing.T) {
	store := newMemStore()
	profile := seedProfile(store)
	gen := &fakeGenerator{err: errors.New("model overloaded")}

	jobs := []*types.JobPosting{crawledJob("https://b.example.com/jobs/exact", profileText)}
	o := New(store, &fakeCrawler{jobs: jobs}, Options{Letters: gen})

	summary, err := o.RunDailyScraping(context.Background(), profile.ID, "https://b.example.com/search", 5, 50)
	require.NoError(t, err)

	assert.Zero(t, summary.ApplicationsGenerated)
	assert.Empty(t, store.apps)
	// The job stays scored so the next run retries generation.
	job := store.jobsByLink["https://b.example.com/jobs/exact"]
	assert.Equal(t, types.StatusScored, job.Status)

	gen.err = nil
	retry, err := o.RunDailyScraping(context.Background(), profile.ID, "https://b.example.com/search", 5, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, retry.ApplicationsGenerated)
}

func TestRunDailyScraping_SaveFailureIsolatedToJob(t *testing.T) {
	store := newMemStore()
	profile := seedProfile(store)
	store.saveJobErr = errors.New("db down")

	jobs := exampleBatch()
	o := New(store, &fakeCrawler{jobs: jobs}, Options{})

	// Every save fails; the run still completes and reports.
	summary, err := o.RunDailyScraping(context.Background(), profile.ID, "https://b.example.com/search", 5, 20)
	require.NoError(t, err)
	assert.Equal(t, 10, summary.JobsScraped)
	assert.Zero(t, summary.RelevantJobsFound)
	assert.Empty(t, store.jobsByID)
}

func TestRunDailyScraping_UnknownUserFails(t *testing.T) {
	store := newMemStore()
	o := New(store, &fakeCrawler{}, Options{})

	_, err := o.RunDailyScraping(context.Background(), uuid.New(), "https://b.example.com/search", 5, 50)
	assert.Error(t, err)
}

func TestRunDailyScraping_FilterNarrowsBatch(t *testing.T) {
	store := newMemStore()
	profile := seedProfile(store)
	profile.Criteria = types.PreferredCriteria{LocationPreferences: []string{"Berlin"}}

	berlin := crawledJob("https://b.example.com/jobs/1", profileText)
	berlin.Location = "Berlin, Germany"
	munich := crawledJob("https://b.example.com/jobs/2", profileText)
	munich.Location = "Munich, Germany"

	o := New(store, &fakeCrawler{jobs: []*types.JobPosting{berlin, munich}}, Options{})
	summary, err := o.RunDailyScraping(context.Background(), profile.ID, "https://b.example.com/search", 5, 50)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.JobsScraped)
	assert.Equal(t, 1, summary.JobsFiltered)
	assert.Len(t, store.jobsByID, 1)
}

func TestRunDailyScraping_ScoresBacklog(t *testing.T) {
	store := newMemStore()
	profile := seedProfile(store)

	// A job left unscored by an earlier run, plus one with no description
	// which can never be scored.
	stale := crawledJob("https://b.example.com/jobs/stale", profileText)
	_, _, err := store.SaveJob(context.Background(), stale)
	require.NoError(t, err)
	blank := crawledJob("https://b.example.com/jobs/blank", "")
	_, _, err = store.SaveJob(context.Background(), blank)
	require.NoError(t, err)

	o := New(store, &fakeCrawler{}, Options{})
	summary, err := o.RunDailyScraping(context.Background(), profile.ID, "https://b.example.com/search", 5, 50)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.JobsScoredInBatch)
	assert.NotNil(t, store.jobsByLink["https://b.example.com/jobs/stale"].RelevanceScore)
	assert.Nil(t, store.jobsByLink["https://b.example.com/jobs/blank"].RelevanceScore)
}

func TestRunDailyScraping_FollowUpsCounted(t *testing.T) {
	store := newMemStore()
	profile := seedProfile(store)

	o := New(store, &fakeCrawler{}, Options{FollowUps: &fakeFollowUps{sent: 2}})
	summary, err := o.RunDailyScraping(context.Background(), profile.ID, "https://b.example.com/search", 5, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.FollowUpsSent)
}

func TestRunDailyScraping_FollowUpFailureDoesNotFailRun(t *testing.T) {
	store := newMemStore()
	profile := seedProfile(store)

	o := New(store, &fakeCrawler{}, Options{FollowUps: &fakeFollowUps{err: errors.New("smtp down")}})
	summary, err := o.RunDailyScraping(context.Background(), profile.ID, "https://b.example.com/search", 5, 50)
	require.NoError(t, err)
	assert.Zero(t, summary.FollowUpsSent)
}

func TestRunDailyScraping_ReportSent(t *testing.T) {
	store := newMemStore()
	profile := seedProfile(store)
	mail := &fakeMailer{}

	o := New(store, &fakeCrawler{jobs: exampleBatch()}, Options{
		Mail:            mail,
		ReportRecipient: "reports@example.com",
	})
	summary, err := o.RunDailyScraping(context.Background(), profile.ID, "https://b.example.com/search", 5, 20)
	require.NoError(t, err)

	assert.True(t, summary.ReportSent)
	require.Len(t, mail.bodies, 1)
	assert.Contains(t, mail.bodies[0], "Jobs Scraped: 10")
	assert.Contains(t, mail.bodies[0], "Relevant Jobs Found (score >= 20): 3")
}

func TestRunDailyScraping_ReportFailureDoesNotFailRun(t *testing.T) {
	store := newMemStore()
	profile := seedProfile(store)
	mail := &fakeMailer{sendErr: errors.New("smtp down")}

	o := New(store, &fakeCrawler{}, Options{
		Mail:            mail,
		ReportRecipient: "reports@example.com",
	})
	summary, err := o.RunDailyScraping(context.Background(), profile.ID, "https://b.example.com/search", 5, 50)
	require.NoError(t, err)
	assert.False(t, summary.ReportSent)
}

func TestRunDailyScraping_NoLetterGeneratorSkipsApplications(t *testing.T) {
	store := newMemStore()
	profile := seedProfile(store)

	jobs := []*types.JobPosting{crawledJob("https://b.example.com/jobs/exact", profileText)}
	o := New(store, &fakeCrawler{jobs: jobs}, Options{})
	summary, err := o.RunDailyScraping(context.Background(), profile.ID, "https://b.example.com/search", 5, 50)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.RelevantJobsFound)
	assert.Zero(t, summary.ApplicationsGenerated)
	assert.Empty(t, store.apps)
}

func TestFormatReport(t *testing.T) {
	s := &types.RunSummary{
		UserID:                uuid.New(),
		SearchURL:             "https://b.example.com/search",
		JobsScraped:           10,
		JobsFiltered:          8,
		RelevantJobsFound:     3,
		RelevanceThreshold:    50,
		ApplicationsGenerated: 1,
		FollowUpsSent:         2,
	}
	report := FormatReport(s)
	assert.Contains(t, report, "Jobs Scraped: 10")
	assert.Contains(t, report, "Jobs Filtered: 8")
	assert.Contains(t, report, "Relevant Jobs Found (score >= 50): 3")
	assert.Contains(t, report, "Applications Generated: 1")
	assert.Contains(t, report, "Follow-up Emails Sent: 2")
	assert.Contains(t, report, "https://b.example.com/search")
}
