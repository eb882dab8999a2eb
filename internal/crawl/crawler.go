// Package crawl drives a browser session across paginated job search
// results, collecting candidate job URLs and expanding each into a full
// job record via the extract package.
package crawl

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/jobpilot/internal/extract"
	"github.com/jonathan/jobpilot/internal/types"
)

// MaxPagesLimit is the hard maximum number of result pages per crawl,
// regardless of what the caller asks for.
const MaxPagesLimit = 15

// DefaultMaxPages is used when the caller passes a non-positive page count.
const DefaultMaxPages = 5

// Session is the browser surface the crawler needs. One tab, driven
// sequentially; every operation blocks on network I/O and is bounded by
// the session's timeouts.
type Session interface {
	Navigate(ctx context.Context, url string) error
	WaitSettled(ctx context.Context) error
	HTML(ctx context.Context) (string, error)
	Click(ctx context.Context, selector string) error
	Location(ctx context.Context) (string, error)
}

// Crawler collects job postings from a search URL.
type Crawler struct {
	session Session
	log     *zap.Logger
}

// New creates a Crawler over an open browser session.
func New(session Session, log *zap.Logger) *Crawler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Crawler{session: session, log: log}
}

// Collect walks up to maxPages result pages starting at searchURL and
// returns the deduplicated job URLs discovered, in first-seen order. The
// page cap bounds the crawl even when the next-page control never reports
// disabled. Navigation or extraction errors terminate the crawl early but
// never discard URLs already collected.
func (c *Crawler) Collect(ctx context.Context, searchURL string, maxPages int) []string {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if maxPages > MaxPagesLimit {
		maxPages = MaxPagesLimit
	}

	if err := c.session.Navigate(ctx, searchURL); err != nil {
		c.log.Warn("failed to open search page", zap.String("url", searchURL), zap.Error(err))
		return nil
	}

	seen := make(map[string]bool)
	var urls []string

	for page := 1; page <= maxPages; page++ {
		if err := c.session.WaitSettled(ctx); err != nil {
			c.log.Warn("page never settled, stopping crawl", zap.Int("page", page), zap.Error(err))
			break
		}

		doc, err := c.currentDocument(ctx, searchURL)
		if err != nil {
			c.log.Warn("failed to read result page", zap.Int("page", page), zap.Error(err))
			break
		}

		pageURLs := doc.Links(extract.ListingLinkChain())
		added := 0
		for _, u := range pageURLs {
			if seen[u] {
				continue
			}
			seen[u] = true
			urls = append(urls, u)
			added++
		}
		c.log.Info("scraped result page",
			zap.Int("page", page),
			zap.Int("links_found", len(pageURLs)),
			zap.Int("links_new", added))

		selector, enabled, found := doc.NextControl(extract.NextPageChain())
		if !found || !enabled {
			c.log.Info("next page control absent or disabled, end of results", zap.Int("page", page))
			break
		}
		if page == maxPages {
			break
		}
		if err := c.session.Click(ctx, selector); err != nil {
			c.log.Warn("failed to advance to next page", zap.Int("page", page), zap.Error(err))
			break
		}
	}

	return urls
}

// Expand visits each job URL and extracts a full posting. A job whose page
// cannot be loaded or parsed is dropped from the batch; every other job is
// still returned.
func (c *Crawler) Expand(ctx context.Context, urls []string) []*types.JobPosting {
	jobs := make([]*types.JobPosting, 0, len(urls))
	for _, u := range urls {
		job, err := c.expandOne(ctx, u)
		if err != nil {
			c.log.Warn("skipping job page", zap.String("url", u), zap.Error(err))
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// Run is the full crawl: pagination followed by per-job expansion.
func (c *Crawler) Run(ctx context.Context, searchURL string, maxPages int) []*types.JobPosting {
	urls := c.Collect(ctx, searchURL, maxPages)
	c.log.Info("crawl collected job urls", zap.Int("count", len(urls)))
	return c.Expand(ctx, urls)
}

func (c *Crawler) expandOne(ctx context.Context, url string) (*types.JobPosting, error) {
	if err := c.session.Navigate(ctx, url); err != nil {
		return nil, err
	}
	if err := c.session.WaitSettled(ctx); err != nil {
		return nil, err
	}
	doc, err := c.currentDocument(ctx, url)
	if err != nil {
		return nil, err
	}
	return doc.Job(), nil
}

// currentDocument snapshots the tab's HTML and parses it against the tab's
// actual location (redirects included), falling back to the requested URL.
func (c *Crawler) currentDocument(ctx context.Context, fallbackURL string) (*extract.Document, error) {
	html, err := c.session.HTML(ctx)
	if err != nil {
		return nil, err
	}
	pageURL := fallbackURL
	if loc, err := c.session.Location(ctx); err == nil && loc != "" {
		pageURL = loc
	}
	return extract.NewDocument(html, pageURL)
}
