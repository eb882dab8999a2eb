// Package browser provides a headless Chrome session for crawling job
// boards. One session owns one browser tab; the crawler drives it
// sequentially through search result pages. Requires Chrome/Chromium to be
// installed on the system.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Default bounds for network-bound waits.
const (
	DefaultNavTimeout = 30 * time.Second
	DefaultSettleWait = 3 * time.Second
)

// Options configures a Session.
type Options struct {
	NavTimeout time.Duration // cap on each navigation or element operation
	SettleWait time.Duration // bounded wait for in-flight network activity to quiet
}

// DefaultOptions returns sensible defaults for crawling.
func DefaultOptions() Options {
	return Options{
		NavTimeout: DefaultNavTimeout,
		SettleWait: DefaultSettleWait,
	}
}

// Session is a live headless browser tab.
type Session struct {
	browserCtx context.Context
	cancels    []context.CancelFunc
	opts       Options
}

// NewSession launches a headless browser and opens a tab. Callers must
// Close the session when done.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = DefaultNavTimeout
	}
	if opts.SettleWait <= 0 {
		opts.SettleWait = DefaultSettleWait
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		browserCtx: browserCtx,
		cancels:    []context.CancelFunc{browserCancel, allocCancel},
		opts:       opts,
	}

	// Start the browser eagerly so launch failures surface here rather
	// than on the first navigation.
	if err := s.run(ctx, chromedp.ActionFunc(func(context.Context) error { return nil })); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return s, nil
}

// Close shuts down the tab and the browser process.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

// Navigate loads a URL in the session's tab.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// WaitSettled waits for the page body to be ready, then a bounded grace
// period for in-flight network activity to quiet. The wait is an upper
// bound: a page that never settles does not stall the crawl.
func (s *Session) WaitSettled(ctx context.Context) error {
	err := s.run(ctx,
		chromedp.WaitReady("body"),
		chromedp.Sleep(s.opts.SettleWait),
	)
	if err != nil {
		return fmt.Errorf("failed to wait for page to settle: %w", err)
	}
	return nil
}

// HTML returns the current document's rendered HTML.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

// Click activates the first element matching selector.
func (s *Session) Click(ctx context.Context, selector string) error {
	if err := s.run(ctx, chromedp.Click(selector, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("failed to click %q: %w", selector, err)
	}
	return nil
}

// Location returns the tab's current URL.
func (s *Session) Location(ctx context.Context) (string, error) {
	var loc string
	if err := s.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return loc, nil
}

// run executes actions against the tab with the per-operation timeout,
// honoring cancellation from the caller's context.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opCtx, cancel := context.WithTimeout(s.browserCtx, s.opts.NavTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(opCtx, actions...)
}
