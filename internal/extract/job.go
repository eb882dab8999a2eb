package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/jobpilot/internal/types"
)

// Document is a parsed job page together with the URL it was loaded from.
// The URL is needed to resolve relative links found in the page.
type Document struct {
	doc  *goquery.Document
	base *url.URL
}

// NewDocument parses HTML fetched from pageURL. It fails only on a
// malformed page URL or unparseable HTML; extraction itself never fails.
func NewDocument(html, pageURL string) (*Document, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid page URL %q: must have scheme and host", pageURL)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{doc: doc, base: base}, nil
}

// URL returns the document's source URL.
func (d *Document) URL() string {
	return d.base.String()
}

// First runs a chain against the document.
func (d *Document) First(c Chain) (string, bool) {
	return c.First(d.doc)
}

// ResolveLink resolves a possibly relative href against the document's
// origin, producing an absolute URL. Malformed hrefs yield ok=false.
func (d *Document) ResolveLink(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := d.base.ResolveReference(ref)
	abs.Fragment = ""
	if abs.Scheme == "" || abs.Host == "" {
		return "", false
	}
	return abs.String(), true
}

// Links applies a chain in collect-all mode and resolves every discovered
// href to an absolute, deduplicated URL list. Order of first appearance is
// preserved.
func (d *Document) Links(c Chain) []string {
	seen := make(map[string]bool)
	var links []string
	for _, href := range c.All(d.doc) {
		abs, ok := d.ResolveLink(href)
		if !ok || seen[abs] {
			continue
		}
		seen[abs] = true
		links = append(links, abs)
	}
	return links
}

// NextControl locates the next-page control, returning the selector that
// matched and whether the control is enabled. Disabled is detected via the
// disabled attribute, aria-disabled, or a "disabled" class.
func (d *Document) NextControl(c Chain) (selector string, enabled, found bool) {
	sel, matched, ok := c.FirstSelection(d.doc)
	if !ok {
		return "", false, false
	}
	if _, has := sel.Attr("disabled"); has {
		return matched, false, true
	}
	if v, has := sel.Attr("aria-disabled"); has && strings.EqualFold(v, "true") {
		return matched, false, true
	}
	if sel.HasClass("disabled") {
		return matched, false, true
	}
	return matched, true, true
}

// Job extracts a JobPosting from the document using the default chains.
// Extraction of any single field never aborts the record: the posting is
// always returned with whatever subset of fields succeeded. The
// application link falls back to the page URL itself so the posting keeps
// a usable external identity even when no apply control was found.
func (d *Document) Job() *types.JobPosting {
	job := &types.JobPosting{
		ApplicationLink: d.URL(),
		Status:          types.StatusPending,
	}

	if title, ok := d.First(TitleChain()); ok {
		job.Title = title
	}
	if desc, ok := d.First(DescriptionChain()); ok {
		job.Description = desc
		job.Skills = ScanSkills(desc)
	}
	if company, ok := d.First(CompanyChain()); ok {
		job.CompanyName = company
	}
	if location, ok := d.First(LocationChain()); ok {
		job.Location = location
	}
	if raw, ok := d.First(DateChain()); ok {
		if iso, parsed := NormalizeDate(raw); parsed {
			job.PublicationDate = &iso
		}
	}
	if href, ok := d.First(ApplyLinkChain()); ok {
		if abs, resolved := d.ResolveLink(href); resolved {
			job.ApplicationLink = abs
		}
	}

	return job
}
