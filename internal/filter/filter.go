// Package filter applies a user's preferred-criteria filters to scraped
// job postings before scoring. Every criterion left empty matches all jobs.
package filter

import (
	"regexp"
	"strings"

	"github.com/jonathan/jobpilot/internal/types"
)

// Apply returns the subset of jobs matching every criterion in crit.
// Jobs are matched case-insensitively; an empty criteria struct passes
// everything through unchanged.
func Apply(jobs []*types.JobPosting, crit types.PreferredCriteria) []*types.JobPosting {
	var matched []*types.JobPosting
	for _, job := range jobs {
		if Matches(job, crit) {
			matched = append(matched, job)
		}
	}
	return matched
}

// Matches reports whether a single job satisfies all criteria.
func Matches(job *types.JobPosting, crit types.PreferredCriteria) bool {
	if !matchLocation(job, crit.LocationPreferences) {
		return false
	}
	haystack := searchText(job)
	if !matchKeywords(haystack, crit.TechnologyKeywords, `\w*`) {
		return false
	}
	return matchKeywords(haystack, crit.PreferredLanguages, `\b`)
}

func matchLocation(job *types.JobPosting, prefs []string) bool {
	if len(prefs) == 0 {
		return true
	}
	location := strings.ToLower(job.Location)
	for _, pref := range prefs {
		if strings.Contains(location, strings.ToLower(pref)) {
			return true
		}
	}
	return false
}

// matchKeywords matches any keyword at a word boundary; the suffix pattern
// controls whether trailing characters are allowed ("python" matching
// "pythonic" for technologies, exact words for languages).
func matchKeywords(haystack string, keywords []string, suffix string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(strings.ToLower(kw)) + suffix)
		if err != nil {
			continue
		}
		if re.MatchString(haystack) {
			return true
		}
	}
	return false
}

func searchText(job *types.JobPosting) string {
	return strings.ToLower(job.Description + " " + strings.Join(job.Skills, " "))
}
