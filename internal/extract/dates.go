package extract

import (
	"strings"
	"time"
)

// ISODate is the normalized calendar-date layout all parsed dates are
// rendered into.
const ISODate = "2006-01-02"

// dateLayouts are the known publication-date text formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

// NormalizeDate parses raw date text against the known layouts and returns
// it as an ISO calendar date. ok is false when no layout matches; an
// unparseable date is an absent field, never an error.
func NormalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(ISODate), true
		}
	}
	return "", false
}
