package services

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	domain.DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	"January 2, 2006, 03:04:05 PM",
	"January 2, 2006 03:04:05 PM",
	"Mon Jan 2 2006 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp normalises a fixture timestamp to UTC.
// Returns domain.ErrInvalidTimestamp when no layout matches.
func ParseTimestamp(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	value = strings.TrimSuffix(value, " UTC")
	if value == "" {
		return time.Time{}, eris.Wrap(domain.ErrInvalidTimestamp, "empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, eris.Wrapf(domain.ErrInvalidTimestamp, "unrecognised timestamp %q", raw)
}
