package collector

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Layouts tried before the permissive fallback, strictest first: letting the
// generic parser run earlier would silently misread ambiguous strings.
var whenLayouts = []string{
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
}

// ParseWhen parses a raw date string into an instant in loc, or nil when no
// format yields a valid instant.
func ParseWhen(raw string, loc *time.Location) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			t = t.In(loc)
			return &t
		}
	}

	if t, err := dateparse.ParseIn(raw, loc); err == nil {
		t = t.In(loc)
		return &t
	}
	return nil
}
