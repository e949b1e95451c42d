package collector

import "time"

// ErrorSource marks the sentinel item produced when a whole source fails.
const ErrorSource = "error"

const (
	defaultCap   = 10
	defaultTitle = "(untitled)"
)

// SourceSpec is one configured source endpoint plus its per-source item cap.
type SourceSpec struct {
	URL string
	Cap int
}

// NewsItem is the canonical cross-source record consumed by filtering and ranking.
type NewsItem struct {
	Title  string
	URL    string
	Source string
	// PublishedAt is nil when the source carried no parseable date.
	PublishedAt *time.Time
	// MatchText is title plus source label; used only for keyword matching.
	// Empty on the error sentinel, which keeps it invisible to the filter.
	MatchText   string
	OriginalURL string
}

// FetchResult is the outcome of fetching one source: at most cap items plus
// the errors recorded along the way.
type FetchResult struct {
	SourceLabel string
	Items       []NewsItem
	Errors      []string
}

// Strategy retrieves and normalizes items from one source, isolating its own
// failure modes. Recoverable problems (HTTP error status, empty listing) are
// recorded in FetchResult.Errors with a nil error; a non-nil error means the
// whole fetch failed and the dispatcher converts it into a sentinel result.
type Strategy interface {
	Name() string
	Fetch(src SourceSpec, loc *time.Location) (FetchResult, error)
}

func capOrDefault(n int) int {
	if n <= 0 {
		return defaultCap
	}
	return n
}

func orUntitled(title string) string {
	if title == "" {
		return defaultTitle
	}
	return title
}

// matchText builds the keyword-matching text for a normalized item.
func matchText(title, source string) string {
	return title + " " + source
}
