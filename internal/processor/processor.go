package processor

import (
	"sort"
	"strings"
	"time"

	"github.com/kyelem/reliefradar/internal/collector"
)

const (
	// Funding-flagged items are surfaced even past the configured window, but
	// never past this fixed allowance.
	fundingWindow = 7 * 24 * time.Hour

	defaultMaxAgeDays = 3
)

// Funding terminology that marks an item as funding-relevant wherever it was
// published.
var fundingTerms = []string{
	"funding", "grant", "donor", "donation", "pledge", "appeal",
	"contribution", "million", "billion", "financing", "aid package",
	"humanitarian fund", "usaid", "world bank", "unicef", "wfp", "undp",
}

// Donor-country names count as funding signal too: donor announcements are
// usually titled by country.
var donorCountries = []string{
	"united states", "germany", "japan", "norway", "sweden", "denmark",
	"canada", "france", "united kingdom", "netherlands", "switzerland",
	"european union", "saudi arabia", "qatar", "kuwait", "australia",
}

// Region keywords applied when the configuration does not set its own.
var defaultRegions = []string{
	"sahel", "mali", "burkina faso", "niger", "chad", "mauritania",
	"west africa", "lake chad",
}

// Filter classifies normalized items and applies the recency windows. Now is
// injectable so the same item list always filters the same way in tests.
type Filter struct {
	Regions    []string
	MaxAgeDays int
	Now        func() time.Time
}

func NewFilter(regions []string, maxAgeDays int) *Filter {
	if maxAgeDays <= 0 {
		maxAgeDays = defaultMaxAgeDays
	}
	return &Filter{Regions: regions, MaxAgeDays: maxAgeDays, Now: time.Now}
}

// Apply returns the funding- or region-relevant items, ranked newest first.
func (f *Filter) Apply(items []collector.NewsItem) []collector.NewsItem {
	now := f.Now()

	out := make([]collector.NewsItem, 0, len(items))
	for _, it := range items {
		if f.include(it, now) {
			out = append(out, it)
		}
	}

	Rank(out)
	return out
}

// include implements the asymmetric windows: funding/donor signal is surfaced
// even without a confirmed date, purely regional signal needs provable recency.
func (f *Filter) include(it collector.NewsItem, now time.Time) bool {
	text := strings.ToLower(it.MatchText)
	if text == "" {
		return false
	}

	if isFunding(text) && fundingEligible(it.PublishedAt, now) {
		return true
	}
	return f.isRegional(text) && f.regionEligible(it.PublishedAt, now)
}

func isFunding(text string) bool {
	return containsAny(text, fundingTerms) || containsAny(text, donorCountries)
}

func (f *Filter) isRegional(text string) bool {
	regions := f.Regions
	if len(regions) == 0 {
		regions = defaultRegions
	}
	return containsAny(text, regions)
}

// fundingEligible: dateless items pass, dated ones must be within the fixed
// 7-day window regardless of the configured max age.
func fundingEligible(published *time.Time, now time.Time) bool {
	return published == nil || now.Sub(*published) <= fundingWindow
}

// regionEligible: dateless items never pass; dated ones must be within the
// configured window.
func (f *Filter) regionEligible(published *time.Time, now time.Time) bool {
	if published == nil {
		return false
	}
	return now.Sub(*published) <= time.Duration(f.MaxAgeDays)*24*time.Hour
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// Rank stable-sorts newest first. Undated items go after every dated one and
// keep their relative order among themselves.
func Rank(items []collector.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].PublishedAt, items[j].PublishedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
