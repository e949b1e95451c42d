package processor

import (
	"time"

	"github.com/kyelem/reliefradar/internal/collector"
)

// Article is the wire shape of one item in the output.
type Article struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	Published   *string `json:"published"`
	OriginalURL string  `json:"originalUrl,omitempty"`
}

// SourceGroup is one source's unfiltered dump in the raw view.
type SourceGroup struct {
	Source string    `json:"source"`
	Count  int       `json:"count"`
	Items  []Article `json:"items"`
	Errors []string  `json:"errors"`
}

// SourceStat is the per-source counter block in the debug view.
type SourceStat struct {
	Source  string   `json:"source"`
	Fetched int      `json:"fetched"`
	Errors  []string `json:"errors"`
}

// Render converts items to the wire shape, formatting dates as RFC3339.
func Render(items []collector.NewsItem) []Article {
	out := make([]Article, 0, len(items))
	for _, it := range items {
		a := Article{
			Title:       it.Title,
			URL:         it.URL,
			Source:      it.Source,
			OriginalURL: it.OriginalURL,
		}
		if it.PublishedAt != nil {
			s := it.PublishedAt.Format(time.RFC3339)
			a.Published = &s
		}
		out = append(out, a)
	}
	return out
}

// Flatten collects every item of a dispatch result into one list, preserving
// source order.
func Flatten(results []collector.FetchResult) []collector.NewsItem {
	var items []collector.NewsItem
	for _, r := range results {
		items = append(items, r.Items...)
	}
	return items
}

// RawView groups every fetched item per source, unfiltered. Error sentinels
// are dispatcher bookkeeping, not source content: they stay out of the item
// lists, the failure is already carried by the errors list.
func RawView(results []collector.FetchResult) []SourceGroup {
	groups := make([]SourceGroup, 0, len(results))
	for _, r := range results {
		items := realItems(r)
		groups = append(groups, SourceGroup{
			Source: r.SourceLabel,
			Count:  len(items),
			Items:  Render(items),
			Errors: errList(r.Errors),
		})
	}
	return groups
}

// Stats returns the per-source fetched counts and error lists for the debug view.
func Stats(results []collector.FetchResult) []SourceStat {
	stats := make([]SourceStat, 0, len(results))
	for _, r := range results {
		stats = append(stats, SourceStat{
			Source:  r.SourceLabel,
			Fetched: len(realItems(r)),
			Errors:  errList(r.Errors),
		})
	}
	return stats
}

func realItems(r collector.FetchResult) []collector.NewsItem {
	items := make([]collector.NewsItem, 0, len(r.Items))
	for _, it := range r.Items {
		if it.Source == collector.ErrorSource {
			continue
		}
		items = append(items, it)
	}
	return items
}

// errList keeps error lists as [] instead of null on the wire.
func errList(errs []string) []string {
	if errs == nil {
		return []string{}
	}
	return errs
}
