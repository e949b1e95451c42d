package processor

import (
	"testing"
	"time"

	"github.com/kyelem/reliefradar/internal/collector"
)

func sampleResults() []collector.FetchResult {
	published := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return []collector.FetchResult{
		{
			SourceLabel: "ReliefWeb",
			Items: []collector.NewsItem{
				{Title: "Report one", URL: "u1", Source: "ReliefWeb", PublishedAt: &published, MatchText: "Report one ReliefWeb"},
				{Title: "Report two", URL: "u2", Source: "ReliefWeb", MatchText: "Report two ReliefWeb"},
			},
		},
		{
			SourceLabel: "broken.example",
			Items: []collector.NewsItem{
				{Title: "Failed to fetch: https://broken.example/feed", Source: collector.ErrorSource},
			},
			Errors: []string{"feed: https://broken.example/feed: status 500"},
		},
	}
}

func TestRawViewGroupsPerSource(t *testing.T) {
	groups := RawView(sampleResults())
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	first := groups[0]
	if first.Source != "ReliefWeb" || first.Count != 2 || len(first.Items) != 2 {
		t.Fatalf("unexpected first group: %+v", first)
	}
	if len(first.Errors) != 0 || first.Errors == nil {
		t.Fatalf("healthy source should carry an empty, non-nil error list: %+v", first.Errors)
	}

	// The failed source shows up with no items but with its errors; the
	// sentinel stays out of the dump.
	second := groups[1]
	if second.Count != 0 || len(second.Items) != 0 {
		t.Fatalf("failed source group should be empty, got %+v", second)
	}
	if len(second.Errors) != 1 {
		t.Fatalf("failed source group should keep its errors, got %+v", second.Errors)
	}
}

func TestStatsCountsFetchedPerSource(t *testing.T) {
	stats := Stats(sampleResults())
	if len(stats) != 2 {
		t.Fatalf("expected 2 stat rows, got %d", len(stats))
	}
	if stats[0].Fetched != 2 || len(stats[0].Errors) != 0 {
		t.Fatalf("unexpected stats for healthy source: %+v", stats[0])
	}
	if stats[1].Fetched != 0 || len(stats[1].Errors) != 1 {
		t.Fatalf("unexpected stats for failed source: %+v", stats[1])
	}
}

func TestFlattenPreservesSourceOrder(t *testing.T) {
	items := Flatten(sampleResults())
	if len(items) != 3 {
		t.Fatalf("expected 3 flattened items (sentinel included), got %d", len(items))
	}
	if items[0].Title != "Report one" || items[2].Source != collector.ErrorSource {
		t.Fatalf("flatten order broken: %+v", items)
	}
}

func TestRenderFormatsDates(t *testing.T) {
	published := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	out := Render([]collector.NewsItem{
		{Title: "dated", URL: "u1", Source: "s", PublishedAt: &published, OriginalURL: "https://orig.example"},
		{Title: "undated", URL: "u2", Source: "s"},
	})

	if out[0].Published == nil || *out[0].Published != "2024-01-02T03:04:05Z" {
		t.Fatalf("dated item rendered wrong: %+v", out[0])
	}
	if out[0].OriginalURL != "https://orig.example" {
		t.Fatalf("originalUrl not carried: %+v", out[0])
	}
	if out[1].Published != nil {
		t.Fatalf("undated item must render a null published field: %+v", out[1])
	}
}
