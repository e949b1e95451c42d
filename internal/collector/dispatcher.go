package collector

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"
)

type rule struct {
	match    func(host string) bool
	strategy Strategy
}

// Dispatcher selects a strategy per source by URL host and fetches all sources
// concurrently. It always returns exactly one FetchResult per source, in input
// order, no matter which sources fail.
type Dispatcher struct {
	rules    []rule
	fallback Strategy
}

// NewDispatcher wires the default strategy table: the ReliefWeb API client for
// report-API hosts, the listing scraper for the Devex listing, and the generic
// feed reader for everything else.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		rules: []rule{
			{match: hostContains("api.reliefweb.int"), strategy: &ReliefWebFetcher{}},
			{match: hostContains("devex.com"), strategy: &ListingFetcher{}},
		},
		fallback: &FeedFetcher{},
	}
}

func hostContains(sub string) func(string) bool {
	return func(host string) bool { return strings.Contains(host, sub) }
}

func (d *Dispatcher) selectStrategy(rawURL string) Strategy {
	u, err := url.Parse(rawURL)
	if err != nil {
		return d.fallback
	}
	host := strings.ToLower(u.Hostname())
	for _, r := range d.rules {
		if r.match(host) {
			return r.strategy
		}
	}
	return d.fallback
}

// Dispatch runs the per-source fan-out. Each source gets its own goroutine and
// its own accumulator slot, so a slow or failing source never delays or fails
// the others.
func (d *Dispatcher) Dispatch(sources []SourceSpec, loc *time.Location) []FetchResult {
	results := make([]FetchResult, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src SourceSpec) {
			defer wg.Done()
			results[i] = d.fetchOne(src, loc)
		}(i, src)
	}
	wg.Wait()

	return results
}

func (d *Dispatcher) fetchOne(src SourceSpec, loc *time.Location) (res FetchResult) {
	s := d.selectStrategy(src.URL)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("dispatch: %s panicked on %s: %v", s.Name(), src.URL, r)
			res = errorResult(src, fmt.Errorf("%v", r))
		}
	}()

	log.Printf("dispatch: fetch %s via %s...", src.URL, s.Name())
	res, err := s.Fetch(src, loc)
	if err != nil {
		log.Printf("dispatch: fetch %s error: %v", src.URL, err)
		return errorResult(src, err)
	}
	return res
}

// errorResult converts a strategy failure into a sentinel-bearing result so
// dispatch itself never fails.
func errorResult(src SourceSpec, err error) FetchResult {
	return FetchResult{
		SourceLabel: hostLabel(src.URL),
		Items: []NewsItem{{
			Title:  "Failed to fetch: " + src.URL,
			Source: ErrorSource,
		}},
		Errors: []string{err.Error()},
	}
}

func hostLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return u.Hostname()
}
