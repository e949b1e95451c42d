package collector

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

const (
	listingLabel          = "Devex"
	listingDetailPath     = "/news/"
	listingRequestTimeout = 10 * time.Second
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Known alternate listing pages per host, tried after the configured URL.
var listingAltURLs = map[string][]string{
	"devex.com": {
		"https://www.devex.com/news/search?query%5B%5D=funding",
		"https://www.devex.com/news",
	},
}

// ListingFetcher scrapes card-like regions from a news listing page. The page
// markup shifts between redesigns, so extraction is best-effort: candidate
// URLs are tried in priority order and the first page yielding any item wins.
type ListingFetcher struct {
	// AltURLs overrides the alternate-candidate table; nil means the default.
	AltURLs map[string][]string
}

func (l *ListingFetcher) Name() string {
	return "listing_scrape"
}

func (l *ListingFetcher) Fetch(src SourceSpec, loc *time.Location) (FetchResult, error) {
	limit := capOrDefault(src.Cap)
	res := FetchResult{SourceLabel: listingLabel}

	for _, candidate := range l.candidates(src.URL) {
		items, err := l.scrape(candidate, limit, loc)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", candidate, err))
			continue
		}
		if len(items) == 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: no items", candidate))
			continue
		}
		res.Items = items
		return res, nil
	}

	log.Printf("listing: all candidates empty for %s", src.URL)
	return res, nil
}

func (l *ListingFetcher) candidates(configured string) []string {
	alts := l.AltURLs
	if alts == nil {
		alts = listingAltURLs
	}
	out := []string{configured}
	host := strings.TrimPrefix(hostLabel(configured), "www.")
	for _, alt := range alts[host] {
		if alt != configured {
			out = append(out, alt)
		}
	}
	return out
}

func (l *ListingFetcher) scrape(pageURL string, limit int, loc *time.Location) ([]NewsItem, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	pageHost := page.Hostname()

	c := colly.NewCollector(
		colly.AllowedDomains(pageHost),
		colly.UserAgent(browserUserAgent),
	)
	c.SetRequestTimeout(listingRequestTimeout)

	items := make([]NewsItem, 0, limit)

	c.OnHTML("article, div[class*='news-card'], li[class*='news-item']", func(e *colly.HTMLElement) {
		if len(items) >= limit {
			return
		}

		title := cardTitle(e.DOM)

		detail, origin := cardLinks(e, pageHost)

		// A card with neither a usable title nor a usable link is noise.
		link := detail
		if link == "" {
			link = origin
		}
		if title == "" && link == "" {
			return
		}
		title = orUntitled(title)

		items = append(items, NewsItem{
			Title:       title,
			URL:         link,
			Source:      listingLabel,
			PublishedAt: cardTime(e, loc),
			MatchText:   matchText(title, listingLabel),
			OriginalURL: origin,
		})
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, err
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// cardTitle prefers the card's heading text, then the first anchor text.
func cardTitle(s *goquery.Selection) string {
	if t := strings.TrimSpace(s.Find("h1, h2, h3, h4").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(s.Find("a").First().Text())
}

// cardLinks returns the card's internal detail link (fixed /news/ path) and
// the first link pointing off the listing's own domain.
func cardLinks(e *colly.HTMLElement, pageHost string) (detail, origin string) {
	e.ForEach("a[href]", func(_ int, a *colly.HTMLElement) {
		href := strings.TrimSpace(a.Attr("href"))
		if href == "" {
			return
		}
		abs := e.Request.AbsoluteURL(href)
		u, err := url.Parse(abs)
		if err != nil {
			return
		}
		switch {
		case u.Hostname() == pageHost:
			if detail == "" && strings.Contains(u.Path, listingDetailPath) {
				detail = abs
			}
		case origin == "" && (u.Scheme == "http" || u.Scheme == "https"):
			origin = abs
		}
	})
	return detail, origin
}

// cardTime picks up a machine-readable timestamp near the card, if any.
func cardTime(e *colly.HTMLElement, loc *time.Location) *time.Time {
	raw := strings.TrimSpace(e.ChildAttr("time", "datetime"))
	if raw == "" {
		raw = strings.TrimSpace(e.ChildAttr("[datetime]", "datetime"))
	}
	if raw == "" {
		return nil
	}
	return ParseWhen(raw, loc)
}
