package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	reliefWebEndpoint      = "https://api.reliefweb.int/v1/reports"
	reliefWebAppName       = "reliefradar"
	reliefWebLabel         = "ReliefWeb"
	reliefWebClientTimeout = 10 * time.Second
	reliefWebMaxBodyBytes  = 1 << 20 // 1MB
)

// ReliefWebFetcher pulls the most recent reports from the ReliefWeb JSON API,
// newest first. Endpoint is overridable for tests and staging.
type ReliefWebFetcher struct {
	Endpoint string
}

func (r *ReliefWebFetcher) Name() string {
	return "reliefweb_api"
}

type reliefWebResp struct {
	Data []struct {
		Fields struct {
			Title string `json:"title"`
			URL   string `json:"url"`
			Date  struct {
				Created  string `json:"created"`
				Original string `json:"original"`
			} `json:"date"`
		} `json:"fields"`
	} `json:"data"`
}

func (r *ReliefWebFetcher) Fetch(src SourceSpec, loc *time.Location) (FetchResult, error) {
	limit := capOrDefault(src.Cap)
	res := FetchResult{SourceLabel: reliefWebLabel}

	endpoint := r.Endpoint
	if endpoint == "" {
		endpoint = reliefWebEndpoint
	}

	q := url.Values{}
	q.Set("appname", reliefWebAppName)
	q.Set("limit", strconv.Itoa(limit))
	q.Add("sort[]", "date.created:desc")
	for _, f := range []string{"title", "url", "date.created", "date.original"} {
		q.Add("fields[include][]", f)
	}

	client := &http.Client{Timeout: reliefWebClientTimeout}
	resp, err := client.Get(endpoint + "?" + q.Encode())
	if err != nil {
		return res, fmt.Errorf("reliefweb: fetch reports: %w", err)
	}
	defer resp.Body.Close()

	// An HTTP error status reduces this source to zero items. It is recorded,
	// not returned: other sources keep their results.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res.Errors = append(res.Errors, fmt.Sprintf("HTTP %d", resp.StatusCode))
		return res, nil
	}

	var data reliefWebResp
	if err := json.NewDecoder(io.LimitReader(resp.Body, reliefWebMaxBodyBytes)).Decode(&data); err != nil {
		return res, fmt.Errorf("reliefweb: decode response: %w", err)
	}

	for _, rec := range data.Data {
		if len(res.Items) >= limit {
			break
		}
		title := orUntitled(rec.Fields.Title)

		// date.created first, then the report's own original date.
		var published *time.Time
		for _, raw := range []string{rec.Fields.Date.Created, rec.Fields.Date.Original} {
			if raw == "" {
				continue
			}
			if published = ParseWhen(raw, loc); published != nil {
				break
			}
		}

		res.Items = append(res.Items, NewsItem{
			Title:       title,
			URL:         rec.Fields.URL,
			Source:      reliefWebLabel,
			PublishedAt: published,
			MatchText:   matchText(title, reliefWebLabel),
		})
	}

	if len(res.Items) == 0 {
		log.Printf("reliefweb: got 0 reports")
	}
	return res, nil
}
