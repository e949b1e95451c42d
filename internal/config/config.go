package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kyelem/reliefradar/internal/collector"
)

const (
	DefaultTimezone   = "UTC"
	DefaultMaxAgeDays = 3
	DefaultPerSource  = 10
)

// Config is the server-level configuration, read from the environment.
type Config struct {
	AppPort string

	// RedisAddr enables the response cache; empty disables it.
	RedisAddr string

	// NewsConfig is a file path or HTTP(S) URL of the sources document.
	NewsConfig string

	CacheTTL time.Duration
	WarmCron string

	BasicAuthUser string
	BasicAuthPass string
}

func Load() *Config {
	cfg := &Config{
		AppPort:       getEnv("APP_PORT", "9000"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		NewsConfig:    getEnv("NEWS_CONFIG", "config/news.json"),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		WarmCron:      getEnv("WARM_CRON", "*/15 * * * *"),
		BasicAuthUser: getEnv("APP_BASIC_USER", ""),
		BasicAuthPass: getEnv("APP_BASIC_PASS", ""),
	}

	log.Printf("config loaded: port=%s news=%s cache_ttl=%s", cfg.AppPort, cfg.NewsConfig, cfg.CacheTTL)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: %s=%q is not an integer, using %d", key, v, def)
		return def
	}
	return n
}

// Sources is the external JSON document describing what to aggregate.
type Sources struct {
	Timezone   string      `json:"timezone"`
	MaxAgeDays int         `json:"maxAgeDays"`
	Regions    []string    `json:"regions"`
	News       NewsSection `json:"news"`
}

type NewsSection struct {
	PerSource int           `json:"perSource"`
	Sources   []SourceEntry `json:"sources"`
}

// SourceEntry accepts both a bare URL string and an {"url": ...} object.
type SourceEntry struct {
	URL string `json:"url"`
}

func (e *SourceEntry) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &e.URL)
	}
	type alias SourceEntry
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*e = SourceEntry(a)
	return nil
}

// LoadSources resolves the sources document from a local file or an HTTP(S)
// location and applies defaults.
func LoadSources(location string) (*Sources, error) {
	raw, err := readLocation(location)
	if err != nil {
		return nil, err
	}

	var s Sources
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", location, err)
	}
	s.applyDefaults()
	return &s, nil
}

func (s *Sources) applyDefaults() {
	if strings.TrimSpace(s.Timezone) == "" {
		s.Timezone = DefaultTimezone
	}
	if s.MaxAgeDays <= 0 {
		s.MaxAgeDays = DefaultMaxAgeDays
	}
	if s.News.PerSource <= 0 {
		s.News.PerSource = DefaultPerSource
	}
	// Region keywords match against lower-cased text.
	for i, r := range s.Regions {
		s.Regions[i] = strings.ToLower(strings.TrimSpace(r))
	}
}

// Location returns the configured zone, falling back to UTC on bad names.
func (s *Sources) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil || loc == nil {
		log.Printf("config: unknown timezone %q, using UTC", s.Timezone)
		return time.UTC
	}
	return loc
}

// Specs converts the source list into dispatcher input, each source carrying
// the shared per-source cap.
func (s *Sources) Specs() []collector.SourceSpec {
	specs := make([]collector.SourceSpec, 0, len(s.News.Sources))
	for _, e := range s.News.Sources {
		specs = append(specs, collector.SourceSpec{URL: e.URL, Cap: s.News.PerSource})
	}
	return specs
}

func readLocation(location string) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Get(location)
		if err != nil {
			return nil, fmt.Errorf("config: fetch %s: %w", location, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("config: fetch %s: status %d", location, resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	}

	raw, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", location, err)
	}
	return raw, nil
}
