package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetEnvWithDefault(t *testing.T) {
	const key = "TEST_APP_PORT"

	_ = os.Unsetenv(key)
	if got := getEnv(key, "9000"); got != "9000" {
		t.Fatalf("getEnv(%q) = %q, want %q", key, got, "9000")
	}

	if err := os.Setenv(key, "8080"); err != nil {
		t.Fatalf("Setenv error: %v", err)
	}
	defer os.Unsetenv(key)
	if got := getEnv(key, "9000"); got != "8080" {
		t.Fatalf("getEnv(%q) = %q, want %q", key, got, "8080")
	}
}

func TestGetEnvIntRejectsGarbage(t *testing.T) {
	const key = "TEST_CACHE_TTL"
	defer os.Unsetenv(key)

	_ = os.Setenv(key, "not-a-number")
	if got := getEnvInt(key, 300); got != 300 {
		t.Fatalf("getEnvInt should fall back to default, got %d", got)
	}
	_ = os.Setenv(key, "60")
	if got := getEnvInt(key, 300); got != 60 {
		t.Fatalf("getEnvInt = %d, want 60", got)
	}
}

func writeSourcesFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "news.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write sources file: %v", err)
	}
	return path
}

func TestLoadSourcesAppliesDefaults(t *testing.T) {
	path := writeSourcesFile(t, `{"news": {"sources": ["https://example.org/rss"]}}`)

	s, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources error: %v", err)
	}
	if s.Timezone != "UTC" {
		t.Fatalf("Timezone = %q, want UTC", s.Timezone)
	}
	if s.MaxAgeDays != 3 {
		t.Fatalf("MaxAgeDays = %d, want 3", s.MaxAgeDays)
	}
	if s.News.PerSource != 10 {
		t.Fatalf("PerSource = %d, want 10", s.News.PerSource)
	}
}

func TestLoadSourcesStringAndObjectEntries(t *testing.T) {
	path := writeSourcesFile(t, `{
		"timezone": "Africa/Bamako",
		"maxAgeDays": 5,
		"regions": [" Mali ", "SAHEL"],
		"news": {
			"perSource": 4,
			"sources": [
				"https://api.reliefweb.int/v1/reports",
				{"url": "https://www.devex.com/news"}
			]
		}
	}`)

	s, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources error: %v", err)
	}
	if len(s.News.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(s.News.Sources))
	}
	if s.News.Sources[0].URL != "https://api.reliefweb.int/v1/reports" {
		t.Fatalf("string entry not parsed: %+v", s.News.Sources[0])
	}
	if s.News.Sources[1].URL != "https://www.devex.com/news" {
		t.Fatalf("object entry not parsed: %+v", s.News.Sources[1])
	}

	// Region keywords are normalized to lower case.
	if s.Regions[0] != "mali" || s.Regions[1] != "sahel" {
		t.Fatalf("regions not normalized: %v", s.Regions)
	}

	specs := s.Specs()
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	for _, spec := range specs {
		if spec.Cap != 4 {
			t.Fatalf("spec cap = %d, want perSource 4", spec.Cap)
		}
	}
}

func TestLoadSourcesMissingFile(t *testing.T) {
	if _, err := LoadSources(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	s := &Sources{Timezone: "Not/AZone"}
	if got := s.Location(); got.String() != "UTC" {
		t.Fatalf("Location = %q, want UTC", got)
	}

	s = &Sources{Timezone: "Africa/Bamako"}
	if got := s.Location(); got.String() != "Africa/Bamako" {
		t.Fatalf("Location = %q, want Africa/Bamako", got)
	}
}
