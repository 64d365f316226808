package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"folio/internal/domain/config"
	domainerr "folio/internal/domain/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := config.Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
site:
  title: My Blog
  site_url: https://example.com
catalog:
  related_limit: 5
serve:
  debounce: 1s
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Title != "My Blog" {
		t.Errorf("title: got %q", cfg.Site.Title)
	}
	if cfg.Catalog.RelatedLimit != 5 {
		t.Errorf("related_limit: got %d", cfg.Catalog.RelatedLimit)
	}
	if cfg.Catalog.WordsPerMinute != 200 {
		t.Errorf("words_per_minute should keep default, got %d", cfg.Catalog.WordsPerMinute)
	}
	if cfg.Serve.Debounce != time.Second {
		t.Errorf("debounce: got %v", cfg.Serve.Debounce)
	}
}

func TestValidateReportsFields(t *testing.T) {
	cfg := config.Default()
	cfg.Site.Title = ""
	cfg.Site.SiteURL = "ftp://nope"
	cfg.Log.Level = "loud"
	cfg.Catalog.RelatedLimit = 0

	err := cfg.Validate()
	if !errors.Is(err, domainerr.ErrInvalid) {
		t.Fatalf("want ErrInvalid, got %v", err)
	}
	var ve domainerr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %T", err)
	}

	fields := map[string]bool{}
	for _, item := range ve.Items {
		fields[item.Field] = true
	}
	for _, want := range []string{"site.title", "site.site_url", "log.level", "catalog.related_limit"} {
		if !fields[want] {
			t.Errorf("missing field error for %s in %v", want, ve.Items)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FOLIO_DATA_FILE":     "/tmp/data.json",
		"FOLIO_WORKERS":       "4",
		"FOLIO_WATCH":         "false",
		"FOLIO_RELATED_LIMIT": "not-a-number",
		"FOLIO_DEBOUNCE":      "50ms",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := config.Default()
	cfg.ApplyEnv(lookup)

	if cfg.Build.DataFile != "/tmp/data.json" {
		t.Errorf("data_file: got %q", cfg.Build.DataFile)
	}
	if cfg.Build.Workers != 4 {
		t.Errorf("workers: got %d", cfg.Build.Workers)
	}
	if cfg.Serve.Watch {
		t.Error("watch should be disabled")
	}
	if cfg.Catalog.RelatedLimit != 3 {
		t.Errorf("bad value should be ignored, got %d", cfg.Catalog.RelatedLimit)
	}
	if cfg.Serve.Debounce != 50*time.Millisecond {
		t.Errorf("debounce: got %v", cfg.Serve.Debounce)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := config.LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Build.SourceDir == "" {
		t.Error("expected default source dir")
	}
}

func TestLoadDotenvIgnoresMissing(t *testing.T) {
	if err := config.LoadDotenv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("LoadDotenv: %v", err)
	}
}
