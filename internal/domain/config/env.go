package config

import (
	"strconv"
	"time"
)

const envPrefix = "FOLIO_"

// ApplyEnv overrides file values with FOLIO_* variables. Values that do not
// parse are ignored and the file value is kept.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(envPrefix + key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(envPrefix + key); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	str("SITE_URL", &c.Site.SiteURL)
	str("SOURCE_DIR", &c.Build.SourceDir)
	str("DATA_FILE", &c.Build.DataFile)
	str("PUBLIC_DIR", &c.Build.PublicDir)
	str("INDEX_PATH", &c.Build.IndexPath)
	num("WORKERS", &c.Build.Workers)
	str("HIGHLIGHT_STYLE", &c.Build.HighlightStyle)
	flag("GIT_DATES", &c.Build.GitDates)
	num("RELATED_LIMIT", &c.Catalog.RelatedLimit)
	str("ADDR", &c.Serve.Addr)
	str("METRICS_ADDR", &c.Serve.MetricsAddr)
	flag("WATCH", &c.Serve.Watch)
	if v, ok := lookup(envPrefix + "DEBOUNCE"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.Serve.Debounce = d
		}
	}
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
}
