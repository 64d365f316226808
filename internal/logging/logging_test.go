package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"folio/internal/domain/config"
	"folio/internal/logging"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Info().Msg("dropped")
	log.Warn().Str("slug", "tech/a").Msg("kept")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "kept" || entry["slug"] != "tech/a" || entry["level"] != "warn" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNewBadLevel(t *testing.T) {
	if _, err := logging.New(config.LogConfig{Level: "loud", Format: "json"}, &bytes.Buffer{}); err == nil {
		t.Fatal("want error for unknown level")
	}
}
