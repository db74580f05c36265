package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"playfin/internal/platform/logging"
)

func TestRedactMasksSecrets(t *testing.T) {
	t.Parallel()
	in := "https://media.example/Items/abc/Download?api_key=deadbeef&static=true"
	out := logging.Redact(in)
	if strings.Contains(out, "deadbeef") {
		t.Fatalf("api key leaked: %s", out)
	}
	if !strings.Contains(out, "api_key=[REDACTED]") || !strings.Contains(out, "static=true") {
		t.Fatalf("unexpected redaction: %s", out)
	}
}

func TestNewHonoursLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := logging.New(&buf, "warn")
	log.Info("hidden")
	log.Warn("shown", "k", "v")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected log output: %q", buf.String())
	}
}
