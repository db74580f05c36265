// Package logging builds the process logger. The TUI owns the terminal, so
// output goes to a file under the state directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	hclog "github.com/hashicorp/go-hclog"
)

var secretParam = regexp.MustCompile(`(?i)(api_key|token|pw|password)=([^&\s"]+)`)

// Open creates a named logger appending to path.
func Open(path, level string) (hclog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f, nil
}

func New(w io.Writer, level string) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "playfin",
		Level:  lvl,
		Output: w,
	})
}

// Redact masks credentials embedded in URLs or query strings.
func Redact(s string) string {
	return secretParam.ReplaceAllString(s, "$1=[REDACTED]")
}
