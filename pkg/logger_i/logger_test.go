package logger_i

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerFollowsInit(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	// created before Init, as package-level loggers are
	l := NewLogger("ingest").With("traceId", "t-1")

	var buf bytes.Buffer
	InitWithWriter(&buf, true, "info")
	l.Debug("hidden")
	l.Info("loaded", "files", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record, got %q", buf.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatal(err)
	}
	if record["component"] != "ingest" || record["traceId"] != "t-1" || record["msg"] != "loaded" || record["files"] != float64(2) {
		t.Errorf("unexpected record %v", record)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, expected := range tests {
		if got := ParseLevel(in); got != expected {
			t.Errorf("ParseLevel(%q): expected %v, got %v", in, expected, got)
		}
	}
}
