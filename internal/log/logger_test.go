package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentAdvice, Output: &buf})
	l.Info("hello", "k", "v")
	out := buf.String()
	if !strings.Contains(out, "component=advice") || !strings.Contains(out, "k=v") {
		t.Fatalf("unexpected output %q", out)
	}

	buf.Reset()
	l.WithComponent(ComponentHTTP).Debug("dbg")
	if !strings.Contains(buf.String(), "component=http") {
		t.Fatalf("component not replaced: %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf})
	l.Info("x")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"component":"app"`) {
		t.Fatalf("expected json record, got %q", buf.String())
	}
}

func TestStructuredLoggerAdvice(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Level: slog.LevelInfo, Output: &buf}))
	sl.LogAdviceCompleted(context.Background(), 3, 1000, 12, errors.New("boom"))
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "error=boom") || !strings.Contains(out, "component=advice") {
		t.Fatalf("unexpected output %q", out)
	}
}
