package interfaces

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogLogger_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger := NewSlogLogger(base).With(F("run_id", "abc"))

	logger.Debug("hidden")
	logger.Info("downloading", F("version", "v1.15.1"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered at info level, got %q", out)
	}
	for _, want := range []string{"msg=downloading", "version=v1.15.1", "run_id=abc"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestNoOpLogger(_ *testing.T) {
	var l Logger = &NoOpLogger{}
	l.Debug("x")
	l.Info("x", F("k", 1))
	l.Warn("x")
	l.Error("x")
}

type captureLogger struct {
	NoOpLogger
	fields []Field
}

func (c *captureLogger) Warn(_ string, fields ...Field) {
	c.fields = fields
}

func TestWithFields(t *testing.T) {
	base := &captureLogger{}
	WithFields(base, F("run_id", "abc")).Warn("order check failed", F("error", "boom"))

	if len(base.fields) != 2 || base.fields[0] != F("run_id", "abc") || base.fields[1] != F("error", "boom") {
		t.Errorf("fields = %v, want run_id then error", base.fields)
	}

	var buf bytes.Buffer
	slogger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	WithFields(slogger, F("run_id", "xyz")).Info("testing")
	if !strings.Contains(buf.String(), "run_id=xyz") {
		t.Errorf("slog output %q missing run_id", buf.String())
	}
}
