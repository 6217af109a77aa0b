//go:build !wasm
// +build !wasm

package console

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerFormatsRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.LevelInfo, &buf))

	logger.Info("element defined", "tag", "hello-world", "observed", 2)

	got := strings.TrimSpace(buf.String())
	want := "INFO element defined tag=hello-world observed=2"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.LevelWarn, &buf))

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("Expected info record to be filtered")
	}
	if !strings.Contains(buf.String(), "WARN shown") {
		t.Errorf("Expected warn record, got %q", buf.String())
	}
}

func TestHandlerGroupsAndQuoting(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(nil, &buf)).
		With("tag", "hello-world").
		WithGroup("hook")

	logger.Error("panicked", "name", "construct", "panic", "index out of range")

	got := strings.TrimSpace(buf.String())
	want := `ERROR panicked tag=hello-world hook.name=construct hook.panic="index out of range"`
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
