package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.DebugLevel)

	ctx := withLogger(context.Background(), logger)
	if got := loggerFromContext(ctx); got != logger {
		t.Error("loggerFromContext should return the attached logger")
	}

	// Without an attached logger the package default is used.
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default")
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug output should be filtered at info level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("info output should pass at info level")
	}
}

func TestConfigContext(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Indent = 7

	ctx := withConfig(context.Background(), cfg)
	if got := configFromContext(ctx); got.Indent != 7 {
		t.Error("configFromContext should return the attached config")
	}

	if got := configFromContext(context.Background()); got.Indent != 2 {
		t.Error("configFromContext should fall back to defaults")
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	p := newProgress(logger)
	p.done("Indexed 42 packages")

	out := buf.String()
	if !strings.Contains(out, "Indexed 42 packages") {
		t.Errorf("output %q should contain the message", out)
	}
	if !strings.Contains(out, "(") || !strings.Contains(out, ")") {
		t.Errorf("output %q should contain the elapsed duration", out)
	}
}
