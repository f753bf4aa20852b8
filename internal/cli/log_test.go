package cli

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/needful/pkg/config"
)

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("published")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} INFO published`).MatchString(buf.String()) {
		t.Errorf("log line = %q, want an HH:MM:SS.ss timestamp", buf.String())
	}
}

func TestSetupLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		start  log.Level
		config string
		want   log.Level
	}{
		{"config lowers level", log.InfoLevel, "debug", log.DebugLevel},
		{"verbose wins over config", log.DebugLevel, "info", log.DebugLevel},
		{"config cannot raise level", log.InfoLevel, "warn", log.InfoLevel},
		{"unknown level ignored", log.InfoLevel, "chatty", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, tt.start)
			cfg := config.Default()
			cfg.Log.Level = tt.config

			e, err := c.setup(withLogger(context.Background(), c.Logger), cfg)
			if err != nil {
				t.Fatalf("setup: %v", err)
			}
			defer e.Close()

			if got := c.Logger.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommandsLogThroughContext(t *testing.T) {
	var logs bytes.Buffer
	c := New(&logs, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"render", "app"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.Contains(logs.String(), "Rendered 2 resources") {
		t.Errorf("logs = %q, want the render progress line", logs.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}

	l := newLogger(io.Discard, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}
