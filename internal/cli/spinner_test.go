package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Rendering SVG...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Rendering SVG...") {
		t.Errorf("output = %q, want the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output = %q, want the line cleared on stop", out)
	}
	if s.Interrupted() {
		t.Error("Interrupted() = true after a plain Stop")
	}
}

func TestSpinnerInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := newSpinner(ctx, &buf, "Rendering SVG...")
	s.Start()

	cancel()
	done := make(chan struct{})
	go func() { s.Stop(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the context was cancelled")
	}
	if !s.Interrupted() {
		t.Error("Interrupted() = false after the parent context was cancelled")
	}
}

func TestSpinnerStop(t *testing.T) {
	var buf bytes.Buffer

	s := newSpinner(context.Background(), &buf, "idle")
	s.Stop()
	s.Start()
	s.Stop()

	s = newSpinner(context.Background(), &buf, "twice")
	s.Start()
	s.Stop()
	s.Stop()
}
