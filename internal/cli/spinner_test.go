package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/arbor/pkg/core/growth"
)

func quietSpinner(ctx context.Context, buf *bytes.Buffer) *spinner {
	s := newSpinner(ctx, buf, "Growing...")
	s.interval = time.Hour
	return s
}

func TestSpinnerShowsGrowthStatus(t *testing.T) {
	var buf bytes.Buffer
	s := quietSpinner(context.Background(), &buf)
	s.Start()
	s.Update(growthStatus(growth.Stats{Ticks: 400, Branches: 812, LeafEnds: 310}))
	s.Stop()

	out := buf.String()
	for _, want := range []string{"Growing...", "tick 400 · 812 branches · 310 ends"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("line not cleared: %q", out)
	}
}

func TestSpinnerStopAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := quietSpinner(ctx, &buf)
	s.Start()
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after the context was cancelled")
	}
}

func TestSpinnerStopWithError(t *testing.T) {
	var buf bytes.Buffer
	s := quietSpinner(context.Background(), &buf)
	s.Start()
	s.StopWithError("Simulation failed", context.DeadlineExceeded)
	if strings.Contains(buf.String(), "Simulation failed") {
		t.Error("error message belongs on stderr, not on the spinner line")
	}
}
