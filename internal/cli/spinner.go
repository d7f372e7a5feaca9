package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner redraws one status line until stopped or until its context is
// cancelled. The status next to the message can be replaced while it runs,
// e.g. "Growing... tick 400 · 812 branches".
type spinner struct {
	w        io.Writer
	message  string
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	stopped  chan struct{}
	stopOnce sync.Once

	mu     sync.Mutex
	status string
	frame  int
	width  int
}

func newSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:        w,
		message:  message,
		interval: 80 * time.Millisecond,
		ctx:      ctx,
		cancel:   cancel,
		stopped:  make(chan struct{}),
	}
}

// Start draws the first frame and keeps animating in the background.
func (s *spinner) Start() {
	s.draw(false)
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.draw(true)
			}
		}
	}()
}

// Update replaces the status and redraws immediately.
func (s *spinner) Update(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
	s.draw(false)
}

func (s *spinner) draw(advance bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if advance {
		s.frame++
	}
	line := styleIconSpinner.Render(spinnerFrames[s.frame%len(spinnerFrames)]) + " " + StyleDim.Render(s.message)
	if s.status != "" {
		line += " " + StyleValue.Render(s.status)
	}
	s.width = max(s.width, len(line))
	fmt.Fprintf(s.w, "\r%s", line)
}

// Stop ends the animation and clears the line. Safe to call more than once.
func (s *spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.stopped
		s.mu.Lock()
		defer s.mu.Unlock()
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	})
}

// StopWithError stops the spinner and reports err below the cleared line.
func (s *spinner) StopWithError(message string, err error) {
	s.Stop()
	printError("%s: %v", message, err)
}
