package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// spinnerFrames are drawn in turn every spinnerTick.
var spinnerFrames = [...]string{"|", "/", "-", "\\"}

const spinnerTick = 100 * time.Millisecond

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// Spinner shows a message with an animated frame while the daemon is
// started or stopped. On a writer that is not a terminal the message is
// printed once and nothing is animated.
type Spinner struct {
	message string
	writer  io.Writer

	mu      sync.Mutex
	running bool
	quit    chan struct{}
	wg      sync.WaitGroup
}

// NewSpinner creates a spinner writing to stdout.
func NewSpinner(message string) *Spinner {
	return &Spinner{message: message, writer: os.Stdout}
}

// SetWriter sets the output writer (useful for testing).
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = w
}

// Start begins the animation. Starting a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true

	if !writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "%s...\n", s.message)
		return
	}

	s.quit = make(chan struct{})
	s.wg.Add(1)
	go s.animate(s.quit)
}

func (s *Spinner) animate(quit <-chan struct{}) {
	defer s.wg.Done()

	t := time.NewTicker(spinnerTick)
	defer t.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-quit:
			return
		case <-t.C:
			s.mu.Lock()
			fmt.Fprintf(s.writer, "\r%s  %s", spinnerFrames[frame%len(spinnerFrames)], s.message)
			s.mu.Unlock()
		}
	}
}

// Stop ends the animation and clears the line. It waits for the animation
// goroutine, so nothing is drawn after Stop returns.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	quit := s.quit
	s.quit = nil
	s.mu.Unlock()

	if quit == nil {
		return
	}
	close(quit)
	s.wg.Wait()

	s.mu.Lock()
	fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
	s.mu.Unlock()
}

// StopWithMessage stops the spinner and prints message on its own line.
func (s *Spinner) StopWithMessage(message string) {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.writer, message)
}
