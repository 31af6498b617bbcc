package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Spinner displays an animated spinner with a message while a long
// operation, such as probing external links, runs.
type Spinner struct {
	out     io.Writer
	enabled bool
	message string
	frames  []string
	done    chan struct{}
	wg      sync.WaitGroup
}

// Default spinner frames (dots style)
var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a spinner that draws on f. It only animates when f is
// a terminal.
func NewSpinner(f *os.File, message string) *Spinner {
	return &Spinner{
		out:     f,
		enabled: IsTerminal(f),
		message: message,
		frames:  defaultFrames,
		done:    make(chan struct{}),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if !s.enabled {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for current := 0; ; current++ {
			select {
			case <-s.done:
				// Clear the spinner line
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				frame := s.frames[current%len(s.frames)]
				fmt.Fprintf(s.out, "\r%s %s", Bold.Render(frame), s.message)
			}
		}
	}()
}

// Stop stops the spinner and clears its line.
func (s *Spinner) Stop() {
	if !s.enabled {
		return
	}
	close(s.done)
	s.wg.Wait()
}
