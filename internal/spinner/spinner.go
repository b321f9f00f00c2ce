// Package spinner draws a one-line progress animation on interactive
// terminals.
package spinner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a message until stopped. The message can change while
// it runs.
type Spinner struct {
	w        io.Writer
	mu       sync.Mutex
	message  string
	width    int
	done     chan struct{}
	cleared  chan struct{}
	stopOnce sync.Once
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Start displays an animated spinner with the given message on w.
// Call the returned function to stop the spinner and clear the line.
func Start(w io.Writer, message string) (stop func()) {
	return New(w, message).Stop
}

// StartIfTerminal behaves like Start when w is a terminal and does nothing
// otherwise, so piped output stays free of control characters.
func StartIfTerminal(w io.Writer, message string) (stop func()) {
	if !IsTerminal(w) {
		return func() {}
	}
	return Start(w, message)
}

// New starts a spinner on w.
func New(w io.Writer, message string) *Spinner {
	s := &Spinner{
		w:       w,
		message: message,
		width:   len(message),
		done:    make(chan struct{}),
		cleared: make(chan struct{}),
	}
	go s.loop()
	return s
}

// Update replaces the message shown next to the spinner.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	if len(message) > s.width {
		s.width = len(message)
	}
}

// Stop halts the animation and clears the line. Safe to call more than once.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	<-s.cleared
}

func (s *Spinner) loop() {
	i := 0
	for {
		select {
		case <-s.done:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+2)) //nolint:errcheck
			s.mu.Unlock()
			close(s.cleared)
			return
		case <-time.After(80 * time.Millisecond):
			s.mu.Lock()
			pad := strings.Repeat(" ", s.width-len(s.message))
			fmt.Fprintf(s.w, "\r%s %s%s", frames[i%len(frames)], s.message, pad) //nolint:errcheck
			s.mu.Unlock()
			i++
		}
	}
}
