package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/voicejournal/promptlab/internal/orchestration"
	"github.com/voicejournal/promptlab/internal/spinner"
)

// progressPrinter serializes listener output; with --workers > 1 events
// arrive from several goroutines.
type progressPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *progressPrinter) verbose(event orchestration.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch event.EventType {
	case orchestration.EventRunStart:
		fmt.Fprintf(p.w, "Running %d sample(s)...\n", event.TotalSamples)
	case orchestration.EventCallComplete:
		duration := time.Duration(event.DurationMs) * time.Millisecond
		cached := ""
		if event.Cached {
			cached = " [cached]"
		}
		fmt.Fprintf(p.w, "[%d/%d] %s %s %s: %.1f%% (%v)%s\n",
			event.SampleNum, event.TotalSamples, event.SampleID, event.Family, event.PromptVersion,
			event.Score*100, duration, cached)
	case orchestration.EventRunComplete:
		fmt.Fprintln(p.w)
	}
}

// spinnerListener moves a terminal spinner along with sample completion.
func spinnerListener(s *spinner.Spinner) orchestration.ProgressListener {
	var mu sync.Mutex
	done := 0
	return func(event orchestration.ProgressEvent) {
		switch event.EventType {
		case orchestration.EventRunStart:
			s.Update(fmt.Sprintf("Running 0/%d samples", event.TotalSamples))
		case orchestration.EventSampleComplete:
			mu.Lock()
			done++
			n := done
			mu.Unlock()
			s.Update(fmt.Sprintf("Running %d/%d samples (last: %s)", n, event.TotalSamples, event.SampleID))
		}
	}
}
