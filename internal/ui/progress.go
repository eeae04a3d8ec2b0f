package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Spinner shows indeterminate progress while forge runs the suite. The
// runner emits the whole report at once, so there is no per-test progress
// to count; the spinner just keeps the terminal alive.
type Spinner struct {
	bar  *progressbar.ProgressBar
	done chan struct{}
}

// NewSpinner creates and starts a spinner with the given description.
func NewSpinner(description string) *Spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)

	s := &Spinner{bar: bar, done: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.bar.Add(1)
			}
		}
	}()
	return s
}

// Describe updates the spinner's description.
func (s *Spinner) Describe(description string) {
	s.bar.Describe(color.CyanString(description))
}

// Finish stops the spinner.
func (s *Spinner) Finish() {
	close(s.done)
	s.bar.Finish()
}
