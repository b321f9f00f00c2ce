package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess        = 0 // Run completed
	ExitError          = 1 // Configuration, input or model-call error
	ExitBelowThreshold = 2 // Run completed but a prompt version scored under --min-score
)

// ThresholdError indicates that the experiment ran successfully but at
// least one prompt version averaged below the requested minimum.
type ThresholdError struct {
	Message string
}

func (e *ThresholdError) Error() string {
	return e.Message
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var thresholdErr *ThresholdError
	if errors.As(err, &thresholdErr) {
		return ExitBelowThreshold
	}
	return ExitError
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
