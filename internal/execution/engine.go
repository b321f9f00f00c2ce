package execution

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Engine names accepted by New and the --engine flag.
const (
	EngineGemini  = "gemini"
	EngineCopilot = "copilot-sdk"
	EngineMock    = "mock"
)

// ErrMissingAPIKey is returned when an engine that needs credentials has none.
var ErrMissingAPIKey = errors.New("missing API key")

// Engine sends a rendered prompt to a language model and returns its text.
type Engine interface {
	// Initialize sets up the engine
	Initialize(ctx context.Context) error

	// Execute sends one prompt
	Execute(ctx context.Context, req *ExecutionRequest) (*ExecutionResponse, error)

	// Shutdown cleans up resources
	Shutdown(ctx context.Context) error
}

// ExecutionRequest is a single model call.
type ExecutionRequest struct {
	SampleID      string
	PromptVersion string
	Message       string
	// ModelID overrides the engine's default model when set.
	ModelID string
	// Timeout bounds the call; zero leaves it to the engine's client.
	Timeout time.Duration
}

// ExecutionResponse is the raw model output for one request.
type ExecutionResponse struct {
	FinalOutput string
	ModelID     string
	DurationMs  int64
	Cached      bool
}

// withTimeout applies req.Timeout to ctx when set.
func withTimeout(ctx context.Context, req *ExecutionRequest) (context.Context, context.CancelFunc) {
	if req.Timeout > 0 {
		return context.WithTimeout(ctx, req.Timeout)
	}
	return context.WithCancel(ctx)
}

// StatusError is an HTTP failure from a model API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Code, e.Body)
}
