package execution

import (
	"context"
	"sync"
	"time"
)

// DefaultStubOutput is an empty but well-formed answer for either family.
const DefaultStubOutput = `{"wins":[],"drains":[],"future_focus":[],"tasks":[]}`

// StubEngine answers without a model: a fixed text or the result of a
// callback. It records every request it sees.
type StubEngine struct {
	modelID string
	respond func(req *ExecutionRequest) (string, error)

	mu    sync.Mutex
	calls []ExecutionRequest
}

// NewStubEngine returns an engine that always answers output.
func NewStubEngine(output string) *StubEngine {
	return NewStubEngineFunc(func(*ExecutionRequest) (string, error) {
		return output, nil
	})
}

// NewStubEngineFunc returns an engine that answers with fn's result.
func NewStubEngineFunc(fn func(req *ExecutionRequest) (string, error)) *StubEngine {
	return &StubEngine{modelID: "stub", respond: fn}
}

func (s *StubEngine) Initialize(ctx context.Context) error {
	return nil
}

func (s *StubEngine) Execute(ctx context.Context, req *ExecutionRequest) (*ExecutionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.calls = append(s.calls, *req)
	s.mu.Unlock()

	start := time.Now()
	out, err := s.respond(req)
	if err != nil {
		return nil, err
	}

	modelID := s.modelID
	if req.ModelID != "" {
		modelID = req.ModelID
	}
	return &ExecutionResponse{
		FinalOutput: out,
		ModelID:     modelID,
		DurationMs:  time.Since(start).Milliseconds(),
	}, nil
}

func (s *StubEngine) Shutdown(ctx context.Context) error {
	return nil
}

// Calls returns a copy of the requests seen so far.
func (s *StubEngine) Calls() []ExecutionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ExecutionRequest, len(s.calls))
	copy(out, s.calls)
	return out
}
