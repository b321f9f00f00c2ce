package execution

import (
	"fmt"
	"time"
)

// Options selects and configures an engine for New.
type Options struct {
	Name  string
	Model string

	// Gemini
	APIKey            string
	BaseURL           string
	RequestsPerMinute int
	Timeout           time.Duration

	// StubOutput is what the mock engine answers. Empty uses DefaultStubOutput.
	StubOutput string
}

// New builds the engine named by opts.Name.
func New(opts Options) (Engine, error) {
	switch opts.Name {
	case EngineGemini:
		return NewGeminiEngine(GeminiOptions{
			APIKey:            opts.APIKey,
			Model:             opts.Model,
			BaseURL:           opts.BaseURL,
			RequestsPerMinute: opts.RequestsPerMinute,
			Timeout:           opts.Timeout,
		})
	case EngineCopilot:
		return NewCopilotEngineBuilder(opts.Model, nil).Build(), nil
	case EngineMock:
		out := opts.StubOutput
		if out == "" {
			out = DefaultStubOutput
		}
		return NewStubEngine(out), nil
	default:
		return nil, fmt.Errorf("unknown engine %q: must be %s, %s, or %s", opts.Name, EngineGemini, EngineCopilot, EngineMock)
	}
}
