package execution

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	copilot "github.com/github/copilot-sdk/go"
	"github.com/voicejournal/promptlab/internal/utils"
)

// CopilotEngine sends prompts through the GitHub Copilot SDK, one session
// per request.
type CopilotEngine struct {
	defaultModelID string

	client copilotClient

	startOnce sync.Once
	startErr  error

	workspaceMu sync.Mutex
	workspace   string
}

// CopilotEngineBuilder builds a CopilotEngine with options
type CopilotEngineBuilder struct {
	engine *CopilotEngine
}

type CopilotEngineBuilderOptions struct {
	NewCopilotClient func(clientOptions *copilot.ClientOptions) copilotClient
}

// NewCopilotEngineBuilder creates a builder for CopilotEngine
//   - defaultModelID - used if the request has no model ID. Can be blank, which means the copilot
//     CLI will choose its own fallback model.
func NewCopilotEngineBuilder(defaultModelID string, options *CopilotEngineBuilderOptions) *CopilotEngineBuilder {
	copilotOptions := &copilot.ClientOptions{
		LogLevel:  "error",
		AutoStart: copilot.Bool(false),
	}

	var client copilotClient
	if options == nil || options.NewCopilotClient == nil {
		client = newCopilotClient(copilotOptions)
	} else {
		client = options.NewCopilotClient(copilotOptions)
	}

	return &CopilotEngineBuilder{
		engine: &CopilotEngine{
			defaultModelID: defaultModelID,
			client:         client,
		},
	}
}

func (b *CopilotEngineBuilder) Build() *CopilotEngine {
	return b.engine
}

func (e *CopilotEngine) Initialize(ctx context.Context) error {
	return ctx.Err()
}

// Execute sends the prompt in a fresh session and returns the assistant's
// reply. A failed send is returned as an error.
func (e *CopilotEngine) Execute(ctx context.Context, req *ExecutionRequest) (*ExecutionResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil req was passed to CopilotEngine.Execute")
	}

	e.startOnce.Do(func() {
		// copilot's autostart runs into issues when started from separate goroutines.
		e.startErr = e.client.Start(ctx)
	})
	if e.startErr != nil {
		return nil, fmt.Errorf("copilot failed to start: %w", e.startErr)
	}

	workspace, err := e.workspaceDir()
	if err != nil {
		return nil, err
	}

	modelID := e.defaultModelID
	if req.ModelID != "" {
		modelID = req.ModelID
	}

	ctx, cancel := withTimeout(ctx, req)
	defer cancel()

	start := time.Now()

	session, err := e.client.CreateSession(ctx, &copilot.SessionConfig{
		Model:               modelID,
		OnPermissionRequest: denyAllTools,
		WorkingDirectory:    workspace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	collector := &messageCollector{}

	unsubscribe := session.On(collector.On)
	defer unsubscribe()

	unsubscribe = session.On(utils.SessionToSlog)
	defer unsubscribe()

	if _, err := session.SendAndWait(ctx, copilot.MessageOptions{Prompt: req.Message}); err != nil {
		return nil, fmt.Errorf("copilot session %s: %w", session.SessionID(), err)
	}
	if msg := collector.ErrorMessage(); msg != "" {
		return nil, fmt.Errorf("copilot session %s: %s", session.SessionID(), msg)
	}

	return &ExecutionResponse{
		FinalOutput: collector.Output(),
		ModelID:     modelID,
		DurationMs:  time.Since(start).Milliseconds(),
	}, nil
}

// Shutdown stops the client and removes the scratch workspace.
func (e *CopilotEngine) Shutdown(ctx context.Context) error {
	if err := e.client.Stop(); err != nil {
		slog.Info("failed to stop client", "error", err)
	}

	e.workspaceMu.Lock()
	defer e.workspaceMu.Unlock()

	if e.workspace != "" {
		if err := os.RemoveAll(e.workspace); err != nil {
			slog.Warn("failed to cleanup workspace", "path", e.workspace, "error", err)
		}
		e.workspace = ""
	}
	return nil
}

// workspaceDir returns an empty directory sessions run in, so the CLI never
// sees the caller's working tree.
func (e *CopilotEngine) workspaceDir() (string, error) {
	e.workspaceMu.Lock()
	defer e.workspaceMu.Unlock()

	if e.workspace == "" {
		dir, err := os.MkdirTemp("", "promptlab-copilot-*")
		if err != nil {
			return "", fmt.Errorf("failed to create temp workspace: %w", err)
		}
		e.workspace = dir
	}
	return e.workspace, nil
}

// denyAllTools rejects every tool request; extraction prompts only need text.
func denyAllTools(request copilot.PermissionRequest, invocation copilot.PermissionInvocation) (copilot.PermissionRequestResult, error) {
	return copilot.PermissionRequestResult{Kind: "denied-by-rules"}, nil
}
