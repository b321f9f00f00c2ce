package execution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("gemini without key", func(t *testing.T) {
		_, err := New(Options{Name: EngineGemini})
		require.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("gemini", func(t *testing.T) {
		e, err := New(Options{Name: EngineGemini, APIKey: "k", Model: "gemini-2.5-flash"})
		require.NoError(t, err)
		g, ok := e.(*GeminiEngine)
		require.True(t, ok)
		assert.Equal(t, "gemini-2.5-flash", g.Model())
	})

	t.Run("copilot", func(t *testing.T) {
		e, err := New(Options{Name: EngineCopilot})
		require.NoError(t, err)
		assert.IsType(t, &CopilotEngine{}, e)
	})

	t.Run("mock", func(t *testing.T) {
		e, err := New(Options{Name: EngineMock})
		require.NoError(t, err)
		resp, err := e.Execute(context.Background(), &ExecutionRequest{Message: "hi"})
		require.NoError(t, err)
		assert.Equal(t, DefaultStubOutput, resp.FinalOutput)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := New(Options{Name: "claude"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown engine")
	})
}
