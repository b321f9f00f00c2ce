package execution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubEngine(t *testing.T) {
	engine := NewStubEngine(DefaultStubOutput)
	ctx := context.Background()

	require.NoError(t, engine.Initialize(ctx))
	resp, err := engine.Execute(ctx, &ExecutionRequest{SampleID: "sample_01", Message: "m"})
	require.NoError(t, err)
	assert.Equal(t, DefaultStubOutput, resp.FinalOutput)
	assert.Equal(t, "stub", resp.ModelID)

	calls := engine.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "sample_01", calls[0].SampleID)
	require.NoError(t, engine.Shutdown(ctx))
}

func TestStubEngine_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStubEngine("x").Execute(ctx, &ExecutionRequest{})
	require.ErrorIs(t, err, context.Canceled)
}
