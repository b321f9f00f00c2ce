package execution

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	copilot "github.com/github/copilot-sdk/go"
	"github.com/stretchr/testify/require"
	"github.com/voicejournal/promptlab/internal/utils"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"
)

var enableCopilotTests = os.Getenv("ENABLE_COPILOT_TESTS") == "true"

// replayingSession wires session.On/SendAndWait so that SendAndWait delivers
// events to every registered handler.
func replayingSession(sessionMock *MockcopilotSession, events []copilot.SessionEvent, sendErr error) {
	var handlers []copilot.SessionEventHandler

	sessionMock.EXPECT().On(gomock.Any()).Times(2).DoAndReturn(func(h copilot.SessionEventHandler) func() {
		handlers = append(handlers, h)
		return func() {}
	})
	sessionMock.EXPECT().SendAndWait(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, opts copilot.MessageOptions) (*copilot.SessionEvent, error) {
			for _, evt := range events {
				for _, h := range handlers {
					h(evt)
				}
			}
			return &copilot.SessionEvent{}, sendErr
		})
	sessionMock.EXPECT().SessionID().Return("session-1").AnyTimes()
}

func newTestCopilotEngine(model string, clientMock *MockcopilotClient) *CopilotEngine {
	return NewCopilotEngineBuilder(model, &CopilotEngineBuilderOptions{
		NewCopilotClient: func(clientOptions *copilot.ClientOptions) copilotClient { return clientMock },
	}).Build()
}

func TestCopilotExecute(t *testing.T) {
	ctrl := gomock.NewController(t)
	clientMock := NewMockcopilotClient(ctrl)
	sessionMock := NewMockcopilotSession(ctrl)

	clientMock.EXPECT().Start(gomock.Any())
	clientMock.EXPECT().CreateSession(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, cfg *copilot.SessionConfig) (copilotSession, error) {
			require.Equal(t, "this-model-wins", cfg.Model)
			require.NotEmpty(t, cfg.WorkingDirectory)
			require.NotNil(t, cfg.OnPermissionRequest)
			return sessionMock, nil
		})
	clientMock.EXPECT().Stop()

	replayingSession(sessionMock, []copilot.SessionEvent{
		{Type: copilot.AssistantMessage, Data: copilot.Data{Content: utils.Ptr(`{"wins":`)}},
		{Type: copilot.AssistantMessage, Data: copilot.Data{Content: utils.Ptr(`["Fix login bug"]}`)}},
		{Type: copilot.SessionIdle},
	}, nil)

	engine := newTestCopilotEngine("gpt-4o-mini", clientMock)
	require.NoError(t, engine.Initialize(context.Background()))

	resp, err := engine.Execute(context.Background(), &ExecutionRequest{
		SampleID: "sample_01",
		Message:  "Summarize this work reflection",
		ModelID:  "this-model-wins",
		Timeout:  time.Minute,
	})
	require.NoError(t, err)
	require.Equal(t, `{"wins":["Fix login bug"]}`, resp.FinalOutput)
	require.Equal(t, "this-model-wins", resp.ModelID)

	workspace := engine.workspace
	require.DirExists(t, workspace)
	require.NoError(t, engine.Shutdown(context.Background()))
	require.NoDirExists(t, workspace)
}

func TestCopilotExecute_DefaultModel(t *testing.T) {
	ctrl := gomock.NewController(t)
	clientMock := NewMockcopilotClient(ctrl)
	sessionMock := NewMockcopilotSession(ctrl)

	clientMock.EXPECT().Start(gomock.Any())
	clientMock.EXPECT().CreateSession(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, cfg *copilot.SessionConfig) (copilotSession, error) {
			require.Equal(t, "gpt-4o-mini", cfg.Model)
			return sessionMock, nil
		})
	clientMock.EXPECT().Stop()
	replayingSession(sessionMock, nil, nil)

	engine := newTestCopilotEngine("gpt-4o-mini", clientMock)
	resp, err := engine.Execute(context.Background(), &ExecutionRequest{Message: "hi"})
	require.NoError(t, err)
	require.Empty(t, resp.FinalOutput)
	require.NoError(t, engine.Shutdown(context.Background()))
}

func TestCopilotExecute_SendErrorAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	clientMock := NewMockcopilotClient(ctrl)
	sessionMock := NewMockcopilotSession(ctrl)

	clientMock.EXPECT().Start(gomock.Any())
	clientMock.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(sessionMock, nil)
	clientMock.EXPECT().Stop()
	replayingSession(sessionMock, nil, errors.New("session error occurred"))

	engine := newTestCopilotEngine("gpt-4o-mini", clientMock)
	defer func() { require.NoError(t, engine.Shutdown(context.Background())) }()

	resp, err := engine.Execute(context.Background(), &ExecutionRequest{Message: "message"})
	require.ErrorContains(t, err, "session error occurred")
	require.Nil(t, resp)
}

func TestCopilotExecute_SessionErrorEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	clientMock := NewMockcopilotClient(ctrl)
	sessionMock := NewMockcopilotSession(ctrl)

	clientMock.EXPECT().Start(gomock.Any())
	clientMock.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(sessionMock, nil)
	clientMock.EXPECT().Stop()
	replayingSession(sessionMock, []copilot.SessionEvent{{Type: copilot.SessionError}}, nil)

	engine := newTestCopilotEngine("", clientMock)
	defer func() { require.NoError(t, engine.Shutdown(context.Background())) }()

	_, err := engine.Execute(context.Background(), &ExecutionRequest{Message: "message"})
	require.ErrorContains(t, err, sessionFailedUnknown)
}

func TestCopilotExecute_StartFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	clientMock := NewMockcopilotClient(ctrl)

	clientMock.EXPECT().Start(gomock.Any()).Return(errors.New("no cli"))

	engine := newTestCopilotEngine("", clientMock)

	_, err := engine.Execute(context.Background(), &ExecutionRequest{Message: "a"})
	require.ErrorContains(t, err, "copilot failed to start: no cli")

	// Start is attempted once; later calls report the same failure.
	_, err = engine.Execute(context.Background(), &ExecutionRequest{Message: "b"})
	require.ErrorContains(t, err, "no cli")
}

func TestCopilotExecute_NilRequest(t *testing.T) {
	engine := NewCopilotEngineBuilder("gpt-4o-mini", nil).Build()
	_, err := engine.Execute(context.Background(), nil)
	require.Error(t, err)
}

func TestCopilotExecuteParallel(t *testing.T) {
	if !enableCopilotTests {
		t.Skip("ENABLE_COPILOT_TESTS must be set in order to run live copilot tests")
	}

	engine := NewCopilotEngineBuilder("gpt-4o-mini", nil).Build()
	defer func() { require.NoError(t, engine.Shutdown(context.Background())) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	eg := errgroup.Group{}
	for range 4 {
		eg.Go(func() error {
			_, err := engine.Execute(ctx, &ExecutionRequest{
				Message: `Reply with {"tasks":[]} and nothing else.`,
				Timeout: 30 * time.Second,
			})
			return err
		})
	}
	require.NoError(t, eg.Wait())
}
