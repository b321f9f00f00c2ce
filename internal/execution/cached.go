package execution

import (
	"context"
	"log/slog"
	"time"

	"github.com/voicejournal/promptlab/internal/cache"
)

type cachedEngine struct {
	Engine
	cache        *cache.Cache
	engineName   string
	defaultModel string
}

// WithCache serves repeated prompts from c and stores fresh answers in it.
// A disabled cache returns engine as is.
func WithCache(engine Engine, c *cache.Cache, engineName, defaultModel string) Engine {
	if !c.Enabled() {
		return engine
	}
	return &cachedEngine{Engine: engine, cache: c, engineName: engineName, defaultModel: defaultModel}
}

func (e *cachedEngine) Execute(ctx context.Context, req *ExecutionRequest) (*ExecutionResponse, error) {
	model := e.defaultModel
	if req.ModelID != "" {
		model = req.ModelID
	}
	key := cache.Key(e.engineName, model, req.Message)

	if entry, ok := e.cache.Get(key); ok {
		slog.Debug("Cache hit", "sample", req.SampleID, "prompt", req.PromptVersion)
		return &ExecutionResponse{FinalOutput: entry.Output, ModelID: entry.ModelID, Cached: true}, nil
	}

	resp, err := e.Engine.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := e.cache.Put(key, &cache.Entry{Output: resp.FinalOutput, ModelID: resp.ModelID, CreatedAt: time.Now().UTC()}); err != nil {
		slog.Warn("failed to cache model response", "error", err)
	}
	return resp, nil
}
