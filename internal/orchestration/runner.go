// Package orchestration runs prompt versions against a dataset and turns
// the model output into scored experiment results.
package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/voicejournal/promptlab/internal/execution"
	"github.com/voicejournal/promptlab/internal/models"
	"github.com/voicejournal/promptlab/internal/prediction"
	"github.com/voicejournal/promptlab/internal/prompts"
	"github.com/voicejournal/promptlab/internal/scoring"
	"github.com/voicejournal/promptlab/internal/tracing"
)

const (
	DefaultLimit = 30
	DefaultSleep = 250 * time.Millisecond

	TraceSummary = "summary_experiment"
	TraceTasks   = "task_experiment"
)

// Runner executes every prompt version of the enabled families for each
// sample and aggregates the scores.
type Runner struct {
	engine  execution.Engine
	library *prompts.Library

	mode       models.Mode
	model      string
	engineName string
	sleep      time.Duration
	timeout    time.Duration
	workers    int

	tracer  tracing.Tracer
	now     func() time.Time
	sleeper func(ctx context.Context, d time.Duration) error

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

const (
	EventRunStart       EventType = "run_start"
	EventCallStart      EventType = "call_start"
	EventCallComplete   EventType = "call_complete"
	EventSampleComplete EventType = "sample_complete"
	EventRunComplete    EventType = "run_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType     EventType
	SampleID      string
	SampleNum     int
	TotalSamples  int
	Family        models.Family
	PromptVersion string
	Score         float64
	DurationMs    int64
	Cached        bool
	Details       map[string]any
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMode selects which families run. Defaults to both.
func WithMode(m models.Mode) RunnerOption {
	return func(r *Runner) { r.mode = m }
}

// WithSleep sets the pause after every model call.
func WithSleep(d time.Duration) RunnerOption {
	return func(r *Runner) { r.sleep = d }
}

// WithModel overrides the engine's default model.
func WithModel(model string) RunnerOption {
	return func(r *Runner) { r.model = model }
}

// WithTimeout bounds each model call.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.timeout = d }
}

// WithTracer sets the trace sink. It is always wrapped with tracing.BestEffort.
func WithTracer(t tracing.Tracer) RunnerOption {
	return func(r *Runner) { r.tracer = tracing.BestEffort(t) }
}

// WithWorkers sets how many samples are processed at once.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) { r.workers = n }
}

// WithEngineName records the engine type in the result.
func WithEngineName(name string) RunnerOption {
	return func(r *Runner) { r.engineName = name }
}

// WithClock replaces time.Now for the result timestamp.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// WithSleeper replaces the pacing sleep.
func WithSleeper(fn func(ctx context.Context, d time.Duration) error) RunnerOption {
	return func(r *Runner) { r.sleeper = fn }
}

// NewRunner creates a runner over engine and library.
func NewRunner(engine execution.Engine, library *prompts.Library, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine:  engine,
		library: library,
		mode:    models.ModeBoth,
		sleep:   DefaultSleep,
		workers: 1,
		tracer:  tracing.Noop{},
		now:     time.Now,
		sleeper: sleepContext,
	}
	for _, o := range opts {
		o(r)
	}
	if r.workers < 1 {
		r.workers = 1
	}
	return r
}

// OnProgress registers a progress listener
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// scoredCall is the outcome of one prompt version on one sample.
type scoredCall struct {
	family  models.Family
	version string
	score   models.SampleScore
}

// sampleOutcome is a worker's private slot for one sample.
type sampleOutcome struct {
	calls []scoredCall
	model string
}

// Run evaluates the first limit samples of ds (all of them when limit is
// negative). The first model-call error aborts the run and no result is
// returned.
func (r *Runner) Run(ctx context.Context, ds *models.Dataset, limit int) (*models.ExperimentResult, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset is required")
	}
	samples := ds.Limit(limit)

	plan := make(map[models.Family][]prompts.Version)
	for _, family := range models.Families() {
		if r.mode.Includes(family) {
			plan[family] = r.library.Versions(family)
		}
	}

	runID := uuid.NewString()
	slog.Debug("starting experiment", "run_id", runID, "samples", len(samples), "mode", r.mode, "workers", r.workers)
	r.notifyProgress(ProgressEvent{EventType: EventRunStart, TotalSamples: len(samples)})

	slots := make([]sampleOutcome, len(samples))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range samples {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			out, err := r.runSample(gctx, plan, samples[i], i+1, len(samples))
			slots[i] = out
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acc := NewAccumulator()
	model := r.model
	for _, slot := range slots {
		for _, call := range slot.calls {
			acc.Add(call.family, call.version, call.score)
		}
		if model == "" {
			model = slot.model
		}
	}

	result := &models.ExperimentResult{
		CreatedAt:      r.now().UTC(),
		DatasetVersion: ds.Version,
		DatasetSize:    len(samples),
		Mode:           r.mode,
		Model:          model,
		RunID:          runID,
		Engine:         r.engineName,
		Summary:        acc.Finalize(models.FamilySummary),
		Tasks:          acc.Finalize(models.FamilyTasks),
	}

	if err := r.tracer.Flush(ctx); err != nil {
		slog.Warn("trace flush failed", "error", err)
	}
	r.notifyProgress(ProgressEvent{EventType: EventRunComplete, TotalSamples: len(samples)})
	return result, nil
}

func (r *Runner) runSample(ctx context.Context, plan map[models.Family][]prompts.Version, sample models.Sample, num, total int) (sampleOutcome, error) {
	var out sampleOutcome
	if err := ctx.Err(); err != nil {
		return out, err
	}
	for _, family := range models.Families() {
		for _, version := range plan[family] {
			r.notifyProgress(ProgressEvent{
				EventType:     EventCallStart,
				SampleID:      sample.ID,
				SampleNum:     num,
				TotalSamples:  total,
				Family:        family,
				PromptVersion: version.Name,
			})

			call, resp, err := r.runCall(ctx, family, version, sample)
			if err != nil {
				return out, err
			}
			out.calls = append(out.calls, call)
			if out.model == "" {
				out.model = resp.ModelID
			}

			r.notifyProgress(ProgressEvent{
				EventType:     EventCallComplete,
				SampleID:      sample.ID,
				SampleNum:     num,
				TotalSamples:  total,
				Family:        family,
				PromptVersion: version.Name,
				Score:         call.score.Score,
				DurationMs:    resp.DurationMs,
				Cached:        resp.Cached,
			})

			if err := r.sleeper(ctx, r.sleep); err != nil {
				return out, err
			}
		}
	}

	r.notifyProgress(ProgressEvent{
		EventType:    EventSampleComplete,
		SampleID:     sample.ID,
		SampleNum:    num,
		TotalSamples: total,
	})
	return out, nil
}

func (r *Runner) runCall(ctx context.Context, family models.Family, version prompts.Version, sample models.Sample) (scoredCall, *execution.ExecutionResponse, error) {
	message, err := version.BuildFor(sample)
	if err != nil {
		return scoredCall{}, nil, fmt.Errorf("building %s prompt %s: %w", family, version.Name, err)
	}

	resp, err := r.engine.Execute(ctx, &execution.ExecutionRequest{
		SampleID:      sample.ID,
		PromptVersion: version.Name,
		Message:       message,
		ModelID:       r.model,
		Timeout:       r.timeout,
	})
	if err != nil {
		return scoredCall{}, nil, fmt.Errorf("%s %s on %s: %w", family, version.Name, sample.ID, err)
	}
	slog.Debug("model call complete",
		"sample_id", sample.ID,
		"family", family,
		"prompt_version", version.Name,
		"duration_ms", resp.DurationMs,
		"cached", resp.Cached)

	model := r.model
	if model == "" {
		model = resp.ModelID
	}

	parsed, _ := prediction.ExtractJSON(resp.FinalOutput)
	call := scoredCall{family: family, version: version.Name}
	rec := models.TraceRecord{
		Input: map[string]any{
			"sample_id":      sample.ID,
			"prompt_version": version.Name,
			"transcript":     sample.Transcript,
		},
		Metadata: map[string]any{
			"model":      model,
			"experiment": string(family),
		},
	}

	switch family {
	case models.FamilySummary:
		scores := scoring.ScoreSummary(prediction.DecodeSummary(parsed), sample.GroundTruth)
		call.score = models.SampleScore{SampleID: sample.ID, Score: scores.Overall, Summary: &scores}
		rec.Name = TraceSummary
		var pred any
		if parsed != nil {
			pred = parsed
		}
		rec.Output = map[string]any{"prediction": pred, "scores": scores}
	case models.FamilyTasks:
		tasks := prediction.DecodeTasks(parsed)
		if tasks == nil {
			tasks = []models.Task{}
		}
		scores := scoring.ScoreTasks(tasks, sample.GroundTruth.Tasks)
		call.score = models.SampleScore{SampleID: sample.ID, Score: scores.F1, Tasks: &scores}
		rec.Name = TraceTasks
		rec.Output = map[string]any{"prediction": tasks, "scores": scores}
	default:
		return scoredCall{}, nil, fmt.Errorf("unknown family %q", family)
	}

	_ = r.tracer.Trace(ctx, rec)
	return call, resp, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
