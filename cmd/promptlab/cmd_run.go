package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/voicejournal/promptlab/internal/cache"
	"github.com/voicejournal/promptlab/internal/dataset"
	"github.com/voicejournal/promptlab/internal/execution"
	"github.com/voicejournal/promptlab/internal/hooks"
	"github.com/voicejournal/promptlab/internal/models"
	"github.com/voicejournal/promptlab/internal/orchestration"
	"github.com/voicejournal/promptlab/internal/prompts"
	"github.com/voicejournal/promptlab/internal/reporting"
	"github.com/voicejournal/promptlab/internal/spinner"
)

// missingKeyMessage is printed when the gemini engine has no credentials.
const missingKeyMessage = "Missing GEMINI_API_KEY in environment."

type runOptions struct {
	limit    int
	mode     string
	sleepMs  int
	dataset  string
	engine   string
	model    string
	workers  int
	retries  int
	rpm      int
	timeout  int
	cache    bool
	cacheDir string
	output   string
	prompts  string
	trace    string
	verbose  bool
	noHooks  bool
	minScore float64

	summaryVersions []string
	taskVersions    []string
	sampleFilters   []string
}

func newRunCommand(a *app) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run prompt experiments against the dataset",
		Long: `Run every prompt version of the selected families against the first
--limit samples of the dataset, score the model output against the ground
truth and save the aggregated results.

Model calls run one at a time with --sleep-ms between them unless --workers
is raised. The first failed model call aborts the run; use --retries to
retry transient failures first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(cmd, a, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.limit, "limit", orchestration.DefaultLimit, "Number of samples to run (from the front of the dataset)")
	f.StringVar(&opts.mode, "mode", string(models.ModeBoth), "Families to run: summary, tasks, or both")
	f.IntVar(&opts.sleepMs, "sleep-ms", int(orchestration.DefaultSleep/time.Millisecond), "Pause after each model call in milliseconds")
	f.StringVar(&opts.dataset, "dataset", dataset.DefaultName, "Dataset file (relative to the dataset directory)")
	f.StringVar(&opts.engine, "engine", execution.EngineGemini, "Model backend: gemini, copilot-sdk, or mock")
	f.StringVar(&opts.model, "model", "", "Model id (default: $GEMINI_MODEL or defaults.model)")
	f.IntVar(&opts.workers, "workers", 1, "Samples evaluated concurrently")
	f.IntVar(&opts.retries, "retries", 0, "Retries per failed model call (0 aborts on the first failure)")
	f.IntVar(&opts.rpm, "rpm", 0, "Client-side cap on requests per minute (0 disables)")
	f.IntVar(&opts.timeout, "timeout", 60, "Per-call timeout in seconds (0 disables)")
	f.BoolVar(&opts.cache, "cache", false, "Reuse cached model responses for identical prompts")
	f.StringVar(&opts.cacheDir, "cache-dir", "", "Response cache directory (default: cache.dir)")
	f.StringVarP(&opts.output, "output", "o", "", "Result file name (default: experiment_results_<timestamp>.json)")
	f.StringVar(&opts.prompts, "prompts", "", "YAML file with extra prompt versions")
	f.StringSliceVar(&opts.summaryVersions, "summary-versions", nil, "Only run these summary prompt versions")
	f.StringSliceVar(&opts.taskVersions, "task-versions", nil, "Only run these task prompt versions")
	f.StringArrayVar(&opts.sampleFilters, "sample", nil, "Filter samples by id/role glob pattern (can be repeated)")
	f.StringVar(&opts.trace, "trace", "", "Trace sink: auto, none, opik, or otel (default: tracing.backend)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Print one line per model call")
	f.BoolVar(&opts.noHooks, "no-hooks", false, "Skip the before_run and after_run hooks from .promptlab.yaml")
	f.Float64Var(&opts.minScore, "min-score", 0, "Exit with code 2 when any prompt version averages below this (0-1)")

	return cmd
}

// applyConfig fills every flag the user did not set from .promptlab.yaml.
func (o *runOptions) applyConfig(cmd *cobra.Command, a *app) {
	d := a.cfg.Defaults
	changed := cmd.Flags().Changed

	if !changed("limit") && d.Limit > 0 {
		o.limit = d.Limit
	}
	if !changed("mode") && d.Mode != "" {
		o.mode = d.Mode
	}
	if !changed("sleep-ms") && d.SleepMs != nil {
		o.sleepMs = *d.SleepMs
	}
	if !changed("engine") && d.Engine != "" {
		o.engine = d.Engine
	}
	if !changed("workers") && d.Workers > 0 {
		o.workers = d.Workers
	}
	if !changed("retries") && d.Retries > 0 {
		o.retries = d.Retries
	}
	if !changed("rpm") && d.RPM > 0 {
		o.rpm = d.RPM
	}
	if !changed("timeout") && d.Timeout > 0 {
		o.timeout = d.Timeout
	}
	if !changed("cache") && a.cfg.Cache.Enabled != nil {
		o.cache = *a.cfg.Cache.Enabled
	}
	if !changed("cache-dir") {
		o.cacheDir = a.cfg.CacheDir()
	}
	if !changed("trace") {
		o.trace = a.cfg.Tracing.Backend
	}
	if !changed("model") {
		o.model = ""
		if o.engine == execution.EngineGemini {
			o.model = firstEnv("GEMINI_MODEL")
			if o.model == "" {
				o.model = d.Model
			}
		}
	}
}

func runE(cmd *cobra.Command, a *app, opts *runOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	opts.applyConfig(cmd, a)

	mode, err := models.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	if opts.sleepMs < 0 {
		return fmt.Errorf("--sleep-ms must not be negative, got %d", opts.sleepMs)
	}
	if opts.workers < 1 {
		return fmt.Errorf("--workers must be at least 1, got %d", opts.workers)
	}

	engine, err := buildEngine(opts)
	if err != nil {
		return err
	}

	store, err := a.store()
	if err != nil {
		return err
	}

	hookRunner := &hooks.Runner{Output: out, Env: map[string]string{hooks.EnvDatasetDir: a.datasetDir()}}
	if !opts.noHooks {
		if err := hookRunner.Execute(ctx, "before_run", a.projectHooks(a.cfg.Hooks.BeforeRun)); err != nil {
			return err
		}
	}

	ds, err := dataset.Load(ctx, store, opts.dataset)
	if err != nil {
		return err
	}
	if len(opts.sampleFilters) > 0 {
		ds.Samples, err = orchestration.FilterSamples(ds.Samples, opts.sampleFilters)
		if err != nil {
			return err
		}
	}

	library, err := buildLibrary(opts)
	if err != nil {
		return err
	}

	tracer, err := a.tracer(ctx, opts.trace)
	if err != nil {
		return err
	}

	if err := engine.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing %s engine: %w", opts.engine, err)
	}
	defer func() {
		if err := engine.Shutdown(context.Background()); err != nil {
			slog.Warn("engine shutdown failed", "engine", opts.engine, "error", err)
		}
	}()

	runner := orchestration.NewRunner(engine, library,
		orchestration.WithMode(mode),
		orchestration.WithSleep(time.Duration(opts.sleepMs)*time.Millisecond),
		orchestration.WithModel(opts.model),
		orchestration.WithTimeout(time.Duration(opts.timeout)*time.Second),
		orchestration.WithTracer(tracer),
		orchestration.WithWorkers(opts.workers),
		orchestration.WithEngineName(opts.engine),
	)

	stopSpinner := func() {}
	if opts.verbose {
		p := &progressPrinter{w: out}
		runner.OnProgress(p.verbose)
	} else if spinner.IsTerminal(out) {
		s := spinner.New(out, "Starting experiment")
		runner.OnProgress(spinnerListener(s))
		stopSpinner = s.Stop
	}

	result, err := runner.Run(ctx, ds, opts.limit)
	stopSpinner()
	if err != nil {
		return err
	}

	orchestration.FormatConsoleSummary(out, result)

	name := opts.output
	if name == "" {
		name = reporting.ResultName(result.CreatedAt)
	}
	if err := reporting.SaveResult(ctx, store, name, result); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved results to %s\n", store.Location(name))

	if !opts.noHooks {
		hookRunner.Env[hooks.EnvResult] = store.Location(name)
		if err := hookRunner.Execute(ctx, "after_run", a.projectHooks(a.cfg.Hooks.AfterRun)); err != nil {
			return err
		}
	}

	if opts.minScore > 0 {
		return checkThreshold(result, opts.minScore)
	}
	return nil
}

func buildEngine(opts *runOptions) (execution.Engine, error) {
	engine, err := execution.New(execution.Options{
		Name:              opts.engine,
		Model:             opts.model,
		APIKey:            os.Getenv("GEMINI_API_KEY"),
		RequestsPerMinute: opts.rpm,
		Timeout:           time.Duration(opts.timeout) * time.Second,
	})
	if errors.Is(err, execution.ErrMissingAPIKey) {
		return nil, errors.New(missingKeyMessage)
	}
	if err != nil {
		return nil, err
	}

	engine = execution.WithRetry(engine, opts.retries)

	cacheDir := ""
	if opts.cache {
		cacheDir = opts.cacheDir
	}
	return execution.WithCache(engine, cache.New(cacheDir), opts.engine, opts.model), nil
}

func buildLibrary(opts *runOptions) (*prompts.Library, error) {
	library := prompts.Default()
	if opts.prompts != "" {
		if err := library.LoadFile(opts.prompts); err != nil {
			return nil, err
		}
	}
	if err := library.Only(models.FamilySummary, opts.summaryVersions); err != nil {
		return nil, err
	}
	if err := library.Only(models.FamilyTasks, opts.taskVersions); err != nil {
		return nil, err
	}
	return library, nil
}

// checkThreshold returns a ThresholdError naming every prompt version whose
// average is below min.
func checkThreshold(result *models.ExperimentResult, min float64) error {
	var low []string
	for _, family := range models.Families() {
		fr := result.Family(family)
		for _, v := range fr.Versions() {
			if avg := fr.Averages[v]; avg < min {
				low = append(low, fmt.Sprintf("%s/%s %.1f%%", family, v, avg*100))
			}
		}
	}
	if len(low) == 0 {
		return nil
	}
	return &ThresholdError{
		Message: fmt.Sprintf("%d prompt version(s) below %.1f%%: %s", len(low), min*100, strings.Join(low, ", ")),
	}
}
