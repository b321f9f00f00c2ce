package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/voicejournal/promptlab/internal/hooks"
	"github.com/voicejournal/promptlab/internal/projectconfig"
	"github.com/voicejournal/promptlab/internal/storage"
	"github.com/voicejournal/promptlab/internal/tracing"
	"github.com/voicejournal/promptlab/internal/utils"
)

// envFiles are read in order; values already in the environment win.
var envFiles = []string{".env.local", ".env"}

// app carries state shared by every subcommand: the project config and
// the store derived from it.
type app struct {
	projectDir     string
	datasetDirFlag string

	cfg *projectconfig.ProjectConfig
}

func (a *app) load() error {
	cfg, err := projectconfig.Load(a.projectDir)
	if err != nil {
		return err
	}
	a.cfg = cfg

	for _, name := range envFiles {
		p := filepath.Join(cfg.Dir, name)
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
		slog.Debug("Loaded env file", "path", p)
	}
	return nil
}

func (a *app) datasetDir() string {
	if a.datasetDirFlag != "" {
		return a.datasetDirFlag
	}
	return a.cfg.DatasetDir()
}

// projectHooks returns hs with relative working directories resolved
// against the project directory.
func (a *app) projectHooks(hs []hooks.Hook) []hooks.Hook {
	out := make([]hooks.Hook, len(hs))
	for i, h := range hs {
		h.WorkingDirectory = utils.ResolvePath(h.WorkingDirectory, a.cfg.Dir)
		out[i] = h
	}
	return out
}

// store opens the configured storage backend.
func (a *app) store() (storage.Store, error) {
	switch a.cfg.Storage.Backend {
	case "", "fs":
		return storage.NewFSStore(a.datasetDir()), nil
	case "azblob":
		return storage.NewBlobStore(storage.BlobOptions{
			ConnectionString: os.Getenv(a.cfg.Storage.ConnectionStringEnv),
			AccountURL:       a.cfg.Storage.AccountURL,
			Container:        a.cfg.Storage.Container,
			Prefix:           a.cfg.Storage.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q: must be fs or azblob", a.cfg.Storage.Backend)
	}
}

// tracer builds the trace sink for backend. "auto" picks Opik when
// OPIK_API_KEY is set and nothing otherwise.
func (a *app) tracer(ctx context.Context, backend string) (tracing.Tracer, error) {
	if backend == "" || backend == "auto" {
		backend = tracing.BackendNone
		if os.Getenv("OPIK_API_KEY") != "" {
			backend = tracing.BackendOpik
		}
	}

	switch backend {
	case tracing.BackendNone:
		return tracing.Noop{}, nil
	case tracing.BackendOpik:
		project := firstEnv("OPIK_PROJECT_NAME")
		if project == "" {
			project = a.cfg.Tracing.Project
		}
		workspace := firstEnv("OPIK_WORKSPACE", "OPIK_WORKSPACE_NAME")
		if workspace == "" {
			workspace = a.cfg.Tracing.Workspace
		}
		opik, err := tracing.NewOpik(tracing.OpikOptions{
			APIKey:    os.Getenv("OPIK_API_KEY"),
			Workspace: workspace,
			Project:   project,
			BaseURL:   firstEnv("OPIK_URL_OVERRIDE"),
		})
		if err != nil {
			return nil, err
		}
		return opik, nil
	case tracing.BackendOTel:
		otel, err := tracing.NewOTel(ctx, tracing.OTelOptions{Endpoint: a.cfg.Tracing.Endpoint})
		if err != nil {
			return nil, err
		}
		return otel, nil
	default:
		return nil, fmt.Errorf("unknown trace backend %q: must be none, opik, or otel", backend)
	}
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}
