// Package projectconfig provides the ProjectConfig struct and loader for
// .promptlab.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/voicejournal/promptlab/internal/hooks"
	"github.com/voicejournal/promptlab/internal/utils"
)

// FileName is the project configuration file looked up from the working
// directory.
const FileName = ".promptlab.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultDatasetDir = "dataset/"

	DefaultEngine  = "gemini"
	DefaultModel   = "gemini-2.5-flash-lite"
	DefaultLimit   = 30
	DefaultMode    = "both"
	DefaultSleepMs = 250
	DefaultWorkers = 1
	DefaultTimeout = 60

	DefaultCacheDir = ".promptlab-cache"

	DefaultStorageBackend      = "fs"
	DefaultConnectionStringEnv = "AZURE_STORAGE_CONNECTION_STRING"
	DefaultTracingBackend      = "auto"
	DefaultTracingProject      = "voice-journal-prompts"
)

// PathsConfig holds directory paths.
type PathsConfig struct {
	Dataset string `yaml:"dataset,omitempty"`
}

// DefaultsConfig holds default run parameters.
type DefaultsConfig struct {
	Engine  string `yaml:"engine,omitempty"`
	Model   string `yaml:"model,omitempty"`
	Limit   int    `yaml:"limit,omitempty"`
	Mode    string `yaml:"mode,omitempty"`
	SleepMs *int   `yaml:"sleep_ms,omitempty"`
	Workers int    `yaml:"workers,omitempty"`
	Retries int    `yaml:"retries,omitempty"`
	RPM     int    `yaml:"rpm,omitempty"`
	// Timeout is the per-call limit in seconds.
	Timeout int `yaml:"timeout,omitempty"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// StorageConfig selects where datasets and results live.
type StorageConfig struct {
	Backend             string `yaml:"backend,omitempty"`
	AccountURL          string `yaml:"account_url,omitempty"`
	Container           string `yaml:"container,omitempty"`
	Prefix              string `yaml:"prefix,omitempty"`
	ConnectionStringEnv string `yaml:"connection_string_env,omitempty"`
}

// TracingConfig selects the trace sink. "auto" enables Opik when
// OPIK_API_KEY is set.
type TracingConfig struct {
	Backend   string `yaml:"backend,omitempty"`
	Project   string `yaml:"project,omitempty"`
	Workspace string `yaml:"workspace,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .promptlab.yaml.
type ProjectConfig struct {
	Paths    PathsConfig    `yaml:"paths,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
	Cache    CacheConfig    `yaml:"cache,omitempty"`
	Storage  StorageConfig  `yaml:"storage,omitempty"`
	Tracing  TracingConfig  `yaml:"tracing,omitempty"`
	Hooks    hooks.Config   `yaml:"hooks,omitempty"`

	// Dir is the directory relative paths resolve against: the one holding
	// the config file, or the start directory when there is none.
	Dir string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Dataset: DefaultDatasetDir,
		},
		Defaults: DefaultsConfig{
			Engine:  DefaultEngine,
			Model:   DefaultModel,
			Limit:   DefaultLimit,
			Mode:    DefaultMode,
			SleepMs: utils.Ptr(DefaultSleepMs),
			Workers: DefaultWorkers,
			Timeout: DefaultTimeout,
		},
		Cache: CacheConfig{
			Enabled: utils.Ptr(false),
			Dir:     DefaultCacheDir,
		},
		Storage: StorageConfig{
			Backend:             DefaultStorageBackend,
			ConnectionStringEnv: DefaultConnectionStringEnv,
		},
		Tracing: TracingConfig{
			Backend: DefaultTracingBackend,
			Project: DefaultTracingProject,
		},
	}
}

// DatasetDir returns the dataset directory resolved against Dir.
func (c *ProjectConfig) DatasetDir() string {
	return c.resolve(c.Paths.Dataset)
}

// CacheDir returns the cache directory resolved against Dir.
func (c *ProjectConfig) CacheDir() string {
	return c.resolve(c.Cache.Dir)
}

func (c *ProjectConfig) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Load finds .promptlab.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", startDir, err)
	}
	cfg.Dir = absStart

	path, data, err := findConfigFile(absStart)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	// Merge file values onto defaults.
	mergeConfig(cfg, &fileCfg)
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .promptlab.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) (string, []byte, error) {
	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	if src.Paths.Dataset != "" {
		dst.Paths.Dataset = src.Paths.Dataset
	}

	// Defaults
	if src.Defaults.Engine != "" {
		dst.Defaults.Engine = src.Defaults.Engine
	}
	if src.Defaults.Model != "" {
		dst.Defaults.Model = src.Defaults.Model
	}
	if src.Defaults.Limit != 0 {
		dst.Defaults.Limit = src.Defaults.Limit
	}
	if src.Defaults.Mode != "" {
		dst.Defaults.Mode = src.Defaults.Mode
	}
	if src.Defaults.SleepMs != nil {
		dst.Defaults.SleepMs = src.Defaults.SleepMs
	}
	if src.Defaults.Workers != 0 {
		dst.Defaults.Workers = src.Defaults.Workers
	}
	if src.Defaults.Retries != 0 {
		dst.Defaults.Retries = src.Defaults.Retries
	}
	if src.Defaults.RPM != 0 {
		dst.Defaults.RPM = src.Defaults.RPM
	}
	if src.Defaults.Timeout != 0 {
		dst.Defaults.Timeout = src.Defaults.Timeout
	}

	// Cache
	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}

	// Storage
	if src.Storage.Backend != "" {
		dst.Storage.Backend = src.Storage.Backend
	}
	if src.Storage.AccountURL != "" {
		dst.Storage.AccountURL = src.Storage.AccountURL
	}
	if src.Storage.Container != "" {
		dst.Storage.Container = src.Storage.Container
	}
	if src.Storage.Prefix != "" {
		dst.Storage.Prefix = src.Storage.Prefix
	}
	if src.Storage.ConnectionStringEnv != "" {
		dst.Storage.ConnectionStringEnv = src.Storage.ConnectionStringEnv
	}

	// Tracing
	if src.Tracing.Backend != "" {
		dst.Tracing.Backend = src.Tracing.Backend
	}
	if src.Tracing.Project != "" {
		dst.Tracing.Project = src.Tracing.Project
	}
	if src.Tracing.Workspace != "" {
		dst.Tracing.Workspace = src.Tracing.Workspace
	}
	if src.Tracing.Endpoint != "" {
		dst.Tracing.Endpoint = src.Tracing.Endpoint
	}

	// Hooks
	if len(src.Hooks.BeforeRun) > 0 {
		dst.Hooks.BeforeRun = src.Hooks.BeforeRun
	}
	if len(src.Hooks.AfterRun) > 0 {
		dst.Hooks.AfterRun = src.Hooks.AfterRun
	}
}
