// Package hooks runs the shell commands configured around an experiment
// run, such as regenerating the dataset before it or formatting the
// results after it.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Environment variables passed to hook commands.
const (
	EnvDatasetDir = "PROMPTLAB_DATASET_DIR"
	EnvResult     = "PROMPTLAB_RESULT"
)

// Hook is a single command.
type Hook struct {
	Command          string `yaml:"command" json:"command"`
	WorkingDirectory string `yaml:"working_directory,omitempty" json:"working_directory,omitempty"`
	ExitCodes        []int  `yaml:"exit_codes,omitempty" json:"exit_codes,omitempty"`
	ErrorOnFail      bool   `yaml:"error_on_fail,omitempty" json:"error_on_fail,omitempty"`
}

// Config holds the hooks of each lifecycle point.
type Config struct {
	BeforeRun []Hook `yaml:"before_run,omitempty" json:"before_run,omitempty"`
	AfterRun  []Hook `yaml:"after_run,omitempty" json:"after_run,omitempty"`
}

// Runner executes hook commands. Command output goes to Output when set.
type Runner struct {
	Output io.Writer
	// Env is appended to the process environment of every command.
	Env map[string]string
}

// Execute runs hooks in order. name identifies the lifecycle point
// (e.g. "before_run") in logs and errors.
func (r *Runner) Execute(ctx context.Context, name string, hooks []Hook) error {
	for i, h := range hooks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("hook %s: context canceled: %w", name, err)
		}

		if err := r.run(ctx, name, i, h); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) run(ctx context.Context, name string, index int, h Hook) error {
	if strings.TrimSpace(h.Command) == "" {
		return fmt.Errorf("hook %s[%d]: empty command", name, index)
	}

	parts := strings.Fields(h.Command)
	//nolint:gosec // hook commands come from the project's own .promptlab.yaml
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = h.WorkingDirectory
	cmd.Env = os.Environ()
	for k, v := range r.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	slog.Debug("running hook", "hook", name, "index", index, "command", h.Command)
	output, err := cmd.CombinedOutput()
	if r.Output != nil && len(output) > 0 {
		fmt.Fprintf(r.Output, "[hook:%s] %s", name, output)
		if !strings.HasSuffix(string(output), "\n") {
			fmt.Fprintln(r.Output)
		}
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// Command not found and similar.
			if h.ErrorOnFail {
				return fmt.Errorf("hook %s[%d]: %w", name, index, err)
			}
			slog.Warn("hook failed, continuing", "hook", name, "index", index, "error", err)
			return nil
		}
		exitCode = exitErr.ExitCode()
	}

	if !acceptableExit(exitCode, h.ExitCodes) {
		if h.ErrorOnFail {
			return fmt.Errorf("hook %s[%d]: command exited with code %d", name, index, exitCode)
		}
		slog.Warn("hook exited with unexpected code, continuing", "hook", name, "index", index, "code", exitCode)
	}
	return nil
}

// acceptableExit reports whether exitCode is allowed. An empty list allows
// only 0.
func acceptableExit(exitCode int, allowed []int) bool {
	if len(allowed) == 0 {
		return exitCode == 0
	}
	for _, code := range allowed {
		if exitCode == code {
			return true
		}
	}
	return false
}
