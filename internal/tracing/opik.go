package tracing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/voicejournal/promptlab/internal/models"
)

const (
	DefaultOpikURL     = "https://www.comet.com/opik/api"
	DefaultOpikProject = "Default Project"
)

// ErrMissingOpikKey is returned by NewOpik when no API key is configured.
var ErrMissingOpikKey = errors.New("missing OPIK_API_KEY")

// OpikOptions configures the Opik REST sink.
type OpikOptions struct {
	APIKey    string
	Workspace string
	Project   string
	BaseURL   string
	Client    *http.Client
	Now       func() time.Time
}

// Opik posts each record as a trace to the Opik REST API. Requests are sent
// inline; Flush only reports how many sends failed.
type Opik struct {
	opts OpikOptions

	mu     sync.Mutex
	failed int
}

type opikTrace struct {
	Name        string         `json:"name"`
	ProjectName string         `json:"project_name"`
	StartTime   string         `json:"start_time"`
	EndTime     string         `json:"end_time"`
	Input       map[string]any `json:"input"`
	Output      map[string]any `json:"output"`
	Metadata    map[string]any `json:"metadata"`
}

// NewOpik validates the options and fills defaults.
func NewOpik(opts OpikOptions) (*Opik, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingOpikKey
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultOpikURL
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	if opts.Project == "" {
		opts.Project = DefaultOpikProject
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Opik{opts: opts}, nil
}

func (o *Opik) Trace(ctx context.Context, rec models.TraceRecord) error {
	now := o.opts.Now().UTC().Format(time.RFC3339Nano)
	body, err := json.Marshal(opikTrace{
		Name:        rec.Name,
		ProjectName: o.opts.Project,
		StartTime:   now,
		EndTime:     now,
		Input:       rec.Input,
		Output:      rec.Output,
		Metadata:    rec.Metadata,
	})
	if err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.opts.BaseURL+"/v1/private/traces", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("authorization", o.opts.APIKey)
	if o.opts.Workspace != "" {
		req.Header.Set("Comet-Workspace", o.opts.Workspace)
	}

	resp, err := o.opts.Client.Do(req)
	if err != nil {
		o.markFailed()
		return fmt.Errorf("sending trace: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode/100 != 2 {
		o.markFailed()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("opik returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

func (o *Opik) Flush(context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failed > 0 {
		return fmt.Errorf("%d trace(s) could not be delivered", o.failed)
	}
	return nil
}

func (o *Opik) markFailed() {
	o.mu.Lock()
	o.failed++
	o.mu.Unlock()
}
