package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultGeminiModel is used when neither the request nor GEMINI_MODEL names one.
	DefaultGeminiModel = "gemini-2.5-flash-lite"

	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiTimeout = 2 * time.Minute
)

// GeminiOptions configures a GeminiEngine.
type GeminiOptions struct {
	APIKey string
	Model  string
	// BaseURL overrides the API root, mainly for tests.
	BaseURL string
	// RequestsPerMinute caps the call rate; zero disables the limiter.
	RequestsPerMinute int
	// Timeout is the HTTP client timeout; zero uses two minutes.
	Timeout time.Duration
}

// GeminiEngine calls the Gemini generateContent REST endpoint.
type GeminiEngine struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewGeminiEngine returns ErrMissingAPIKey when opts has no key.
func NewGeminiEngine(opts GeminiOptions) (*GeminiEngine, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	model := opts.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultGeminiTimeout
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	return &GeminiEngine{
		model:      model,
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}, nil
}

// Model returns the engine's default model.
func (g *GeminiEngine) Model() string {
	return g.model
}

func (g *GeminiEngine) Initialize(ctx context.Context) error {
	return ctx.Err()
}

func (g *GeminiEngine) Shutdown(ctx context.Context) error {
	g.httpClient.CloseIdleConnections()
	return nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Execute sends one prompt. Transport and API failures are returned as
// errors; an answer without candidates yields empty output.
func (g *GeminiEngine) Execute(ctx context.Context, req *ExecutionRequest) (*ExecutionResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil req was passed to GeminiEngine.Execute")
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}
	}

	model := g.model
	if req.ModelID != "" {
		model = req.ModelID
	}

	ctx, cancel := withTimeout(ctx, req)
	defer cancel()

	start := time.Now()
	text, err := g.generate(ctx, model, req.Message)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	slog.Debug("Gemini call complete", "sample", req.SampleID, "prompt", req.PromptVersion, "model", model, "duration", duration)

	return &ExecutionResponse{
		FinalOutput: text,
		ModelID:     model,
		DurationMs:  duration.Milliseconds(),
	}, nil
}

func (g *GeminiEngine) generate(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(data)
		var apiErr geminiError
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return "", &StatusError{Code: resp.StatusCode, Body: msg}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(parsed.Candidates) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
