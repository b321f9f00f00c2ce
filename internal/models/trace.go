package models

// TraceRecord is a single evaluation step handed to a trace logger.
type TraceRecord struct {
	Name     string         `json:"name"`
	Input    map[string]any `json:"input"`
	Output   map[string]any `json:"output"`
	Metadata map[string]any `json:"metadata"`
}
