package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/voicejournal/promptlab/internal/models"
	"github.com/voicejournal/promptlab/internal/storage"
	"github.com/voicejournal/promptlab/internal/validation"
)

// Save writes ds to the store as indented JSON.
func Save(ctx context.Context, store storage.Store, name string, ds *models.Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	if err := store.Write(ctx, name, data); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}
	return nil
}

// Load reads a dataset from the store, rejecting documents that do not match
// the dataset schema.
func Load(ctx context.Context, store storage.Store, name string) (*models.Dataset, error) {
	data, err := store.Read(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	if errs := validation.ValidateDatasetBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("dataset %s is invalid:\n  %s", store.Location(name), strings.Join(errs, "\n  "))
	}

	var ds models.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decoding dataset %s: %w", store.Location(name), err)
	}
	return &ds, nil
}
