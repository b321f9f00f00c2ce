package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlobStore_Validation(t *testing.T) {
	_, err := NewBlobStore(BlobOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "container")

	_, err = NewBlobStore(BlobOptions{Container: "results"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection string or an account URL")
}

// Runs against a real account (or Azurite) when a connection string is
// provided; the container must already exist.
func TestBlobStore_Live(t *testing.T) {
	conn := os.Getenv("AZURE_STORAGE_CONNECTION_STRING")
	container := os.Getenv("PROMPTLAB_TEST_CONTAINER")
	if conn == "" || container == "" {
		t.Skip("AZURE_STORAGE_CONNECTION_STRING and PROMPTLAB_TEST_CONTAINER not set")
	}

	prefix := fmt.Sprintf("promptlab-test-%d/", time.Now().UnixNano())
	s, err := NewBlobStore(BlobOptions{ConnectionString: conn, Container: container, Prefix: prefix})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "experiment_results_a.json", []byte(`{"mode":"both"}`)))

	data, err := s.Read(ctx, "experiment_results_a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"both"}`, string(data))

	names, err := s.List(ctx, "experiment_results_")
	require.NoError(t, err)
	assert.Equal(t, []string{"experiment_results_a.json"}, names)

	_, err = s.Read(ctx, "missing.json")
	assert.ErrorIs(t, err, ErrNotFound)
}
