// Package cache stores model responses on disk so repeated runs over the same
// prompts skip the model call. Entries are zstd-compressed JSON files keyed
// by a hash of engine, model and prompt text.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

const entryExt = ".json.zst"

// Entry is one cached model response.
type Entry struct {
	Output    string    `json:"output"`
	ModelID   string    `json:"model_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Cache is a directory of compressed entries. An empty dir disables it.
type Cache struct {
	dir string
	mu  sync.Mutex

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// New creates a cache rooted at dir.
func New(dir string) *Cache {
	c := &Cache{dir: dir}
	if dir != "" {
		// Nil writer/reader: used only through EncodeAll/DecodeAll.
		c.encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		c.decoder, _ = zstd.NewReader(nil)
	}
	return c
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Enabled reports whether the cache has a directory.
func (c *Cache) Enabled() bool {
	return c != nil && c.dir != "" && c.encoder != nil && c.decoder != nil
}

// Key hashes the inputs that determine a model response.
func Key(engine, modelID, prompt string) string {
	h := sha256.New()
	for _, s := range []string{engine, modelID, prompt} {
		_ = writeString(h, s)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached entry if it exists. Unreadable entries are misses.
func (c *Cache) Get(key string) (*Entry, bool) {
	if !c.Enabled() {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	compressed, err := os.ReadFile(c.cachePath(key))
	if err != nil {
		return nil, false
	}

	data, err := c.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	return &entry, true
}

// Put stores an entry, replacing any previous one.
func (c *Cache) Put(key string, entry *Entry) error {
	if !c.Enabled() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling entry: %w", err)
	}

	if err := os.WriteFile(c.cachePath(key), c.encoder.EncodeAll(data, nil), 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// Clear removes the cache directory. It refuses to delete a directory that
// holds anything other than cache entries.
func (c *Cache) Clear() error {
	if c == nil || c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(c.dir); os.IsNotExist(err) {
		return nil
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			return fmt.Errorf("cache directory contains subdirectories - refusing to delete for safety")
		}
		if !strings.HasSuffix(entry.Name(), entryExt) {
			return fmt.Errorf("cache directory contains non-cache files - refusing to delete for safety")
		}
	}

	return os.RemoveAll(c.dir)
}

// Len counts the entries on disk.
func (c *Cache) Len() int {
	if c == nil || c.dir == "" {
		return 0
	}
	matches, _ := filepath.Glob(filepath.Join(c.dir, "*"+entryExt))
	return len(matches)
}

func (c *Cache) cachePath(key string) string {
	return filepath.Join(c.dir, key+entryExt)
}

// writeString writes s with a null delimiter to prevent hash collisions.
func writeString(w io.Writer, s string) error {
	_, err := w.Write([]byte(s + "\x00"))
	return err
}
