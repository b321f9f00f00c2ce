package utils

import (
	"path/filepath"
	"strings"
	"time"
)

// ResolvePath returns path unchanged when absolute, otherwise joined onto baseDir.
func ResolvePath(path, baseDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// TimestampSlug renders t as an RFC 3339 UTC timestamp with millisecond
// precision, with ':' and '.' replaced so it is safe inside a file name.
// Slugs sort in chronological order.
func TimestampSlug(t time.Time) string {
	s := t.UTC().Format("2006-01-02T15:04:05.000Z")
	return strings.NewReplacer(":", "-", ".", "-").Replace(s)
}
