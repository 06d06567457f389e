package storage

import (
	"os"
	"path/filepath"

	"github.com/agentic-identity/core/pkg/aiderr"
	"github.com/google/uuid"
)

// tmpMarker is the substring every temp file carries, so directory scans can
// recognize and skip one regardless of the random suffix appended to it.
const tmpMarker = ".tmp-"

// atomicWriteFile writes data to a uniquely-suffixed temp file in path's
// directory, then renames it onto path, so readers never observe a
// partially-written file. The random suffix lets concurrent writers of
// distinct objects share a directory without colliding on the same temp
// name before either has renamed.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return aiderr.Wrap(aiderr.CodeIO, "failed to create parent directory", err)
	}
	tmpPath := path + tmpMarker + uuid.NewString()
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return aiderr.Wrap(aiderr.CodeIO, "failed to write temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return aiderr.Wrap(aiderr.CodeIO, "failed to commit file", err)
	}
	return nil
}
