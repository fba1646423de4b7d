// Package storage provides the parse-scoped scratch directory used for
// temporary decoded artifacts: rasterized page images, converted sheets.
// A Workspace lives for exactly one parse invocation and is removed on Close,
// which the pipeline defers on every exit path.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Workspace is a temporary directory scoped to one parse invocation.
type Workspace struct {
	dir string
}

// NewWorkspace creates a scratch directory under the system temp dir.
func NewWorkspace() (*Workspace, error) {
	dir, err := os.MkdirTemp("", "statement-parse-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace root path.
func (w *Workspace) Dir() string { return w.dir }

// WriteFile stores an artifact and returns its full path. Filenames get a
// short unique prefix so repeated page renders never collide.
func (w *Workspace) WriteFile(name string, data []byte) (string, error) {
	safe := sanitizeFilename(name)
	path := filepath.Join(w.dir, fmt.Sprintf("%s_%s", uuid.New().String()[:8], safe))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", safe, err)
	}
	return path, nil
}

// Close removes the workspace and everything in it.
func (w *Workspace) Close() error {
	if w == nil || w.dir == "" {
		return nil
	}
	return os.RemoveAll(w.dir)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	replacer := strings.NewReplacer(" ", "_", "..", "_")
	name = replacer.Replace(name)
	if name == "" || name == "." {
		name = "artifact"
	}
	return name
}
