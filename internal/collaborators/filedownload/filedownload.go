// Package filedownload implements core.Download by writing export text to
// disk under an advisory lock, following the lock-then-write shape
// five82-spindle's daemon uses to enforce single-writer access to a file.
package filedownload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryInterval = 50 * time.Millisecond

// Writer is a core.Download implementation for non-browser hosts: a
// browser host would trigger an actual file-save dialog, but a CLI or
// daemon has no such surface, so Save writes directly into Dir.
type Writer struct {
	Dir string
}

// NewWriter returns a Writer rooted at dir, creating dir if necessary.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &Writer{Dir: dir}, nil
}

// Save writes textContent to fileName under Dir. A flock guards against
// two concurrent exports racing on the same file path.
func (w *Writer) Save(ctx context.Context, fileName, textContent string) error {
	path := filepath.Join(w.Dir, filepath.Base(fileName))

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("lock export file: %w", err)
	}
	if !locked {
		return fmt.Errorf("export file %s is locked by another writer", path)
	}
	defer lock.Unlock()

	if err := os.WriteFile(path, []byte(textContent), 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}
