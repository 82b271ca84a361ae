// Package fsstore saves exports to the local filesystem.
package fsstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/facebookgo/atomicfile"
	logging "github.com/ipfs/go-log/v2"

	qrkit "github.com/ericlevine/qrkit"
	"github.com/ericlevine/qrkit/export"
)

var log = logging.Logger("qrkit/fsstore")

const (
	defaultFilePerm os.FileMode = 0o644
	defaultDirPerm  os.FileMode = 0o755
)

// Prompter asks the user where to save.
type Prompter interface {
	SaveLocation(ctx context.Context, defaultName string, filters []qrkit.FileFilter) (string, error)
	Directory(ctx context.Context) (string, error)
}

// Store persists artifacts at locations obtained from a Prompter.
type Store struct {
	prompter Prompter
	filePerm os.FileMode
	dirPerm  os.FileMode
}

var _ export.Persistence = (*Store)(nil)

// New creates a Store.
func New(p Prompter) *Store {
	return &Store{prompter: p, filePerm: defaultFilePerm, dirPerm: defaultDirPerm}
}

// PromptSaveLocation asks the prompter for a file path.
func (s *Store) PromptSaveLocation(ctx context.Context, defaultName string, filters []qrkit.FileFilter) (string, error) {
	path, err := s.prompter.SaveLocation(ctx, defaultName, filters)
	if err != nil {
		return "", err
	}
	return withExtension(path, filters), nil
}

// PromptDirectory asks the prompter for a directory.
func (s *Store) PromptDirectory(ctx context.Context) (string, error) {
	return s.prompter.Directory(ctx)
}

// WriteBytes atomically replaces path with data, creating parent directories.
func (s *Store) WriteBytes(ctx context.Context, path string, data []byte) error {
	return writeFile(ctx, path, data, s.filePerm, s.dirPerm)
}

func writeFile(ctx context.Context, path string, data []byte, filePerm, dirPerm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("%w: %w", qrkit.ErrIO, err)
	}
	f, err := atomicfile.New(path, filePerm)
	if err != nil {
		return fmt.Errorf("%w: %w", qrkit.ErrIO, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Abort()
		return fmt.Errorf("%w: %w", qrkit.ErrIO, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", qrkit.ErrIO, err)
	}
	log.Debugw("wrote file", "path", path, "bytes", len(data))
	return nil
}

// withExtension appends the first extension of the first filter when path
// has none.
func withExtension(path string, filters []qrkit.FileFilter) string {
	if filepath.Ext(path) != "" || len(filters) == 0 || len(filters[0].Extensions) == 0 {
		return path
	}
	ext := filters[0].Extensions[0]
	if ext == "*" {
		return path
	}
	return path + "." + ext
}
