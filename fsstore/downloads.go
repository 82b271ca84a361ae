package fsstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	qrkit "github.com/ericlevine/qrkit"
	"github.com/ericlevine/qrkit/export"
)

// maxDuplicates bounds the "name (n).ext" search.
const maxDuplicates = 1000

// Downloads drops artifacts into a directory without asking, the way a
// browser download does. Existing files are never overwritten.
type Downloads struct {
	Dir string
}

var _ export.Downloader = Downloads{}

// DefaultDownloadsDir returns ~/Downloads, or the working directory when the
// home directory is unknown.
func DefaultDownloadsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

// Download writes data as name inside Dir, or as "name (n).ext" when name is
// taken.
func (d Downloads) Download(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := d.Dir
	if dir == "" {
		dir = DefaultDownloadsDir()
	}
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return "", fmt.Errorf("%w: %w", qrkit.ErrIO, err)
	}

	name = filepath.Base(name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; i < maxDuplicates; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, defaultFilePerm)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", qrkit.ErrIO, err)
		}
		// Reserve the name, then replace it atomically with the content.
		f.Close()
		if err := writeFile(ctx, path, data, defaultFilePerm, defaultDirPerm); err != nil {
			os.Remove(path)
			return "", err
		}
		return path, nil
	}
	return "", fmt.Errorf("%w: no free name for %s in %s", qrkit.ErrIO, name, dir)
}
