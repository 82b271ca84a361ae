package export

import (
	"context"

	qrkit "github.com/ericlevine/qrkit"
)

// Persistence saves artifacts at locations the user chooses.
//
// Prompts return qrkit.ErrCanceled when the user dismisses them.
type Persistence interface {
	// PromptSaveLocation asks where to save a single file.
	PromptSaveLocation(ctx context.Context, defaultName string, filters []qrkit.FileFilter) (string, error)

	// PromptDirectory asks for a directory to save a batch into.
	PromptDirectory(ctx context.Context) (string, error)

	// WriteBytes writes data to path.
	WriteBytes(ctx context.Context, path string, data []byte) error
}

// Downloader hands an artifact to a local download location without asking
// the user anything. It returns where the artifact ended up.
type Downloader interface {
	Download(ctx context.Context, name string, data []byte) (string, error)
}
