// Package export delivers composed QR code images to disk, one at a time or as
// a batch, with at most one export in flight per Exporter.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync/atomic"
	"time"

	logging "github.com/ipfs/go-log/v2"

	qrkit "github.com/ericlevine/qrkit"
	"github.com/ericlevine/qrkit/composite"
)

var log = logging.Logger("qrkit/export")

// State is the phase of the export in flight.
type State int32

const (
	StateIdle State = iota
	StateComposing
	StateEncoding
	StateDelivering
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComposing:
		return "composing"
	case StateEncoding:
		return "encoding"
	case StateDelivering:
		return "delivering"
	default:
		return "unknown"
	}
}

// Request describes a single export.
type Request struct {
	// Surface is the rendered code. It is only read.
	Surface image.Image

	// Logo is an optional logo image, raw or as a data URI.
	Logo []byte

	// LogoScale is the logo width as a fraction of the surface width.
	LogoScale float64

	// Format is the requested image encoding.
	Format qrkit.Format

	// FileName is the suggested file name. Empty selects a timestamped name.
	FileName string
}

// BatchItem is one finished artifact of a batch.
type BatchItem struct {
	// Name is the display name; when usable it becomes the file name.
	Name string `json:"name"`

	// Artifact holds the encoded image, raw or as a data URI.
	Artifact []byte `json:"dataUrl"`
}

// Exporter composes, encodes and delivers exports. It is safe for concurrent
// use; a request made while another is in flight is rejected, not queued.
type Exporter struct {
	state     atomic.Int32
	store     Persistence
	downloads Downloader
	now       func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock sets the clock used for default file names.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// New creates an Exporter. Either collaborator may be nil when the capability
// is unavailable.
func New(store Persistence, downloads Downloader, opts ...Option) *Exporter {
	e := &Exporter{store: store, downloads: downloads, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current phase.
func (e *Exporter) State() State {
	return State(e.state.Load())
}

func (e *Exporter) acquire() bool {
	return e.state.CompareAndSwap(int32(StateIdle), int32(StateComposing))
}

func (e *Exporter) enter(s State) {
	e.state.Store(int32(s))
}

func (e *Exporter) release() {
	e.state.Store(int32(StateIdle))
}

// ExportSingle composes req's surface with its logo, encodes it and delivers
// the file. All failures are reported in the result.
func (e *Exporter) ExportSingle(ctx context.Context, req Request) (res DeliveryResult) {
	if !e.acquire() {
		return DeliveryResult{Rejected: true, Error: qrkit.ErrExportInFlight.Error()}
	}
	defer e.release()
	defer recoverTo(&res)

	if req.Surface == nil {
		return failed(errors.New("no surface to export"))
	}
	img, err := composite.Compose(ctx, req.Surface, req.Logo, req.LogoScale)
	if err != nil {
		return failed(fmt.Errorf("compose: %w", err))
	}

	e.enter(StateEncoding)
	data, format, err := composite.EncodeBytes(img, req.Format)
	if err != nil {
		return failed(err)
	}

	e.enter(StateDelivering)
	name := req.FileName
	if name == "" {
		name = DefaultFileName(e.now(), format)
	}
	return e.deliverSingle(ctx, data, format, name)
}

// deliverSingle saves through the persistence capability, falling back to a
// download when it is unavailable or fails. A canceled prompt is final.
func (e *Exporter) deliverSingle(ctx context.Context, data []byte, format qrkit.Format, name string) DeliveryResult {
	if e.store == nil {
		return e.download(ctx, data, name, nil)
	}

	path, err := e.store.PromptSaveLocation(ctx, name, qrkit.FiltersFor(format))
	if errors.Is(err, qrkit.ErrCanceled) {
		return DeliveryResult{Canceled: true}
	}
	if err != nil {
		log.Warnw("save prompt failed, downloading instead", "error", err)
		return e.download(ctx, data, name, err)
	}
	if err := e.store.WriteBytes(ctx, path, data); err != nil {
		log.Warnw("save failed, downloading instead", "path", path, "error", err)
		return e.download(ctx, data, name, err)
	}
	return DeliveryResult{Success: true, FilePath: path}
}

func (e *Exporter) download(ctx context.Context, data []byte, name string, cause error) DeliveryResult {
	if e.downloads == nil {
		if cause == nil {
			cause = errors.New("no download location available")
		}
		return failed(fmt.Errorf("%w: %w", qrkit.ErrIO, cause))
	}
	path, err := e.downloads.Download(ctx, name, data)
	if err != nil {
		if cause != nil {
			err = errors.Join(cause, err)
		}
		return failed(fmt.Errorf("%w: %w", qrkit.ErrIO, err))
	}
	return DeliveryResult{Success: true, FilePath: path}
}

// ExportBatch writes finished artifacts into one directory chosen once for
// the whole batch. Items are written in order; a failed item is recorded
// and does not stop the rest.
func (e *Exporter) ExportBatch(ctx context.Context, items []BatchItem) (res BatchResult) {
	if !e.acquire() {
		return BatchResult{Rejected: true, Error: qrkit.ErrExportInFlight.Error()}
	}
	defer e.release()
	defer func() {
		if r := recover(); r != nil {
			res = BatchResult{Error: fmt.Sprintf("export panic: %v", r)}
		}
	}()

	e.enter(StateDelivering)
	return e.deliverBatch(ctx, items)
}

func (e *Exporter) deliverBatch(ctx context.Context, items []BatchItem) BatchResult {
	if e.store == nil {
		return BatchResult{Error: "batch export needs a persistence capability"}
	}

	dir, err := e.store.PromptDirectory(ctx)
	if errors.Is(err, qrkit.ErrCanceled) {
		return BatchResult{Canceled: true}
	}
	if err != nil {
		return BatchResult{Error: err.Error()}
	}

	used := make(map[string]bool, len(items))
	results := make([]ItemResult, 0, len(items))
	for i, item := range items {
		data, format, err := qrkit.ArtifactBytes(item.Artifact)
		name := itemName(i, item.Name, format, used)
		path := filepath.Join(dir, name)
		if err == nil {
			err = ctx.Err()
		}
		if err == nil {
			err = e.store.WriteBytes(ctx, path, data)
		}
		if err != nil {
			log.Warnw("batch item failed", "index", i, "name", item.Name, "error", err)
			results = append(results, ItemResult{Error: err.Error(), Name: item.Name})
			continue
		}
		results = append(results, ItemResult{Success: true, FilePath: path, Name: item.Name})
	}
	return BatchResult{Success: true, Results: results}
}

func recoverTo(res *DeliveryResult) {
	if r := recover(); r != nil {
		*res = DeliveryResult{Error: fmt.Sprintf("export panic: %v", r)}
	}
}
