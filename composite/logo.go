package composite

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	qrkit "github.com/ericlevine/qrkit"
)

const (
	// MaxLogoBytes is the largest logo accepted, after data URI decoding.
	MaxLogoBytes = 5 << 20

	// MaxLogoPixels bounds the decoded logo area. Headers are checked before
	// any pixel buffer is allocated.
	MaxLogoPixels = 4096 * 4096
)

// LogoTask is an in-progress logo decode. It completes exactly once, with
// either an image or an error wrapping qrkit.ErrLogoDecode.
type LogoTask struct {
	done chan struct{}
	img  image.Image
	err  error
}

// DecodeLogo starts decoding data, which may be a data URI or raw image
// bytes, and returns immediately. A canceled ctx abandons the decode.
func DecodeLogo(ctx context.Context, data []byte) *LogoTask {
	t := &LogoTask{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		if err := ctx.Err(); err != nil {
			t.err = err
			return
		}
		t.img, t.err = decodeLogo(data)
	}()
	return t
}

// Done is closed when the task completes.
func (t *LogoTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task completes or ctx is done.
func (t *LogoTask) Wait(ctx context.Context) (image.Image, error) {
	select {
	case <-t.done:
		return t.img, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func decodeLogo(data []byte) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("decoder panic: %v: %w", r, qrkit.ErrLogoDecode)
		}
	}()

	if qrkit.IsDataURI(data) {
		raw, _, err := qrkit.DecodeDataURI(string(data))
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, qrkit.ErrLogoDecode)
		}
		data = raw
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty logo: %w", qrkit.ErrLogoDecode)
	}
	if len(data) > MaxLogoBytes {
		return nil, fmt.Errorf("logo is %s, limit is %s: %w",
			humanize.IBytes(uint64(len(data))), humanize.IBytes(MaxLogoBytes), qrkit.ErrLogoDecode)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, qrkit.ErrLogoDecode)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("logo has no pixels: %w", qrkit.ErrLogoDecode)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxLogoPixels {
		return nil, fmt.Errorf("logo is %dx%d, limit is %s pixels: %w",
			cfg.Width, cfg.Height, humanize.Comma(MaxLogoPixels), qrkit.ErrLogoDecode)
	}
	img, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, qrkit.ErrLogoDecode)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("logo has no pixels: %w", qrkit.ErrLogoDecode)
	}
	return img, nil
}
