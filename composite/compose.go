// Package composite overlays a logo on a rendered QR code and encodes the
// result as an image file.
package composite

import (
	"context"
	"errors"
	"image"
	"math"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/image/draw"
)

var log = logging.Logger("qrkit/composite")

const (
	// DefaultLogoScale is the logo width as a fraction of the surface width
	// used when no positive scale is given.
	DefaultLogoScale = 0.2

	// MaxLogoScale caps the logo width regardless of the requested scale.
	MaxLogoScale = 0.5
)

// Copy returns a private RGBA copy of surface with its origin at (0, 0).
func Copy(surface image.Image) *image.RGBA {
	b := surface.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), surface, b.Min, draw.Src)
	return dst
}

// Compose copies surface and, when logo is non-empty, draws the decoded logo
// centered on the copy. The surface itself is never written.
//
// A logo that fails to decode is logged and skipped so the export still
// succeeds without it. The only error returned is ctx's, when it is done
// before the logo finishes decoding.
func Compose(ctx context.Context, surface image.Image, logo []byte, logoScale float64) (*image.RGBA, error) {
	dst := Copy(surface)
	if len(logo) == 0 {
		return dst, nil
	}

	img, err := DecodeLogo(ctx, logo).Wait(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		log.Warnw("logo skipped", "error", err)
		return dst, nil
	}
	DrawLogo(dst, img, logoScale)
	return dst, nil
}

// LogoRect returns where a logo of the given size lands on a surface of the
// given bounds: centered, aspect preserved, width min(W*scale, W*0.5)
// rounded down to whole pixels.
func LogoRect(surface image.Rectangle, logo image.Point, scale float64) image.Rectangle {
	if scale <= 0 || math.IsNaN(scale) {
		scale = DefaultLogoScale
	}
	w := float64(surface.Dx())
	h := float64(surface.Dy())
	width := math.Floor(math.Min(w*scale, w*MaxLogoScale))
	height := math.Floor(float64(logo.Y) / float64(logo.X) * width)
	x := math.Round((w - width) / 2)
	y := math.Round((h - height) / 2)
	return image.Rect(int(x), int(y), int(x+width), int(y+height)).Add(surface.Min)
}

// DrawLogo scales logo into the centered rectangle given by LogoRect and
// draws it over dst, keeping the logo's transparency.
func DrawLogo(dst draw.Image, logo image.Image, scale float64) {
	lb := logo.Bounds()
	r := LogoRect(dst.Bounds(), lb.Size(), scale)
	if r.Empty() {
		log.Debugw("logo too small to draw", "rect", r)
		return
	}
	draw.CatmullRom.Scale(dst, r, logo, lb, draw.Over, nil)
}
