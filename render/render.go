// Package render draws a payload as a QR code raster surface.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultQuietZoneSize = 4

var (
	// ErrEmptyPayload is returned for an empty payload, which no QR symbol
	// can carry.
	ErrEmptyPayload = errors.New("found empty contents")

	// ErrInvalidColor is returned for colors that are not hex RGB values.
	ErrInvalidColor = errors.New("invalid color")
)

// Level is the error correction level of the symbol.
type Level string

const (
	LevelL Level = "L"
	LevelM Level = "M"
	LevelQ Level = "Q"
	LevelH Level = "H"
)

// ParseLevel accepts L, M, Q or H in either case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "L":
		return LevelL, nil
	case "M", "":
		return LevelM, nil
	case "Q":
		return LevelQ, nil
	case "H":
		return LevelH, nil
	}
	return "", fmt.Errorf("unknown error correction level: %s", s)
}

func (l Level) recovery() (qrcode.RecoveryLevel, error) {
	switch l {
	case LevelL:
		return qrcode.Low, nil
	case LevelM, "":
		return qrcode.Medium, nil
	case LevelQ:
		return qrcode.High, nil
	case LevelH:
		return qrcode.Highest, nil
	}
	return qrcode.Medium, fmt.Errorf("unknown error correction level: %s", string(l))
}

// Options configures rendering.
type Options struct {
	// Size is the edge length of the square output in pixels. It grows to the
	// smallest size that fits one pixel per module.
	Size int

	// Foreground and Background are hex colors such as "#000000".
	Foreground string
	Background string

	// Level is the error correction level.
	Level Level

	// Margin is the quiet zone in modules. Zero selects the standard four
	// modules. It only applies when IncludeMargin is set.
	Margin int

	// IncludeMargin draws a quiet zone around the symbol.
	IncludeMargin bool
}

// DefaultOptions returns the options new codes start with.
func DefaultOptions() Options {
	return Options{
		Size:          256,
		Foreground:    "#000000",
		Background:    "#ffffff",
		Level:         LevelM,
		IncludeMargin: true,
	}
}

func (o Options) quietZone() int {
	if !o.IncludeMargin {
		return 0
	}
	if o.Margin > 0 {
		return o.Margin
	}
	return defaultQuietZoneSize
}

// Render encodes payload as a QR code and draws it onto a new RGBA surface.
// The symbol is scaled by a whole number of pixels per module and centered.
func Render(payload string, opts Options) (*image.RGBA, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	if opts.Size < 0 || opts.Margin < 0 {
		return nil, fmt.Errorf("requested dimensions are too small: size %d, margin %d", opts.Size, opts.Margin)
	}
	fg, err := ParseHexColor(orDefault(opts.Foreground, "#000000"))
	if err != nil {
		return nil, err
	}
	bg, err := ParseHexColor(orDefault(opts.Background, "#ffffff"))
	if err != nil {
		return nil, err
	}
	level, err := opts.Level.recovery()
	if err != nil {
		return nil, err
	}

	code, err := qrcode.New(payload, level)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	code.DisableBorder = true
	return draw(code.Bitmap(), opts.Size, opts.quietZone(), fg, bg), nil
}

// draw scales the module grid into a size x size surface with quietZone
// modules of padding.
func draw(modules [][]bool, size, quietZone int, fg, bg color.RGBA) *image.RGBA {
	inputWidth := len(modules)
	qrWidth := inputWidth + quietZone*2
	outputWidth := size
	if outputWidth < qrWidth {
		outputWidth = qrWidth
	}

	multiple := outputWidth / qrWidth
	padding := (outputWidth - inputWidth*multiple) / 2

	img := image.NewRGBA(image.Rect(0, 0, outputWidth, outputWidth))
	fill(img, img.Bounds(), bg)
	for y, row := range modules {
		outputY := padding + y*multiple
		for x, dark := range row {
			if dark {
				outputX := padding + x*multiple
				fill(img, image.Rect(outputX, outputY, outputX+multiple, outputY+multiple), fg)
			}
		}
	}
	return img
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
