// Package qrkit turns structured records into QR code payloads and exports
// rendered codes, optionally branded with a center logo, as image files.
package qrkit

import (
	"bytes"
	"fmt"
	"strings"
)

// Format represents an image encoding an export can be written in.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatSVG
)

// String returns the short name of the image format.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpg"
	case FormatSVG:
		return "svg"
	default:
		return "unknown"
	}
}

// Extension returns the file extension for the format, without a dot.
func (f Format) Extension() string {
	return f.String()
}

// MIMEType returns the media type used in data URIs for the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

// ParseFormat maps a name or extension such as "png", "jpeg" or ".jpg" to a
// Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png", "image/png":
		return FormatPNG, nil
	case "jpg", "jpeg", "image/jpeg":
		return FormatJPEG, nil
	case "svg", "image/svg+xml":
		return FormatSVG, nil
	}
	return FormatPNG, fmt.Errorf("image format %q: %w", s, ErrUnsupportedEncoding)
}

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegMagic = []byte{0xff, 0xd8, 0xff}
)

// SniffFormat inspects the leading bytes of an encoded image. It reports false
// when the bytes are neither PNG nor JPEG.
func SniffFormat(data []byte) (Format, bool) {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return FormatPNG, true
	case bytes.HasPrefix(data, jpegMagic):
		return FormatJPEG, true
	case bytes.HasPrefix(bytes.TrimSpace(data), []byte("<svg")):
		return FormatSVG, true
	}
	return FormatPNG, false
}

// FileFilter names a group of file extensions offered by a save dialog.
type FileFilter struct {
	Name       string
	Extensions []string
}

// SaveFilters are the filters offered when prompting for a save location.
var SaveFilters = []FileFilter{
	{Name: "PNG Images", Extensions: []string{"png"}},
	{Name: "JPEG Images", Extensions: []string{"jpg", "jpeg"}},
	{Name: "SVG Images", Extensions: []string{"svg"}},
	{Name: "All Files", Extensions: []string{"*"}},
}

// FiltersFor returns SaveFilters reordered so the filter matching f comes
// first.
func FiltersFor(f Format) []FileFilter {
	out := make([]FileFilter, 0, len(SaveFilters))
	var rest []FileFilter
	for _, filter := range SaveFilters {
		if len(filter.Extensions) > 0 && filter.Extensions[0] == f.Extension() {
			out = append(out, filter)
			continue
		}
		rest = append(rest, filter)
	}
	return append(out, rest...)
}
