package composite

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	qrkit "github.com/ericlevine/qrkit"
)

// JPEGQuality matches the default quality browsers use for image/jpeg.
const JPEGQuality = 92

// Encoder writes an image in one encoding.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(w io.Writer, img image.Image) error

// Encode calls f.
func (f EncoderFunc) Encode(w io.Writer, img image.Image) error {
	return f(w, img)
}

var encoders = map[qrkit.Format]Encoder{}

// RegisterEncoder registers the encoder used for format.
func RegisterEncoder(format qrkit.Format, enc Encoder) {
	encoders[format] = enc
}

// fallbacks maps formats with no encoder of their own to the format written
// instead.
var fallbacks = map[qrkit.Format]qrkit.Format{
	qrkit.FormatSVG: qrkit.FormatPNG,
}

func init() {
	RegisterEncoder(qrkit.FormatPNG, EncoderFunc(png.Encode))
	RegisterEncoder(qrkit.FormatJPEG, EncoderFunc(func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	}))
}

// Resolve returns the format that will actually be written for a request in
// format.
func Resolve(format qrkit.Format) (qrkit.Format, error) {
	if _, ok := encoders[format]; ok {
		return format, nil
	}
	if fb, ok := fallbacks[format]; ok {
		if _, ok := encoders[fb]; ok {
			return fb, nil
		}
	}
	return format, fmt.Errorf("no encoder registered for format %s: %w", format, qrkit.ErrUnsupportedEncoding)
}

// Encode writes img to w. Vector output is not produced: an SVG request is
// written as PNG. The format actually written is returned.
func Encode(w io.Writer, img image.Image, format qrkit.Format) (qrkit.Format, error) {
	actual, err := Resolve(format)
	if err != nil {
		return format, err
	}
	if actual != format {
		log.Infow("encoding degraded", "requested", format, "written", actual)
	}
	if err := encoders[actual].Encode(w, img); err != nil {
		return actual, fmt.Errorf("encode %s: %w", actual, err)
	}
	return actual, nil
}

// EncodeBytes is Encode into a byte slice.
func EncodeBytes(img image.Image, format qrkit.Format) ([]byte, qrkit.Format, error) {
	var buf bytes.Buffer
	actual, err := Encode(&buf, img, format)
	if err != nil {
		return nil, actual, err
	}
	return buf.Bytes(), actual, nil
}

// EncodeDataURI is Encode into a data URI.
func EncodeDataURI(img image.Image, format qrkit.Format) (string, qrkit.Format, error) {
	data, actual, err := EncodeBytes(img, format)
	if err != nil {
		return "", actual, err
	}
	return qrkit.EncodeDataURI(actual, data), actual, nil
}
