// Package scan reads QR code payloads back out of images.
package scan

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNotFound is returned when no QR code can be decoded from an image.
var ErrNotFound = errors.New("barcode not found")

// File decodes the QR code in the image file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return Image(img)
}

// Bytes decodes the QR code in an encoded PNG, JPEG or GIF image.
func Bytes(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return Image(img)
}

// Image decodes the QR code in img.
//
// The global histogram binarizer is tried first since it is fast and suits
// clean renders, then the hybrid binarizer for unevenly lit images. Each is
// tried with a normal search and then as a pure barcode.
func Image(img image.Image) (string, error) {
	if img == nil {
		return "", ErrNotFound
	}
	source := gozxing.NewLuminanceSourceFromImage(img)
	binarizers := []gozxing.Binarizer{
		gozxing.NewGlobalHistgramBinarizer(source),
		gozxing.NewHybridBinarizer(source),
	}
	hintSets := []map[gozxing.DecodeHintType]interface{}{
		{gozxing.DecodeHintType_TRY_HARDER: true},
		{gozxing.DecodeHintType_PURE_BARCODE: true},
	}

	var lastErr error
	for _, bin := range binarizers {
		bmp, err := gozxing.NewBinaryBitmap(bin)
		if err != nil {
			lastErr = err
			continue
		}
		for _, hints := range hintSets {
			text, err := tryDecode(bmp, hints)
			if err == nil {
				return text, nil
			}
			lastErr = err
		}
	}
	return "", fmt.Errorf("%v: %w", lastErr, ErrNotFound)
}

// tryDecode recovers from panics that the decoder may raise on malformed
// input, converting them to errors.
func tryDecode(bmp *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("decoder panic: %v", r)
		}
	}()
	result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", err
	}
	return result.GetText(), nil
}
