package qrkit

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

// imageDataURIPrefix matches the prefix stripped before artifact bytes are
// written to disk.
var imageDataURIPrefix = regexp.MustCompile(`^data:image/[\w.+-]+;base64,`)

// EncodeDataURI returns data as a base64 data URI of the given format.
func EncodeDataURI(format Format, data []byte) string {
	return "data:" + format.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsDataURI reports whether b looks like a data URI rather than raw bytes.
func IsDataURI(b []byte) bool {
	return bytes.HasPrefix(b, []byte("data:"))
}

// DecodeDataURI parses a base64 image data URI, returning the raw bytes and
// the media type it declared.
func DecodeDataURI(uri string) ([]byte, string, error) {
	loc := imageDataURIPrefix.FindStringIndex(uri)
	if loc == nil {
		return nil, "", fmt.Errorf("missing data:image/*;base64 prefix: %w", ErrInvalidDataURI)
	}
	mime := strings.TrimSuffix(strings.TrimPrefix(uri[:loc[1]], "data:"), ";base64,")
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(uri[loc[1]:]))
	if err != nil {
		return nil, "", fmt.Errorf("%v: %w", err, ErrInvalidDataURI)
	}
	return data, mime, nil
}

// ArtifactBytes accepts an exported artifact either as a data URI or as raw
// encoded bytes and returns the raw bytes together with their format.
func ArtifactBytes(artifact []byte) ([]byte, Format, error) {
	if IsDataURI(artifact) {
		data, mime, err := DecodeDataURI(string(artifact))
		if err != nil {
			return nil, FormatPNG, err
		}
		if f, err := ParseFormat(mime); err == nil {
			return data, f, nil
		}
		f, _ := SniffFormat(data)
		return data, f, nil
	}
	f, _ := SniffFormat(artifact)
	return artifact, f, nil
}
