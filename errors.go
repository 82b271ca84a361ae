package qrkit

import "errors"

var (
	// ErrUnsupportedType is returned when a record discriminant names none of
	// the known record kinds.
	ErrUnsupportedType = errors.New("unsupported record type")

	// ErrLogoDecode is returned when a logo image cannot be decoded.
	ErrLogoDecode = errors.New("logo decode failure")

	// ErrCanceled is returned by persistence prompts the user dismissed. It
	// is a terminal outcome, not a failure.
	ErrCanceled = errors.New("canceled")

	// ErrIO is returned when an artifact cannot be written.
	ErrIO = errors.New("write failure")

	// ErrUnsupportedEncoding is returned for image encodings that cannot be
	// produced.
	ErrUnsupportedEncoding = errors.New("unsupported image encoding")

	// ErrExportInFlight is reported when an export is requested while another
	// one has not finished.
	ErrExportInFlight = errors.New("export already in progress")

	// ErrInvalidDataURI is returned when a data URI cannot be parsed.
	ErrInvalidDataURI = errors.New("invalid data URI")
)
