package models

import "errors"

// Ingestion error taxonomy. Handlers translate these into HTTP statuses;
// everything else is wrapped with context and treated as internal.
var (
	// ErrUnsupportedFileType is returned before any parsing when neither
	// the declared content type nor the filename extension identifies a
	// supported format. No FileRecord is written for such uploads.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrNoUsableData is returned by an extractor that could not locate
	// any records at all (no recognizable CSV header, no amount anywhere
	// in a PDF). The upload is recorded as failed with zero records.
	ErrNoUsableData = errors.New("no usable data found in file")

	// ErrStoreUnavailable wraps persistence failures. The append is
	// rejected entirely; the caller should retry the whole upload.
	ErrStoreUnavailable = errors.New("aggregate store unavailable")
)

// Per-record validation errors. These reject a single record, never the
// whole file.
var (
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrNegativeDiscount = errors.New("discount must not be negative")
	ErrEmptyArea        = errors.New("area must not be empty")
	ErrUnknownPayment   = errors.New("unknown payment method")
)
