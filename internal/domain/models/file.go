package models

import "time"

// FileType enumerates supported upload formats.
type FileType string

const (
	FileTypeCSV FileType = "csv"
	FileTypePDF FileType = "pdf"
)

// FileStatus describes the outcome of processing one uploaded file.
type FileStatus string

const (
	// StatusOK means every row or section of the file was extracted.
	StatusOK FileStatus = "ok"
	// StatusPartial means some rows were skipped but usable records were
	// still committed.
	StatusPartial FileStatus = "partial"
	// StatusFailed means no usable data was found; nothing was committed
	// to the record set.
	StatusFailed FileStatus = "failed"
)

// FileRecord is the audit entry for one processed upload. FileRecords
// are append-only: they are never updated or deleted, so the processing
// history table always reflects every ingestion attempt that got past
// type detection.
type FileRecord struct {
	ID          string     `json:"-"`
	FileName    string     `json:"file_name"`
	FileType    FileType   `json:"file_type"`
	ProcessedAt time.Time  `json:"processed_at"`
	RecordCount int        `json:"record_count"`
	Status      FileStatus `json:"status"`
}

// Upload carries one incoming file through the ingestion pipeline.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}
