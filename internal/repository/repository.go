// Package repository defines the persistence boundary of the ingestion
// pipeline. The store is the single source of truth for records and the
// per-file processing history; projections hold no state of their own.
package repository

import (
	"context"

	"github.com/oreka/backend/internal/domain/models"
)

// Store is the aggregate store contract. Append commits the file record
// and its extracted records together or not at all; concurrent readers
// never observe a partially applied batch. There is no update or delete
// operation: corrections are additive, by ingesting a superseding file.
type Store interface {
	Append(ctx context.Context, file models.FileRecord, records []models.Record) error
	AllFiles(ctx context.Context) ([]models.FileRecord, error)
	AllRecords(ctx context.Context) ([]models.Record, error)
}

// SnapshotSink persists dated summary snapshots produced by the
// scheduler. Kept separate from Store because snapshots are write-only
// audit data the dashboard never reads back.
type SnapshotSink interface {
	SaveSnapshot(ctx context.Context, snapshot models.SummarySnapshot) error
}
