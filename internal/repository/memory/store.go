// Package memory provides the in-process Store implementation. It is
// the default backend and the one tests run against; a fresh instance
// per test gives clean isolation.
package memory

import (
	"context"
	"sync"

	"github.com/oreka/backend/internal/domain/models"
)

// Store keeps all records and file records in memory behind a single
// RWMutex. The write lock around Append is the serialization point the
// pipeline requires: two concurrent uploads cannot interleave their
// batches, and readers always see whole batches.
type Store struct {
	mu        sync.RWMutex
	files     []models.FileRecord
	records   []models.Record
	snapshots []models.SummarySnapshot
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Append commits the file record and its records as one unit.
func (s *Store) Append(_ context.Context, file models.FileRecord, records []models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = append(s.files, file)
	s.records = append(s.records, records...)
	return nil
}

// AllFiles returns the processing history in insertion order.
func (s *Store) AllFiles(_ context.Context) ([]models.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]models.FileRecord, len(s.files))
	copy(files, s.files)
	return files, nil
}

// AllRecords returns a snapshot of the full record set.
func (s *Store) AllRecords(_ context.Context) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.Record, len(s.records))
	copy(records, s.records)
	return records, nil
}

// SaveSnapshot stores a dated summary snapshot.
func (s *Store) SaveSnapshot(_ context.Context, snapshot models.SummarySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

// Snapshots returns the stored snapshots in insertion order.
func (s *Store) Snapshots() []models.SummarySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshots := make([]models.SummarySnapshot, len(s.snapshots))
	copy(snapshots, s.snapshots)
	return snapshots
}
