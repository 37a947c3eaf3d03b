// Package ingest routes uploaded files to the right extractor and
// commits the outcome to the aggregate store.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oreka/backend/internal/domain/models"
	"github.com/oreka/backend/internal/extract"
	"github.com/oreka/backend/internal/repository"
	"github.com/oreka/backend/pkg/clients/webhook"
)

// mimeTypes maps declared content types onto file types. The declared
// type wins over the extension, but neither is trusted blindly: an
// unsupported value falls through to extension sniffing, and anything
// still unrecognized is rejected before a single byte is parsed.
var mimeTypes = map[string]models.FileType{
	"text/csv":                 models.FileTypeCSV,
	"application/csv":          models.FileTypeCSV,
	"application/vnd.ms-excel": models.FileTypeCSV,
	"application/pdf":          models.FileTypePDF,
}

// Ingestor describes the operation the HTTP layer performs.
type Ingestor interface {
	Ingest(ctx context.Context, upload models.Upload) (Result, error)
}

// AuditExporter mirrors processed file records to an external audit
// sheet. Optional; export failures are logged and never block uploads.
type AuditExporter interface {
	ExportFileRecord(ctx context.Context, file models.FileRecord) error
}

// Result is the outcome of one ingestion attempt.
type Result struct {
	File    models.FileRecord
	Skipped int
}

// Service implements the Ingestor interface. Extraction is pure and may
// run concurrently across uploads; the store's Append is the single
// serialization point.
type Service struct {
	store    repository.Store
	csv      *extract.CSVExtractor
	pdf      *extract.PDFExtractor
	notifier webhook.Client
	audit    AuditExporter
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new ingestion service. notifier and audit may be
// nil when the corresponding integration is not configured.
func NewService(store repository.Store, csv *extract.CSVExtractor, pdf *extract.PDFExtractor, notifier webhook.Client, audit AuditExporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		csv:      csv,
		pdf:      pdf,
		notifier: notifier,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
	}
}

// Ingest dispatches the upload to the matching extractor and commits
// the result. Unsupported files are rejected before parsing and leave
// no trace; failed extractions are recorded in the history with zero
// committed records; partial extractions commit what was usable.
func (s *Service) Ingest(ctx context.Context, upload models.Upload) (Result, error) {
	fileType, err := DetectFileType(upload.FileName, upload.ContentType)
	if err != nil {
		s.logger.Warn("rejected upload",
			zap.String("file_name", upload.FileName),
			zap.String("content_type", upload.ContentType))
		return Result{}, err
	}

	var extracted extract.Result
	var extractErr error
	switch fileType {
	case models.FileTypeCSV:
		extracted, extractErr = s.csv.Extract(upload.Data)
	case models.FileTypePDF:
		extracted, extractErr = s.pdf.Extract(upload.Data)
	}

	processedAt := s.now()
	file := models.FileRecord{
		ID:          uuid.NewString(),
		FileName:    upload.FileName,
		FileType:    fileType,
		ProcessedAt: processedAt,
	}

	if extractErr != nil {
		file.Status = models.StatusFailed
		if appendErr := s.store.Append(ctx, file, nil); appendErr != nil {
			return Result{}, appendErr
		}
		s.afterCommit(ctx, file)
		s.logger.Warn("extraction failed",
			zap.String("file_name", file.FileName),
			zap.String("file_type", string(fileType)),
			zap.Error(extractErr))
		return Result{File: file}, extractErr
	}

	records := make([]models.Record, 0, len(extracted.Records))
	skipped := extracted.Skipped
	for _, record := range extracted.Records {
		record.ID = uuid.NewString()
		record.SourceFileID = file.ID
		if record.OccurredAt.IsZero() {
			record.OccurredAt = processedAt
		}
		if err := record.Validate(); err != nil {
			skipped++
			s.logger.Debug("dropped invalid record", zap.String("file_name", file.FileName), zap.Error(err))
			continue
		}
		records = append(records, record)
	}

	file.RecordCount = len(records)
	file.Status = models.StatusOK
	if skipped > 0 {
		file.Status = models.StatusPartial
	}

	if err := s.store.Append(ctx, file, records); err != nil {
		return Result{}, err
	}
	s.afterCommit(ctx, file)

	s.logger.Info("file ingested",
		zap.String("file_name", file.FileName),
		zap.String("file_type", string(fileType)),
		zap.String("status", string(file.Status)),
		zap.Int("record_count", file.RecordCount),
		zap.Int("skipped", skipped))

	return Result{File: file, Skipped: skipped}, nil
}

// afterCommit runs the optional integrations. Their failures are logged
// only: the upload already committed and must not be reported as failed.
func (s *Service) afterCommit(ctx context.Context, file models.FileRecord) {
	if s.notifier != nil {
		event := webhook.UploadEvent{
			FileName:    file.FileName,
			FileType:    string(file.FileType),
			Status:      string(file.Status),
			RecordCount: file.RecordCount,
			ProcessedAt: file.ProcessedAt,
		}
		if err := s.notifier.NotifyUpload(ctx, event); err != nil {
			s.logger.Warn("upload notification failed", zap.String("file_name", file.FileName), zap.Error(err))
		}
	}

	if s.audit != nil {
		if err := s.audit.ExportFileRecord(ctx, file); err != nil {
			s.logger.Warn("audit export failed", zap.String("file_name", file.FileName), zap.Error(err))
		}
	}
}

// DetectFileType resolves the extractor for an upload from its declared
// content type first and its filename extension second. The backend
// repeats the check the upload widget performs client-side; the client
// is not trusted.
func DetectFileType(fileName, contentType string) (models.FileType, error) {
	declared := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(declared, ";"); idx >= 0 {
		declared = strings.TrimSpace(declared[:idx])
	}
	if fileType, ok := mimeTypes[declared]; ok {
		return fileType, nil
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return models.FileTypeCSV, nil
	case ".pdf":
		return models.FileTypePDF, nil
	}

	return "", fmt.Errorf("%w: %s (%s)", models.ErrUnsupportedFileType, fileName, contentType)
}
