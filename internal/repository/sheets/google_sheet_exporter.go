// Package sheets mirrors the processing history to a Google Sheet so
// operators get a shareable audit trail outside the database. The
// export is optional and strictly one-way; nothing in the pipeline
// reads it back.
package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/oreka/backend/internal/config"
	"github.com/oreka/backend/internal/domain/models"
)

// GoogleSheetExporter appends one row per processed file using the
// official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	auditRange    string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed audit exporter.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		auditRange:    cfg.AuditRange,
		logger:        logger,
	}, nil
}

// ExportFileRecord appends the file record as one audit row.
func (e *GoogleSheetExporter) ExportFileRecord(ctx context.Context, file models.FileRecord) error {
	values := []interface{}{
		file.ProcessedAt.Format(time.RFC3339),
		file.FileName,
		string(file.FileType),
		string(file.Status),
		file.RecordCount,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, e.auditRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append audit row into range %s: %w", e.auditRange, err)
	}

	e.logger.Debug("audit row appended to sheet", zap.String("file_name", file.FileName))
	return nil
}
