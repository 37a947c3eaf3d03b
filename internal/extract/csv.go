package extract

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/oreka/backend/internal/domain/models"
)

// columnAliases maps each canonical record field to the native column
// names seen in POS exports. Header matching is case-insensitive and
// ignores column order.
var columnAliases = map[string][]string{
	"amount":    {"amount", "total", "total_amount", "price", "gross", "net_amount", "montant"},
	"area":      {"area", "department", "zone", "section", "location"},
	"payment":   {"payment_method", "payment", "payment_type", "tender", "paiement"},
	"timestamp": {"timestamp", "date", "datetime", "time", "created_at", "transaction_date"},
	"discount":  {"discount", "discount_amount", "remise"},
}

// CSVExtractor parses point-of-sale CSV exports into records.
type CSVExtractor struct {
	logger *zap.Logger
}

// NewCSVExtractor wires a new CSV extractor instance.
func NewCSVExtractor(logger *zap.Logger) *CSVExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVExtractor{logger: logger}
}

// Extract reads the delimited table and maps every row onto the record
// schema. Rows that cannot be parsed are skipped and counted; the only
// hard failure is a file whose header matches no recognized amount
// column, which yields models.ErrNoUsableData.
func (e *CSVExtractor) Extract(data []byte) (Result, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if delim := sniffDelimiter(data); delim != ',' {
		reader.Comma = delim
	}

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("%w: no header row", models.ErrNoUsableData)
	}

	columns := matchHeader(header)
	if _, ok := columns["amount"]; !ok {
		return Result{}, fmt.Errorf("%w: no amount column in header %v", models.ErrNoUsableData, header)
	}

	var result Result
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed line (bare quote, bad escaping). Skip and
			// keep going.
			result.Skipped++
			continue
		}

		record, ok := e.mapRow(row, columns)
		if !ok {
			result.Skipped++
			continue
		}
		result.Records = append(result.Records, record)
	}

	e.logger.Debug("csv extraction finished",
		zap.Int("records", len(result.Records)),
		zap.Int("skipped", result.Skipped))

	return result, nil
}

// mapRow converts one data row into a record using the matched column
// positions. A row without a parseable, non-negative amount is rejected.
func (e *CSVExtractor) mapRow(row []string, columns map[string]int) (models.Record, bool) {
	amountIdx, ok := columns["amount"]
	if !ok || amountIdx >= len(row) {
		return models.Record{}, false
	}

	amount, err := parseMoney(row[amountIdx])
	if err != nil || amount.IsNegative() {
		e.logger.Debug("skip row with unusable amount", zap.Strings("row", row), zap.Error(err))
		return models.Record{}, false
	}

	discount := decimal.Zero
	if idx, ok := columns["discount"]; ok && idx < len(row) && strings.TrimSpace(row[idx]) != "" {
		discount, err = parseMoney(row[idx])
		if err != nil || discount.IsNegative() {
			e.logger.Debug("skip row with unusable discount", zap.Strings("row", row), zap.Error(err))
			return models.Record{}, false
		}
	}

	record := models.Record{
		Amount:        amount,
		Area:          models.AreaUnclassified,
		PaymentMethod: models.PaymentOther,
		Discount:      discount,
	}

	if idx, ok := columns["area"]; ok && idx < len(row) {
		record.Area = models.NormalizeArea(row[idx])
	}
	if idx, ok := columns["payment"]; ok && idx < len(row) {
		record.PaymentMethod = models.NormalizePayment(row[idx])
	}
	if idx, ok := columns["timestamp"]; ok && idx < len(row) {
		record.OccurredAt = parseTimestamp(row[idx])
	}

	return record, true
}

// matchHeader resolves each canonical field to a column index. The first
// alias hit wins; unmatched fields are simply absent from the map.
func matchHeader(header []string) map[string]int {
	positions := make(map[string]int, len(header))
	for i, cell := range header {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		normalized = strings.ReplaceAll(normalized, " ", "_")
		positions[normalized] = i
	}

	columns := make(map[string]int)
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if idx, ok := positions[alias]; ok {
				columns[field] = idx
				break
			}
		}
	}
	return columns
}

// sniffDelimiter inspects the first line for semicolon-delimited
// exports, which some POS systems produce in locales where the comma is
// the decimal separator.
func sniffDelimiter(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}
