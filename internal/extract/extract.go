// Package extract turns raw upload bytes into normalized revenue records.
// Extractors are pure functions of their input: the same bytes always
// yield the same record sequence, and nothing here touches the store.
package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oreka/backend/internal/domain/models"
)

// Result pairs the successfully extracted records with the number of
// rows or sections that could not be parsed. The caller derives the
// file status from this pair: skipped > 0 degrades to partial, it never
// fails the whole file.
type Result struct {
	Records []models.Record
	Skipped int
}

// timestampLayouts lists the formats seen across POS exports and
// invoices, most specific first.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04",
	"01/02/2006 15:04",
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
}

// parseMoney converts a raw money cell into an exact decimal. Currency
// symbols, thousand separators and surrounding whitespace are stripped
// first. A final comma followed by one or two digits is a decimal
// separator ("10,50" means 10.50), as written by POS systems in
// decimal-comma locales; every other comma is a thousands separator.
func parseMoney(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimPrefix(cleaned, "€")
	cleaned = strings.TrimPrefix(cleaned, "£")
	cleaned = strings.TrimSpace(cleaned)
	if idx := strings.LastIndexByte(cleaned, ','); idx >= 0 && !strings.Contains(cleaned, ".") {
		if frac := cleaned[idx+1:]; len(frac) >= 1 && len(frac) <= 2 && isDigits(frac) {
			cleaned = cleaned[:idx] + "." + frac
		}
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return value, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseTimestamp tries the known layouts in order. A zero time is
// returned when nothing matches; the ingestion layer substitutes the
// processing time so the extractor stays deterministic.
func parseTimestamp(raw string) time.Time {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, cleaned); err == nil {
			return ts
		}
	}
	return time.Time{}
}
