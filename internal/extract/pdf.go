package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/oreka/backend/internal/domain/models"
)

var (
	// itemLinePattern matches "descriptor   12.34" style charge lines.
	itemLinePattern = regexp.MustCompile(`^(.{2,}?)\s+[$€£]?(\d[\d,]*\.\d{2})$`)
	// totalLinePattern matches "Total: 45.50" and variants.
	totalLinePattern = regexp.MustCompile(`(?i)\btotal\b[^0-9-]*(\d[\d,]*\.?\d*)`)
	// discountLinePattern matches "Discount 5.00" and variants.
	discountLinePattern = regexp.MustCompile(`(?i)\bdiscount\b[^0-9-]*(\d[\d,]*\.?\d*)`)
	// dateLinePattern matches "Date: 2024-03-01" style headers.
	dateLinePattern = regexp.MustCompile(`(?i)\bdate\b[:\s]+(\S+(?:\s\S+)?)`)
)

// reservedLineWords are descriptors that look like item lines but carry
// document-level figures, not itemizable charges.
var reservedLineWords = []string{
	"total", "subtotal", "sub-total", "discount", "tax", "vat",
	"balance", "change", "tip", "service", "amount due", "payment",
	"cash", "card", "credit", "visa", "mastercard",
}

// PDFExtractor parses invoice documents into records by recognizing a
// small set of line patterns in the extracted page text. Invoice layouts
// vary, so everything short of "no amount anywhere" degrades to a
// partial result instead of failing.
type PDFExtractor struct {
	logger *zap.Logger
}

// NewPDFExtractor wires a new PDF extractor instance.
func NewPDFExtractor(logger *zap.Logger) *PDFExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFExtractor{logger: logger}
}

// Extract pulls the plain text of every page and applies the invoice
// line rules to it. It returns models.ErrNoUsableData when the document
// cannot be opened or no amount is found anywhere in its text.
func (e *PDFExtractor) Extract(data []byte) (result Result, err error) {
	// The pdf reader panics on some malformed inputs; a corrupt upload
	// must surface as a failed file, not a crashed process.
	defer func() {
		if r := recover(); r != nil {
			result = Result{}
			err = fmt.Errorf("%w: malformed pdf: %v", models.ErrNoUsableData, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("%w: unreadable pdf: %v", models.ErrNoUsableData, err)
	}

	var text strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Debug("skip unreadable pdf page", zap.Int("page", pageNum), zap.Error(err))
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	return e.parseInvoiceText(text.String())
}

// parseInvoiceText applies the line-pattern rules to the document text.
// It emits one record per recognized itemizable charge; when no
// itemization is found but a total is, it falls back to a single record
// for the document total tagged with the unclassified area.
func (e *PDFExtractor) parseInvoiceText(text string) (Result, error) {
	var (
		result    Result
		total     decimal.Decimal
		totalSeen bool
		discount  decimal.Decimal
		payment   = models.PaymentOther
		invoiced  time.Time
	)

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if payment == models.PaymentOther {
			payment = detectPayment(line)
		}
		if invoiced.IsZero() {
			if m := dateLinePattern.FindStringSubmatch(line); m != nil {
				invoiced = parseTimestamp(m[1])
			}
		}

		if m := discountLinePattern.FindStringSubmatch(line); m != nil {
			if value, err := parseMoney(m[1]); err == nil {
				discount = discount.Add(value)
			}
			continue
		}

		if m := totalLinePattern.FindStringSubmatch(line); m != nil {
			if isSubtotalLine(line) {
				continue
			}
			if value, err := parseMoney(m[1]); err == nil {
				total = value
				totalSeen = true
			}
			continue
		}

		if m := itemLinePattern.FindStringSubmatch(line); m != nil {
			descriptor := strings.TrimSpace(m[1])
			if isReservedDescriptor(descriptor) {
				continue
			}
			amount, err := parseMoney(m[2])
			if err != nil || amount.IsNegative() {
				result.Skipped++
				continue
			}
			result.Records = append(result.Records, models.Record{
				Amount:        amount,
				Area:          models.NormalizeArea(descriptor),
				PaymentMethod: models.PaymentOther,
				Discount:      decimal.Zero,
				OccurredAt:    invoiced,
			})
		}
	}

	if len(result.Records) == 0 {
		if !totalSeen {
			return Result{}, fmt.Errorf("%w: no amount found in document", models.ErrNoUsableData)
		}
		// Fallback: one record for the document total.
		result.Records = append(result.Records, models.Record{
			Amount:        total,
			Area:          models.AreaUnclassified,
			PaymentMethod: payment,
			Discount:      discount,
			OccurredAt:    invoiced,
		})
		return result, nil
	}

	for i := range result.Records {
		result.Records[i].PaymentMethod = payment
		if result.Records[i].OccurredAt.IsZero() {
			result.Records[i].OccurredAt = invoiced
		}
	}
	// A document-level discount cannot be attributed to one item line;
	// it is carried on the first record so the aggregate stays exact.
	if discount.IsPositive() {
		result.Records[0].Discount = discount
	}

	return result, nil
}

func detectPayment(line string) models.PaymentMethod {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "cash"):
		return models.PaymentCash
	case strings.Contains(lower, "card"), strings.Contains(lower, "credit"),
		strings.Contains(lower, "visa"), strings.Contains(lower, "mastercard"):
		return models.PaymentCard
	default:
		return models.PaymentOther
	}
}

func isSubtotalLine(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "subtotal") || strings.Contains(lower, "sub-total") || strings.Contains(lower, "sub total")
}

func isReservedDescriptor(descriptor string) bool {
	lower := strings.ToLower(descriptor)
	for _, word := range reservedLineWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
