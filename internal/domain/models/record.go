package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates the recognized payment channels.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentOther PaymentMethod = "other"
)

// AreaUnclassified labels revenue that could not be attributed to a
// specific business area. It is a real bucket, never an empty string,
// so aggregation does not need a missing-field branch.
const AreaUnclassified = "unclassified"

// Record is one normalized revenue-bearing transaction line. Records are
// immutable once created; corrections happen by ingesting a superseding
// file, never by mutating a stored Record.
type Record struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Area          string          `json:"area"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Discount      decimal.Decimal `json:"discount_amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SourceFileID  string          `json:"source_file_id"`
}

// Validate enforces the per-record acceptance rules. A failing record is
// dropped individually; it never fails the whole file.
func (r Record) Validate() error {
	if r.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if r.Discount.IsNegative() {
		return ErrNegativeDiscount
	}
	if strings.TrimSpace(r.Area) == "" {
		return ErrEmptyArea
	}
	switch r.PaymentMethod {
	case PaymentCash, PaymentCard, PaymentOther:
	default:
		return ErrUnknownPayment
	}
	return nil
}

// NormalizeArea lowercases and trims a raw area label so that grouping
// keys are stable across source files ("Bar", " bar " and "BAR" are the
// same bucket).
func NormalizeArea(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return AreaUnclassified
	}
	return normalized
}

// NormalizePayment maps free-form payment descriptions from exports and
// invoices onto the PaymentMethod enum.
func NormalizePayment(raw string) PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cash", "contant", "especes":
		return PaymentCash
	case "card", "credit", "credit card", "debit", "debit card", "visa", "mastercard", "amex":
		return PaymentCard
	default:
		return PaymentOther
	}
}
