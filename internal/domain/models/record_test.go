package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRecordValidate(t *testing.T) {
	valid := Record{
		ID:            "r1",
		Amount:        decimal.NewFromInt(10),
		Area:          "bar",
		PaymentMethod: PaymentCash,
		Discount:      decimal.Zero,
		OccurredAt:    time.Now(),
		SourceFileID:  "f1",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(r *Record)
		want   error
	}{
		{"negative amount", func(r *Record) { r.Amount = decimal.NewFromInt(-1) }, ErrNegativeAmount},
		{"negative discount", func(r *Record) { r.Discount = decimal.NewFromInt(-1) }, ErrNegativeDiscount},
		{"empty area", func(r *Record) { r.Area = "  " }, ErrEmptyArea},
		{"unknown payment", func(r *Record) { r.PaymentMethod = "cheque" }, ErrUnknownPayment},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			record := valid
			c.mutate(&record)
			if err := record.Validate(); !errors.Is(err, c.want) {
				t.Fatalf("want %v got %v", c.want, err)
			}
		})
	}
}

func TestNormalizeArea(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Bar", "bar"},
		{"  BAR  ", "bar"},
		{"Main Dining", "main dining"},
		{"", AreaUnclassified},
		{"   ", AreaUnclassified},
	}

	for _, c := range cases {
		if got := NormalizeArea(c.in); got != c.want {
			t.Fatalf("NormalizeArea(%q): want %q got %q", c.in, c.want, got)
		}
	}
}

func TestNormalizePayment(t *testing.T) {
	cases := []struct {
		in   string
		want PaymentMethod
	}{
		{"cash", PaymentCash},
		{"CASH", PaymentCash},
		{"Visa", PaymentCard},
		{"credit card", PaymentCard},
		{"voucher", PaymentOther},
		{"", PaymentOther},
	}

	for _, c := range cases {
		if got := NormalizePayment(c.in); got != c.want {
			t.Fatalf("NormalizePayment(%q): want %s got %s", c.in, c.want, got)
		}
	}
}
