package reporting

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oreka/backend/internal/domain/models"
	"github.com/oreka/backend/internal/repository/memory"
)

func record(amount, discount string, area string, payment models.PaymentMethod) models.Record {
	return models.Record{
		Amount:        decimal.RequireFromString(amount),
		Discount:      decimal.RequireFromString(discount),
		Area:          area,
		PaymentMethod: payment,
		OccurredAt:    time.Now(),
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	if summary.RevenueTotal != 0 {
		t.Fatalf("expected zero revenue, got %f", summary.RevenueTotal)
	}
	if summary.ReceiptCount != 0 {
		t.Fatalf("expected zero receipts, got %d", summary.ReceiptCount)
	}
	if summary.AverageReceipt != 0 {
		t.Fatalf("expected zero average on empty store, got %f", summary.AverageReceipt)
	}
	if summary.DiscountRate != 0 {
		t.Fatalf("expected zero discount rate on empty store, got %f", summary.DiscountRate)
	}
	if summary.RevenueByArea == nil || summary.RevenueByPayment == nil {
		t.Fatal("grouping maps must be empty, not nil, so JSON renders {}")
	}
}

func TestSummarizeScenario(t *testing.T) {
	records := []models.Record{
		record("10.00", "0", "bar", models.PaymentCash),
		record("20.00", "0", "bar", models.PaymentCash),
		record("30.00", "0", "bar", models.PaymentCash),
	}

	summary := Summarize(records)

	if summary.RevenueTotal != 60 {
		t.Fatalf("want revenue 60 got %f", summary.RevenueTotal)
	}
	if summary.ReceiptCount != 3 {
		t.Fatalf("want 3 receipts got %d", summary.ReceiptCount)
	}
	if summary.AverageReceipt != 20 {
		t.Fatalf("want average 20 got %f", summary.AverageReceipt)
	}
	if got := summary.RevenueByPayment["cash"]; got != 60 {
		t.Fatalf("want cash bucket 60 got %f", got)
	}
	if got := summary.RevenueByArea["bar"]; got != 60 {
		t.Fatalf("want bar bucket 60 got %f", got)
	}
}

// Grouping must never drop or double-count revenue: the by-area and
// by-payment sums both equal the total for any record set.
func TestSummarizeGroupingConsistency(t *testing.T) {
	records := []models.Record{
		record("10.10", "0", "bar", models.PaymentCash),
		record("0.20", "0", "kitchen", models.PaymentCard),
		record("5.70", "1.00", "terrace", models.PaymentOther),
		record("99.99", "0.45", models.AreaUnclassified, models.PaymentCard),
		record("0.01", "0", "bar", models.PaymentOther),
	}

	summary := Summarize(records)

	var areaSum, paymentSum float64
	for _, v := range summary.RevenueByArea {
		areaSum += v
	}
	for _, v := range summary.RevenueByPayment {
		paymentSum += v
	}

	if math.Abs(areaSum-summary.RevenueTotal) > 1e-9 {
		t.Fatalf("area buckets sum %f != total %f", areaSum, summary.RevenueTotal)
	}
	if math.Abs(paymentSum-summary.RevenueTotal) > 1e-9 {
		t.Fatalf("payment buckets sum %f != total %f", paymentSum, summary.RevenueTotal)
	}
}

func TestSummarizeDiscountRate(t *testing.T) {
	// Net 90 charged, 10 discounted: gross 100, rate 0.1.
	records := []models.Record{
		record("90.00", "10.00", "bar", models.PaymentCash),
	}

	summary := Summarize(records)
	if math.Abs(summary.DiscountRate-0.1) > 1e-9 {
		t.Fatalf("want discount rate 0.1 got %f", summary.DiscountRate)
	}
}

// Repeated aggregation of cent amounts must not drift the way binary
// floats would.
func TestSummarizeNoRoundingDrift(t *testing.T) {
	var records []models.Record
	for i := 0; i < 1000; i++ {
		records = append(records, record("0.10", "0", "bar", models.PaymentCash))
	}

	summary := Summarize(records)
	if summary.RevenueTotal != 100 {
		t.Fatalf("want exactly 100 got %v", summary.RevenueTotal)
	}
}

func TestProjectDashboard(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store, nil)

	file := models.FileRecord{ID: "f1", FileName: "sales.csv", FileType: models.FileTypeCSV, ProcessedAt: time.Now(), RecordCount: 1, Status: models.StatusOK}
	if err := store.Append(ctx, file, []models.Record{record("45.50", "0", "bar", models.PaymentCash)}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	dashboard, err := svc.ProjectDashboard(ctx)
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}
	if dashboard.Summary.RevenueTotal != 45.5 {
		t.Fatalf("want revenue 45.5 got %f", dashboard.Summary.RevenueTotal)
	}
	if len(dashboard.AllFiles) != 1 || dashboard.AllFiles[0].FileName != "sales.csv" {
		t.Fatalf("unexpected file history: %+v", dashboard.AllFiles)
	}
}

func TestProjectDashboardEmptyStore(t *testing.T) {
	svc := NewService(memory.NewStore(), nil)

	dashboard, err := svc.ProjectDashboard(context.Background())
	if err != nil {
		t.Fatalf("projection of empty store must not fail: %v", err)
	}
	if dashboard.AllFiles == nil {
		t.Fatal("all_files must render as [] not null")
	}
	if dashboard.Summary.RevenueTotal != 0 || dashboard.Summary.ReceiptCount != 0 {
		t.Fatalf("expected zeroed summary, got %+v", dashboard.Summary)
	}
}
