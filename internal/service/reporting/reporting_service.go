// Package reporting derives the dashboard projection from the aggregate
// store. The projection is recomputed from the full record set on every
// call; there is no cached summary that could go stale.
package reporting

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/oreka/backend/internal/domain/models"
	"github.com/oreka/backend/internal/repository"
)

// Projector describes the read operation the HTTP layer performs.
type Projector interface {
	ProjectDashboard(ctx context.Context) (models.Dashboard, error)
}

// Service implements Projector on top of the aggregate store.
type Service struct {
	store  repository.Store
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(store repository.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// ProjectDashboard reads the current store contents and computes the
// summary plus the processing history. An empty store yields zeroed
// statistics, never an error.
func (s *Service) ProjectDashboard(ctx context.Context) (models.Dashboard, error) {
	records, err := s.store.AllRecords(ctx)
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("load records: %w", err)
	}
	files, err := s.store.AllFiles(ctx)
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("load file history: %w", err)
	}

	if files == nil {
		files = []models.FileRecord{}
	}

	return models.Dashboard{
		Summary:  Summarize(records),
		AllFiles: files,
	}, nil
}

// Summarize computes the KPI summary from a record set. All sums use
// exact decimal arithmetic; float conversion happens only for the JSON
// boundary. Grouping keys are the normalized area and payment strings,
// so the unclassified and other buckets appear explicitly instead of
// revenue being dropped.
func Summarize(records []models.Record) models.Summary {
	var (
		total    decimal.Decimal
		gross    decimal.Decimal
		discount decimal.Decimal
	)
	byArea := make(map[string]decimal.Decimal)
	byPayment := make(map[string]decimal.Decimal)

	for _, record := range records {
		total = total.Add(record.Amount)
		discount = discount.Add(record.Discount)
		gross = gross.Add(record.Amount).Add(record.Discount)
		byArea[record.Area] = byArea[record.Area].Add(record.Amount)
		key := string(record.PaymentMethod)
		byPayment[key] = byPayment[key].Add(record.Amount)
	}

	summary := models.Summary{
		RevenueTotal:     total.InexactFloat64(),
		RevenueByArea:    toFloatMap(byArea),
		RevenueByPayment: toFloatMap(byPayment),
		ReceiptCount:     len(records),
	}

	if len(records) > 0 {
		count := decimal.NewFromInt(int64(len(records)))
		summary.AverageReceipt = total.Div(count).InexactFloat64()
	}
	if gross.IsPositive() {
		summary.DiscountRate = discount.Div(gross).InexactFloat64()
	}

	return summary
}

func toFloatMap(groups map[string]decimal.Decimal) map[string]float64 {
	result := make(map[string]float64, len(groups))
	for key, value := range groups {
		result[key] = value.InexactFloat64()
	}
	return result
}
