package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oreka/backend/internal/config"
	"github.com/oreka/backend/internal/domain/models"
	"github.com/oreka/backend/internal/repository/memory"
	"github.com/oreka/backend/internal/service/reporting"
)

func TestSaveSummarySnapshot(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	file := models.FileRecord{ID: "f1", FileName: "sales.csv", FileType: models.FileTypeCSV, ProcessedAt: time.Now(), RecordCount: 1, Status: models.StatusOK}
	record := models.Record{ID: "r1", Amount: decimal.NewFromInt(42), Area: "bar", PaymentMethod: models.PaymentCash, OccurredAt: time.Now(), SourceFileID: "f1"}
	if err := store.Append(ctx, file, []models.Record{record}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	cfg := config.ReportingConfig{CronSchedule: "0 23 * * *", Timezone: "UTC"}
	sched := NewScheduler(cfg, reporting.NewService(store, nil), store, nil)

	sched.saveSummarySnapshot()

	snapshots := store.Snapshots()
	if len(snapshots) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snapshots))
	}
	snapshot := snapshots[0]
	if snapshot.Summary.RevenueTotal != 42 {
		t.Fatalf("want snapshot revenue 42 got %f", snapshot.Summary.RevenueTotal)
	}
	if snapshot.FileCount != 1 {
		t.Fatalf("want file count 1 got %d", snapshot.FileCount)
	}
	if snapshot.CreatedAt.IsZero() {
		t.Fatal("snapshot must carry a creation timestamp")
	}
}
