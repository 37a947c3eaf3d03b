package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oreka/backend/internal/domain/models"
)

func testFile(name string, count int) models.FileRecord {
	return models.FileRecord{
		ID:          name,
		FileName:    name,
		FileType:    models.FileTypeCSV,
		ProcessedAt: time.Now(),
		RecordCount: count,
		Status:      models.StatusOK,
	}
}

func testRecords(fileID string, count int) []models.Record {
	records := make([]models.Record, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, models.Record{
			ID:            fmt.Sprintf("%s-%d", fileID, i),
			Amount:        decimal.NewFromInt(10),
			Area:          "bar",
			PaymentMethod: models.PaymentCash,
			OccurredAt:    time.Now(),
			SourceFileID:  fileID,
		})
	}
	return records
}

func TestStoreAppendAndRead(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if err := store.Append(ctx, testFile("a.csv", 2), testRecords("a.csv", 2)); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := store.Append(ctx, testFile("b.csv", 3), testRecords("b.csv", 3)); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	files, err := store.AllFiles(ctx)
	if err != nil {
		t.Fatalf("AllFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].FileName != "a.csv" || files[1].FileName != "b.csv" {
		t.Fatalf("expected insertion order a.csv,b.csv got %s,%s", files[0].FileName, files[1].FileName)
	}

	records, err := store.AllRecords(ctx)
	if err != nil {
		t.Fatalf("AllRecords failed: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
}

// Concurrent appends must never leave a state where a file's records
// are visible without its file record or vice versa.
func TestStoreConcurrentAppendsAreAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	const (
		writers        = 10
		recordsPerFile = 5
	)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// Reader goroutine checks the batch invariant while writes happen.
	invariantErr := make(chan error, 1)
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			files, _ := store.AllFiles(ctx)
			records, _ := store.AllRecords(ctx)
			var expected int
			for _, f := range files {
				expected += f.RecordCount
			}
			if expected != len(records) {
				select {
				case invariantErr <- fmt.Errorf("saw %d records but file history claims %d", len(records), expected):
				default:
				}
				return
			}
		}
	}()

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("file-%d.csv", i)
			if err := store.Append(ctx, testFile(name, recordsPerFile), testRecords(name, recordsPerFile)); err != nil {
				t.Errorf("append failed: %v", err)
			}
		}(i)
	}
	wg.Wait()
	close(stop)

	select {
	case err := <-invariantErr:
		t.Fatal(err)
	default:
	}

	files, _ := store.AllFiles(ctx)
	records, _ := store.AllRecords(ctx)
	if len(files) != writers {
		t.Fatalf("expected %d files, got %d", writers, len(files))
	}
	if len(records) != writers*recordsPerFile {
		t.Fatalf("expected %d records, got %d", writers*recordsPerFile, len(records))
	}
}

func TestStoreReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if err := store.Append(ctx, testFile("a.csv", 1), testRecords("a.csv", 1)); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	files, _ := store.AllFiles(ctx)
	files[0].FileName = "mutated"

	again, _ := store.AllFiles(ctx)
	if again[0].FileName != "a.csv" {
		t.Fatalf("store state leaked through read slice: %s", again[0].FileName)
	}
}

func TestStoreSaveSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	snapshot := models.SummarySnapshot{Date: time.Now(), CreatedAt: time.Now()}
	if err := store.SaveSnapshot(ctx, snapshot); err != nil {
		t.Fatalf("save snapshot failed: %v", err)
	}
	if len(store.Snapshots()) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(store.Snapshots()))
	}
}
