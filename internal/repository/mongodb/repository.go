// Package mongodb provides the durable Store implementation. Appends
// run inside a session transaction so that a file record and its record
// batch commit atomically even with concurrent uploads.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oreka/backend/internal/domain/models"
)

const (
	filesCollection     = "file_records"
	recordsCollection   = "records"
	snapshotsCollection = "summary_snapshots"
)

// Store implements repository.Store and repository.SnapshotSink on top
// of MongoDB. Atomic appends require the server to run as a replica set
// (transactions are unavailable on standalone deployments).
type Store struct {
	client *mongo.Client
	dbName string
}

// NewStore connects to MongoDB and verifies the connection.
func NewStore(ctx context.Context, uri string, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, dbName: dbName}, nil
}

// recordDoc is the stored shape of a record. Money fields are persisted
// as decimal strings to keep the exact value independent of BSON float
// semantics.
type recordDoc struct {
	ID            string    `bson:"_id"`
	Amount        string    `bson:"amount"`
	Area          string    `bson:"area"`
	PaymentMethod string    `bson:"payment_method"`
	Discount      string    `bson:"discount_amount"`
	OccurredAt    time.Time `bson:"occurred_at"`
	SourceFileID  string    `bson:"source_file_id"`
}

// fileDoc is the stored shape of a file record. Seq preserves insertion
// order for the history view.
type fileDoc struct {
	ID          string    `bson:"_id"`
	FileName    string    `bson:"file_name"`
	FileType    string    `bson:"file_type"`
	ProcessedAt time.Time `bson:"processed_at"`
	RecordCount int       `bson:"record_count"`
	Status      string    `bson:"status"`
	Seq         int64     `bson:"seq"`
}

// Append commits the record batch and the file record in one
// transaction. Failures are reported as ErrStoreUnavailable so the
// caller knows to retry the whole upload.
func (s *Store) Append(ctx context.Context, file models.FileRecord, records []models.Record) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("%w: start session: %v", models.ErrStoreUnavailable, err)
	}
	defer session.EndSession(ctx)

	db := s.client.Database(s.dbName)
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if len(records) > 0 {
			docs := make([]interface{}, 0, len(records))
			for _, record := range records {
				docs = append(docs, recordDoc{
					ID:            record.ID,
					Amount:        record.Amount.String(),
					Area:          record.Area,
					PaymentMethod: string(record.PaymentMethod),
					Discount:      record.Discount.String(),
					OccurredAt:    record.OccurredAt,
					SourceFileID:  record.SourceFileID,
				})
			}
			if _, err := db.Collection(recordsCollection).InsertMany(sc, docs); err != nil {
				return nil, fmt.Errorf("insert records: %w", err)
			}
		}

		doc := fileDoc{
			ID:          file.ID,
			FileName:    file.FileName,
			FileType:    string(file.FileType),
			ProcessedAt: file.ProcessedAt,
			RecordCount: file.RecordCount,
			Status:      string(file.Status),
			Seq:         time.Now().UnixNano(),
		}
		if _, err := db.Collection(filesCollection).InsertOne(sc, doc); err != nil {
			return nil, fmt.Errorf("insert file record: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

// AllFiles returns the processing history in insertion order.
func (s *Store) AllFiles(ctx context.Context) ([]models.FileRecord, error) {
	coll := s.client.Database(s.dbName).Collection(filesCollection)
	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%w: find file records: %v", models.ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	var files []models.FileRecord
	for cursor.Next(ctx) {
		var doc fileDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode file record: %w", err)
		}
		files = append(files, models.FileRecord{
			ID:          doc.ID,
			FileName:    doc.FileName,
			FileType:    models.FileType(doc.FileType),
			ProcessedAt: doc.ProcessedAt,
			RecordCount: doc.RecordCount,
			Status:      models.FileStatus(doc.Status),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate file records: %v", models.ErrStoreUnavailable, err)
	}
	return files, nil
}

// AllRecords returns the full record set for projection.
func (s *Store) AllRecords(ctx context.Context) ([]models.Record, error) {
	coll := s.client.Database(s.dbName).Collection(recordsCollection)
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%w: find records: %v", models.ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	var records []models.Record
	for cursor.Next(ctx) {
		var doc recordDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		amount, err := decimal.NewFromString(doc.Amount)
		if err != nil {
			return nil, fmt.Errorf("decode record amount %q: %w", doc.Amount, err)
		}
		discount, err := decimal.NewFromString(doc.Discount)
		if err != nil {
			return nil, fmt.Errorf("decode record discount %q: %w", doc.Discount, err)
		}
		records = append(records, models.Record{
			ID:            doc.ID,
			Amount:        amount,
			Area:          doc.Area,
			PaymentMethod: models.PaymentMethod(doc.PaymentMethod),
			Discount:      discount,
			OccurredAt:    doc.OccurredAt,
			SourceFileID:  doc.SourceFileID,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate records: %v", models.ErrStoreUnavailable, err)
	}
	return records, nil
}

// SaveSnapshot stores a dated summary snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot models.SummarySnapshot) error {
	coll := s.client.Database(s.dbName).Collection(snapshotsCollection)
	if _, err := coll.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: insert snapshot: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
