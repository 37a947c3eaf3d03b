package models

import "time"

// Summary is the dashboard KPI projection. Field names are a wire
// contract with the frontend and must not change. Values are computed
// with exact decimal arithmetic and converted to float64 only for this
// JSON boundary type.
type Summary struct {
	RevenueTotal     float64            `json:"revenue_total" bson:"revenue_total"`
	RevenueByArea    map[string]float64 `json:"revenue_by_area" bson:"revenue_by_area"`
	RevenueByPayment map[string]float64 `json:"revenue_by_payment" bson:"revenue_by_payment"`
	ReceiptCount     int                `json:"receipt_count" bson:"receipt_count"`
	AverageReceipt   float64            `json:"average_receipt" bson:"average_receipt"`
	DiscountRate     float64            `json:"discount_rate" bson:"discount_rate"`
}

// Dashboard is the full payload served by GET /api/dashboard.
type Dashboard struct {
	Summary  Summary      `json:"summary"`
	AllFiles []FileRecord `json:"all_files"`
}

// SummarySnapshot is a dated copy of the projection persisted by the
// nightly scheduler job. Snapshots are an audit trail only; the live
// dashboard is always recomputed from the store.
type SummarySnapshot struct {
	Date      time.Time `bson:"date" json:"date"`
	Summary   Summary   `bson:"summary" json:"summary"`
	FileCount int       `bson:"file_count" json:"file_count"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
