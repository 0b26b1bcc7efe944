// Package domain holds the sales ledger's core types.
package domain

import (
	"time"
)

// Sale is one recorded transaction. The medicine name and unit price are
// denormalized at sale time, so the row stays meaningful after the
// medicine is deleted from the catalog.
type Sale struct {
	ID           string    `db:"id" json:"id"`
	MedicineID   *string   `db:"medicine_id" json:"medicine_id,omitempty"`
	MedicineName string    `db:"medicine_name" json:"medicine_name"`
	Quantity     int       `db:"quantity" json:"quantity"`
	UnitPrice    float64   `db:"unit_price" json:"unit_price"`
	TotalAmount  float64   `db:"total_amount" json:"total_amount"`
	SaleDate     time.Time `db:"sale_date" json:"sale_date"`
}

// Filter narrows sales listings. Zero values mean no constraint.
type Filter struct {
	MedicineID string
	From       *time.Time
	To         *time.Time
}

// Summary aggregates the ledger over a date range
type Summary struct {
	SaleCount    int     `db:"sale_count" json:"sale_count"`
	TotalUnits   int     `db:"total_units" json:"total_units"`
	TotalRevenue float64 `db:"total_revenue" json:"total_revenue"`
}

// TopSeller is one row of a per-medicine grouping. Grouping is by
// medicine name, so sales of since-deleted medicines still count.
type TopSeller struct {
	MedicineName string  `db:"medicine_name" json:"medicine_name"`
	TotalUnits   int     `db:"total_units" json:"total_units"`
	TotalRevenue float64 `db:"total_revenue" json:"total_revenue"`
	SaleCount    int     `db:"sale_count" json:"sale_count"`
}

// Report combines ledger totals with a per-medicine breakdown
type Report struct {
	Summary
	ByMedicine []*TopSeller `json:"by_medicine"`
}

// StockSnapshot reports the medicine's stock position right after a sale
// was recorded
type StockSnapshot struct {
	MedicineID   string
	MedicineName string
	StockQty     int
	ReorderLevel int
}

// IsLow reports whether the snapshot is at or below the reorder level
func (s *StockSnapshot) IsLow() bool {
	return s.StockQty <= s.ReorderLevel
}
