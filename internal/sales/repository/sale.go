// Package repository implements Postgres persistence for the sales
// ledger.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/sales/domain"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/database"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
)

// SaleRepository provides access to the sales table
type SaleRepository struct {
	db *database.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *database.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// lockedMedicine is the slice of the medicine row a sale needs
type lockedMedicine struct {
	ID           string  `db:"id"`
	Name         string  `db:"name"`
	StockQty     int     `db:"stock_qty"`
	ReorderLevel int     `db:"reorder_level"`
	Price        float64 `db:"price"`
}

// Create records a sale and decrements the medicine's stock in one
// transaction. The medicine row is locked for the duration, so
// concurrent sales of the same medicine serialize. Stock never goes
// below zero. The returned snapshot reflects the stock position after
// the decrement.
func (r *SaleRepository) Create(ctx context.Context, sale *domain.Sale) (*domain.StockSnapshot, error) {
	if sale.MedicineID == nil {
		return nil, errors.BadRequest("medicine_id is required")
	}

	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	if sale.SaleDate.IsZero() {
		sale.SaleDate = time.Now().UTC()
	}

	var snapshot domain.StockSnapshot
	err := r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		var med lockedMedicine
		err := tx.GetContext(ctx, &med, `
			SELECT id, name, stock_qty, reorder_level, price
			FROM medicines
			WHERE id = $1
			FOR UPDATE`, *sale.MedicineID)
		if err != nil {
			if err == sql.ErrNoRows {
				return errors.NotFound("medicine")
			}
			return err
		}

		// Snapshot the name and price so the row stays meaningful
		// after catalog changes. An explicit unit price wins.
		sale.MedicineName = med.Name
		if sale.UnitPrice == 0 {
			sale.UnitPrice = med.Price
		}
		sale.TotalAmount = round2(float64(sale.Quantity) * sale.UnitPrice)

		_, err = tx.ExecContext(ctx, `
			INSERT INTO sales (id, medicine_id, medicine_name, quantity,
				unit_price, total_amount, sale_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			sale.ID, sale.MedicineID, sale.MedicineName, sale.Quantity,
			sale.UnitPrice, sale.TotalAmount, sale.SaleDate)
		if err != nil {
			return database.MapPQError(err)
		}

		var newStock int
		err = tx.QueryRowxContext(ctx, `
			UPDATE medicines
			SET stock_qty = GREATEST(stock_qty - $2, 0), updated_at = NOW()
			WHERE id = $1
			RETURNING stock_qty`, med.ID, sale.Quantity).Scan(&newStock)
		if err != nil {
			return err
		}

		snapshot = domain.StockSnapshot{
			MedicineID:   med.ID,
			MedicineName: med.Name,
			StockQty:     newStock,
			ReorderLevel: med.ReorderLevel,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// GetByID fetches a single sale
func (r *SaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	query := `
		SELECT id, medicine_id, medicine_name, quantity, unit_price,
			total_amount, sale_date
		FROM sales
		WHERE id = $1`

	var sale domain.Sale
	err := r.db.GetContext(ctx, &sale, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("sale")
		}
		return nil, err
	}

	return &sale, nil
}

// List returns a page of sales, newest first, narrowed by the filter
func (r *SaleRepository) List(ctx context.Context, filter domain.Filter, page, perPage int) ([]*domain.Sale, int, error) {
	where, args := buildFilter(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM sales`+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, medicine_id, medicine_name, quantity, unit_price,
			total_amount, sale_date
		FROM sales%s
		ORDER BY sale_date DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)

	offset := (page - 1) * perPage
	args = append(args, perPage, offset)

	sales := []*domain.Sale{}
	if err := r.db.SelectContext(ctx, &sales, query, args...); err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

// HistoryQuantities returns per-sale quantities for a medicine since the
// given time, oldest first. Rows that lost their medicine reference are
// matched by name, so history survives catalog deletions.
func (r *SaleRepository) HistoryQuantities(ctx context.Context, medicineID, medicineName string, since time.Time) ([]int, error) {
	query := `
		SELECT quantity
		FROM sales
		WHERE (medicine_id = $1 OR (medicine_id IS NULL AND LOWER(medicine_name) = LOWER($2)))
			AND sale_date >= $3
		ORDER BY sale_date`

	quantities := []int{}
	if err := r.db.SelectContext(ctx, &quantities, query, medicineID, medicineName, since); err != nil {
		return nil, err
	}

	return quantities, nil
}

// Summary aggregates the ledger between from (inclusive) and to
// (exclusive)
func (r *SaleRepository) Summary(ctx context.Context, from, to time.Time) (*domain.Summary, error) {
	query := `
		SELECT COUNT(*) AS sale_count,
			COALESCE(SUM(quantity), 0) AS total_units,
			COALESCE(SUM(total_amount), 0) AS total_revenue
		FROM sales
		WHERE sale_date >= $1 AND sale_date < $2`

	var summary domain.Summary
	if err := r.db.GetContext(ctx, &summary, query, from, to); err != nil {
		return nil, err
	}

	return &summary, nil
}

// PerItemTotals breaks the ledger down by medicine between from
// (inclusive) and to (exclusive), best sellers first
func (r *SaleRepository) PerItemTotals(ctx context.Context, from, to time.Time) ([]*domain.TopSeller, error) {
	query := `
		SELECT medicine_name,
			SUM(quantity) AS total_units,
			SUM(total_amount) AS total_revenue,
			COUNT(*) AS sale_count
		FROM sales
		WHERE sale_date >= $1 AND sale_date < $2
		GROUP BY medicine_name
		ORDER BY total_units DESC, medicine_name`

	totals := []*domain.TopSeller{}
	if err := r.db.SelectContext(ctx, &totals, query, from, to); err != nil {
		return nil, err
	}

	return totals, nil
}

// TopSellers ranks medicines by units sold since the given time
func (r *SaleRepository) TopSellers(ctx context.Context, since time.Time, limit int) ([]*domain.TopSeller, error) {
	query := `
		SELECT medicine_name,
			SUM(quantity) AS total_units,
			SUM(total_amount) AS total_revenue,
			COUNT(*) AS sale_count
		FROM sales
		WHERE sale_date >= $1
		GROUP BY medicine_name
		ORDER BY total_units DESC, medicine_name
		LIMIT $2`

	sellers := []*domain.TopSeller{}
	if err := r.db.SelectContext(ctx, &sellers, query, since, limit); err != nil {
		return nil, err
	}

	return sellers, nil
}

// buildFilter translates a filter into a WHERE clause and its arguments
func buildFilter(filter domain.Filter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}

	if filter.MedicineID != "" {
		args = append(args, filter.MedicineID)
		conditions = append(conditions, fmt.Sprintf("medicine_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("sale_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("sale_date <= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
