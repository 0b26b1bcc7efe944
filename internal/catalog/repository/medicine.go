// Package repository implements Postgres persistence for the medicine
// catalog.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/catalog/domain"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/database"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
)

// MedicineRepository provides access to the medicines table
type MedicineRepository struct {
	db *database.DB
}

// NewMedicineRepository creates a new medicine repository
func NewMedicineRepository(db *database.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

// Create inserts a new medicine. The ID is generated when not provided.
func (r *MedicineRepository) Create(ctx context.Context, m *domain.Medicine) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	query := `
		INSERT INTO medicines (id, name, generic_name, batch_no, expiry_date,
			stock_qty, reorder_level, price, manufacturer, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		m.ID, m.Name, m.GenericName, m.BatchNo, m.ExpiryDate,
		m.StockQty, m.ReorderLevel, m.Price, m.Manufacturer, m.Description,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}

	return nil
}

// GetByID fetches a single medicine by its ID
func (r *MedicineRepository) GetByID(ctx context.Context, id string) (*domain.Medicine, error) {
	query := `
		SELECT id, name, generic_name, batch_no, expiry_date, stock_qty,
			reorder_level, price, manufacturer, description, created_at, updated_at
		FROM medicines
		WHERE id = $1`

	var m domain.Medicine
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("medicine")
		}
		return nil, err
	}

	return &m, nil
}

// List returns a page of medicines ordered by name, plus the total count
func (r *MedicineRepository) List(ctx context.Context, page, perPage int) ([]*domain.Medicine, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM medicines`); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, generic_name, batch_no, expiry_date, stock_qty,
			reorder_level, price, manufacturer, description, created_at, updated_at
		FROM medicines
		ORDER BY name, batch_no
		LIMIT $1 OFFSET $2`

	offset := (page - 1) * perPage
	medicines := []*domain.Medicine{}
	if err := r.db.SelectContext(ctx, &medicines, query, perPage, offset); err != nil {
		return nil, 0, err
	}

	return medicines, total, nil
}

// Update persists the full row. Callers apply partial updates to a
// freshly loaded medicine first, so lost updates are limited to
// concurrent writers of the same row.
func (r *MedicineRepository) Update(ctx context.Context, m *domain.Medicine) error {
	query := `
		UPDATE medicines
		SET name = $2, generic_name = $3, batch_no = $4, expiry_date = $5,
			stock_qty = $6, reorder_level = $7, price = $8,
			manufacturer = $9, description = $10, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		m.ID, m.Name, m.GenericName, m.BatchNo, m.ExpiryDate,
		m.StockQty, m.ReorderLevel, m.Price, m.Manufacturer, m.Description,
	)
	if err != nil {
		return database.MapPQError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("medicine")
	}

	return nil
}

// Delete removes a medicine. Sales referencing it keep their rows but
// lose the foreign key (ON DELETE SET NULL), so history survives.
func (r *MedicineRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("medicine")
	}

	return nil
}

// Search finds medicines whose name or generic name matches the query,
// case-insensitively
func (r *MedicineRepository) Search(ctx context.Context, term string, limit int) ([]*domain.Medicine, error) {
	query := `
		SELECT id, name, generic_name, batch_no, expiry_date, stock_qty,
			reorder_level, price, manufacturer, description, created_at, updated_at
		FROM medicines
		WHERE name ILIKE $1 OR generic_name ILIKE $1
		ORDER BY name, batch_no
		LIMIT $2`

	medicines := []*domain.Medicine{}
	if err := r.db.SelectContext(ctx, &medicines, query, "%"+term+"%", limit); err != nil {
		return nil, err
	}

	return medicines, nil
}

// Expiring returns medicines whose expiry date falls within the given
// number of days from now, soonest first. Rows without an expiry date
// are excluded.
func (r *MedicineRepository) Expiring(ctx context.Context, days int) ([]*domain.Medicine, error) {
	cutoff := time.Now().AddDate(0, 0, days)

	query := `
		SELECT id, name, generic_name, batch_no, expiry_date, stock_qty,
			reorder_level, price, manufacturer, description, created_at, updated_at
		FROM medicines
		WHERE expiry_date IS NOT NULL AND expiry_date <= $1
		ORDER BY expiry_date, name`

	medicines := []*domain.Medicine{}
	if err := r.db.SelectContext(ctx, &medicines, query, cutoff); err != nil {
		return nil, err
	}

	return medicines, nil
}

// LowStock returns medicines at or below their reorder level, most
// depleted first
func (r *MedicineRepository) LowStock(ctx context.Context) ([]*domain.Medicine, error) {
	query := `
		SELECT id, name, generic_name, batch_no, expiry_date, stock_qty,
			reorder_level, price, manufacturer, description, created_at, updated_at
		FROM medicines
		WHERE stock_qty <= reorder_level
		ORDER BY stock_qty, name`

	medicines := []*domain.Medicine{}
	if err := r.db.SelectContext(ctx, &medicines, query); err != nil {
		return nil, err
	}

	return medicines, nil
}

// ReorderCandidates returns medicines whose stock is within the given
// multiple of their reorder level. The reorder engine scans these
// instead of the whole catalog.
func (r *MedicineRepository) ReorderCandidates(ctx context.Context, multiplier float64) ([]*domain.Medicine, error) {
	query := `
		SELECT id, name, generic_name, batch_no, expiry_date, stock_qty,
			reorder_level, price, manufacturer, description, created_at, updated_at
		FROM medicines
		WHERE stock_qty <= reorder_level * $1
		ORDER BY name, batch_no`

	medicines := []*domain.Medicine{}
	if err := r.db.SelectContext(ctx, &medicines, query, multiplier); err != nil {
		return nil, err
	}

	return medicines, nil
}
