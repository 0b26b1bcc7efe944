package database

import (
	"context"
	"fmt"
)

// schema is the bootstrap DDL for the application tables. Statements are
// idempotent so Migrate can run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	email VARCHAR(255) NOT NULL CONSTRAINT users_email_unique UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	full_name VARCHAR(255) NOT NULL,
	role VARCHAR(50) NOT NULL DEFAULT 'staff',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS medicines (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name VARCHAR(255) NOT NULL,
	generic_name VARCHAR(255),
	batch_no VARCHAR(100) NOT NULL DEFAULT '',
	expiry_date DATE,
	stock_qty INTEGER NOT NULL DEFAULT 0
		CONSTRAINT medicines_stock_qty_nonnegative CHECK (stock_qty >= 0),
	reorder_level INTEGER NOT NULL DEFAULT 10
		CONSTRAINT medicines_reorder_level_positive CHECK (reorder_level > 0),
	price NUMERIC(10,2) NOT NULL
		CONSTRAINT medicines_price_positive CHECK (price > 0),
	manufacturer VARCHAR(255),
	description TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT medicines_name_batch_unique UNIQUE (name, batch_no)
);

CREATE INDEX IF NOT EXISTS idx_medicines_name ON medicines(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_medicines_expiry_date ON medicines(expiry_date);

CREATE TABLE IF NOT EXISTS sales (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	medicine_id UUID REFERENCES medicines(id) ON DELETE SET NULL,
	medicine_name VARCHAR(255) NOT NULL,
	quantity INTEGER NOT NULL
		CONSTRAINT sales_quantity_positive CHECK (quantity > 0),
	unit_price NUMERIC(10,2) NOT NULL
		CONSTRAINT sales_unit_price_positive CHECK (unit_price > 0),
	total_amount NUMERIC(12,2) NOT NULL,
	sale_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sales_medicine_id ON sales(medicine_id);
CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales(sale_date);
CREATE INDEX IF NOT EXISTS idx_sales_medicine_name ON sales(LOWER(medicine_name));
`

// Migrate creates the application tables if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to run schema migration: %w", err)
	}

	db.logger.Info().Msg("database schema up to date")
	return nil
}

// Schema returns the bootstrap DDL. Exposed for test harnesses that need
// to prepare a database without a *DB instance.
func Schema() string {
	return schema
}
