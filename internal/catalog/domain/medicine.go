// Package domain holds the catalog's core types, shared by the
// repository, service, and handler layers.
package domain

import (
	"time"
)

// Medicine represents a stocked pharmacy product. A product is identified
// by its name and batch number together, so the same name may appear once
// per batch.
type Medicine struct {
	ID           string     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	GenericName  *string    `db:"generic_name" json:"generic_name,omitempty"`
	BatchNo      string     `db:"batch_no" json:"batch_no"`
	ExpiryDate   *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	StockQty     int        `db:"stock_qty" json:"stock_qty"`
	ReorderLevel int        `db:"reorder_level" json:"reorder_level"`
	Price        float64    `db:"price" json:"price"`
	Manufacturer *string    `db:"manufacturer" json:"manufacturer,omitempty"`
	Description  *string    `db:"description" json:"description,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// IsLowStock reports whether stock has fallen to the reorder level
func (m *Medicine) IsLowStock() bool {
	return m.StockQty <= m.ReorderLevel
}

// ExpiresWithin reports whether the medicine expires within the given
// number of days. Medicines without an expiry date never expire.
func (m *Medicine) ExpiresWithin(days int) bool {
	if m.ExpiryDate == nil {
		return false
	}
	return !m.ExpiryDate.After(time.Now().AddDate(0, 0, days))
}

// MedicineUpdate is a partial update. Nil fields are left untouched,
// so callers can distinguish "not provided" from zero values.
type MedicineUpdate struct {
	Name         *string    `json:"name"`
	GenericName  *string    `json:"generic_name"`
	BatchNo      *string    `json:"batch_no"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	StockQty     *int       `json:"stock_qty" validate:"omitempty,gte=0"`
	ReorderLevel *int       `json:"reorder_level" validate:"omitempty,gt=0"`
	Price        *float64   `json:"price" validate:"omitempty,gt=0"`
	Manufacturer *string    `json:"manufacturer"`
	Description  *string    `json:"description"`
}

// Empty reports whether the update carries no fields
func (u *MedicineUpdate) Empty() bool {
	return u.Name == nil && u.GenericName == nil && u.BatchNo == nil &&
		u.ExpiryDate == nil && u.StockQty == nil && u.ReorderLevel == nil &&
		u.Price == nil && u.Manufacturer == nil && u.Description == nil
}

// Apply copies the provided fields onto the medicine and returns a map
// of what changed, keyed by column name.
func (u *MedicineUpdate) Apply(m *Medicine) map[string]interface{} {
	changes := make(map[string]interface{})

	if u.Name != nil && *u.Name != m.Name {
		changes["name"] = *u.Name
		m.Name = *u.Name
	}
	if u.GenericName != nil {
		changes["generic_name"] = *u.GenericName
		m.GenericName = u.GenericName
	}
	if u.BatchNo != nil && *u.BatchNo != m.BatchNo {
		changes["batch_no"] = *u.BatchNo
		m.BatchNo = *u.BatchNo
	}
	if u.ExpiryDate != nil {
		changes["expiry_date"] = *u.ExpiryDate
		m.ExpiryDate = u.ExpiryDate
	}
	if u.StockQty != nil && *u.StockQty != m.StockQty {
		changes["stock_qty"] = *u.StockQty
		m.StockQty = *u.StockQty
	}
	if u.ReorderLevel != nil && *u.ReorderLevel != m.ReorderLevel {
		changes["reorder_level"] = *u.ReorderLevel
		m.ReorderLevel = *u.ReorderLevel
	}
	if u.Price != nil && *u.Price != m.Price {
		changes["price"] = *u.Price
		m.Price = *u.Price
	}
	if u.Manufacturer != nil {
		changes["manufacturer"] = *u.Manufacturer
		m.Manufacturer = u.Manufacturer
	}
	if u.Description != nil {
		changes["description"] = *u.Description
		m.Description = u.Description
	}

	return changes
}
