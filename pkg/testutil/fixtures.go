package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserFixture represents test user data
type UserFixture struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	CreatedAt    time.Time
}

// MedicineFixture represents test medicine data
type MedicineFixture struct {
	ID           string
	Name         string
	GenericName  *string
	BatchNo      string
	ExpiryDate   *time.Time
	StockQty     int
	ReorderLevel int
	Price        float64
	Manufacturer *string
	Description  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SaleFixture represents test sale data
type SaleFixture struct {
	ID           string
	MedicineID   *string
	MedicineName string
	Quantity     int
	UnitPrice    float64
	TotalAmount  float64
	SaleDate     time.Time
}

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// User creates a user fixture with defaults
func (f *FixtureFactory) User(opts ...func(*UserFixture)) UserFixture {
	seq := f.nextSeq()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	user := UserFixture{
		ID:           uuid.New().String(),
		Email:        fmt.Sprintf("user%d@pharmarec.test", seq),
		PasswordHash: string(hash),
		FullName:     fmt.Sprintf("Test User %d", seq),
		Role:         "staff",
		CreatedAt:    time.Now(),
	}

	for _, opt := range opts {
		opt(&user)
	}

	return user
}

// WithEmail sets the user email
func WithEmail(email string) func(*UserFixture) {
	return func(u *UserFixture) {
		u.Email = email
	}
}

// WithFullName sets the user's full name
func WithFullName(name string) func(*UserFixture) {
	return func(u *UserFixture) {
		u.FullName = name
	}
}

// WithRole sets the user role
func WithRole(role string) func(*UserFixture) {
	return func(u *UserFixture) {
		u.Role = role
	}
}

// WithPassword sets the user password (hashed)
func WithPassword(password string) func(*UserFixture) {
	return func(u *UserFixture) {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		u.PasswordHash = string(hash)
	}
}

// Medicine creates a medicine fixture with defaults
func (f *FixtureFactory) Medicine(opts ...func(*MedicineFixture)) MedicineFixture {
	seq := f.nextSeq()
	expiry := time.Now().AddDate(1, 0, 0)

	med := MedicineFixture{
		ID:           uuid.New().String(),
		Name:         fmt.Sprintf("Test Medicine %d", seq),
		BatchNo:      fmt.Sprintf("BATCH-%04d", seq),
		ExpiryDate:   &expiry,
		StockQty:     100,
		ReorderLevel: 10,
		Price:        9.99,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	for _, opt := range opts {
		opt(&med)
	}

	return med
}

// WithMedicineName sets the medicine name
func WithMedicineName(name string) func(*MedicineFixture) {
	return func(m *MedicineFixture) {
		m.Name = name
	}
}

// WithBatchNo sets the medicine batch number
func WithBatchNo(batchNo string) func(*MedicineFixture) {
	return func(m *MedicineFixture) {
		m.BatchNo = batchNo
	}
}

// WithStock sets the medicine stock quantity
func WithStock(qty int) func(*MedicineFixture) {
	return func(m *MedicineFixture) {
		m.StockQty = qty
	}
}

// WithReorderLevel sets the medicine reorder level
func WithReorderLevel(level int) func(*MedicineFixture) {
	return func(m *MedicineFixture) {
		m.ReorderLevel = level
	}
}

// WithPrice sets the medicine unit price
func WithPrice(price float64) func(*MedicineFixture) {
	return func(m *MedicineFixture) {
		m.Price = price
	}
}

// WithExpiryDate sets the medicine expiry date
func WithExpiryDate(date time.Time) func(*MedicineFixture) {
	return func(m *MedicineFixture) {
		m.ExpiryDate = &date
	}
}

// WithoutExpiryDate clears the medicine expiry date
func WithoutExpiryDate() func(*MedicineFixture) {
	return func(m *MedicineFixture) {
		m.ExpiryDate = nil
	}
}

// Sale creates a sale fixture with defaults
func (f *FixtureFactory) Sale(opts ...func(*SaleFixture)) SaleFixture {
	seq := f.nextSeq()

	sale := SaleFixture{
		ID:           uuid.New().String(),
		MedicineName: fmt.Sprintf("Test Medicine %d", seq),
		Quantity:     1,
		UnitPrice:    9.99,
		TotalAmount:  9.99,
		SaleDate:     time.Now(),
	}

	for _, opt := range opts {
		opt(&sale)
	}

	return sale
}

// ForMedicine links the sale to a medicine fixture
func ForMedicine(med MedicineFixture) func(*SaleFixture) {
	return func(s *SaleFixture) {
		id := med.ID
		s.MedicineID = &id
		s.MedicineName = med.Name
		s.UnitPrice = med.Price
		s.TotalAmount = float64(s.Quantity) * med.Price
	}
}

// WithQuantity sets the sale quantity and recomputes the total
func WithQuantity(qty int) func(*SaleFixture) {
	return func(s *SaleFixture) {
		s.Quantity = qty
		s.TotalAmount = float64(qty) * s.UnitPrice
	}
}

// WithSaleDate sets the sale date
func WithSaleDate(date time.Time) func(*SaleFixture) {
	return func(s *SaleFixture) {
		s.SaleDate = date
	}
}

// DailySales produces one sale per day for the given number of days,
// ending today, each selling qty units of the medicine. Useful for
// seeding deterministic reorder histories.
func (f *FixtureFactory) DailySales(med MedicineFixture, days, qty int) []SaleFixture {
	sales := make([]SaleFixture, 0, days)
	for i := days - 1; i >= 0; i-- {
		sales = append(sales, f.Sale(
			ForMedicine(med),
			WithQuantity(qty),
			WithSaleDate(time.Now().AddDate(0, 0, -i)),
		))
	}
	return sales
}
