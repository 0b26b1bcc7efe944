package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/abhisheknirogi/Pharmacy-ai/pkg/database"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
)

// One container serves every integration test package in the run.
// Booting Postgres per package would dominate test time.
var (
	globalContainer *PostgresContainer
	globalDB        *sqlx.DB
	containerOnce   sync.Once
	containerErr    error
)

// IntegrationSuite bundles what repository integration tests need: the
// container, a raw connection for seeding, the wrapped DB the code under
// test uses, and a fixture factory.
type IntegrationSuite struct {
	Container *PostgresContainer
	RawDB     *sqlx.DB
	DB        *database.DB
	Fixtures  *FixtureFactory
	Logger    *logger.Logger
}

// NewIntegrationSuite boots (or reuses) the shared container and applies
// the schema. Call it from TestMain, guarded by testing.Short, and pair
// it with TerminateContainer once the package's tests finish.
func NewIntegrationSuite(ctx context.Context) (*IntegrationSuite, error) {
	container, db, err := getOrCreateContainer(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New("test", "test")
	wrappedDB, err := database.NewWithDSN(container.DSN, log)
	if err != nil {
		return nil, err
	}

	if err := container.Bootstrap(ctx, db); err != nil {
		return nil, err
	}

	return &IntegrationSuite{
		Container: container,
		RawDB:     db,
		DB:        wrappedDB,
		Fixtures:  NewFixtureFactory(),
		Logger:    log,
	}, nil
}

func getOrCreateContainer(ctx context.Context) (*PostgresContainer, *sqlx.DB, error) {
	containerOnce.Do(func() {
		globalContainer, containerErr = NewPostgresContainer(ctx)
		if containerErr != nil {
			return
		}
		globalDB, containerErr = globalContainer.Connect(ctx)
	})

	return globalContainer, globalDB, containerErr
}

// TerminateContainer stops the shared container. Only TestMain should
// call it, after m.Run.
func TerminateContainer(ctx context.Context) {
	if globalContainer != nil {
		globalContainer.Terminate(ctx)
	}
}

// TruncateAll empties every application table so a test starts from a
// clean database regardless of what ran before it
func (s *IntegrationSuite) TruncateAll(t *testing.T, ctx context.Context) {
	t.Helper()

	if _, err := s.RawDB.ExecContext(ctx, "TRUNCATE sales, medicines, users CASCADE"); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// SeedMedicine inserts the fixture directly, bypassing the repository
// under test, and returns it for assertions
func (s *IntegrationSuite) SeedMedicine(t *testing.T, ctx context.Context, med MedicineFixture) MedicineFixture {
	t.Helper()

	_, err := s.RawDB.ExecContext(ctx, `
		INSERT INTO medicines (id, name, generic_name, batch_no, expiry_date, stock_qty, reorder_level, price, manufacturer, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		med.ID, med.Name, med.GenericName, med.BatchNo, med.ExpiryDate,
		med.StockQty, med.ReorderLevel, med.Price, med.Manufacturer, med.Description,
		med.CreatedAt, med.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to seed medicine: %v", err)
	}
	return med
}

// SeedSale inserts the fixture directly and returns it
func (s *IntegrationSuite) SeedSale(t *testing.T, ctx context.Context, sale SaleFixture) SaleFixture {
	t.Helper()

	_, err := s.RawDB.ExecContext(ctx, `
		INSERT INTO sales (id, medicine_id, medicine_name, quantity, unit_price, total_amount, sale_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sale.ID, sale.MedicineID, sale.MedicineName, sale.Quantity,
		sale.UnitPrice, sale.TotalAmount, sale.SaleDate,
	)
	if err != nil {
		t.Fatalf("failed to seed sale: %v", err)
	}
	return sale
}

// SeedUser inserts the fixture directly and returns it
func (s *IntegrationSuite) SeedUser(t *testing.T, ctx context.Context, user UserFixture) UserFixture {
	t.Helper()

	_, err := s.RawDB.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Role, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}
