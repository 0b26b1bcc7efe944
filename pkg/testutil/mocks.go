package testutil

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/abhisheknirogi/Pharmacy-ai/pkg/database"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
)

// MockDB is a sqlmock-backed stand-in for Postgres. Repository unit tests
// run against it so they need no database; the integration suite covers
// the real SQL.
type MockDB struct {
	DB   *sqlx.DB
	Mock sqlmock.Sqlmock
}

// NewMockDB opens a sqlmock connection wrapped for sqlx
func NewMockDB(t *testing.T) *MockDB {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	return &MockDB{
		DB:   sqlx.NewDb(db, "postgres"),
		Mock: mock,
	}
}

// Close closes the mock connection
func (m *MockDB) Close() error {
	return m.DB.Close()
}

// WrapDB returns the mock wrapped in the application database handle,
// ready to hand to a repository constructor
func (m *MockDB) WrapDB() *database.DB {
	return database.NewFromDB(m.DB, logger.New("test", "test"))
}

// ExpectQuery expects a query containing the given SQL verbatim
func (m *MockDB) ExpectQuery(query string) *sqlmock.ExpectedQuery {
	return m.Mock.ExpectQuery(regexp.QuoteMeta(query))
}

// ExpectExec expects a statement containing the given SQL verbatim
func (m *MockDB) ExpectExec(query string) *sqlmock.ExpectedExec {
	return m.Mock.ExpectExec(regexp.QuoteMeta(query))
}

// ExpectBegin expects a transaction to start
func (m *MockDB) ExpectBegin() *sqlmock.ExpectedBegin {
	return m.Mock.ExpectBegin()
}

// ExpectCommit expects the transaction to commit
func (m *MockDB) ExpectCommit() *sqlmock.ExpectedCommit {
	return m.Mock.ExpectCommit()
}

// ExpectRollback expects the transaction to roll back
func (m *MockDB) ExpectRollback() *sqlmock.ExpectedRollback {
	return m.Mock.ExpectRollback()
}

// ExpectationsWereMet fails the test when an expectation went unmatched
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	if err := m.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// MockRows builds a sqlmock row set with the given columns
func MockRows(columns ...string) *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

// PQUniqueViolation builds the error Postgres raises when the named
// unique constraint is violated
func PQUniqueViolation(constraint string) *pq.Error {
	return &pq.Error{Code: "23505", Constraint: constraint}
}

// AnyTime matches any time.Time argument
type AnyTime struct{}

func (AnyTime) Match(v driver.Value) bool {
	_, ok := v.(time.Time)
	return ok
}

// AnyUUID matches any argument that parses as a UUID
type AnyUUID struct{}

func (AnyUUID) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// MockPublisher records events instead of sending them to a broker. It
// satisfies the Publisher interface the event wrappers accept. Setting
// FailWith makes every publish fail, for error-path tests.
type MockPublisher struct {
	PublishedEvents []PublishedEvent
	FailWith        error
}

// PublishedEvent is one recorded publish
type PublishedEvent struct {
	Type    string
	Payload interface{}
}

// NewMockPublisher creates an empty recording publisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{PublishedEvents: []PublishedEvent{}}
}

// Publish records the event, or fails with FailWith when set
func (m *MockPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{Type: eventType, Payload: payload})
	return nil
}

// AssertEventPublished fails the test unless an event of the type was
// recorded
func (m *MockPublisher) AssertEventPublished(t *testing.T, eventType string) {
	t.Helper()
	for _, e := range m.PublishedEvents {
		if e.Type == eventType {
			return
		}
	}
	t.Errorf("expected event %q to be published, but it wasn't", eventType)
}

// AssertEventNotPublished fails the test when an event of the type was
// recorded
func (m *MockPublisher) AssertEventNotPublished(t *testing.T, eventType string) {
	t.Helper()
	for _, e := range m.PublishedEvents {
		if e.Type == eventType {
			t.Errorf("expected event %q not to be published, but it was", eventType)
			return
		}
	}
}

// AssertNoEventsPublished fails the test when anything was recorded
func (m *MockPublisher) AssertNoEventsPublished(t *testing.T) {
	t.Helper()
	if len(m.PublishedEvents) > 0 {
		t.Errorf("expected no events, got %d: %+v", len(m.PublishedEvents), m.PublishedEvents)
	}
}
