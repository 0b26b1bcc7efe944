package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types double as routing keys on the topic exchange.
const (
	// Sales events
	EventSaleRecorded = "sales.sale.recorded"

	// Inventory events
	EventStockLow        = "inventory.stock.low"
	EventMedicineCreated = "inventory.medicine.created"
	EventMedicineUpdated = "inventory.medicine.updated"
	EventMedicineDeleted = "inventory.medicine.deleted"

	// Auth events
	EventUserRegistered = "auth.user.registered"
)

// ExchangeEvents is the topic exchange all application events go through.
const ExchangeEvents = "pharmarec.events"

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent wraps data in the envelope, stamping a fresh ID and a UTC
// timestamp
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData decodes the payload into v. Consumers pick the target
// type from Event.Type.
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// Sales events

// SaleRecordedEvent is published when a sale is recorded
type SaleRecordedEvent struct {
	SaleID       string    `json:"sale_id"`
	MedicineID   *string   `json:"medicine_id,omitempty"`
	MedicineName string    `json:"medicine_name"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	TotalAmount  float64   `json:"total_amount"`
	SaleDate     time.Time `json:"sale_date"`
}

// Inventory events

// StockLowEvent is published when a sale leaves a medicine at or below
// its reorder level
type StockLowEvent struct {
	MedicineID   string `json:"medicine_id"`
	MedicineName string `json:"medicine_name"`
	StockQty     int    `json:"stock_qty"`
	ReorderLevel int    `json:"reorder_level"`
}

// MedicineCreatedEvent is published when a medicine is added to the catalog
type MedicineCreatedEvent struct {
	MedicineID string `json:"medicine_id"`
	Name       string `json:"name"`
	BatchNo    string `json:"batch_no"`
	StockQty   int    `json:"stock_qty"`
}

// MedicineUpdatedEvent is published when a medicine record changes
type MedicineUpdatedEvent struct {
	MedicineID string         `json:"medicine_id"`
	Fields     map[string]any `json:"fields"`
}

// MedicineDeletedEvent is published when a medicine is removed
type MedicineDeletedEvent struct {
	MedicineID string `json:"medicine_id"`
	Name       string `json:"name"`
}

// Auth events

// UserRegisteredEvent is published when a new user registers
type UserRegisteredEvent struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}
