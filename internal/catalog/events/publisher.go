package events

import (
	"context"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/catalog/domain"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/messaging"
)

// Publisher is the transport catalog events are sent through
type Publisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// MedicineEventPublisher publishes catalog lifecycle events.
// A nil transport disables publishing without touching call sites.
type MedicineEventPublisher struct {
	publisher Publisher
	logger    *logger.Logger
}

// NewMedicineEventPublisher creates a new medicine event publisher
func NewMedicineEventPublisher(pub Publisher, log *logger.Logger) *MedicineEventPublisher {
	return &MedicineEventPublisher{
		publisher: pub,
		logger:    log,
	}
}

// PublishMedicineCreated publishes a medicine created event
func (p *MedicineEventPublisher) PublishMedicineCreated(ctx context.Context, m *domain.Medicine) {
	if p.publisher == nil {
		return
	}

	data := messaging.MedicineCreatedEvent{
		MedicineID: m.ID,
		Name:       m.Name,
		BatchNo:    m.BatchNo,
		StockQty:   m.StockQty,
	}

	if err := p.publisher.Publish(ctx, messaging.EventMedicineCreated, data); err != nil {
		p.logger.Error().Err(err).Str("medicine_id", m.ID).Msg("failed to publish medicine created event")
	}
}

// PublishMedicineUpdated publishes a medicine updated event carrying the
// changed fields
func (p *MedicineEventPublisher) PublishMedicineUpdated(ctx context.Context, id string, changes map[string]interface{}) {
	if p.publisher == nil {
		return
	}

	data := messaging.MedicineUpdatedEvent{
		MedicineID: id,
		Fields:     changes,
	}

	if err := p.publisher.Publish(ctx, messaging.EventMedicineUpdated, data); err != nil {
		p.logger.Error().Err(err).Str("medicine_id", id).Msg("failed to publish medicine updated event")
	}
}

// PublishMedicineDeleted publishes a medicine deleted event
func (p *MedicineEventPublisher) PublishMedicineDeleted(ctx context.Context, id, name string) {
	if p.publisher == nil {
		return
	}

	data := messaging.MedicineDeletedEvent{
		MedicineID: id,
		Name:       name,
	}

	if err := p.publisher.Publish(ctx, messaging.EventMedicineDeleted, data); err != nil {
		p.logger.Error().Err(err).Str("medicine_id", id).Msg("failed to publish medicine deleted event")
	}
}
