package events

import (
	"context"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/sales/domain"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/messaging"
)

// Publisher is the transport sales events are sent through
type Publisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// SaleEventPublisher publishes sales events.
// A nil transport disables publishing without touching call sites.
type SaleEventPublisher struct {
	publisher Publisher
	logger    *logger.Logger
}

// NewSaleEventPublisher creates a new sale event publisher
func NewSaleEventPublisher(pub Publisher, log *logger.Logger) *SaleEventPublisher {
	return &SaleEventPublisher{
		publisher: pub,
		logger:    log,
	}
}

// PublishSaleRecorded publishes a sale recorded event
func (p *SaleEventPublisher) PublishSaleRecorded(ctx context.Context, sale *domain.Sale) {
	if p.publisher == nil {
		return
	}

	data := messaging.SaleRecordedEvent{
		SaleID:       sale.ID,
		MedicineID:   sale.MedicineID,
		MedicineName: sale.MedicineName,
		Quantity:     sale.Quantity,
		UnitPrice:    sale.UnitPrice,
		TotalAmount:  sale.TotalAmount,
		SaleDate:     sale.SaleDate,
	}

	if err := p.publisher.Publish(ctx, messaging.EventSaleRecorded, data); err != nil {
		p.logger.Error().Err(err).Str("sale_id", sale.ID).Msg("failed to publish sale recorded event")
	}
}

// PublishStockLow publishes a stock low event for the medicine the sale
// depleted
func (p *SaleEventPublisher) PublishStockLow(ctx context.Context, snapshot *domain.StockSnapshot) {
	if p.publisher == nil {
		return
	}

	data := messaging.StockLowEvent{
		MedicineID:   snapshot.MedicineID,
		MedicineName: snapshot.MedicineName,
		StockQty:     snapshot.StockQty,
		ReorderLevel: snapshot.ReorderLevel,
	}

	if err := p.publisher.Publish(ctx, messaging.EventStockLow, data); err != nil {
		p.logger.Error().Err(err).Str("medicine_id", snapshot.MedicineID).Msg("failed to publish stock low event")
	}
}
