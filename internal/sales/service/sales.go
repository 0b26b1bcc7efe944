// Package service implements sales business logic on top of the sale
// repository.
package service

import (
	"context"
	"time"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/sales/domain"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/sales/events"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/sales/repository"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
)

// SalesService manages the sales ledger
type SalesService struct {
	repo      *repository.SaleRepository
	publisher *events.SaleEventPublisher
	logger    *logger.Logger
}

// NewSalesService creates a new sales service
func NewSalesService(repo *repository.SaleRepository, publisher *events.SaleEventPublisher, log *logger.Logger) *SalesService {
	return &SalesService{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

// RecordSaleRequest is the payload for recording a sale. The unit price
// is optional; when omitted the medicine's catalog price at sale time is
// used. The sale date is optional and supports backdating.
type RecordSaleRequest struct {
	MedicineID string     `json:"medicine_id" validate:"required,uuid"`
	Quantity   int        `json:"quantity" validate:"required,gt=0"`
	UnitPrice  float64    `json:"unit_price" validate:"omitempty,gt=0"`
	SaleDate   *time.Time `json:"sale_date"`
}

// Record records a sale and decrements stock. A stock low event follows
// when the sale leaves the medicine at or below its reorder level.
func (s *SalesService) Record(ctx context.Context, req *RecordSaleRequest) (*domain.Sale, error) {
	if req.SaleDate != nil && req.SaleDate.After(time.Now()) {
		return nil, errors.BadRequest("sale date cannot be in the future")
	}

	sale := &domain.Sale{
		MedicineID: &req.MedicineID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
	}
	if req.SaleDate != nil {
		sale.SaleDate = *req.SaleDate
	}

	snapshot, err := s.repo.Create(ctx, sale)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("sale_id", sale.ID).
		Str("medicine_id", snapshot.MedicineID).
		Int("quantity", sale.Quantity).
		Float64("total", sale.TotalAmount).
		Msg("sale recorded")

	s.publisher.PublishSaleRecorded(ctx, sale)

	if snapshot.IsLow() {
		s.logger.Warn().
			Str("medicine_id", snapshot.MedicineID).
			Int("stock_qty", snapshot.StockQty).
			Int("reorder_level", snapshot.ReorderLevel).
			Msg("stock at or below reorder level")
		s.publisher.PublishStockLow(ctx, snapshot)
	}

	return sale, nil
}

// Get fetches a single sale
func (s *SalesService) Get(ctx context.Context, id string) (*domain.Sale, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of sales, newest first
func (s *SalesService) List(ctx context.Context, filter domain.Filter, page, perPage int) ([]*domain.Sale, int, error) {
	return s.repo.List(ctx, filter, page, perPage)
}

// Summary aggregates the ledger over the given range and breaks it down
// per medicine
func (s *SalesService) Summary(ctx context.Context, from, to time.Time) (*domain.Report, error) {
	if !to.After(from) {
		return nil, errors.BadRequest("'to' must be after 'from'")
	}

	summary, err := s.repo.Summary(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byMedicine, err := s.repo.PerItemTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &domain.Report{Summary: *summary, ByMedicine: byMedicine}, nil
}
