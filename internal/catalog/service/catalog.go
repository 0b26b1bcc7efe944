// Package service implements catalog business logic on top of the
// medicine repository.
package service

import (
	"context"
	"time"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/catalog/domain"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/catalog/events"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/catalog/repository"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
)

// DefaultReorderLevel is used when a medicine is created without one
const DefaultReorderLevel = 10

// DefaultSearchLimit caps search results when the caller does not
// specify a limit
const DefaultSearchLimit = 50

// CatalogService manages the medicine catalog
type CatalogService struct {
	repo      *repository.MedicineRepository
	publisher *events.MedicineEventPublisher
	logger    *logger.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo *repository.MedicineRepository, publisher *events.MedicineEventPublisher, log *logger.Logger) *CatalogService {
	return &CatalogService{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

// CreateMedicineRequest is the payload for adding a medicine
type CreateMedicineRequest struct {
	Name         string     `json:"name" validate:"required,max=255"`
	GenericName  *string    `json:"generic_name" validate:"omitempty,max=255"`
	BatchNo      string     `json:"batch_no" validate:"required,max=100"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	StockQty     int        `json:"stock_qty" validate:"gte=0"`
	ReorderLevel int        `json:"reorder_level" validate:"gte=0"`
	Price        float64    `json:"price" validate:"required,gt=0"`
	Manufacturer *string    `json:"manufacturer" validate:"omitempty,max=255"`
	Description  *string    `json:"description"`
}

// Create adds a medicine to the catalog
func (s *CatalogService) Create(ctx context.Context, req *CreateMedicineRequest) (*domain.Medicine, error) {
	reorderLevel := req.ReorderLevel
	if reorderLevel == 0 {
		reorderLevel = DefaultReorderLevel
	}

	medicine := &domain.Medicine{
		Name:         req.Name,
		GenericName:  req.GenericName,
		BatchNo:      req.BatchNo,
		ExpiryDate:   req.ExpiryDate,
		StockQty:     req.StockQty,
		ReorderLevel: reorderLevel,
		Price:        req.Price,
		Manufacturer: req.Manufacturer,
		Description:  req.Description,
	}

	if err := s.repo.Create(ctx, medicine); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("medicine_id", medicine.ID).
		Str("name", medicine.Name).
		Str("batch_no", medicine.BatchNo).
		Msg("medicine created")

	s.publisher.PublishMedicineCreated(ctx, medicine)

	return medicine, nil
}

// Get fetches a medicine by ID
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Medicine, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of the catalog plus the total count
func (s *CatalogService) List(ctx context.Context, page, perPage int) ([]*domain.Medicine, int, error) {
	return s.repo.List(ctx, page, perPage)
}

// Update applies a partial update. An empty update returns the current
// record without writing.
func (s *CatalogService) Update(ctx context.Context, id string, update *domain.MedicineUpdate) (*domain.Medicine, error) {
	medicine, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Empty() {
		return medicine, nil
	}

	changes := update.Apply(medicine)
	if len(changes) == 0 {
		return medicine, nil
	}

	if err := s.repo.Update(ctx, medicine); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("medicine_id", medicine.ID).
		Int("fields", len(changes)).
		Msg("medicine updated")

	s.publisher.PublishMedicineUpdated(ctx, medicine.ID, changes)

	return medicine, nil
}

// Delete removes a medicine from the catalog. Past sales keep their
// records.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	medicine, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().
		Str("medicine_id", id).
		Str("name", medicine.Name).
		Msg("medicine deleted")

	s.publisher.PublishMedicineDeleted(ctx, id, medicine.Name)

	return nil
}

// Search finds medicines by name or generic name
func (s *CatalogService) Search(ctx context.Context, term string, limit int) ([]*domain.Medicine, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return s.repo.Search(ctx, term, limit)
}

// Expiring returns medicines expiring within the given number of days
func (s *CatalogService) Expiring(ctx context.Context, days int) ([]*domain.Medicine, error) {
	return s.repo.Expiring(ctx, days)
}

// LowStock returns medicines at or below their reorder level
func (s *CatalogService) LowStock(ctx context.Context) ([]*domain.Medicine, error) {
	return s.repo.LowStock(ctx)
}
