// Package service wires the reorder prediction engine to the medicine
// catalog and the sales ledger.
package service

import (
	"context"
	"time"

	catalogdomain "github.com/abhisheknirogi/Pharmacy-ai/internal/catalog/domain"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/reorder/predictor"
	salesdomain "github.com/abhisheknirogi/Pharmacy-ai/internal/sales/domain"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/config"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
)

// AnalysisLimit is the number of best sellers the sales analysis returns
const AnalysisLimit = 10

// Catalog is the slice of the medicine catalog the engine reads.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*catalogdomain.Medicine, error)
	ReorderCandidates(ctx context.Context, multiplier float64) ([]*catalogdomain.Medicine, error)
}

// SalesHistory is the slice of the sales ledger the engine reads.
type SalesHistory interface {
	HistoryQuantities(ctx context.Context, medicineID, medicineName string, since time.Time) ([]int, error)
	TopSellers(ctx context.Context, since time.Time, limit int) ([]*salesdomain.TopSeller, error)
}

// ReorderService produces restocking suggestions from sales history
type ReorderService struct {
	catalog    Catalog
	sales      SalesHistory
	estimator  *predictor.Estimator
	calculator *predictor.Calculator
	cfg        config.ReorderConfig
	logger     *logger.Logger
}

// NewReorderService creates a reorder service from a validated
// configuration
func NewReorderService(catalog Catalog, sales SalesHistory, cfg config.ReorderConfig, log *logger.Logger) (*ReorderService, error) {
	policy, err := predictor.ParseSafetyPolicy(cfg.SafetyPolicy)
	if err != nil {
		return nil, err
	}

	estimator, err := predictor.NewEstimator(cfg.MovingAverageWindow, policy)
	if err != nil {
		return nil, err
	}

	return &ReorderService{
		catalog:    catalog,
		sales:      sales,
		estimator:  estimator,
		calculator: predictor.NewCalculator(cfg.TriggerMultiplier),
		cfg:        cfg,
		logger:     log,
	}, nil
}

// Predict computes the reorder suggestion for a single medicine over the
// given forecast horizon. The suggestion is returned even when the
// medicine sits above its reorder trigger; its priority is empty then.
func (s *ReorderService) Predict(ctx context.Context, medicineID string, horizonDays int) (*predictor.Suggestion, error) {
	if horizonDays <= 0 {
		horizonDays = s.cfg.DefaultHorizonDays
	}

	med, err := s.catalog.GetByID(ctx, medicineID)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -s.cfg.HistoryDays)
	quantities, err := s.sales.HistoryQuantities(ctx, med.ID, med.Name, since)
	if err != nil {
		return nil, err
	}

	est, err := s.estimator.Estimate(quantities, horizonDays)
	if err != nil {
		return nil, err
	}

	suggestion := s.calculator.Suggest(item(med), est)
	return &suggestion, nil
}

// Suggestions computes reorder suggestions for every medicine near its
// reorder level, judged over a trailing sales window of windowDays. Items
// that turn out to sit above their reorder trigger are dropped from the
// result. A history lookup failing for one medicine skips that medicine
// rather than failing the batch.
func (s *ReorderService) Suggestions(ctx context.Context, windowDays int) ([]predictor.Suggestion, error) {
	if windowDays <= 0 {
		windowDays = s.cfg.DefaultAnalysisDays
	}

	candidates, err := s.catalog.ReorderCandidates(ctx, s.cfg.CandidateMultiplier)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -windowDays)
	suggestions := []predictor.Suggestion{}
	for _, med := range candidates {
		quantities, err := s.sales.HistoryQuantities(ctx, med.ID, med.Name, since)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("medicine_id", med.ID).
				Msg("skipping medicine, sales history lookup failed")
			continue
		}

		est, err := s.estimator.Estimate(quantities, s.cfg.DefaultHorizonDays)
		if err != nil {
			return nil, err
		}

		suggestion := s.calculator.Suggest(item(med), est)
		if suggestion.Priority == "" {
			continue
		}
		suggestions = append(suggestions, suggestion)
	}

	predictor.SortSuggestions(suggestions)

	s.logger.Debug().
		Int("candidates", len(candidates)).
		Int("suggestions", len(suggestions)).
		Int("window_days", windowDays).
		Msg("reorder suggestions computed")

	return suggestions, nil
}

// Analysis ranks the best-selling medicines over the trailing window
func (s *ReorderService) Analysis(ctx context.Context, days int) ([]*salesdomain.TopSeller, error) {
	since := time.Now().AddDate(0, 0, -days)
	return s.sales.TopSellers(ctx, since, AnalysisLimit)
}

func item(med *catalogdomain.Medicine) predictor.Item {
	return predictor.Item{
		ID:           med.ID,
		Name:         med.Name,
		StockQty:     med.StockQty,
		ReorderLevel: med.ReorderLevel,
	}
}
