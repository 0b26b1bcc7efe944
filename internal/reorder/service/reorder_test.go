package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/abhisheknirogi/Pharmacy-ai/internal/catalog/domain"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/reorder/predictor"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/reorder/service"
	salesdomain "github.com/abhisheknirogi/Pharmacy-ai/internal/sales/domain"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/config"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
)

type fakeCatalog struct {
	medicines     map[string]*catalogdomain.Medicine
	candidates    []*catalogdomain.Medicine
	candidatesErr error
	gotMultiplier float64
}

func (f *fakeCatalog) GetByID(ctx context.Context, id string) (*catalogdomain.Medicine, error) {
	med, ok := f.medicines[id]
	if !ok {
		return nil, errors.NotFound("medicine")
	}
	return med, nil
}

func (f *fakeCatalog) ReorderCandidates(ctx context.Context, multiplier float64) ([]*catalogdomain.Medicine, error) {
	f.gotMultiplier = multiplier
	return f.candidates, f.candidatesErr
}

type fakeSales struct {
	history    map[string][]int
	historyErr map[string]error
	sellers    []*salesdomain.TopSeller

	historySince time.Time
	gotSince     time.Time
	gotLimit     int
}

func (f *fakeSales) HistoryQuantities(ctx context.Context, medicineID, medicineName string, since time.Time) ([]int, error) {
	f.historySince = since
	if err := f.historyErr[medicineID]; err != nil {
		return nil, err
	}
	return f.history[medicineID], nil
}

func (f *fakeSales) TopSellers(ctx context.Context, since time.Time, limit int) ([]*salesdomain.TopSeller, error) {
	f.gotSince = since
	f.gotLimit = limit
	return f.sellers, nil
}

func testReorderConfig() config.ReorderConfig {
	return config.ReorderConfig{
		SafetyPolicy:        "short",
		MovingAverageWindow: 7,
		DefaultHorizonDays:  7,
		DefaultAnalysisDays: 7,
		HistoryDays:         90,
		CandidateMultiplier: 1.5,
		TriggerMultiplier:   3.0,
	}
}

func med(id, name string, stock, level int) *catalogdomain.Medicine {
	return &catalogdomain.Medicine{
		ID:           id,
		Name:         name,
		BatchNo:      "BATCH-0001",
		StockQty:     stock,
		ReorderLevel: level,
		Price:        4.99,
	}
}

func newReorderService(t *testing.T, catalog *fakeCatalog, sales *fakeSales) *service.ReorderService {
	t.Helper()
	svc, err := service.NewReorderService(catalog, sales, testReorderConfig(), logger.New("test", "test"))
	require.NoError(t, err)
	return svc
}

func TestNewReorderService_RejectsUnknownPolicy(t *testing.T) {
	cfg := testReorderConfig()
	cfg.SafetyPolicy = "aggressive"

	_, err := service.NewReorderService(&fakeCatalog{}, &fakeSales{}, cfg, logger.New("test", "test"))
	require.Error(t, err)
}

func TestReorderService_Predict(t *testing.T) {
	catalog := &fakeCatalog{medicines: map[string]*catalogdomain.Medicine{
		"med-1": med("med-1", "Amoxicillin", 8, 10),
	}}
	sales := &fakeSales{history: map[string][]int{
		"med-1": {4, 6, 5, 5, 4, 6, 5},
	}}
	svc := newReorderService(t, catalog, sales)

	suggestion, err := svc.Predict(context.Background(), "med-1", 7)
	require.NoError(t, err)

	assert.Equal(t, 5.0, suggestion.AverageDailySales)
	assert.Equal(t, 35.0, suggestion.ForecastedDemand)
	assert.Equal(t, 10.0, suggestion.SafetyStock, "short policy buffers two days of demand")
	assert.Equal(t, 37, suggestion.SuggestedOrder)
	assert.Equal(t, predictor.PriorityMedium, suggestion.Priority)
	assert.Equal(t, predictor.ConfidenceLow, suggestion.Confidence)
	assert.Equal(t, 1.6, suggestion.DaysOfStock)

	wantSince := time.Now().AddDate(0, 0, -90)
	assert.WithinDuration(t, wantSince, sales.historySince, time.Minute,
		"single predictions look back over the full history window")
}

func TestReorderService_PredictDefaultHorizon(t *testing.T) {
	catalog := &fakeCatalog{medicines: map[string]*catalogdomain.Medicine{
		"med-1": med("med-1", "Paracetamol", 100, 10),
	}}
	sales := &fakeSales{history: map[string][]int{"med-1": {10}}}
	svc := newReorderService(t, catalog, sales)

	suggestion, err := svc.Predict(context.Background(), "med-1", 0)
	require.NoError(t, err)

	assert.Equal(t, 70.0, suggestion.ForecastedDemand, "default horizon is seven days")
	assert.Equal(t, 0, suggestion.SuggestedOrder)
	assert.Empty(t, suggestion.Priority, "well stocked medicines get no priority class")
}

func TestReorderService_PredictNoHistory(t *testing.T) {
	catalog := &fakeCatalog{medicines: map[string]*catalogdomain.Medicine{
		"med-1": med("med-1", "Cetirizine", 5, 10),
	}}
	svc := newReorderService(t, catalog, &fakeSales{})

	suggestion, err := svc.Predict(context.Background(), "med-1", 7)
	require.NoError(t, err)

	assert.Equal(t, 20, suggestion.SuggestedOrder, "fallback orders twice the reorder level")
	assert.Equal(t, predictor.ConfidenceNone, suggestion.Confidence)
	assert.Equal(t, predictor.NoSalesHistoryReason, suggestion.Reason)
	assert.Equal(t, predictor.DaysOfStockUnlimited, suggestion.DaysOfStock)
	assert.Empty(t, suggestion.Priority)
}

func TestReorderService_PredictNotFound(t *testing.T) {
	svc := newReorderService(t, &fakeCatalog{}, &fakeSales{})

	_, err := svc.Predict(context.Background(), "missing", 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestReorderService_Suggestions(t *testing.T) {
	catalog := &fakeCatalog{candidates: []*catalogdomain.Medicine{
		med("med-fine", "Vitamin C", 40, 30),
		med("med-trigger", "Paracetamol", 12, 10),
		med("med-out", "Ibuprofen", 0, 10),
		med("med-low", "Amoxicillin", 3, 10),
	}}
	sales := &fakeSales{history: map[string][]int{
		"med-fine":    {2},
		"med-trigger": {5, 5, 5, 5, 5, 5, 5},
		"med-low":     {4, 5, 6},
	}}
	svc := newReorderService(t, catalog, sales)

	suggestions, err := svc.Suggestions(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1.5, catalog.gotMultiplier)

	require.Len(t, suggestions, 3, "medicines above their trigger are dropped")

	assert.Equal(t, "Ibuprofen", suggestions[0].ItemName)
	assert.Equal(t, predictor.PriorityCritical, suggestions[0].Priority)
	assert.Equal(t, 20, suggestions[0].SuggestedOrder)
	assert.Equal(t, predictor.NoSalesHistoryReason, suggestions[0].Reason)

	assert.Equal(t, "Amoxicillin", suggestions[1].ItemName)
	assert.Equal(t, predictor.PriorityHigh, suggestions[1].Priority)
	assert.Equal(t, 42, suggestions[1].SuggestedOrder,
		"priority outranks order size, so the critical item stays first with a smaller order")

	assert.Equal(t, "Paracetamol", suggestions[2].ItemName)
	assert.Equal(t, predictor.PriorityMedium, suggestions[2].Priority)
	assert.Equal(t, 33, suggestions[2].SuggestedOrder)
}

func TestReorderService_SuggestionsSkipsFailedLookups(t *testing.T) {
	catalog := &fakeCatalog{candidates: []*catalogdomain.Medicine{
		med("med-a", "Aspirin", 0, 10),
		med("med-b", "Benzocaine", 0, 10),
		med("med-c", "Cetirizine", 0, 5),
	}}
	sales := &fakeSales{historyErr: map[string]error{
		"med-b": assert.AnError,
	}}
	svc := newReorderService(t, catalog, sales)

	suggestions, err := svc.Suggestions(context.Background(), 7)
	require.NoError(t, err, "one failed lookup does not fail the batch")

	require.Len(t, suggestions, 2)
	assert.Equal(t, "Aspirin", suggestions[0].ItemName)
	assert.Equal(t, "Cetirizine", suggestions[1].ItemName)
}

func TestReorderService_SuggestionsDefaultWindow(t *testing.T) {
	catalog := &fakeCatalog{candidates: []*catalogdomain.Medicine{
		med("med-1", "Aspirin", 0, 10),
	}}
	sales := &fakeSales{}
	svc := newReorderService(t, catalog, sales)

	_, err := svc.Suggestions(context.Background(), 0)
	require.NoError(t, err)

	wantSince := time.Now().AddDate(0, 0, -7)
	assert.WithinDuration(t, wantSince, sales.historySince, time.Minute)
}

func TestReorderService_SuggestionsCandidateLookupFails(t *testing.T) {
	catalog := &fakeCatalog{candidatesErr: assert.AnError}
	svc := newReorderService(t, catalog, &fakeSales{})

	_, err := svc.Suggestions(context.Background(), 7)
	require.Error(t, err)
}

func TestReorderService_Analysis(t *testing.T) {
	sales := &fakeSales{sellers: []*salesdomain.TopSeller{
		{MedicineName: "Paracetamol", TotalUnits: 120, TotalRevenue: 598.80, SaleCount: 40},
	}}
	svc := newReorderService(t, &fakeCatalog{}, sales)

	sellers, err := svc.Analysis(context.Background(), 30)
	require.NoError(t, err)

	require.Len(t, sellers, 1)
	assert.Equal(t, "Paracetamol", sellers[0].MedicineName)
	assert.Equal(t, service.AnalysisLimit, sales.gotLimit)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), sales.gotSince, time.Minute)
}
