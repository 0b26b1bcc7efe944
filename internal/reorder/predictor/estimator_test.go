package predictor_test

import (
	"testing"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/reorder/predictor"
)

func TestEstimator_MovingAverage(t *testing.T) {
	tests := []struct {
		name       string
		window     int
		quantities []int
		horizon    int
		wantAvg    float64
		wantDemand float64
	}{
		{
			name:       "averages over full window",
			window:     7,
			quantities: []int{1, 1, 1, 2, 2, 2, 3, 3, 3, 4}, // last 7: 2,2,2,3,3,3,4 = 19
			horizon:    7,
			wantAvg:    19.0 / 7.0,
			wantDemand: 19.0,
		},
		{
			name:       "fewer samples than window uses available count",
			window:     7,
			quantities: []int{4, 6},
			horizon:    7,
			wantAvg:    5.0,
			wantDemand: 35.0,
		},
		{
			name:       "single observation",
			window:     7,
			quantities: []int{3},
			horizon:    10,
			wantAvg:    3.0,
			wantDemand: 30.0,
		},
		{
			name:       "steady demand",
			window:     7,
			quantities: []int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
			horizon:    7,
			wantAvg:    2.0,
			wantDemand: 14.0,
		},
		{
			name:       "window of one tracks the last sale only",
			window:     1,
			quantities: []int{10, 10, 10, 1},
			horizon:    5,
			wantAvg:    1.0,
			wantDemand: 5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := predictor.NewEstimator(tt.window, predictor.SafetyShort)
			if err != nil {
				t.Fatalf("NewEstimator() error = %v", err)
			}

			est, err := e.Estimate(tt.quantities, tt.horizon)
			if err != nil {
				t.Fatalf("Estimate() error = %v", err)
			}

			if est.NoData {
				t.Fatal("Estimate() flagged NoData for non-empty history")
			}
			if !almostEqual(est.AverageDailySales, tt.wantAvg) {
				t.Errorf("AverageDailySales = %v, want %v", est.AverageDailySales, tt.wantAvg)
			}
			if !almostEqual(est.ForecastedDemand, tt.wantDemand) {
				t.Errorf("ForecastedDemand = %v, want %v", est.ForecastedDemand, tt.wantDemand)
			}
			if est.SampleSize != len(tt.quantities) {
				t.Errorf("SampleSize = %v, want %v", est.SampleSize, len(tt.quantities))
			}
		})
	}
}

func TestEstimator_EmptyHistory(t *testing.T) {
	e, err := predictor.NewEstimator(predictor.DefaultWindow, predictor.SafetyShort)
	if err != nil {
		t.Fatalf("NewEstimator() error = %v", err)
	}

	est, err := e.Estimate(nil, 7)
	if err != nil {
		t.Fatalf("Estimate() with empty history should not error, got %v", err)
	}

	if !est.NoData {
		t.Error("Estimate() should flag NoData for empty history")
	}
	if est.Confidence != predictor.ConfidenceNone {
		t.Errorf("Confidence = %v, want %v", est.Confidence, predictor.ConfidenceNone)
	}
	if est.AverageDailySales != 0 || est.ForecastedDemand != 0 || est.SafetyStock != 0 {
		t.Errorf("no-data estimate should carry zero demand fields, got %+v", est)
	}
	if est.SampleSize != 0 {
		t.Errorf("SampleSize = %v, want 0", est.SampleSize)
	}
}

func TestEstimator_SafetyPolicies(t *testing.T) {
	quantities := []int{2, 2, 2, 2, 2, 2, 2}

	tests := []struct {
		policy     predictor.SafetyPolicy
		wantSafety float64
	}{
		{predictor.SafetyShort, 4.0},     // 2 days of cover
		{predictor.SafetyBaseline, 28.0}, // 14 days of cover
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			e, err := predictor.NewEstimator(7, tt.policy)
			if err != nil {
				t.Fatalf("NewEstimator() error = %v", err)
			}

			est, err := e.Estimate(quantities, 7)
			if err != nil {
				t.Fatalf("Estimate() error = %v", err)
			}

			if !almostEqual(est.SafetyStock, tt.wantSafety) {
				t.Errorf("SafetyStock = %v, want %v", est.SafetyStock, tt.wantSafety)
			}
		})
	}
}

func TestEstimator_ConfidenceTiers(t *testing.T) {
	e, err := predictor.NewEstimator(7, predictor.SafetyShort)
	if err != nil {
		t.Fatalf("NewEstimator() error = %v", err)
	}

	tests := []struct {
		samples int
		want    float64
	}{
		{0, predictor.ConfidenceNone},
		{1, predictor.ConfidenceLow},
		{13, predictor.ConfidenceLow},
		{14, predictor.ConfidenceMedium},
		{29, predictor.ConfidenceMedium},
		{30, predictor.ConfidenceHigh},
		{90, predictor.ConfidenceHigh},
	}

	for _, tt := range tests {
		quantities := make([]int, tt.samples)
		for i := range quantities {
			quantities[i] = 1
		}

		est, err := e.Estimate(quantities, 7)
		if err != nil {
			t.Fatalf("Estimate() error = %v", err)
		}
		if est.Confidence != tt.want {
			t.Errorf("Confidence with %d samples = %v, want %v", tt.samples, est.Confidence, tt.want)
		}
	}
}

func TestEstimator_ConfidenceMonotonic(t *testing.T) {
	e, err := predictor.NewEstimator(7, predictor.SafetyShort)
	if err != nil {
		t.Fatalf("NewEstimator() error = %v", err)
	}

	prev := -1.0
	for samples := 0; samples <= 60; samples++ {
		quantities := make([]int, samples)
		for i := range quantities {
			quantities[i] = 2
		}

		est, err := e.Estimate(quantities, 7)
		if err != nil {
			t.Fatalf("Estimate() error = %v", err)
		}
		if est.Confidence < prev {
			t.Fatalf("confidence decreased from %v to %v at %d samples", prev, est.Confidence, samples)
		}
		prev = est.Confidence
	}
}

func TestEstimator_InvalidInput(t *testing.T) {
	if _, err := predictor.NewEstimator(0, predictor.SafetyShort); err != predictor.ErrInvalidWindow {
		t.Errorf("NewEstimator(0) error = %v, want ErrInvalidWindow", err)
	}
	if _, err := predictor.NewEstimator(-3, predictor.SafetyShort); err != predictor.ErrInvalidWindow {
		t.Errorf("NewEstimator(-3) error = %v, want ErrInvalidWindow", err)
	}

	e, err := predictor.NewEstimator(7, predictor.SafetyShort)
	if err != nil {
		t.Fatalf("NewEstimator() error = %v", err)
	}

	if _, err := e.Estimate([]int{1, 2}, 0); err != predictor.ErrInvalidHorizon {
		t.Errorf("Estimate(horizon=0) error = %v, want ErrInvalidHorizon", err)
	}
	if _, err := e.Estimate([]int{1, 2}, -7); err != predictor.ErrInvalidHorizon {
		t.Errorf("Estimate(horizon=-7) error = %v, want ErrInvalidHorizon", err)
	}
}

func TestParseSafetyPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    predictor.SafetyPolicy
		wantErr bool
	}{
		{"short", predictor.SafetyShort, false},
		{"baseline", predictor.SafetyBaseline, false},
		{"", "", true},
		{"aggressive", "", true},
	}

	for _, tt := range tests {
		got, err := predictor.ParseSafetyPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSafetyPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSafetyPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func almostEqual(a, b float64) bool {
	const eps = 1e-9
	diff := a - b
	return diff < eps && diff > -eps
}
