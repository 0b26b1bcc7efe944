// Package predictor implements the reorder prediction engine. It turns a
// sequence of historical sale quantities into a demand estimate (moving
// average, forecast, safety stock, confidence) and combines that estimate
// with current stock into a prioritized reorder suggestion.
//
// The package is pure computation: no storage, no transport. Callers feed
// it observations and item state; it returns values.
package predictor

import (
	"errors"
	"fmt"
)

// SafetyPolicy names the safety-stock coverage applied on top of the
// demand forecast.
type SafetyPolicy string

const (
	// SafetyShort covers two days of average demand. This is the default
	// policy and sizes orders for a short horizon.
	SafetyShort SafetyPolicy = "short"

	// SafetyBaseline covers fourteen days of average demand, for callers
	// that restock on a biweekly cadence.
	SafetyBaseline SafetyPolicy = "baseline"
)

// Safety-stock coverage in days per policy.
const (
	safetyShortCoverDays    = 2
	safetyBaselineCoverDays = 14
)

// CoverDays returns the days of average demand the policy buffers.
func (p SafetyPolicy) CoverDays() int {
	if p == SafetyBaseline {
		return safetyBaselineCoverDays
	}
	return safetyShortCoverDays
}

// ParseSafetyPolicy converts a configuration string into a SafetyPolicy.
func ParseSafetyPolicy(s string) (SafetyPolicy, error) {
	switch SafetyPolicy(s) {
	case SafetyShort:
		return SafetyShort, nil
	case SafetyBaseline:
		return SafetyBaseline, nil
	default:
		return "", fmt.Errorf("unknown safety policy %q", s)
	}
}

// Confidence tiers by sample size. Values are monotonic in the number of
// observations backing the estimate.
const (
	ConfidenceNone   = 0.2 // no observations
	ConfidenceLow    = 0.4 // fewer than 14 observations
	ConfidenceMedium = 0.6 // at least 14 observations
	ConfidenceHigh   = 0.8 // at least 30 observations
)

const (
	confidenceMediumSamples = 14
	confidenceHighSamples   = 30
)

// DefaultWindow is the default moving-average window size.
const DefaultWindow = 7

// Input validation errors. Callers map these to client errors before any
// computation runs.
var (
	ErrInvalidWindow  = errors.New("moving average window must be positive")
	ErrInvalidHorizon = errors.New("forecast horizon must be positive")
)

// Estimate is a demand estimate derived from a sales sequence. NoData
// marks the explicit no-history case; it is never reported as a confident
// zero average.
type Estimate struct {
	AverageDailySales float64
	ForecastedDemand  float64
	SafetyStock       float64
	Confidence        float64
	SampleSize        int
	NoData            bool
}

// Estimator computes moving-average demand estimates.
type Estimator struct {
	window int
	policy SafetyPolicy
}

// NewEstimator creates an estimator with the given moving-average window
// and safety policy.
func NewEstimator(window int, policy SafetyPolicy) (*Estimator, error) {
	if window <= 0 {
		return nil, ErrInvalidWindow
	}
	return &Estimator{window: window, policy: policy}, nil
}

// Estimate computes a demand estimate from sale quantities ordered oldest
// first. The average is taken over the most recent min(window, len)
// observations; with fewer observations than the window the available
// count is the denominator. An empty sequence yields a NoData estimate,
// not an error.
func (e *Estimator) Estimate(quantities []int, horizonDays int) (Estimate, error) {
	if horizonDays <= 0 {
		return Estimate{}, ErrInvalidHorizon
	}

	n := len(quantities)
	if n == 0 {
		return Estimate{Confidence: ConfidenceNone, NoData: true}, nil
	}

	window := e.window
	if n < window {
		window = n
	}

	sum := 0
	for _, q := range quantities[n-window:] {
		sum += q
	}
	avg := float64(sum) / float64(window)

	return Estimate{
		AverageDailySales: avg,
		ForecastedDemand:  avg * float64(horizonDays),
		SafetyStock:       avg * float64(e.policy.CoverDays()),
		Confidence:        confidenceFor(n),
		SampleSize:        n,
	}, nil
}

// confidenceFor maps a sample size onto its discrete confidence tier.
func confidenceFor(sampleSize int) float64 {
	switch {
	case sampleSize >= confidenceHighSamples:
		return ConfidenceHigh
	case sampleSize >= confidenceMediumSamples:
		return ConfidenceMedium
	case sampleSize > 0:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}
