package predictor

import (
	"math"
	"sort"
)

// Priority classifies how urgently an item needs restocking.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
)

// Rank returns the sort rank of the priority, most urgent first. The
// empty priority (item above its reorder trigger) ranks last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// DaysOfStockUnlimited is the sentinel reported when average daily sales
// is zero and remaining coverage cannot be computed.
const DaysOfStockUnlimited = 999.0

// NoSalesHistoryReason annotates suggestions produced by the no-data
// fallback rule.
const NoSalesHistoryReason = "no sales history"

// Item is the catalog view the calculator needs.
type Item struct {
	ID           string
	Name         string
	StockQty     int
	ReorderLevel int
}

// Suggestion is a restocking recommendation for a single item. Priority
// is empty when the item sits above its reorder trigger.
type Suggestion struct {
	ItemID            string   `json:"item_id"`
	ItemName          string   `json:"item_name"`
	CurrentStock      int      `json:"current_stock"`
	AverageDailySales float64  `json:"average_daily_sales"`
	ForecastedDemand  float64  `json:"forecasted_demand"`
	SafetyStock       float64  `json:"safety_stock"`
	SuggestedOrder    int      `json:"suggested_order"`
	Confidence        float64  `json:"confidence"`
	Priority          Priority `json:"priority,omitempty"`
	DaysOfStock       float64  `json:"days_of_stock"`
	Reason            string   `json:"reason,omitempty"`
}

// Calculator combines item state and demand estimates into suggestions.
type Calculator struct {
	triggerMultiplier float64
}

// NewCalculator creates a calculator. triggerMultiplier scales the average
// daily sales into the reorder trigger band (stock at or below average x
// multiplier is classified MEDIUM).
func NewCalculator(triggerMultiplier float64) *Calculator {
	return &Calculator{triggerMultiplier: triggerMultiplier}
}

// Suggest produces the reorder suggestion for one item.
//
// Suggested order is max(0, ceil(forecast + safety - stock)). The no-data
// fallback orders twice the reorder level with minimal confidence.
func (c *Calculator) Suggest(item Item, est Estimate) Suggestion {
	s := Suggestion{
		ItemID:            item.ID,
		ItemName:          item.Name,
		CurrentStock:      item.StockQty,
		AverageDailySales: round2(est.AverageDailySales),
		ForecastedDemand:  round2(est.ForecastedDemand),
		SafetyStock:       round2(est.SafetyStock),
		Confidence:        est.Confidence,
		DaysOfStock:       daysOfStock(item.StockQty, est.AverageDailySales),
	}

	if est.NoData {
		s.SuggestedOrder = item.ReorderLevel * 2
		s.Reason = NoSalesHistoryReason
	} else if required := est.ForecastedDemand + est.SafetyStock - float64(item.StockQty); required > 0 {
		s.SuggestedOrder = int(math.Ceil(required))
	}

	s.Priority = c.classify(item.StockQty, est.AverageDailySales)

	return s
}

// classify evaluates the priority bands in order, first match wins:
// out-of-stock items are always CRITICAL, items with less than one day of
// cover are HIGH, items inside the reorder trigger band are MEDIUM, and
// items above the trigger get no class at all.
func (c *Calculator) classify(stock int, avgDaily float64) Priority {
	switch {
	case stock == 0:
		return PriorityCritical
	case float64(stock) < avgDaily:
		return PriorityHigh
	case float64(stock) <= avgDaily*c.triggerMultiplier:
		return PriorityMedium
	default:
		return ""
	}
}

// daysOfStock estimates remaining days of cover. Zero average demand maps
// to the DaysOfStockUnlimited sentinel rather than dividing by zero.
func daysOfStock(stock int, avgDaily float64) float64 {
	if avgDaily <= 0 {
		return DaysOfStockUnlimited
	}
	return round1(float64(stock) / avgDaily)
}

// SortSuggestions orders suggestions most urgent first: ascending priority
// rank, then descending suggested order, then name for determinism.
func SortSuggestions(suggestions []Suggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		if ri, rj := suggestions[i].Priority.Rank(), suggestions[j].Priority.Rank(); ri != rj {
			return ri < rj
		}
		if suggestions[i].SuggestedOrder != suggestions[j].SuggestedOrder {
			return suggestions[i].SuggestedOrder > suggestions[j].SuggestedOrder
		}
		return suggestions[i].ItemName < suggestions[j].ItemName
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
