package agents

import (
	"testing"

	"hedgegraph/internal/models"
	"hedgegraph/internal/progress"
)

type stubPrices struct {
	prices map[string]float64
}

func (s *stubPrices) GetCurrentPrices(tickers []string) map[string]float64 {
	out := make(map[string]float64)
	for _, t := range tickers {
		if p, ok := s.prices[t]; ok {
			out[t] = p
		}
	}
	return out
}

func TestComputeAllowedActionsFreshPortfolio(t *testing.T) {
	n := NewRiskNode(&stubPrices{}, progress.NewTracker())
	portfolio := models.Portfolio{
		Cash:              100000,
		MarginRequirement: 0.5,
		Positions:         map[string]models.Position{},
	}
	allowed := n.computeAllowedActions(
		[]string{"AAPL"},
		map[string]float64{"AAPL": 100},
		portfolio,
	)

	actions := allowed["AAPL"]
	// Position limit is 20% of 100k = 20k, so 200 shares at $100.
	if got := actions[models.ActionBuy].MaxQuantity; got != 200 {
		t.Fatalf("buy cap = %d, want 200", got)
	}
	if got := actions[models.ActionSell].MaxQuantity; got != 0 {
		t.Fatalf("sell cap = %d, want 0 (no long position)", got)
	}
	// Short margin: 100k available / ($100 * 0.5) = 2000, bounded by the
	// 200-share position limit.
	if got := actions[models.ActionShort].MaxQuantity; got != 200 {
		t.Fatalf("short cap = %d, want 200", got)
	}
	if got := actions[models.ActionCover].MaxQuantity; got != 0 {
		t.Fatalf("cover cap = %d, want 0 (no short position)", got)
	}
	if got := actions[models.ActionHold].MaxQuantity; got != 0 {
		t.Fatalf("hold cap = %d, want 0", got)
	}
}

func TestComputeAllowedActionsExistingExposure(t *testing.T) {
	n := NewRiskNode(&stubPrices{}, progress.NewTracker())
	portfolio := models.Portfolio{
		Cash: 100000,
		Positions: map[string]models.Position{
			"AAPL": {Long: 150, LongCostBasis: 90},
		},
	}
	allowed := n.computeAllowedActions(
		[]string{"AAPL"},
		map[string]float64{"AAPL": 100},
		portfolio,
	)

	actions := allowed["AAPL"]
	// Total value 115k, limit 23k, exposure 15k: 8k remaining = 80 shares.
	if got := actions[models.ActionBuy].MaxQuantity; got != 80 {
		t.Fatalf("buy cap = %d, want 80", got)
	}
	if got := actions[models.ActionSell].MaxQuantity; got != 150 {
		t.Fatalf("sell cap = %d, want current long of 150", got)
	}
}

func TestComputeAllowedActionsMissingPrice(t *testing.T) {
	n := NewRiskNode(&stubPrices{}, progress.NewTracker())
	portfolio := models.Portfolio{
		Cash: 50000,
		Positions: map[string]models.Position{
			"MISS": {Long: 10, Short: 5},
		},
	}
	allowed := n.computeAllowedActions([]string{"MISS"}, map[string]float64{}, portfolio)

	actions := allowed["MISS"]
	if got := actions[models.ActionBuy].MaxQuantity; got != 0 {
		t.Fatalf("buy cap = %d, want 0 without a price", got)
	}
	if actions[models.ActionBuy].Reason == "" {
		t.Fatal("missing price should carry a reason")
	}
	// Closing out existing exposure stays possible.
	if got := actions[models.ActionSell].MaxQuantity; got != 10 {
		t.Fatalf("sell cap = %d, want 10", got)
	}
	if got := actions[models.ActionCover].MaxQuantity; got != 5 {
		t.Fatalf("cover cap = %d, want 5", got)
	}
}
