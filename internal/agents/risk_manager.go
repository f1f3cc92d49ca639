package agents

import (
	"context"
	"log"

	"github.com/cloudwego/eino/compose"
	"github.com/shopspring/decimal"

	"hedgegraph/internal/dataflows"
	"hedgegraph/internal/models"
	"hedgegraph/internal/progress"
)

// RiskAgentKey names the risk node in progress updates and node wiring.
const RiskAgentKey = "risk_management_agent"

// maxPositionPct caps any single ticker at 20% of total portfolio value.
var maxPositionPct = decimal.NewFromFloat(0.20)

// PriceSource yields current prices for risk sizing. Satisfied by
// dataflows.PriceClient; tests substitute a fixed table.
type PriceSource interface {
	GetCurrentPrices(tickers []string) map[string]float64
}

// RiskNode sizes position limits after all analysts have reported. It runs
// exactly once per run, strictly after the analyst fan-in barrier.
type RiskNode struct {
	prices  PriceSource
	tracker *progress.Tracker
}

// NewRiskNode builds the risk-management node.
func NewRiskNode(prices PriceSource, tracker *progress.Tracker) *RiskNode {
	return &RiskNode{prices: prices, tracker: tracker}
}

var _ PriceSource = (*dataflows.PriceClient)(nil)

// Invoke computes, for every ticker, the current price and the maximum share
// quantity allowed per action, and records both in the shared state. The
// input is the merged analyst output; it is only the barrier that guarantees
// every signal is already written.
func (n *RiskNode) Invoke(ctx context.Context, analystOut map[string]any) (string, error) {
	log.Printf("[Risk] sizing limits after %d analyst reports", len(analystOut))

	var (
		tickers   []string
		portfolio models.Portfolio
	)
	err := compose.ProcessState[*models.AgentState](ctx, func(_ context.Context, s *models.AgentState) error {
		tickers = append(tickers, s.Data.Tickers...)
		portfolio = s.Data.Portfolio
		return nil
	})
	if err != nil {
		return "", err
	}

	n.tracker.UpdateStatus(RiskAgentKey, "", "Fetching prices")
	prices := n.prices.GetCurrentPrices(tickers)

	allowed := n.computeAllowedActions(tickers, prices, portfolio)

	err = compose.ProcessState[*models.AgentState](ctx, func(_ context.Context, s *models.AgentState) error {
		for t, p := range prices {
			s.Data.CurrentPrices[t] = p
		}
		for t, actions := range allowed {
			s.Data.AllowedActions[t] = actions
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	n.tracker.UpdateStatus(RiskAgentKey, "", "Done")
	return "risk_management_complete", nil
}

// computeAllowedActions derives per-action share caps from the portfolio
// snapshot, current prices, and the single-position limit.
func (n *RiskNode) computeAllowedActions(tickers []string, prices map[string]float64, portfolio models.Portfolio) map[string]map[string]models.AllowedAction {
	cash := decimal.NewFromFloat(portfolio.Cash)

	// Total portfolio value: cash plus net exposure across priced tickers.
	totalValue := cash
	for _, t := range tickers {
		price, ok := prices[t]
		if !ok || price <= 0 {
			continue
		}
		pos := portfolio.Positions[t]
		p := decimal.NewFromFloat(price)
		totalValue = totalValue.Add(p.Mul(decimal.NewFromInt(int64(pos.Long))))
		totalValue = totalValue.Sub(p.Mul(decimal.NewFromInt(int64(pos.Short))))
	}
	positionLimit := totalValue.Mul(maxPositionPct)

	out := make(map[string]map[string]models.AllowedAction, len(tickers))
	for _, t := range tickers {
		pos := portfolio.Positions[t]
		price, ok := prices[t]
		if !ok || price <= 0 {
			out[t] = map[string]models.AllowedAction{
				models.ActionBuy:   {MaxQuantity: 0, Reason: "current price unavailable"},
				models.ActionSell:  {MaxQuantity: pos.Long},
				models.ActionShort: {MaxQuantity: 0, Reason: "current price unavailable"},
				models.ActionCover: {MaxQuantity: pos.Short},
				models.ActionHold:  {MaxQuantity: 0},
			}
			continue
		}
		p := decimal.NewFromFloat(price)

		// Gross exposure counts long and short alike against the limit.
		exposure := p.Mul(decimal.NewFromInt(int64(pos.Long + pos.Short)))
		remaining := positionLimit.Sub(exposure)
		maxShares := 0
		if remaining.IsPositive() {
			maxShares = int(remaining.Div(p).IntPart())
		}

		buyCap := maxShares
		if affordable := int(cash.Div(p).IntPart()); affordable < buyCap {
			buyCap = affordable
		}

		shortCap := maxShares
		if portfolio.MarginRequirement > 0 {
			marginPerShare := p.Mul(decimal.NewFromFloat(portfolio.MarginRequirement))
			available := cash.Sub(decimal.NewFromFloat(portfolio.MarginUsed))
			marginCap := 0
			if available.IsPositive() && marginPerShare.IsPositive() {
				marginCap = int(available.Div(marginPerShare).IntPart())
			}
			if marginCap < shortCap {
				shortCap = marginCap
			}
		}
		if buyCap < 0 {
			buyCap = 0
		}
		if shortCap < 0 {
			shortCap = 0
		}

		out[t] = map[string]models.AllowedAction{
			models.ActionBuy:   {MaxQuantity: buyCap},
			models.ActionSell:  {MaxQuantity: pos.Long},
			models.ActionShort: {MaxQuantity: shortCap},
			models.ActionCover: {MaxQuantity: pos.Short},
			models.ActionHold:  {MaxQuantity: 0},
		}
	}
	return out
}
