package models

// Signal stances emitted by analyst nodes.
const (
	SignalBullish = "bullish"
	SignalBearish = "bearish"
	SignalNeutral = "neutral"
)

// Actions the portfolio manager may choose per ticker.
const (
	ActionBuy   = "buy"
	ActionSell  = "sell"
	ActionShort = "short"
	ActionCover = "cover"
	ActionHold  = "hold"
)

// SignalRecord is one analyst's stance on one ticker. Written exactly once
// per (agent, ticker) pair and immutable afterwards.
type SignalRecord struct {
	Signal     string  `json:"signal"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Decision is the portfolio manager's call for one ticker. Quantity must not
// exceed the allowed maximum for the chosen action.
type Decision struct {
	Action     string  `json:"action"`
	Quantity   int     `json:"quantity"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// AllowedAction caps one action for one ticker, as computed by the risk
// stage: the portfolio manager may pick any allowed action with a quantity
// up to MaxQuantity.
type AllowedAction struct {
	MaxQuantity int    `json:"max_quantity"`
	Reason      string `json:"reason,omitempty"`
}
