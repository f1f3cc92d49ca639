// Package models defines the run-state types shared by the graph nodes.
package models

import (
	"github.com/cloudwego/eino/schema"
)

// Position is one ticker's open exposure inside the portfolio snapshot.
type Position struct {
	Long            int     `json:"long"`
	Short           int     `json:"short"`
	LongCostBasis   float64 `json:"long_cost_basis"`
	ShortCostBasis  float64 `json:"short_cost_basis"`
	ShortMarginUsed float64 `json:"short_margin_used"`
}

// RealizedGains tracks closed-out P&L per ticker.
type RealizedGains struct {
	Long  float64 `json:"long"`
	Short float64 `json:"short"`
}

// Portfolio is the caller-supplied account snapshot. The orchestration core
// reads it; only the risk-sizing stage derives limits from it.
type Portfolio struct {
	Cash              float64                  `json:"cash"`
	MarginRequirement float64                  `json:"margin_requirement"`
	MarginUsed        float64                  `json:"margin_used"`
	Positions         map[string]Position      `json:"positions"`
	RealizedGains     map[string]RealizedGains `json:"realized_gains"`
}

// StateData is the shared, mostly-immutable payload threaded through the
// run. AnalystSignals is the one mutable region: each agent writes only its
// own key, so concurrent analyst nodes never touch the same namespace.
type StateData struct {
	Tickers        []string                            `json:"tickers"`
	Portfolio      Portfolio                           `json:"portfolio"`
	StartDate      string                              `json:"start_date"`
	EndDate        string                              `json:"end_date"`
	AnalystSignals map[string]map[string]SignalRecord  `json:"analyst_signals"`
	CompanyContext map[string]CompanyFacts             `json:"company_context"`
	CurrentPrices  map[string]float64                  `json:"current_prices"`
	AllowedActions map[string]map[string]AllowedAction `json:"allowed_actions"`
}

// StateMetadata selects the model and the verbosity for one run.
type StateMetadata struct {
	ShowReasoning bool              `json:"show_reasoning"`
	ModelName     string            `json:"model_name"`
	ModelProvider string            `json:"model_provider"`
	APIKeys       map[string]string `json:"-"`
}

// AgentState is the run state owned by exactly one graph invocation. Nodes
// access it through compose.ProcessState, which serializes access, so the
// concurrent analyst fan-out stays race-free.
type AgentState struct {
	Messages []*schema.Message `json:"messages"`
	Data     StateData         `json:"data"`
	Metadata StateMetadata     `json:"metadata"`

	// Decisions and Report are filled by the portfolio node.
	Decisions map[string]Decision `json:"decisions"`
	Report    string              `json:"report"`
}

// NewAgentState builds an empty run state with every map initialized so
// nodes never need nil checks before writing their own namespace.
func NewAgentState() *AgentState {
	return &AgentState{
		Messages: []*schema.Message{},
		Data: StateData{
			Tickers:        []string{},
			AnalystSignals: map[string]map[string]SignalRecord{},
			CompanyContext: map[string]CompanyFacts{},
			CurrentPrices:  map[string]float64{},
			AllowedActions: map[string]map[string]AllowedAction{},
		},
		Decisions: map[string]Decision{},
	}
}

// Merge copies the caller-supplied initial state into the graph-local state.
// The graph owns its local copy; the input is not mutated afterwards.
func (s *AgentState) Merge(in *AgentState) {
	if in == nil {
		return
	}
	s.Messages = append(s.Messages, in.Messages...)
	s.Data.Tickers = append(s.Data.Tickers, in.Data.Tickers...)
	s.Data.Portfolio = in.Data.Portfolio
	s.Data.StartDate = in.Data.StartDate
	s.Data.EndDate = in.Data.EndDate
	for k, v := range in.Data.AnalystSignals {
		s.Data.AnalystSignals[k] = v
	}
	for k, v := range in.Data.CompanyContext {
		s.Data.CompanyContext[k] = v
	}
	for k, v := range in.Data.CurrentPrices {
		s.Data.CurrentPrices[k] = v
	}
	s.Metadata = in.Metadata
}

// SetSignals records one agent's per-ticker signals under its own key.
func (s *AgentState) SetSignals(agentKey string, signals map[string]SignalRecord) {
	s.Data.AnalystSignals[agentKey] = signals
}
