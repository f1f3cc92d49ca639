package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"hedgegraph/internal/llm"
	"hedgegraph/internal/models"
	"hedgegraph/internal/progress"
	"hedgegraph/internal/prompts"
)

// PortfolioAgentKey names the portfolio-manager node.
const PortfolioAgentKey = "portfolio_manager"

type decisionPayload struct {
	Action     string  `json:"action"`
	Quantity   int     `json:"quantity"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// portfolioPayload is the JSON shape the portfolio manager must return.
type portfolioPayload struct {
	Decisions map[string]decisionPayload `json:"decisions"`
	Report    string                     `json:"report"`
}

func (p *portfolioPayload) Validate() error {
	if len(p.Decisions) == 0 {
		return fmt.Errorf("decisions must not be empty")
	}
	for ticker, d := range p.Decisions {
		switch d.Action {
		case models.ActionBuy, models.ActionSell, models.ActionShort, models.ActionCover, models.ActionHold:
		default:
			return fmt.Errorf("%s: action must be buy, sell, short, cover, or hold, got %q", ticker, d.Action)
		}
		if d.Quantity < 0 {
			return fmt.Errorf("%s: quantity must not be negative", ticker)
		}
	}
	return nil
}

func defaultPortfolioPayload(tickers []string) func() *portfolioPayload {
	return func() *portfolioPayload {
		decisions := make(map[string]decisionPayload, len(tickers))
		for _, t := range tickers {
			decisions[t] = decisionPayload{
				Action:     models.ActionHold,
				Quantity:   0,
				Confidence: 0,
				Reasoning:  "Error in portfolio management, defaulting to hold",
			}
		}
		return &portfolioPayload{Decisions: decisions}
	}
}

// PortfolioNode makes the final per-ticker trading decisions from the full
// signal set and the risk limits.
type PortfolioNode struct {
	client     llm.ChatClient
	resolver   *prompts.Resolver
	tracker    *progress.Tracker
	maxRetries int
}

// NewPortfolioNode builds the portfolio-manager node.
func NewPortfolioNode(client llm.ChatClient, resolver *prompts.Resolver, tracker *progress.Tracker, maxRetries int) *PortfolioNode {
	return &PortfolioNode{
		client:     client,
		resolver:   resolver,
		tracker:    tracker,
		maxRetries: maxRetries,
	}
}

// Invoke produces decisions for every ticker plus the run report, writes
// them into the shared state, and returns the final state snapshot.
func (n *PortfolioNode) Invoke(ctx context.Context, _ string) (*models.AgentState, error) {
	n.tracker.UpdateStatus(PortfolioAgentKey, "", "Making decisions")

	var (
		data          models.StateData
		showReasoning bool
	)
	err := compose.ProcessState[*models.AgentState](ctx, func(_ context.Context, s *models.AgentState) error {
		data = s.Data
		showReasoning = s.Metadata.ShowReasoning
		return nil
	})
	if err != nil {
		return nil, err
	}

	template, err := n.resolver.Resolve(ctx, prompts.NamePortfolioManager)
	if err != nil {
		return nil, err
	}

	signalsJSON, _ := json.MarshalIndent(signalsByTicker(data), "", "  ")
	allowedJSON, _ := json.MarshalIndent(data.AllowedActions, "", "  ")

	msgs, err := formatTemplate(ctx, template, map[string]any{
		"signals":               string(signalsJSON),
		"allowed":               string(allowedJSON),
		"company_context_block": combinedContextBlock(data),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: format prompt: %w", PortfolioAgentKey, err)
	}

	payload, err := llm.Call(ctx, llm.Request{
		Client:     n.client,
		Messages:   msgs,
		AgentName:  PortfolioAgentKey,
		MaxRetries: n.maxRetries,
		Trace:      ReasoningTrace(showReasoning),
	}, defaultPortfolioPayload(data.Tickers))
	if err != nil {
		return nil, err
	}

	decisions := n.boundDecisions(payload, data)

	var final *models.AgentState
	err = compose.ProcessState[*models.AgentState](ctx, func(_ context.Context, s *models.AgentState) error {
		s.Decisions = decisions
		s.Report = strings.TrimSpace(payload.Report)

		summary, _ := json.Marshal(decisions)
		msg := schema.AssistantMessage(string(summary), nil)
		msg.Name = PortfolioAgentKey
		s.Messages = append(s.Messages, msg)

		snapshot := *s
		final = &snapshot
		return nil
	})
	if err != nil {
		return nil, err
	}

	n.tracker.UpdateStatus(PortfolioAgentKey, "", "Done")
	return final, nil
}

// boundDecisions normalizes the model's decisions against the run's tickers
// and risk limits: unknown tickers are dropped, missing tickers become holds,
// and quantities are clamped to the allowed maximum for the action.
func (n *PortfolioNode) boundDecisions(payload *portfolioPayload, data models.StateData) map[string]models.Decision {
	out := make(map[string]models.Decision, len(data.Tickers))
	for _, t := range data.Tickers {
		d, ok := payload.Decisions[t]
		if !ok {
			out[t] = models.Decision{
				Action:    models.ActionHold,
				Reasoning: "No decision returned for ticker, defaulting to hold",
			}
			continue
		}
		qty := d.Quantity
		if d.Action == models.ActionHold {
			qty = 0
		} else if actions, ok := data.AllowedActions[t]; ok {
			if limit, ok := actions[d.Action]; ok && qty > limit.MaxQuantity {
				log.Printf("[Portfolio] %s: clamping %s quantity %d to limit %d", t, d.Action, qty, limit.MaxQuantity)
				qty = limit.MaxQuantity
			}
		}
		out[t] = models.Decision{
			Action:     d.Action,
			Quantity:   qty,
			Confidence: d.Confidence,
			Reasoning:  d.Reasoning,
		}
	}
	return out
}

// signalsByTicker pivots the agent-keyed signal map into ticker-major form
// for the prompt.
func signalsByTicker(data models.StateData) map[string]map[string]models.SignalRecord {
	out := make(map[string]map[string]models.SignalRecord, len(data.Tickers))
	for _, t := range data.Tickers {
		out[t] = make(map[string]models.SignalRecord)
	}
	for agent, byTicker := range data.AnalystSignals {
		for t, sig := range byTicker {
			if _, ok := out[t]; !ok {
				out[t] = make(map[string]models.SignalRecord)
			}
			out[t][agent] = sig
		}
	}
	return out
}

func combinedContextBlock(data models.StateData) string {
	var sb strings.Builder
	for _, t := range data.Tickers {
		if facts, ok := data.CompanyContext[t]; ok {
			f := facts
			sb.WriteString(CompanyContextBlock(t, &f))
		}
	}
	return sb.String()
}
