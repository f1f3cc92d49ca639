package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"hedgegraph/internal/llm"
	"hedgegraph/internal/models"
	"hedgegraph/internal/progress"
	"hedgegraph/internal/prompts"
)

// signalPayload is the JSON shape every analyst must return.
type signalPayload struct {
	Signal     string  `json:"signal"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

func (p *signalPayload) Validate() error {
	switch p.Signal {
	case models.SignalBullish, models.SignalBearish, models.SignalNeutral:
	default:
		return fmt.Errorf("signal must be bullish, bearish, or neutral, got %q", p.Signal)
	}
	if p.Confidence < 0 {
		p.Confidence = 0
	}
	if p.Confidence > 100 {
		p.Confidence = 100
	}
	return nil
}

func defaultSignal() *signalPayload {
	return &signalPayload{
		Signal:     models.SignalNeutral,
		Confidence: 0,
		Reasoning:  "Error in analysis, defaulting to neutral",
	}
}

// AnalystNode runs one investor persona over every ticker in the run.
type AnalystNode struct {
	analyst    Analyst
	client     llm.ChatClient
	resolver   *prompts.Resolver
	tracker    *progress.Tracker
	maxRetries int
}

// NewAnalystNode builds the node for one persona.
func NewAnalystNode(analyst Analyst, client llm.ChatClient, resolver *prompts.Resolver, tracker *progress.Tracker, maxRetries int) *AnalystNode {
	return &AnalystNode{
		analyst:    analyst,
		client:     client,
		resolver:   resolver,
		tracker:    tracker,
		maxRetries: maxRetries,
	}
}

// tickerView is the per-ticker slice of run state an analyst reasons over.
type tickerView struct {
	Ticker       string               `json:"ticker"`
	StartDate    string               `json:"start_date"`
	EndDate      string               `json:"end_date"`
	CurrentPrice float64              `json:"current_price,omitempty"`
	Position     models.Position      `json:"position"`
	Cash         float64              `json:"portfolio_cash"`
	Facts        *models.CompanyFacts `json:"company_facts,omitempty"`
}

// Invoke analyzes every ticker and returns this agent's per-ticker signals.
// Signals are also written into the shared state under the agent's own
// namespace; nothing else in the state is touched.
func (n *AnalystNode) Invoke(ctx context.Context, _ string) (map[string]models.SignalRecord, error) {
	var (
		views         []tickerView
		showReasoning bool
	)
	err := compose.ProcessState[*models.AgentState](ctx, func(_ context.Context, s *models.AgentState) error {
		showReasoning = s.Metadata.ShowReasoning
		for _, t := range s.Data.Tickers {
			v := tickerView{
				Ticker:       t,
				StartDate:    s.Data.StartDate,
				EndDate:      s.Data.EndDate,
				CurrentPrice: s.Data.CurrentPrices[t],
				Position:     s.Data.Portfolio.Positions[t],
				Cash:         s.Data.Portfolio.Cash,
			}
			if facts, ok := s.Data.CompanyContext[t]; ok {
				f := facts
				v.Facts = &f
			}
			views = append(views, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	template, err := n.resolver.Resolve(ctx, n.analyst.PromptName)
	if err != nil {
		return nil, err
	}

	agentKey := n.analyst.AgentKey()
	signals := make(map[string]models.SignalRecord, len(views))
	for _, view := range views {
		n.tracker.UpdateStatus(agentKey, view.Ticker, "Analyzing")

		msgs, err := formatTemplate(ctx, template, n.templateVars(view))
		if err != nil {
			return nil, fmt.Errorf("%s: format prompt for %s: %w", agentKey, view.Ticker, err)
		}

		payload, err := llm.Call(ctx, llm.Request{
			Client:     n.client,
			Messages:   msgs,
			AgentName:  agentKey,
			MaxRetries: n.maxRetries,
			Trace:      ReasoningTrace(showReasoning),
		}, defaultSignal)
		if err != nil {
			return nil, err
		}

		signals[view.Ticker] = models.SignalRecord{
			Signal:     payload.Signal,
			Confidence: payload.Confidence,
			Reasoning:  payload.Reasoning,
		}
		n.tracker.UpdateStatus(agentKey, view.Ticker, "Done")
	}

	err = compose.ProcessState[*models.AgentState](ctx, func(_ context.Context, s *models.AgentState) error {
		s.SetSignals(agentKey, signals)
		summary, _ := json.Marshal(signals)
		msg := schema.AssistantMessage(string(summary), nil)
		msg.Name = agentKey
		s.Messages = append(s.Messages, msg)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return signals, nil
}

func (n *AnalystNode) templateVars(view tickerView) map[string]any {
	analysisData, _ := json.MarshalIndent(view, "", "  ")
	facts := "No company facts available."
	confidence := 40
	if view.Facts != nil {
		facts = FormatCompanyFacts(*view.Facts)
		confidence = 65
	}
	return map[string]any{
		"ticker":                view.Ticker,
		"analysis_data":         string(analysisData),
		"company_context_block": CompanyContextBlock(view.Ticker, view.Facts),
		"facts":                 facts,
		"confidence":            confidence,
	}
}

// formatTemplate renders a resolved template with python-style placeholders
// into concrete messages.
func formatTemplate(ctx context.Context, template []prompts.Message, vars map[string]any) ([]*schema.Message, error) {
	parts := make([]schema.MessagesTemplate, 0, len(template))
	for _, m := range template {
		switch m.Role {
		case "system":
			parts = append(parts, schema.SystemMessage(m.Content))
		case "assistant", "ai":
			parts = append(parts, schema.AssistantMessage(m.Content, nil))
		default:
			parts = append(parts, schema.UserMessage(m.Content))
		}
	}
	return prompt.FromMessages(schema.FString, parts...).Format(ctx, vars)
}

// ReasoningTrace dumps raw and parsed model output when the run asked for it.
// Disabled it returns nil, which the invoker treats as no tracing.
func ReasoningTrace(enabled bool) llm.TraceFunc {
	if !enabled {
		return nil
	}
	return func(agent, stage, payload string) {
		log.Printf("[Reasoning] %s (%s):\n%s", agent, stage, payload)
	}
}
