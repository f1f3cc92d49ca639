// Package report synthesizes the final run report when the portfolio
// manager's payload did not carry one.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"hedgegraph/internal/llm"
	"hedgegraph/internal/models"
	"hedgegraph/internal/prompts"
)

// DegradedReport is returned when report synthesis itself fails. The run
// still succeeds; decisions and signals stand on their own.
const DegradedReport = "Report generation failed. Refer to the individual decisions and analyst signals for details."

const maxReasoningChars = 200

type reportPayload struct {
	Report string `json:"report"`
}

func (p *reportPayload) Validate() error {
	if strings.TrimSpace(p.Report) == "" {
		return errors.New("report must not be empty")
	}
	return nil
}

// FormatRunContext renders the completed run for the report prompt: the
// decisions as JSON, then each ticker's signals with reasoning truncated so
// a wide fan-out cannot blow up the context.
func FormatRunContext(decisions map[string]models.Decision, signals map[string]map[string]models.SignalRecord) string {
	var sb strings.Builder

	decisionsJSON, _ := json.MarshalIndent(decisions, "", "  ")
	sb.WriteString("Trading decisions:\n")
	sb.Write(decisionsJSON)
	sb.WriteString("\n\nAnalyst signals by ticker:\n")

	byTicker := make(map[string]map[string]models.SignalRecord)
	for agent, perTicker := range signals {
		for ticker, sig := range perTicker {
			if byTicker[ticker] == nil {
				byTicker[ticker] = make(map[string]models.SignalRecord)
			}
			byTicker[ticker][agent] = sig
		}
	}

	tickers := make([]string, 0, len(byTicker))
	for t := range byTicker {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	for _, t := range tickers {
		sb.WriteString(t + ":\n")
		agents := make([]string, 0, len(byTicker[t]))
		for a := range byTicker[t] {
			agents = append(agents, a)
		}
		sort.Strings(agents)
		for _, a := range agents {
			sig := byTicker[t][a]
			sb.WriteString(fmt.Sprintf("  - %s: %s (confidence %.1f%%): %s\n",
				a, sig.Signal, sig.Confidence, truncate(sig.Reasoning, maxReasoningChars)))
		}
	}
	return sb.String()
}

// Generate runs the report-only invocation over the completed run. Content
// and transport failures degrade to DegradedReport; the only error returned
// is caller cancellation, which aborts the run.
func Generate(ctx context.Context, client llm.ChatClient, resolver *prompts.Resolver, decisions map[string]models.Decision, signals map[string]map[string]models.SignalRecord, maxRetries int, trace llm.TraceFunc) (string, error) {
	template, err := resolver.Resolve(ctx, prompts.NameFinalReport)
	if err != nil {
		return DegradedReport, nil
	}

	parts := make([]schema.MessagesTemplate, 0, len(template))
	for _, m := range template {
		if m.Role == "system" {
			parts = append(parts, schema.SystemMessage(m.Content))
		} else {
			parts = append(parts, schema.UserMessage(m.Content))
		}
	}
	msgs, err := prompt.FromMessages(schema.FString, parts...).Format(ctx, map[string]any{
		"context": FormatRunContext(decisions, signals),
	})
	if err != nil {
		return DegradedReport, nil
	}

	payload, err := llm.Call(ctx, llm.Request{
		Client:     client,
		Messages:   msgs,
		AgentName:  "final_report",
		MaxRetries: maxRetries,
		Trace:      trace,
	}, func() *reportPayload {
		return &reportPayload{Report: DegradedReport}
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(payload.Report), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
