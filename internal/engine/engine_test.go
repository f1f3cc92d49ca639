package engine

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	"hedgegraph/internal/llm"
	"hedgegraph/internal/models"
	"hedgegraph/internal/progress"
	"hedgegraph/internal/prompts"
)

type stubContext struct {
	facts map[string]models.CompanyFacts
}

func (s stubContext) GetCompanyContext(tickers []string) map[string]models.CompanyFacts {
	out := make(map[string]models.CompanyFacts)
	for _, t := range tickers {
		if f, ok := s.facts[t]; ok {
			out[t] = f
		}
	}
	return out
}

type stubPrices struct{ price float64 }

func (s stubPrices) GetCurrentPrices(tickers []string) map[string]float64 {
	out := make(map[string]float64, len(tickers))
	for _, t := range tickers {
		out[t] = s.price
	}
	return out
}

// stubClient routes by prompt content: the portfolio prompt mentions the
// signal listing, the report prompt carries the run context, and everything
// else is an analyst invocation.
type stubClient struct {
	portfolioResponse string
	reportResponse    string
}

func (c *stubClient) Generate(_ context.Context, messages []*schema.Message) (*schema.Message, error) {
	var all strings.Builder
	for _, m := range messages {
		all.WriteString(m.Content)
	}
	switch {
	case strings.Contains(all.String(), "Signals by ticker"):
		return schema.AssistantMessage(c.portfolioResponse, nil), nil
	case strings.Contains(all.String(), "Trading decisions:"):
		return schema.AssistantMessage(c.reportResponse, nil), nil
	default:
		return schema.AssistantMessage(`{"signal": "bullish", "confidence": 75, "reasoning": "ok"}`, nil), nil
	}
}

func (c *stubClient) SupportsJSONMode() bool { return false }

func testEngine(client llm.ChatClient, factoryErr error) *Engine {
	return &Engine{
		company:  stubContext{facts: map[string]models.CompanyFacts{"AAPL": {Name: "Apple Inc.", Sector: "Technology", Industry: "Consumer Electronics"}}},
		prices:   stubPrices{price: 100},
		resolver: prompts.NewResolver(nil),
		tracker:  progress.NewTracker(),
		newClient: func(_ context.Context, _, _ string, _ map[string]string) (llm.ChatClient, error) {
			if factoryErr != nil {
				return nil, factoryErr
			}
			return client, nil
		},
	}
}

func baseRequest() RunRequest {
	return RunRequest{
		Tickers:  []string{"AAPL"},
		Analysts: []string{"warren_buffett"},
		Portfolio: models.Portfolio{
			Cash:              100000,
			MarginRequirement: 0.5,
			Positions:         map[string]models.Position{},
		},
		ModelName:     "gpt-4.1",
		ModelProvider: "OpenAI",
	}
}

func TestRunRequiresTickers(t *testing.T) {
	e := testEngine(&stubClient{}, nil)
	req := baseRequest()
	req.Tickers = nil
	if _, err := e.Run(context.Background(), req); err == nil {
		t.Fatal("expected error for empty ticker list")
	}
}

func TestRunEndToEnd(t *testing.T) {
	client := &stubClient{
		portfolioResponse: `{"decisions": {"AAPL": {"action": "buy", "quantity": 5, "confidence": 70, "reasoning": "consensus"}}, "report": "Solid day."}`,
	}
	e := testEngine(client, nil)

	res, err := e.Run(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.Decisions["AAPL"].Action != models.ActionBuy || res.Decisions["AAPL"].Quantity != 5 {
		t.Fatalf("unexpected decision: %+v", res.Decisions["AAPL"])
	}
	if res.Report != "Solid day." {
		t.Fatalf("unexpected report: %q", res.Report)
	}
	if _, ok := res.AnalystSignals["warren_buffett_agent"]["AAPL"]; !ok {
		t.Fatal("missing analyst signal")
	}
	if res.CurrentPrices["AAPL"] != 100 {
		t.Fatalf("unexpected prices: %v", res.CurrentPrices)
	}
	if _, ok := res.AllowedActions["AAPL"]; !ok {
		t.Fatal("missing allowed actions")
	}
}

func TestRunSynthesizesMissingReport(t *testing.T) {
	client := &stubClient{
		portfolioResponse: `{"decisions": {"AAPL": {"action": "hold", "quantity": 0, "confidence": 50, "reasoning": "wait"}}, "report": ""}`,
		reportResponse:    `{"report": "Synthesized summary."}`,
	}
	e := testEngine(client, nil)

	res, err := e.Run(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Report != "Synthesized summary." {
		t.Fatalf("expected synthesized report, got %q", res.Report)
	}
}

func TestRunSurfacesReportReasoning(t *testing.T) {
	client := &stubClient{
		portfolioResponse: `{"decisions": {"AAPL": {"action": "hold", "quantity": 0, "confidence": 50, "reasoning": "wait"}}, "report": ""}`,
		reportResponse:    `{"report": "Synthesized summary."}`,
	}
	e := testEngine(client, nil)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	req := baseRequest()
	req.ShowReasoning = true
	if _, err := e.Run(context.Background(), req); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !strings.Contains(buf.String(), "[Reasoning] final_report") {
		t.Fatal("report synthesis should dump reasoning when the run asked for it")
	}
}

func TestRunPropagatesUnknownAnalyst(t *testing.T) {
	e := testEngine(&stubClient{}, nil)
	req := baseRequest()
	req.Analysts = []string{"jim_cramer"}
	if _, err := e.Run(context.Background(), req); err == nil {
		t.Fatal("expected error for unknown analyst")
	}
}

func TestRunPropagatesResolveError(t *testing.T) {
	resolveErr := errors.New("OPENAI_API_KEY is not configured")
	e := testEngine(nil, resolveErr)
	if _, err := e.Run(context.Background(), baseRequest()); !errors.Is(err, resolveErr) {
		t.Fatalf("expected wrapped resolve error, got %v", err)
	}
}

func TestInitialMessageListsCompanies(t *testing.T) {
	facts := map[string]models.CompanyFacts{
		"AAPL": {Name: "Apple Inc.", Sector: "Technology", Industry: "Consumer Electronics"},
	}
	msg := initialMessage([]string{"AAPL", "MISS"}, facts)
	if !strings.Contains(msg, "AAPL: Apple Inc. (Sector: Technology, Industry: Consumer Electronics)") {
		t.Fatalf("missing enriched line in:\n%s", msg)
	}
	if !strings.Contains(msg, "• MISS\n") {
		t.Fatalf("ticker without facts should still be listed:\n%s", msg)
	}
}
