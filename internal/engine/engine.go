// Package engine wires the data layer, the model resolver, and the trading
// graph into a single Run entry point shared by the CLI and tests.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"hedgegraph/internal/agents"
	"hedgegraph/internal/config"
	"hedgegraph/internal/dataflows"
	"hedgegraph/internal/graph"
	"hedgegraph/internal/llm"
	"hedgegraph/internal/models"
	"hedgegraph/internal/progress"
	"hedgegraph/internal/prompts"
	"hedgegraph/internal/report"
)

// RunRequest describes one hedge-fund run.
type RunRequest struct {
	Tickers   []string
	StartDate string
	EndDate   string
	Portfolio models.Portfolio

	// Analysts holds registry keys; empty means every analyst.
	Analysts []string

	ModelName     string
	ModelProvider string
	APIKeys       map[string]string

	ShowReasoning bool
}

// RunResult is the outcome of a completed run.
type RunResult struct {
	Decisions      map[string]models.Decision                 `json:"decisions"`
	AnalystSignals map[string]map[string]models.SignalRecord  `json:"analyst_signals"`
	Report         string                                     `json:"report"`
	CurrentPrices  map[string]float64                         `json:"current_prices"`
	AllowedActions map[string]map[string]models.AllowedAction `json:"allowed_actions"`
}

// ContextSource supplies company facts for the run's tickers.
type ContextSource interface {
	GetCompanyContext(tickers []string) map[string]models.CompanyFacts
}

// ClientFactory builds a chat client for (model, provider, overrides).
type ClientFactory func(ctx context.Context, modelName, provider string, overrides map[string]string) (llm.ChatClient, error)

// Engine runs the trading workflow end to end.
type Engine struct {
	company    ContextSource
	prices     agents.PriceSource
	resolver   *prompts.Resolver
	tracker    *progress.Tracker
	newClient  ClientFactory
	maxRetries int
	debug      bool
}

// New builds an Engine from the runtime configuration: file-cached market
// data clients, the managed prompt store when Langfuse credentials are
// present, and the real provider resolver.
func New(cfg *config.Config) *Engine {
	return &Engine{
		company:    dataflows.NewCompanyClient(cfg.CacheDir, cfg.CacheEnabled),
		prices:     dataflows.NewPriceClient(cfg.CacheDir, cfg.CacheEnabled),
		resolver:   prompts.NewLabeledResolver(prompts.NewStoreFromEnv(), cfg.PromptLabel),
		tracker:    progress.Default,
		newClient:  llm.Resolve,
		maxRetries: cfg.MaxRetries,
		debug:      cfg.Debug,
	}
}

// Run executes one full workflow: resolve the model, enrich the tickers with
// company context, fan out the analysts, size the risk, decide, and report.
// Individual model failures degrade inside the nodes; Run fails only on
// configuration errors, a broken graph, or caller cancellation.
func (e *Engine) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	if len(req.Tickers) == 0 {
		return nil, errors.New("at least one ticker is required")
	}

	selected, err := agents.Select(req.Analysts)
	if err != nil {
		return nil, err
	}

	client, err := e.newClient(ctx, req.ModelName, req.ModelProvider, req.APIKeys)
	if err != nil {
		return nil, fmt.Errorf("resolve model %s/%s: %w", req.ModelProvider, req.ModelName, err)
	}

	companyContext := e.company.GetCompanyContext(req.Tickers)
	if len(companyContext) < len(req.Tickers) {
		log.Printf("[Engine] company context available for %d of %d tickers", len(companyContext), len(req.Tickers))
	}

	wf, err := graph.Compile(ctx, graph.Config{
		Analysts:       selected,
		Client:         client,
		PromptResolver: e.resolver,
		Prices:         e.prices,
		Tracker:        e.tracker,
		MaxRetries:     e.maxRetries,
	})
	if err != nil {
		return nil, err
	}

	var opts []compose.Option
	if e.debug {
		opts = append(opts, compose.WithCallbacks(graph.NewLoggerCallback()))
	}

	e.tracker.Reset()
	final, err := wf.Run(ctx, e.initialState(req, companyContext), opts...)
	if err != nil {
		return nil, err
	}

	reportText := final.Report
	if strings.TrimSpace(reportText) == "" {
		// The portfolio payload carried no report; synthesize one in a
		// dedicated follow-up invocation.
		reportText, err = report.Generate(ctx, client, e.resolver,
			final.Decisions, final.Data.AnalystSignals, e.maxRetries,
			agents.ReasoningTrace(req.ShowReasoning))
		if err != nil {
			return nil, err
		}
	}

	return &RunResult{
		Decisions:      final.Decisions,
		AnalystSignals: final.Data.AnalystSignals,
		Report:         reportText,
		CurrentPrices:  final.Data.CurrentPrices,
		AllowedActions: final.Data.AllowedActions,
	}, nil
}

func (e *Engine) initialState(req RunRequest, companyContext map[string]models.CompanyFacts) *models.AgentState {
	s := models.NewAgentState()
	s.Data.Tickers = req.Tickers
	s.Data.Portfolio = req.Portfolio
	s.Data.StartDate = req.StartDate
	s.Data.EndDate = req.EndDate
	s.Data.CompanyContext = companyContext
	s.Metadata = models.StateMetadata{
		ShowReasoning: req.ShowReasoning,
		ModelName:     req.ModelName,
		ModelProvider: req.ModelProvider,
		APIKeys:       req.APIKeys,
	}
	s.Messages = append(s.Messages, schema.UserMessage(initialMessage(req.Tickers, companyContext)))
	return s
}

// initialMessage introduces the run's companies to the agents, one line per
// ticker, enriched with facts where the lookup succeeded.
func initialMessage(tickers []string, companyContext map[string]models.CompanyFacts) string {
	var sb strings.Builder
	sb.WriteString("Make trading decisions based on the provided data.\n\nCompanies under analysis:\n")
	for _, t := range tickers {
		facts, ok := companyContext[t]
		if !ok || facts.Name == "" {
			fmt.Fprintf(&sb, "  • %s\n", t)
			continue
		}
		fmt.Fprintf(&sb, "  • %s: %s (Sector: %s, Industry: %s)\n", t, facts.Name, facts.Sector, facts.Industry)
	}
	return sb.String()
}
