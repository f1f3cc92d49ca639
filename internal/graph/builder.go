// Package graph compiles and runs the trading workflow: a start node feeding
// the caller's state in, a concurrent fan-out of analyst nodes, a
// risk-management barrier, and the portfolio-manager sink.
package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"hedgegraph/internal/agents"
	"hedgegraph/internal/llm"
	"hedgegraph/internal/models"
	"hedgegraph/internal/progress"
	"hedgegraph/internal/prompts"
)

const startNode = "start_node"

// Config carries everything Compile needs to build a run's workflow.
type Config struct {
	// Analysts to fan out. Must be non-empty; use agents.Select to apply the
	// default-all rule before calling Compile.
	Analysts []agents.Analyst

	Client         llm.ChatClient
	PromptResolver *prompts.Resolver
	Prices         agents.PriceSource
	Tracker        *progress.Tracker
	MaxRetries     int
}

// Workflow is a compiled run graph. Compile once, invoke once per run.
type Workflow struct {
	runnable compose.Runnable[*models.AgentState, *models.AgentState]
	analysts []agents.Analyst
}

// Compile builds the fixed task graph for the selected analysts:
//
//	START -> start -> {analyst...} -> risk_management_agent -> portfolio_manager -> END
//
// Every analyst edge feeds the risk node, and AllPredecessor triggering makes
// the risk node a full barrier: it runs only after every analyst finished.
// State access inside nodes goes through compose.ProcessState, so the
// concurrent fan-out never races on shared data.
func Compile(ctx context.Context, cfg Config) (*Workflow, error) {
	if len(cfg.Analysts) == 0 {
		return nil, errors.New("at least one analyst is required")
	}
	if cfg.Tracker == nil {
		cfg.Tracker = progress.Default
	}

	g := compose.NewGraph[*models.AgentState, *models.AgentState](
		compose.WithGenLocalState(func(ctx context.Context) *models.AgentState {
			return models.NewAgentState()
		}),
	)

	// The start node copies the caller's initial state into the graph-local
	// state and emits a trigger for the fan-out.
	_ = g.AddLambdaNode(startNode, compose.InvokableLambda(
		func(ctx context.Context, in *models.AgentState) (string, error) {
			err := compose.ProcessState[*models.AgentState](ctx, func(_ context.Context, s *models.AgentState) error {
				s.Merge(in)
				return nil
			})
			return "start_complete", err
		}))
	_ = g.AddEdge(compose.START, startNode)

	for _, a := range cfg.Analysts {
		node := agents.NewAnalystNode(a, cfg.Client, cfg.PromptResolver, cfg.Tracker, cfg.MaxRetries)
		// WithOutputKey wraps each analyst's signals under its own key, so
		// the fan-in merge hands the risk node one map of disjoint deltas.
		_ = g.AddLambdaNode(a.AgentKey(),
			compose.InvokableLambda(node.Invoke),
			compose.WithOutputKey(a.AgentKey()),
			compose.WithNodeName(a.DisplayName))
		_ = g.AddEdge(startNode, a.AgentKey())
	}

	risk := agents.NewRiskNode(cfg.Prices, cfg.Tracker)
	_ = g.AddLambdaNode(agents.RiskAgentKey,
		compose.InvokableLambda(risk.Invoke),
		compose.WithNodeName("Risk Management"))

	for _, a := range cfg.Analysts {
		_ = g.AddEdge(a.AgentKey(), agents.RiskAgentKey)
	}

	pm := agents.NewPortfolioNode(cfg.Client, cfg.PromptResolver, cfg.Tracker, cfg.MaxRetries)
	_ = g.AddLambdaNode(agents.PortfolioAgentKey,
		compose.InvokableLambda(pm.Invoke),
		compose.WithNodeName("Portfolio Manager"))

	_ = g.AddEdge(agents.RiskAgentKey, agents.PortfolioAgentKey)
	_ = g.AddEdge(agents.PortfolioAgentKey, compose.END)

	r, err := g.Compile(ctx,
		compose.WithGraphName("hedgegraph"),
		compose.WithNodeTriggerMode(compose.AllPredecessor),
	)
	if err != nil {
		return nil, fmt.Errorf("compile trading graph: %w", err)
	}

	return &Workflow{runnable: r, analysts: cfg.Analysts}, nil
}

// Analysts returns the fan-out this workflow was compiled for.
func (w *Workflow) Analysts() []agents.Analyst {
	return w.analysts
}

// Run executes the workflow over the initial state. Cancelling ctx aborts
// the run; individual LLM failures do not, they degrade inside the nodes.
func (w *Workflow) Run(ctx context.Context, initial *models.AgentState, opts ...compose.Option) (*models.AgentState, error) {
	out, err := w.runnable.Invoke(ctx, initial, opts...)
	if err != nil {
		return nil, fmt.Errorf("run trading graph: %w", err)
	}
	return out, nil
}
