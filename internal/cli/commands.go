// Package cli implements the command-line interface.
package cli

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"hedgegraph/internal/agents"
	"hedgegraph/internal/catalog"
	"hedgegraph/internal/config"
	"hedgegraph/internal/debug"
	"hedgegraph/internal/display"
	"hedgegraph/internal/engine"
	"hedgegraph/internal/models"
	"hedgegraph/internal/storage"
)

// NewRootCmd builds the root command tree.
func NewRootCmd() *cobra.Command {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "hedgegraph",
		Short: "HedgeGraph - multi-agent trading decisions",
		Long: `HedgeGraph runs a team of investor-persona agents over your tickers,
sizes the risk, and produces per-ticker trading decisions plus a run report.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("create directories: %w", err)
			}
			return debug.NewDebugger(cfg).Initialize(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: gather the run interactively.
			return runInteractive(cmd.Context(), cfg)
		},
	}

	rootCmd.AddCommand(newRunCmd(cfg))
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

type runFlags struct {
	tickers           string
	startDate         string
	endDate           string
	analysts          []string
	model             string
	provider          string
	initialCash       float64
	marginRequirement float64
	showReasoning     bool
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the trading workflow non-interactively",
		Long: `Run the full workflow for a comma-separated ticker list.
Example: hedgegraph run --tickers AAPL,MSFT --model gpt-4.1 --provider OpenAI`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tickers := splitTickers(flags.tickers)
			if len(tickers) == 0 {
				return fmt.Errorf("--tickers is required")
			}
			if flags.model == "" {
				flags.model = cfg.DefaultModelName
			}
			if flags.provider == "" {
				flags.provider = cfg.DefaultModelProvider
			}

			req := engine.RunRequest{
				Tickers:       tickers,
				StartDate:     flags.startDate,
				EndDate:       flags.endDate,
				Portfolio:     newPortfolio(flags.initialCash, flags.marginRequirement, tickers),
				Analysts:      flags.analysts,
				ModelName:     flags.model,
				ModelProvider: flags.provider,
				ShowReasoning: flags.showReasoning,
			}
			return executeRun(cmd.Context(), cfg, req)
		},
	}

	cmd.Flags().StringVar(&flags.tickers, "tickers", "", "Comma-separated ticker symbols (required)")
	cmd.Flags().StringVar(&flags.startDate, "start-date", "", "Analysis window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.endDate, "end-date", "", "Analysis window end (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&flags.analysts, "analysts", nil, "Analyst keys to run (default: all)")
	cmd.Flags().StringVar(&flags.model, "model", "", "Model name")
	cmd.Flags().StringVar(&flags.provider, "provider", "", "Model provider")
	cmd.Flags().Float64Var(&flags.initialCash, "initial-cash", 100000, "Starting cash")
	cmd.Flags().Float64Var(&flags.marginRequirement, "margin-requirement", 0.5, "Margin requirement for shorts")
	cmd.Flags().BoolVar(&flags.showReasoning, "show-reasoning", false, "Log each agent's reasoning")

	return cmd
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the built-in model catalog",
		Run: func(cmd *cobra.Command, args []string) {
			for _, m := range catalog.StaticModels() {
				fmt.Printf("%-24s %-28s %s\n", m.Provider, m.ModelName, m.DisplayName)
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("HedgeGraph v1.0.0")
		},
	}
}

func executeRun(ctx context.Context, cfg *config.Config, req engine.RunRequest) error {
	res, err := engine.New(cfg).Run(ctx, req)
	if err != nil {
		display.RenderError(err)
		return err
	}
	display.RenderResult(res)
	persistRun(ctx, cfg, req, res)
	return nil
}

// persistRun records the run to history and writes the markdown result file.
// Persistence is best-effort: a full terminal rendering already happened.
func persistRun(ctx context.Context, cfg *config.Config, req engine.RunRequest, res *engine.RunResult) {
	rec := storage.RunRecord{
		Tickers:       req.Tickers,
		ModelName:     req.ModelName,
		ModelProvider: req.ModelProvider,
		Decisions:     res.Decisions,
		Signals:       res.AnalystSignals,
		Report:        res.Report,
	}

	if _, err := storage.WriteRunMarkdown(cfg.ResultsDir, rec); err != nil {
		log.Printf("[CLI] write results file: %v", err)
	}

	store, err := storage.OpenRunStore(cfg.HistoryDBPath)
	if err != nil {
		log.Printf("[CLI] open run history: %v", err)
		return
	}
	defer store.Close()
	if _, err := store.SaveRun(ctx, rec); err != nil {
		log.Printf("[CLI] save run history: %v", err)
	}
}

func newHistoryCmd(cfg *config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.OpenRunStore(cfg.HistoryDBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}
			for _, r := range runs {
				fmt.Printf("#%d  %s  %s  %s/%s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04"),
					strings.Join(r.Tickers, ","), r.ModelProvider, r.ModelName)
				for _, t := range r.Tickers {
					if d, ok := r.Decisions[t]; ok {
						fmt.Printf("    %-6s %s %d\n", t, d.Action, d.Quantity)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum runs to show")
	return cmd
}

// newPortfolio builds a fresh account snapshot with empty positions for the
// run's tickers.
func newPortfolio(cash, marginRequirement float64, tickers []string) models.Portfolio {
	positions := make(map[string]models.Position, len(tickers))
	gains := make(map[string]models.RealizedGains, len(tickers))
	for _, t := range tickers {
		positions[t] = models.Position{}
		gains[t] = models.RealizedGains{}
	}
	return models.Portfolio{
		Cash:              cash,
		MarginRequirement: marginRequirement,
		Positions:         positions,
		RealizedGains:     gains,
	}
}

func splitTickers(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func analystKeysByDisplayName(names []string) []string {
	keys := make([]string, 0, len(names))
	for _, name := range names {
		for _, a := range agents.All() {
			if a.DisplayName == name {
				keys = append(keys, a.Key)
			}
		}
	}
	return keys
}
