package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"hedgegraph/internal/agents"
	"hedgegraph/internal/catalog"
	"hedgegraph/internal/config"
	"hedgegraph/internal/engine"
)

// runInteractive gathers the run parameters with prompts, then executes.
func runInteractive(ctx context.Context, cfg *config.Config) error {
	tickers, err := promptForTickers()
	if err != nil {
		return err
	}
	analystKeys, err := promptForAnalysts()
	if err != nil {
		return err
	}
	modelName, provider, err := promptForModel(cfg)
	if err != nil {
		return err
	}

	req := engine.RunRequest{
		Tickers:       tickers,
		Portfolio:     newPortfolio(100000, 0.5, tickers),
		Analysts:      analystKeys,
		ModelName:     modelName,
		ModelProvider: provider,
	}
	return executeRun(ctx, cfg, req)
}

func promptForTickers() ([]string, error) {
	var raw string
	prompt := &survey.Input{
		Message: "Tickers (comma-separated, e.g. AAPL,MSFT):",
		Help:    "Every listed ticker gets its own decision.",
	}
	err := survey.AskOne(prompt, &raw, survey.WithValidator(func(val interface{}) error {
		if len(splitTickers(val.(string))) == 0 {
			return fmt.Errorf("enter at least one ticker")
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return splitTickers(raw), nil
}

func promptForAnalysts() ([]string, error) {
	options := make([]string, 0, len(agents.All()))
	for _, a := range agents.All() {
		options = append(options, a.DisplayName)
	}

	var selected []string
	prompt := &survey.MultiSelect{
		Message: "Select your analyst team:",
		Options: options,
		Default: options,
		Help:    "Space toggles, enter confirms. Selecting none runs every analyst.",
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, err
	}
	return analystKeysByDisplayName(selected), nil
}

func promptForModel(cfg *config.Config) (string, string, error) {
	static := catalog.StaticModels()
	options := make([]string, 0, len(static))
	byOption := make(map[string]catalog.StaticModel, len(static))
	for _, m := range static {
		opt := fmt.Sprintf("%s - %s", m.Provider, m.DisplayName)
		options = append(options, opt)
		byOption[opt] = m
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select a model:",
		Options: options,
		Help:    "Make sure the matching provider API key is configured.",
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", "", err
	}

	m, ok := byOption[selected]
	if !ok || strings.TrimSpace(selected) == "" {
		return cfg.DefaultModelName, cfg.DefaultModelProvider, nil
	}
	return m.ModelName, m.Provider, nil
}
