// Package display renders run results for the terminal.
package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hedgegraph/internal/engine"
	"hedgegraph/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(1, 2).
		Width(80)

	reportPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#10B981")).
		Padding(1, 2).
		Width(80)

	buyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	sellStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	holdStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	bullishStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	bearishStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	neutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
)

// RenderResult prints the full run outcome: decisions, the per-ticker signal
// table, and the report.
func RenderResult(res *engine.RunResult) {
	fmt.Println(titleStyle.Render("Trading Decisions"))
	fmt.Println(panelStyle.Render(renderDecisions(res)))

	fmt.Println(titleStyle.Render("Analyst Signals"))
	fmt.Println(panelStyle.Render(renderSignals(res.AnalystSignals)))

	fmt.Println(titleStyle.Render("Report"))
	fmt.Println(reportPanelStyle.Render(res.Report))
}

func renderDecisions(res *engine.RunResult) string {
	if len(res.Decisions) == 0 {
		return "No decisions."
	}

	tickers := make([]string, 0, len(res.Decisions))
	for t := range res.Decisions {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	var sb strings.Builder
	for i, t := range tickers {
		d := res.Decisions[t]
		if i > 0 {
			sb.WriteString("\n")
		}
		line := fmt.Sprintf("%-6s %s %d", t, strings.ToUpper(d.Action), d.Quantity)
		if price, ok := res.CurrentPrices[t]; ok {
			line += fmt.Sprintf(" @ $%.2f", price)
		}
		line += fmt.Sprintf(" (confidence %.0f%%)", d.Confidence)
		sb.WriteString(actionStyle(d.Action).Render(line))
		if d.Reasoning != "" {
			sb.WriteString("\n       " + d.Reasoning)
		}
	}
	return sb.String()
}

func renderSignals(signals map[string]map[string]models.SignalRecord) string {
	byTicker := make(map[string]map[string]models.SignalRecord)
	for agent, perTicker := range signals {
		for t, sig := range perTicker {
			if byTicker[t] == nil {
				byTicker[t] = make(map[string]models.SignalRecord)
			}
			byTicker[t][agent] = sig
		}
	}
	if len(byTicker) == 0 {
		return "No signals."
	}

	tickers := make([]string, 0, len(byTicker))
	for t := range byTicker {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	var sb strings.Builder
	for i, t := range tickers {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(t + "\n")

		agents := make([]string, 0, len(byTicker[t]))
		for a := range byTicker[t] {
			agents = append(agents, a)
		}
		sort.Strings(agents)
		for _, a := range agents {
			sig := byTicker[t][a]
			line := fmt.Sprintf("  %-28s %s (%.0f%%)", strings.TrimSuffix(a, "_agent"), sig.Signal, sig.Confidence)
			sb.WriteString(signalStyle(sig.Signal).Render(line) + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func actionStyle(action string) lipgloss.Style {
	switch action {
	case models.ActionBuy, models.ActionCover:
		return buyStyle
	case models.ActionSell, models.ActionShort:
		return sellStyle
	default:
		return holdStyle
	}
}

func signalStyle(signal string) lipgloss.Style {
	switch signal {
	case models.SignalBullish:
		return bullishStyle
	case models.SignalBearish:
		return bearishStyle
	default:
		return neutralStyle
	}
}

// RenderError prints a run failure.
func RenderError(err error) {
	fmt.Println(errorStyle.Render("Error: " + err.Error()))
}
