package storage

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"hedgegraph/pkg/utils"
)

// WriteRunMarkdown renders a run record to markdown under resultsDir and
// returns the file path.
func WriteRunMarkdown(resultsDir string, rec RunRecord) (string, error) {
	when := rec.CreatedAt
	if when.IsZero() {
		when = time.Now()
	}
	fileName := fmt.Sprintf("run_%s_%s.md", when.Format("20060102_150405"), strings.Join(rec.Tickers, "_"))

	if err := utils.WriteMarkdown(resultsDir, fileName, renderMarkdown(rec, when)); err != nil {
		return "", err
	}
	return fileName, nil
}

func renderMarkdown(rec RunRecord, when time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Trading Run %s\n\n", when.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "Model: %s (%s)\n\n", rec.ModelName, rec.ModelProvider)

	sb.WriteString("## Decisions\n\n")
	sb.WriteString("| Ticker | Action | Quantity | Confidence | Reasoning |\n")
	sb.WriteString("|--------|--------|----------|------------|----------|\n")
	for _, t := range sortedTickers(rec.Decisions) {
		d := rec.Decisions[t]
		fmt.Fprintf(&sb, "| %s | %s | %d | %.0f%% | %s |\n",
			t, d.Action, d.Quantity, d.Confidence, strings.ReplaceAll(d.Reasoning, "|", "/"))
	}

	sb.WriteString("\n## Analyst Signals\n\n")
	agents := make([]string, 0, len(rec.Signals))
	for a := range rec.Signals {
		agents = append(agents, a)
	}
	sort.Strings(agents)
	for _, a := range agents {
		fmt.Fprintf(&sb, "### %s\n\n", strings.TrimSuffix(a, "_agent"))
		tickers := make([]string, 0, len(rec.Signals[a]))
		for t := range rec.Signals[a] {
			tickers = append(tickers, t)
		}
		sort.Strings(tickers)
		for _, t := range tickers {
			sig := rec.Signals[a][t]
			fmt.Fprintf(&sb, "- **%s**: %s (%.0f%%) %s\n", t, sig.Signal, sig.Confidence, sig.Reasoning)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Report\n\n")
	sb.WriteString(rec.Report)
	sb.WriteString("\n")
	return sb.String()
}

func sortedTickers[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
