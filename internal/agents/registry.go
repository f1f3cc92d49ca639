// Package agents implements the graph nodes: the analyst personas that fan
// out per ticker, the risk manager that sizes position limits, and the
// portfolio manager that makes the final call.
package agents

import "fmt"

// Analyst describes one investor persona: its stable key (used in node ids,
// signal namespaces, and CLI selection), display name, prompt template, and
// display order.
type Analyst struct {
	Key         string
	DisplayName string
	PromptName  string
	Order       int
}

// AgentKey is the namespace the analyst writes its signals under.
func (a Analyst) AgentKey() string {
	return a.Key + "_agent"
}

var analysts = []Analyst{
	{Key: "aswath_damodaran", DisplayName: "Aswath Damodaran", PromptName: "hedge-fund/aswath_damodaran", Order: 0},
	{Key: "ben_graham", DisplayName: "Ben Graham", PromptName: "hedge-fund/ben_graham", Order: 1},
	{Key: "bill_ackman", DisplayName: "Bill Ackman", PromptName: "hedge-fund/bill_ackman", Order: 2},
	{Key: "cathie_wood", DisplayName: "Cathie Wood", PromptName: "hedge-fund/cathie_wood", Order: 3},
	{Key: "charlie_munger", DisplayName: "Charlie Munger", PromptName: "hedge-fund/charlie_munger", Order: 4},
	{Key: "michael_burry", DisplayName: "Michael Burry", PromptName: "hedge-fund/michael_burry", Order: 5},
	{Key: "mohnish_pabrai", DisplayName: "Mohnish Pabrai", PromptName: "hedge-fund/mohnish_pabrai", Order: 6},
	{Key: "peter_lynch", DisplayName: "Peter Lynch", PromptName: "hedge-fund/peter_lynch", Order: 7},
	{Key: "phil_fisher", DisplayName: "Phil Fisher", PromptName: "hedge-fund/phil_fisher", Order: 8},
	{Key: "rakesh_jhunjhunwala", DisplayName: "Rakesh Jhunjhunwala", PromptName: "hedge-fund/rakesh_jhunjhunwala", Order: 9},
	{Key: "stanley_druckenmiller", DisplayName: "Stanley Druckenmiller", PromptName: "hedge-fund/stanley_druckenmiller", Order: 10},
	{Key: "warren_buffett", DisplayName: "Warren Buffett", PromptName: "hedge-fund/warren_buffett", Order: 11},
}

// UnknownAnalystError reports a selection key with no registered analyst.
type UnknownAnalystError struct {
	Key string
}

func (e *UnknownAnalystError) Error() string {
	return fmt.Sprintf("unknown analyst: %q", e.Key)
}

// All returns every registered analyst in display order.
func All() []Analyst {
	out := make([]Analyst, len(analysts))
	copy(out, analysts)
	return out
}

// Keys returns every analyst key in display order.
func Keys() []string {
	keys := make([]string, len(analysts))
	for i, a := range analysts {
		keys[i] = a.Key
	}
	return keys
}

// Get looks up one analyst by key.
func Get(key string) (Analyst, error) {
	for _, a := range analysts {
		if a.Key == key {
			return a, nil
		}
	}
	return Analyst{}, &UnknownAnalystError{Key: key}
}

// Select resolves a list of keys to analysts, preserving registry order. An
// empty selection means all analysts; any unknown key fails the whole
// selection.
func Select(keys []string) ([]Analyst, error) {
	if len(keys) == 0 {
		return All(), nil
	}
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		if _, err := Get(k); err != nil {
			return nil, err
		}
		wanted[k] = true
	}
	var out []Analyst
	for _, a := range analysts {
		if wanted[a.Key] {
			out = append(out, a)
		}
	}
	return out, nil
}
