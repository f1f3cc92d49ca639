// Package progress tracks per-agent, per-ticker run status so the CLI can
// show what each analyst is doing while the graph fans out.
package progress

import (
	"sort"
	"sync"
)

// Update is one status change.
type Update struct {
	Agent  string
	Ticker string
	Status string
}

// Tracker is a thread-safe status board. Analyst nodes run concurrently, so
// every method takes the lock.
type Tracker struct {
	mu       sync.Mutex
	statuses map[string]map[string]string
	handlers []func(Update)
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{statuses: make(map[string]map[string]string)}
}

// Default is the process-wide tracker the graph nodes report to.
var Default = NewTracker()

// OnUpdate registers a handler invoked on every status change. Handlers run
// under the tracker lock and must not call back into the tracker.
func (t *Tracker) OnUpdate(fn func(Update)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers = append(t.handlers, fn)
}

// UpdateStatus records agent's status for ticker. An empty ticker marks an
// agent-wide status.
func (t *Tracker) UpdateStatus(agent, ticker, status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	byTicker, ok := t.statuses[agent]
	if !ok {
		byTicker = make(map[string]string)
		t.statuses[agent] = byTicker
	}
	byTicker[ticker] = status

	u := Update{Agent: agent, Ticker: ticker, Status: status}
	for _, fn := range t.handlers {
		fn(u)
	}
}

// Snapshot returns all recorded updates sorted by agent then ticker.
func (t *Tracker) Snapshot() []Update {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Update
	for agent, byTicker := range t.statuses {
		for ticker, status := range byTicker {
			out = append(out, Update{Agent: agent, Ticker: ticker, Status: status})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Agent != out[j].Agent {
			return out[i].Agent < out[j].Agent
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out
}

// Reset clears all statuses, keeping registered handlers.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statuses = make(map[string]map[string]string)
}
