package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenStoreSeedsStaticCatalog(t *testing.T) {
	s := openTestStore(t)

	models, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	static := StaticModels()
	if len(models) != len(static) {
		t.Fatalf("seeded %d models, want %d", len(models), len(static))
	}
	if models[0].ModelName != static[0].ModelName {
		t.Fatalf("seed order broken: got %s, want %s", models[0].ModelName, static[0].ModelName)
	}
	for _, m := range models {
		if m.Source != "static" {
			t.Fatalf("seeded row should carry source static, got %q", m.Source)
		}
	}
}

func TestSeedRunsOnlyOnEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	s, err := OpenStore(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	first, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	_ = s.Close()

	s, err = OpenStore(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s.Close()
	second, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list after reopen: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("reopen duplicated the seed: %d vs %d rows", len(second), len(first))
	}
}

func TestReplaceProviderSwapsOnlyItsRows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	baseline, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	three := []Model{
		{DisplayName: "A", ModelName: "vendor/a"},
		{DisplayName: "B", ModelName: "vendor/b"},
		{DisplayName: "C", ModelName: "vendor/c"},
	}
	deleted, inserted, err := s.ReplaceProvider(ctx, "OpenRouter", "openrouter", three)
	if err != nil {
		t.Fatalf("first swap: %v", err)
	}
	if deleted != 0 || inserted != 3 {
		t.Fatalf("first swap = (%d deleted, %d inserted), want (0, 3)", deleted, inserted)
	}

	five := append(three,
		Model{DisplayName: "D", ModelName: "vendor/d"},
		Model{DisplayName: "E", ModelName: "vendor/e"},
	)
	deleted, inserted, err = s.ReplaceProvider(ctx, "OpenRouter", "openrouter", five)
	if err != nil {
		t.Fatalf("second swap: %v", err)
	}
	if deleted != 3 || inserted != 5 {
		t.Fatalf("second swap = (%d deleted, %d inserted), want (3, 5)", deleted, inserted)
	}

	after, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list after swap: %v", err)
	}
	if len(after) != len(baseline)+5 {
		t.Fatalf("swap disturbed other providers: %d rows, want %d", len(after), len(baseline)+5)
	}
}

func TestListByProviderGroups(t *testing.T) {
	s := openTestStore(t)

	groups, err := s.ListByProvider(context.Background())
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	if len(groups["OpenAI"]) == 0 || len(groups["Anthropic"]) == 0 {
		t.Fatalf("expected seeded OpenAI and Anthropic groups, got %v", groups)
	}
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	if total != len(StaticModels()) {
		t.Fatalf("grouping lost rows: %d vs %d", total, len(StaticModels()))
	}
}

func TestRefreshOpenRouterUsesLiveListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [
			{"id": "openai/gpt-4.1", "name": "OpenAI: GPT-4.1"},
			{"id": "anthropic/claude-sonnet-4", "name": ""}
		]}`))
	}))
	defer srv.Close()

	client := &OpenRouterClient{client: resty.New().SetBaseURL(srv.URL).SetTimeout(5 * time.Second)}
	s := openTestStore(t)

	deleted, inserted, err := RefreshOpenRouter(context.Background(), s, client)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if deleted != 0 || inserted != 2 {
		t.Fatalf("refresh = (%d, %d), want (0, 2)", deleted, inserted)
	}

	groups, err := s.ListByProvider(context.Background())
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	or := groups["OpenRouter"]
	if len(or) != 2 {
		t.Fatalf("expected 2 OpenRouter rows, got %d", len(or))
	}
	// A missing display name falls back to the model id.
	if or[1].DisplayName != "anthropic/claude-sonnet-4" {
		t.Fatalf("display name fallback broken: %q", or[1].DisplayName)
	}
}
