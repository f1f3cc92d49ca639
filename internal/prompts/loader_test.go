package prompts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveFallsBackToLocalOnStoreError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "unavailable"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	resolver := NewResolver(NewStore(server.URL, "pk", "sk"))
	got, err := resolver.Resolve(context.Background(), NameWarrenBuffett)
	if err != nil {
		t.Fatalf("fallback should not error: %v", err)
	}

	want, _ := Get(NameWarrenBuffett)
	if !MessagesEqual(got, want) {
		t.Fatal("fallback should return the local default verbatim")
	}
}

func TestResolveUsesRemoteWhenAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("label") != DefaultLabel {
			t.Errorf("expected label=%s, got %q", DefaultLabel, r.URL.Query().Get("label"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(remotePrompt{
			Name: NameWarrenBuffett,
			Type: "chat",
			Prompt: []Message{
				{Role: "system", Content: "You pick stocks."},
				{Role: "human", Content: "Analyze {{ticker}} and return {\"signal\": \"...\"}."},
			},
		})
	}))
	defer server.Close()

	resolver := NewResolver(NewStore(server.URL, "pk", "sk"))
	got, err := resolver.Resolve(context.Background(), NameWarrenBuffett)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	want := "Analyze {ticker} and return {{\"signal\": \"...\"}}."
	if got[1].Content != want {
		t.Fatalf("remote content should be translated to local format:\ngot  %q\nwant %q", got[1].Content, want)
	}
}

func TestResolveUsesConfiguredLabel(t *testing.T) {
	var gotLabel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLabel = r.URL.Query().Get("label")
		json.NewEncoder(w).Encode(remotePrompt{
			Name:   NameWarrenBuffett,
			Type:   "chat",
			Prompt: []Message{{Role: "system", Content: "You pick stocks."}},
		})
	}))
	defer server.Close()

	resolver := NewLabeledResolver(NewStore(server.URL, "pk", "sk"), "staging")
	if _, err := resolver.Resolve(context.Background(), NameWarrenBuffett); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLabel != "staging" {
		t.Fatalf("store should be queried under the configured label, got %q", gotLabel)
	}
}

func TestLabeledResolverEmptyLabelDefaults(t *testing.T) {
	resolver := NewLabeledResolver(nil, "")
	if resolver.label != DefaultLabel {
		t.Fatalf("empty label should fall back to %q, got %q", DefaultLabel, resolver.label)
	}
}

func TestResolveWithoutStoreUsesLocal(t *testing.T) {
	resolver := NewResolver(nil)
	got, err := resolver.Resolve(context.Background(), NamePortfolioManager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := Get(NamePortfolioManager)
	if !MessagesEqual(got, want) {
		t.Fatal("nil store should resolve to the local default")
	}
}

func TestResolveUnknownNameFails(t *testing.T) {
	resolver := NewResolver(nil)
	_, err := resolver.Resolve(context.Background(), "hedge-fund/not_an_analyst")
	var unknownErr *UnknownNameError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownNameError, got %v", err)
	}
}
