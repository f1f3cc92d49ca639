package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"hedgegraph/internal/catalog"
)

type fakeSource struct {
	models []catalog.Model
	err    error
}

func (f *fakeSource) ListModels(_ context.Context) ([]catalog.Model, error) {
	return f.models, f.err
}

func testServer(t *testing.T) *Server {
	t.Helper()
	store, err := catalog.OpenStore(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return &Server{
		store:      store,
		openRouter: &fakeSource{},
		ollama:     &fakeSource{},
	}
}

func TestListModels(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/language-models/", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Models []catalog.Model `json:"models"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Models) != len(catalog.StaticModels()) {
		t.Fatalf("expected the seeded catalog, got %d models", len(body.Models))
	}
}

func TestListProvidersGroups(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/language-models/providers", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Providers map[string][]catalog.Model `json:"providers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Providers["OpenAI"]) == 0 {
		t.Fatal("expected an OpenAI group in the seeded catalog")
	}
}

func TestRefreshOpenRouter(t *testing.T) {
	s := testServer(t)
	s.openRouter = &fakeSource{models: []catalog.Model{
		{DisplayName: "A", ModelName: "vendor/a"},
		{DisplayName: "B", ModelName: "vendor/b"},
	}}

	req := httptest.NewRequest(http.MethodPost, "/language-models/refresh-openrouter", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Deleted  int `json:"deleted"`
		Inserted int `json:"inserted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Deleted != 0 || body.Inserted != 2 {
		t.Fatalf("refresh = (%d, %d), want (0, 2)", body.Deleted, body.Inserted)
	}
}

func TestRefreshOpenRouterUpstreamFailure(t *testing.T) {
	s := testServer(t)
	s.openRouter = &fakeSource{err: errors.New("upstream down")}

	req := httptest.NewRequest(http.MethodPost, "/language-models/refresh-openrouter", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Detail == "" {
		t.Fatal("error body should carry a detail message")
	}
}

func TestRefreshRequiresPost(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/language-models/refresh-openrouter", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
