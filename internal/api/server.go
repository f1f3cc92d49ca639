// Package api exposes the model catalog over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"hedgegraph/internal/catalog"
)

// modelSource lists models from a live upstream (OpenRouter, Ollama).
type modelSource interface {
	ListModels(ctx context.Context) ([]catalog.Model, error)
}

// Server serves the catalog endpoints.
type Server struct {
	store      *catalog.Store
	openRouter modelSource
	ollama     modelSource
}

// NewServer builds a catalog server over store with live OpenRouter and
// Ollama sources.
func NewServer(store *catalog.Store) *Server {
	return &Server{
		store:      store,
		openRouter: catalog.NewOpenRouterClient(),
		ollama:     catalog.NewOllamaClient(),
	}
}

// Router wires the catalog routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/language-models/", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/language-models/providers", s.handleProviders).Methods(http.MethodGet)
	r.HandleFunc("/language-models/ollama", s.handleOllama).Methods(http.MethodGet)
	r.HandleFunc("/language-models/refresh-openrouter", s.handleRefreshOpenRouter).Methods(http.MethodPost)
	return r
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	models, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"models": models})
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.ListByProvider(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"providers": groups})
}

// handleOllama reports the locally installed Ollama models. Discovery is
// live and never persisted: the installed set changes outside this process.
func (s *Server) handleOllama(w http.ResponseWriter, r *http.Request) {
	models, err := s.ollama.ListModels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"models": models})
}

func (s *Server) handleRefreshOpenRouter(w http.ResponseWriter, r *http.Request) {
	models, err := s.openRouter.ListModels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	deleted, inserted, err := s.store.ReplaceProvider(r.Context(), "OpenRouter", "openrouter", models)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Printf("[API] OpenRouter refresh: %d rows deleted, %d inserted", deleted, inserted)
	writeJSON(w, map[string]any{"deleted": deleted, "inserted": inserted})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": err.Error()})
}
