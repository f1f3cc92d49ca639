// Command server exposes the model catalog over HTTP.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hedgegraph/internal/api"
	"hedgegraph/internal/catalog"
	"hedgegraph/internal/config"
)

func main() {
	cfg := config.Load()
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("[Server] create directories: %v", err)
	}

	store, err := catalog.OpenStore(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("[Server] open catalog: %v", err)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      api.NewServer(store).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("[Server] listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[Server] serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[Server] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] shutdown: %v", err)
	}
}
