// Command syncprompts pushes the local default prompts to the managed store.
// Prompts whose remote version under the configured label already matches are
// skipped, so repeated runs create no redundant versions.
package main

import (
	"context"
	"log"
	"time"

	"hedgegraph/internal/config"
	"hedgegraph/internal/prompts"
)

func main() {
	cfg := config.Load()

	store := prompts.NewStoreFromEnv()
	if store == nil {
		log.Fatal("[SyncPrompts] LANGFUSE_PUBLIC_KEY and LANGFUSE_SECRET_KEY are required")
	}
	label := cfg.PromptLabel
	if label == "" {
		label = prompts.DefaultLabel
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var pushed, skipped, failed int
	for _, name := range prompts.Names() {
		local, err := prompts.Get(name)
		if err != nil {
			log.Fatalf("[SyncPrompts] local prompt %s: %v", name, err)
		}

		remote := make([]prompts.Message, len(local))
		for i, m := range local {
			remote[i] = prompts.Message{Role: m.Role, Content: prompts.ToRemoteContent(m.Content)}
		}

		current, err := store.GetPrompt(ctx, name, label)
		if err == nil && prompts.MessagesEqual(current, remote) {
			skipped++
			continue
		}

		if err := store.CreatePrompt(ctx, name, remote, label); err != nil {
			log.Printf("[SyncPrompts] %s: %v", name, err)
			failed++
			continue
		}
		log.Printf("[SyncPrompts] pushed %s", name)
		pushed++
	}

	log.Printf("[SyncPrompts] done: %d pushed, %d unchanged, %d failed", pushed, skipped, failed)
	if failed > 0 {
		log.Fatal("[SyncPrompts] some prompts failed to sync")
	}
}
