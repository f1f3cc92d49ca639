package prompts

import (
	"context"
	"log"
)

// Resolver resolves prompt templates, preferring the managed store and
// silently falling back to the local defaults. A nil store means
// local-only resolution.
type Resolver struct {
	store *Store
	label string
}

// NewResolver builds a Resolver over store (which may be nil), resolving
// prompts under DefaultLabel.
func NewResolver(store *Store) *Resolver {
	return NewLabeledResolver(store, DefaultLabel)
}

// NewLabeledResolver builds a Resolver that asks the store for prompts under
// label. An empty label means DefaultLabel.
func NewLabeledResolver(store *Store, label string) *Resolver {
	if label == "" {
		label = DefaultLabel
	}
	return &Resolver{store: store, label: label}
}

// Resolve returns the template for name in local placeholder format. A store
// failure is logged and absorbed; an unknown name is the only error, and it
// fires regardless of what the store holds, so every name used in a run must
// have a local default.
func (r *Resolver) Resolve(ctx context.Context, name string) ([]Message, error) {
	local, err := Get(name)
	if err != nil {
		return nil, err
	}

	if r.store == nil {
		return local, nil
	}

	remote, err := r.store.GetPrompt(ctx, name, r.label)
	if err != nil || len(remote) == 0 {
		if err != nil {
			log.Printf("[Prompts] managed store unavailable for %s, using local default: %v", name, err)
		}
		return local, nil
	}

	msgs := make([]Message, len(remote))
	for i, m := range remote {
		msgs[i] = Message{Role: m.Role, Content: ToLocalContent(m.Content)}
	}
	return msgs, nil
}
