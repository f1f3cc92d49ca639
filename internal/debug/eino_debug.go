// Package debug starts the eino visual debug server when enabled.
package debug

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino-ext/devops"

	"hedgegraph/internal/config"
)

type Debugger struct {
	cfg *config.Config
}

func NewDebugger(cfg *config.Config) *Debugger {
	return &Debugger{cfg: cfg}
}

// Initialize starts the devops plugin. Disabled configuration is a no-op.
func (d *Debugger) Initialize(ctx context.Context) error {
	if !d.cfg.EinoDebugEnabled {
		return nil
	}

	if err := devops.Init(ctx); err != nil {
		return fmt.Errorf("initialize eino debug plugin: %w", err)
	}

	if d.cfg.Debug {
		log.Printf("[EinoDebug] debug server listening at %s", d.URL())
	}
	return nil
}

func (d *Debugger) URL() string {
	if !d.cfg.EinoDebugEnabled {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d", d.cfg.EinoDebugPort)
}
