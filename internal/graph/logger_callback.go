package graph

import (
	"context"
	"log"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/schema"
)

// LoggerCallback logs node lifecycle events during a run. Pass it to Run via
// compose.WithCallbacks when tracing a workflow.
type LoggerCallback struct {
	callbacks.HandlerBuilder
}

// NewLoggerCallback creates a run logger.
func NewLoggerCallback() *LoggerCallback {
	return &LoggerCallback{}
}

func (cb *LoggerCallback) OnStart(ctx context.Context, info *callbacks.RunInfo, _ callbacks.CallbackInput) context.Context {
	if info != nil && info.Name != "" {
		log.Printf("[Graph] %s started", info.Name)
	}
	return ctx
}

func (cb *LoggerCallback) OnEnd(ctx context.Context, info *callbacks.RunInfo, _ callbacks.CallbackOutput) context.Context {
	if info != nil && info.Name != "" {
		log.Printf("[Graph] %s finished", info.Name)
	}
	return ctx
}

func (cb *LoggerCallback) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	name := ""
	if info != nil {
		name = info.Name
	}
	log.Printf("[Graph] %s failed: %v", name, err)
	return ctx
}

func (cb *LoggerCallback) OnStartWithStreamInput(ctx context.Context, info *callbacks.RunInfo,
	input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	input.Close()
	return ctx
}

func (cb *LoggerCallback) OnEndWithStreamOutput(ctx context.Context, info *callbacks.RunInfo,
	output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	output.Close()
	return ctx
}
