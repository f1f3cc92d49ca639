package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Validator lets a response type veto a syntactically valid payload.
type Validator interface {
	Validate() error
}

// TraceFunc receives raw and parsed payloads for one invocation when the
// caller wants reasoning surfaced. Stage is "raw" or "parsed".
type TraceFunc func(agent, stage, payload string)

// Request describes one structured invocation.
type Request struct {
	Client     ChatClient
	Messages   []*schema.Message
	AgentName  string
	MaxRetries int
	Trace      TraceFunc
}

const correctiveNote = "Your previous response could not be parsed. Respond with only a valid JSON object matching the requested schema, with no surrounding text."

// Call runs one structured LLM invocation: generate, extract JSON, decode
// into T, validate. On transport or parse failure it appends the failed
// output plus a corrective instruction and retries, up to MaxRetries extra
// attempts. Content and transport failures never surface as errors: when
// every attempt fails it logs and returns defaultFn(), so one misbehaving
// model cannot take down a run. Caller cancellation is the exception; it is
// returned so the node aborts instead of succeeding with a fabricated
// default.
func Call[T any](ctx context.Context, req Request, defaultFn func() T) (T, error) {
	msgs := make([]*schema.Message, len(req.Messages))
	copy(msgs, req.Messages)

	attempts := req.MaxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err := req.Client.Generate(ctx, msgs)
		if err != nil {
			if cause := cancellation(ctx, err); cause != nil {
				log.Printf("[LLM] %s: attempt %d/%d aborted: %v", req.AgentName, attempt, attempts, cause)
				var zero T
				return zero, cause
			}
			log.Printf("[LLM] %s: attempt %d/%d transport error: %v", req.AgentName, attempt, attempts, err)
			continue
		}

		raw := out.Content
		if req.Trace != nil {
			req.Trace(req.AgentName, "raw", raw)
		}

		v, perr := Decode[T](raw)
		if perr == nil {
			if req.Trace != nil {
				parsed, _ := json.MarshalIndent(v, "", "  ")
				req.Trace(req.AgentName, "parsed", string(parsed))
			}
			return v, nil
		}

		log.Printf("[LLM] %s: attempt %d/%d parse error: %v", req.AgentName, attempt, attempts, perr)
		if attempt < attempts {
			msgs = append(msgs,
				schema.AssistantMessage(raw, nil),
				schema.UserMessage(correctiveNote+" Parser said: "+perr.Error()),
			)
		}
	}

	log.Printf("[LLM] %s: all %d attempts failed, falling back to default response", req.AgentName, attempts)
	return defaultFn(), nil
}

// cancellation reports whether a Generate failure was caused by the caller's
// context rather than the transport. Clients are expected to return the
// context error, but the context itself is authoritative.
func cancellation(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// Decode extracts the JSON object embedded in raw model output and unmarshals
// it into T, running T's Validate hook when present.
func Decode[T any](raw string) (T, error) {
	var v T
	payload := ExtractJSON(raw)
	if payload == "" {
		return v, &ParseError{Reason: "no JSON object found in output"}
	}
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return v, &ParseError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if val, ok := any(v).(Validator); ok {
		if err := val.Validate(); err != nil {
			return v, &ParseError{Reason: err.Error()}
		}
	} else if val, ok := any(&v).(Validator); ok {
		if err := val.Validate(); err != nil {
			return v, &ParseError{Reason: err.Error()}
		}
	}
	return v, nil
}

// ExtractJSON pulls the JSON object out of raw model output. It prefers a
// ```json fenced block, then falls back to the outermost brace pair. Returns
// "" when no object is present.
func ExtractJSON(raw string) string {
	if idx := strings.Index(raw, "```json"); idx != -1 {
		rest := raw[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			if fenced := strings.TrimSpace(rest[:end]); fenced != "" {
				return fenced
			}
		}
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}
