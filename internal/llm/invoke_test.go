package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
)

type fakeClient struct {
	responses []string
	errs      []error
	calls     int
	lastMsgs  []*schema.Message
}

func (f *fakeClient) Generate(_ context.Context, messages []*schema.Message) (*schema.Message, error) {
	idx := f.calls
	f.calls++
	f.lastMsgs = messages
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	resp := ""
	if idx < len(f.responses) {
		resp = f.responses[idx]
	}
	return schema.AssistantMessage(resp, nil), nil
}

func (f *fakeClient) SupportsJSONMode() bool { return false }

type tradeSignal struct {
	Signal     string  `json:"signal"`
	Confidence float64 `json:"confidence"`
}

func (s *tradeSignal) Validate() error {
	switch s.Signal {
	case "bullish", "bearish", "neutral":
		return nil
	}
	return errors.New("signal must be bullish, bearish, or neutral")
}

func defaultSignal() *tradeSignal {
	return &tradeSignal{Signal: "neutral", Confidence: 0}
}

func TestCallParseFailureThenSuccess(t *testing.T) {
	client := &fakeClient{responses: []string{
		"I think the stock looks good.",
		`{"signal": "bullish", "confidence": 80}`,
	}}

	got, err := Call(context.Background(), Request{
		Client:     client,
		Messages:   []*schema.Message{schema.UserMessage("analyze AAPL")},
		AgentName:  "test_agent",
		MaxRetries: 2,
	}, defaultSignal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", client.calls)
	}
	if got.Signal != "bullish" || got.Confidence != 80 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestCallRetryAppendsCorrectiveMessage(t *testing.T) {
	client := &fakeClient{responses: []string{
		"not json",
		`{"signal": "bearish", "confidence": 50}`,
	}}

	if _, err := Call(context.Background(), Request{
		Client:     client,
		Messages:   []*schema.Message{schema.UserMessage("analyze AAPL")},
		AgentName:  "test_agent",
		MaxRetries: 1,
	}, defaultSignal); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second attempt sees original message + failed output + corrective note.
	if len(client.lastMsgs) != 3 {
		t.Fatalf("expected 3 messages on retry, got %d", len(client.lastMsgs))
	}
	if client.lastMsgs[1].Role != schema.Assistant || client.lastMsgs[1].Content != "not json" {
		t.Fatalf("failed output not replayed: %+v", client.lastMsgs[1])
	}
	if client.lastMsgs[2].Role != schema.User {
		t.Fatalf("corrective note should be a user message, got %s", client.lastMsgs[2].Role)
	}
}

func TestCallExhaustedAttemptsReturnsDefault(t *testing.T) {
	client := &fakeClient{responses: []string{"garbage", "more garbage"}}

	got, err := Call(context.Background(), Request{
		Client:     client,
		Messages:   []*schema.Message{schema.UserMessage("analyze AAPL")},
		AgentName:  "test_agent",
		MaxRetries: 1,
	}, defaultSignal)
	if err != nil {
		t.Fatalf("content exhaustion should not error: %v", err)
	}

	if client.calls != 2 {
		t.Fatalf("expected maxRetries+1 = 2 calls, got %d", client.calls)
	}
	if got.Signal != "neutral" {
		t.Fatalf("expected default signal, got %+v", got)
	}
}

func TestCallZeroRetriesMakesExactlyOneCall(t *testing.T) {
	client := &fakeClient{responses: []string{"garbage"}}

	got, err := Call(context.Background(), Request{
		Client:    client,
		Messages:  []*schema.Message{schema.UserMessage("analyze AAPL")},
		AgentName: "test_agent",
	}, defaultSignal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.calls != 1 {
		t.Fatalf("expected exactly 1 call, got %d", client.calls)
	}
	if got.Signal != "neutral" {
		t.Fatalf("expected default signal, got %+v", got)
	}
}

func TestCallTransportErrorRetries(t *testing.T) {
	client := &fakeClient{
		errs:      []error{errors.New("connection refused"), nil},
		responses: []string{"", `{"signal": "neutral", "confidence": 30}`},
	}

	got, err := Call(context.Background(), Request{
		Client:     client,
		Messages:   []*schema.Message{schema.UserMessage("analyze AAPL")},
		AgentName:  "test_agent",
		MaxRetries: 1,
	}, defaultSignal)
	if err != nil {
		t.Fatalf("transport retry should not error: %v", err)
	}

	if client.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", client.calls)
	}
	if got.Confidence != 30 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestCallValidateRejectsBadEnum(t *testing.T) {
	client := &fakeClient{responses: []string{`{"signal": "sideways", "confidence": 10}`}}

	got, err := Call(context.Background(), Request{
		Client:    client,
		Messages:  []*schema.Message{schema.UserMessage("analyze AAPL")},
		AgentName: "test_agent",
	}, defaultSignal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Signal != "neutral" {
		t.Fatalf("invalid enum should fall back to default, got %+v", got)
	}
}

func TestCallReturnsCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &fakeClient{errs: []error{context.Canceled, context.Canceled, context.Canceled}}

	_, err := Call(ctx, Request{
		Client:     client,
		Messages:   []*schema.Message{schema.UserMessage("analyze AAPL")},
		AgentName:  "test_agent",
		MaxRetries: 2,
	}, defaultSignal)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("cancellation should not retry, got %d calls", client.calls)
	}
}

func TestCallReturnsWrappedDeadlineError(t *testing.T) {
	// The client reports the deadline itself; the caller's context is still
	// live. The error must surface rather than degrade to the default.
	client := &fakeClient{errs: []error{fmt.Errorf("generate: %w", context.DeadlineExceeded)}}

	_, err := Call(context.Background(), Request{
		Client:    client,
		Messages:  []*schema.Message{schema.UserMessage("analyze AAPL")},
		AgentName: "test_agent",
	}, defaultSignal)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "Here you go:\n```json\n{\"a\": 1}\n```\nDone.", `{"a": 1}`},
		{"embedded", `The answer is {"a": 1} as requested.`, `{"a": 1}`},
		{"no object", "no structured data here", ""},
		{"fence without close falls back", "```json\n{\"a\": 1}", `{"a": 1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.in); got != tc.want {
				t.Fatalf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
