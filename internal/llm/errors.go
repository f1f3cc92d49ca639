package llm

import "fmt"

// ConfigurationError reports a missing credential or endpoint coordinate. It
// always names the exact setting so the user knows what to export.
type ConfigurationError struct {
	Provider string
	Setting  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured: set %s in your environment or pass it via api_keys", e.Provider, e.Setting)
}

// UnknownProviderError reports a provider id with no registered factory.
type UnknownProviderError struct {
	Provider string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown model provider: %q", e.Provider)
}

// ParseError reports LLM output that does not conform to the expected
// schema. It never escapes the invoker's retry-then-default loop.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "malformed model output: " + e.Reason
}
