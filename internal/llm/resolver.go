package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	aclopenai "github.com/cloudwego/eino-ext/libs/acl/openai"

	"hedgegraph/internal/catalog"
)

// Canonical provider labels. Matching is case- and separator-insensitive, so
// "azure_openai" and "Azure OpenAI" resolve to the same factory.
const (
	ProviderOpenAI           = "OpenAI"
	ProviderOpenAICompatible = "OpenAI Compatible"
	ProviderGroq             = "Groq"
	ProviderDeepSeek         = "DeepSeek"
	ProviderAnthropic        = "Anthropic"
	ProviderGemini           = "Gemini"
	ProviderOpenRouter       = "OpenRouter"
	ProviderXAI              = "xAI"
	ProviderDashScope        = "DashScope"
	ProviderAzureOpenAI      = "Azure OpenAI"
	ProviderOllama           = "Ollama"
)

const defaultMaxTokens = 4096

// credentials resolves settings for one provider: explicit overrides win
// over the environment, and an override may be keyed by either the exact
// variable name or the provider label.
type credentials struct {
	label     string
	overrides map[string]string
}

func (c credentials) lookup(envVar string) string {
	if v := c.overrides[envVar]; v != "" {
		return v
	}
	if v := c.overrides[c.label]; v != "" {
		return v
	}
	return os.Getenv(envVar)
}

func (c credentials) require(envVar string) (string, error) {
	if v := c.lookup(envVar); v != "" {
		return v, nil
	}
	return "", &ConfigurationError{Provider: c.label, Setting: envVar}
}

type factory func(ctx context.Context, modelName string, creds credentials) (ChatClient, error)

type providerEntry struct {
	label string
	build factory
}

var providerRegistry = []providerEntry{
	{ProviderOpenAI, newOpenAI},
	{ProviderOpenAICompatible, newOpenAICompatible},
	{ProviderGroq, newGroq},
	{ProviderDeepSeek, newDeepSeek},
	{ProviderAnthropic, newAnthropic},
	{ProviderGemini, newGemini},
	{ProviderOpenRouter, newOpenRouter},
	{ProviderXAI, newXAI},
	{ProviderDashScope, newDashScope},
	{ProviderAzureOpenAI, newAzureOpenAI},
	{ProviderOllama, newOllama},
}

// Resolve builds a ChatClient for (modelName, provider). Overrides take
// precedence over environment variables; a missing required credential
// surfaces as a ConfigurationError naming the variable, and an unrecognized
// provider as an UnknownProviderError. Resolution performs no network I/O.
func Resolve(ctx context.Context, modelName, provider string, overrides map[string]string) (ChatClient, error) {
	key := providerKey(provider)
	for _, e := range providerRegistry {
		if providerKey(e.label) == key {
			return e.build(ctx, modelName, credentials{label: e.label, overrides: overrides})
		}
	}
	return nil, &UnknownProviderError{Provider: provider}
}

func providerKey(s string) string {
	s = strings.ToLower(s)
	for _, cut := range []string{" ", "_", "-"} {
		s = strings.ReplaceAll(s, cut, "")
	}
	return s
}

// NormalizeBaseURL cleans a user-supplied OpenAI-compatible endpoint: it
// strips a pasted "/chat/completions" suffix and guarantees exactly one
// trailing "/v1" path segment.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if u == "" {
		return u
	}
	u = strings.TrimSuffix(u, "/chat/completions")
	u = strings.TrimRight(u, "/")
	if !strings.HasSuffix(u, "/v1") {
		u += "/v1"
	}
	return u
}

// openAIConfig collects everything the shared OpenAI-compatible constructor
// needs. Most providers differ only in base URL and credential variable.
type openAIConfig struct {
	baseURL    string
	apiKey     string
	model      string
	byAzure    bool
	apiVersion string
	headers    map[string]string
}

func newOpenAICompatClient(ctx context.Context, label string, cfg openAIConfig) (ChatClient, error) {
	maxTokens := defaultMaxTokens
	jsonMode := catalog.SupportsJSONMode(cfg.model)

	mc := &openai.ChatModelConfig{
		BaseURL:    cfg.baseURL,
		APIKey:     cfg.apiKey,
		Model:      cfg.model,
		MaxTokens:  &maxTokens,
		ByAzure:    cfg.byAzure,
		APIVersion: cfg.apiVersion,
	}
	if len(cfg.headers) > 0 {
		mc.HTTPClient = &http.Client{
			Transport: &headerTransport{base: http.DefaultTransport, headers: cfg.headers},
			Timeout:   2 * time.Minute,
		}
	}
	if jsonMode {
		mc.ResponseFormat = &aclopenai.ChatCompletionResponseFormat{
			Type: aclopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	cm, err := openai.NewChatModel(ctx, mc)
	if err != nil {
		return nil, fmt.Errorf("create %s chat model: %w", label, err)
	}
	return &einoClient{model: cm, jsonMode: jsonMode}, nil
}

// headerTransport stamps fixed headers onto every request. OpenRouter uses
// it for its attribution headers.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		clone.Header.Set(k, v)
	}
	return t.base.RoundTrip(clone)
}

func newOpenAI(ctx context.Context, modelName string, creds credentials) (ChatClient, error) {
	apiKey, err := creds.require("OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}
	baseURL := ""
	if base := creds.lookup("OPENAI_API_BASE"); base != "" {
		baseURL = NormalizeBaseURL(base)
	}
	return newOpenAICompatClient(ctx, ProviderOpenAI, openAIConfig{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   modelName,
	})
}

func newOpenAICompatible(ctx context.Context, modelName string, creds credentials) (ChatClient, error) {
	apiKey, err := creds.require("OPENAI_COMPATIBLE_API_KEY")
	if err != nil {
		return nil, err
	}
	baseURL, err := creds.require("OPENAI_COMPATIBLE_BASE_URL")
	if err != nil {
		return nil, err
	}
	return newOpenAICompatClient(ctx, ProviderOpenAICompatible, openAIConfig{
		baseURL: NormalizeBaseURL(baseURL),
		apiKey:  apiKey,
		model:   modelName,
	})
}

func newGroq(ctx context.Context, modelName string, creds credentials) (ChatClient, error) {
	apiKey, err := creds.require("GROQ_API_KEY")
	if err != nil {
		return nil, err
	}
	return newOpenAICompatClient(ctx, ProviderGroq, openAIConfig{
		baseURL: "https://api.groq.com/openai/v1",
		apiKey:  apiKey,
		model:   modelName,
	})
}

func newDeepSeek(ctx context.Context, modelName string, creds credentials) (ChatClient, error) {
	apiKey, err := creds.require("DEEPSEEK_API_KEY")
	if err != nil {
		return nil, err
	}
	cm, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
		APIKey:    apiKey,
		Model:     modelName,
		MaxTokens: defaultMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create DeepSeek chat model: %w", err)
	}
	return &einoClient{model: cm, jsonMode: false}, nil
}

func newOpenRouter(ctx context.Context, modelName string, creds credentials) (ChatClient, error) {
	apiKey, err := creds.require("OPENROUTER_API_KEY")
	if err != nil {
		return nil, err
	}
	return newOpenAICompatClient(ctx, ProviderOpenRouter, openAIConfig{
		baseURL: "https://openrouter.ai/api/v1",
		apiKey:  apiKey,
		model:   modelName,
		headers: map[string]string{
			"HTTP-Referer": "https://github.com/hedgegraph/hedgegraph",
			"X-Title":      "HedgeGraph",
		},
	})
}

func newXAI(ctx context.Context, modelName string, creds credentials) (ChatClient, error) {
	apiKey, err := creds.require("XAI_API_KEY")
	if err != nil {
		return nil, err
	}
	return newOpenAICompatClient(ctx, ProviderXAI, openAIConfig{
		baseURL: "https://api.x.ai/v1",
		apiKey:  apiKey,
		model:   modelName,
	})
}

func newDashScope(ctx context.Context, modelName string, creds credentials) (ChatClient, error) {
	apiKey, err := creds.require("DASHSCOPE_API_KEY")
	if err != nil {
		return nil, err
	}
	baseURL := "https://dashscope.aliyuncs.com/compatible-mode/v1"
	if base := creds.lookup("DASHSCOPE_BASE_URL"); base != "" {
		baseURL = NormalizeBaseURL(base)
	}
	return newOpenAICompatClient(ctx, ProviderDashScope, openAIConfig{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   modelName,
	})
}

func newAzureOpenAI(ctx context.Context, modelName string, creds credentials) (ChatClient, error) {
	apiKey, err := creds.require("AZURE_OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}
	endpoint, err := creds.require("AZURE_OPENAI_ENDPOINT")
	if err != nil {
		return nil, err
	}
	deployment, err := creds.require("AZURE_OPENAI_DEPLOYMENT_NAME")
	if err != nil {
		return nil, err
	}
	_ = modelName // Azure routes by deployment, not model name.
	return newOpenAICompatClient(ctx, ProviderAzureOpenAI, openAIConfig{
		baseURL:    strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		model:      deployment,
		byAzure:    true,
		apiVersion: "2024-10-21",
	})
}

func newOllama(ctx context.Context, modelName string, creds credentials) (ChatClient, error) {
	base := creds.lookup("OLLAMA_BASE_URL")
	if base == "" {
		host := creds.lookup("OLLAMA_HOST")
		if host == "" {
			host = "localhost"
		}
		base = fmt.Sprintf("http://%s:11434", host)
	}
	// Ollama serves an OpenAI-compatible API under /v1 and ignores the key.
	return newOpenAICompatClient(ctx, ProviderOllama, openAIConfig{
		baseURL: NormalizeBaseURL(base),
		apiKey:  "ollama",
		model:   modelName,
	})
}
