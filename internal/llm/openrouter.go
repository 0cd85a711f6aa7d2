package llm

import (
	"errors"
	"net/http"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openrouterModels maps the friendly names used by the other providers to
// OpenRouter's vendor-prefixed ids, so one config value works everywhere.
var openrouterModels = map[string]string{
	"gemini-flash":  "google/gemini-2.5-flash",
	"gemini-pro":    "google/gemini-2.5-pro",
	"claude-haiku":  "anthropic/claude-haiku-4.5",
	"claude-sonnet": "anthropic/claude-sonnet-4",
	"gpt-4o-mini":   "openai/gpt-4o-mini",
}

// OpenRouterProvider talks to OpenRouter through its OpenAI-compatible
// endpoint. Requests carry the app attribution headers OpenRouter shows
// on its usage pages.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	client := &http.Client{Transport: attributionTransport{base: http.DefaultTransport}}
	inner, err := newOpenAIProvider(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
	}, openrouterModels, client)
	if err != nil {
		return nil, err
	}
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

// attributionTransport sets the X-Title and HTTP-Referer headers.
type attributionTransport struct {
	base http.RoundTripper
}

func (t attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Title", "kidtimer")
	req.Header.Set("HTTP-Referer", "https://github.com/abhisek/kidtimer")
	return t.base.RoundTrip(req)
}
