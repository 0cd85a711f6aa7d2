package llm

import (
	"strings"
	"testing"
	"time"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("KIDTIMER_LLM_PROVIDER", "openai")
	t.Setenv("KIDTIMER_OPENAI_API_KEY", "sk-env")
	t.Setenv("KIDTIMER_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("KIDTIMER_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("provider = %q, want openai", cfg.Provider)
	}
	if cfg.APIKey() != "sk-env" {
		t.Errorf("api key = %q, want sk-env", cfg.APIKey())
	}
	if cfg.OpenAI.Model != "gpt-4.1-mini" {
		t.Errorf("model = %q", cfg.OpenAI.Model)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Timeout)
	}
	// Untouched sections keep their defaults.
	if cfg.Gemini.Model != "gemini-flash" {
		t.Errorf("gemini model = %q, want default", cfg.Gemini.Model)
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-oai")
	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected a provider")
	}
	if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "sk-oai" {
		t.Errorf("openai should win over anthropic, got %q", cfg.Provider)
	}

	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, _ = DiscoverConfig()
	if cfg.Provider != ProviderGemini || cfg.Gemini.APIKey != "g-key" {
		t.Errorf("gemini should win, got %q", cfg.Provider)
	}
}

func TestSetAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetAPIKey(ProviderGemini, "from-keyring")
	if cfg.APIKey() != "from-keyring" {
		t.Errorf("api key = %q", cfg.APIKey())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}

	cfg.Provider = ProviderOpenRouter
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "KIDTIMER_OPENROUTER_API_KEY") {
		t.Errorf("validate error = %v, want hint about env var", err)
	}
}

func TestLookupCost(t *testing.T) {
	if c := LookupCost("gemini-2.5-flash"); c == nil || c.InputPerMTok != 0.3 {
		t.Errorf("gemini cost = %+v", c)
	}
	if c := LookupCost("google/gemini-2.5-flash"); c == nil {
		t.Error("expected prefixed OpenRouter model to resolve")
	}
	if c := LookupCost("made-up"); c != nil {
		t.Errorf("expected nil for unknown model, got %+v", c)
	}
	got := ModelCost{InputPerMTok: 1, OutputPerMTok: 2}.Cost(1_000_000, 500_000)
	if got != 2 {
		t.Errorf("cost = %v, want 2", got)
	}
}
