package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: anthropicModels["claude-haiku"]}
}

// anthropicReply writes a Messages API response carrying text.
func anthropicReply(w http.ResponseWriter, text, stopReason string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stopReason,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	})
}

func anthropicError(w http.ResponseWriter, status int, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"type":  "error",
		"error": map[string]any{"type": kind, "message": kind},
	})
}

func TestAnthropicProvider_MentorAdvice(t *testing.T) {
	var body map[string]any
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		anthropicReply(w, string(adviceJSON), "end_turn")
	})

	resp, err := p.Generate(context.Background(), mentorRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != string(adviceJSON) {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 80 || resp.StopReason != StopEnd {
		t.Errorf("usage = %+v, stop = %q", resp.Usage, resp.StopReason)
	}

	if body["max_tokens"] != float64(500) {
		t.Errorf("max_tokens = %v, want 500", body["max_tokens"])
	}
	out, _ := body["output_config"].(map[string]any)
	format, _ := out["format"].(map[string]any)
	if _, ok := format["schema"].(map[string]any); !ok {
		t.Errorf("request has no output schema: %v", body["output_config"])
	}
	system, _ := body["system"].([]any)
	if len(system) != 1 {
		t.Errorf("system = %v", body["system"])
	}
}

func TestAnthropicProvider_DefaultMaxTokens(t *testing.T) {
	var body map[string]any
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		anthropicReply(w, "Keep going!", "end_turn")
	})

	req := SingleTurn("", "Say something kind.", nil)
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != "Keep going!" {
		t.Errorf("content = %s", resp.Content)
	}
	if body["max_tokens"] != float64(anthropicDefaultMaxTokens) {
		t.Errorf("max_tokens = %v, want %d", body["max_tokens"], anthropicDefaultMaxTokens)
	}
}

func TestAnthropicProvider_TruncatedAdvice(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		anthropicReply(w, `{"summary":"Two piano`, "max_tokens")
	})

	_, err := p.Generate(context.Background(), mentorRequest())
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_AdviceOffSchema(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		anthropicReply(w, `{"summary":"Two piano sessions"}`, "end_turn")
	})

	_, err := p.Generate(context.Background(), mentorRequest())
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_Errors(t *testing.T) {
	t.Run("rate limit with retry-after", func(t *testing.T) {
		p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "2")
			anthropicError(w, http.StatusTooManyRequests, "rate_limit_error")
		})
		_, err := p.Generate(context.Background(), mentorRequest())
		var rl *ErrRateLimit
		if !errors.As(err, &rl) {
			t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
		}
		if rl.RetryAfter != 2*time.Second {
			t.Errorf("retry after = %s, want 2s", rl.RetryAfter)
		}
	})

	t.Run("server error", func(t *testing.T) {
		p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
			anthropicError(w, http.StatusInternalServerError, "api_error")
		})
		_, err := p.Generate(context.Background(), mentorRequest())
		var unavail *ErrProviderUnavailable
		if !errors.As(err, &unavail) {
			t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
		}
	})

	t.Run("bad request is neither", func(t *testing.T) {
		p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
			anthropicError(w, http.StatusBadRequest, "invalid_request_error")
		})
		_, err := p.Generate(context.Background(), mentorRequest())
		var rl *ErrRateLimit
		var unavail *ErrProviderUnavailable
		if err == nil || errors.As(err, &rl) || errors.As(err, &unavail) {
			t.Fatalf("unexpected classification: %T (%v)", err, err)
		}
	})
}

func TestAnthropicModelMapping(t *testing.T) {
	tests := map[string]string{
		"claude-sonnet":            "claude-sonnet-4-20250514",
		"claude-haiku":             "claude-haiku-4-5-20251001",
		"claude-sonnet-4-20250514": "claude-sonnet-4-20250514",
	}
	for in, want := range tests {
		if got := resolveModel(in, anthropicModels); got != want {
			t.Errorf("resolveModel(%q) = %q, want %q", in, got, want)
		}
	}
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "claude-haiku"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "claude-haiku-4-5-20251001" {
		t.Errorf("model = %q", p.ModelID())
	}
}
