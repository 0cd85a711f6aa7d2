package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-lite", "gemini-2.5-flash-lite"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	schema := buildGeminiSchema(goalPlanSchema().Definition)

	if schema.Type != "OBJECT" {
		t.Fatalf("type = %s, want OBJECT", schema.Type)
	}
	if len(schema.Properties) != 2 || len(schema.Required) != 2 {
		t.Fatalf("properties = %d, required = %v", len(schema.Properties), schema.Required)
	}
	week := schema.Properties["week"]
	if week.Type != "OBJECT" || week.Properties["days_left"].Type != "INTEGER" {
		t.Errorf("week = %+v", week)
	}
	acts := schema.Properties["activities"]
	if acts.Type != "ARRAY" || acts.Items == nil || acts.Items.Type != "OBJECT" {
		t.Fatalf("activities = %+v", acts)
	}
	item := acts.Items
	if item.Properties["name"].Type != "STRING" || item.Properties["sessions"].Type != "INTEGER" {
		t.Errorf("activity item = %+v", item)
	}
	if got := item.Properties["mood"].Enum; len(got) != 3 || got[0] != "easy" {
		t.Errorf("mood enum = %v", got)
	}

	advice := buildGeminiSchema(adviceSchema().Definition)
	for _, k := range []string{"summary", "suggestion", "encouragement"} {
		if advice.Properties[k] == nil || advice.Properties[k].Type != "STRING" {
			t.Errorf("advice %s = %+v", k, advice.Properties[k])
		}
	}
}

func TestGeminiProvider_HappyPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{
					"content": map[string]any{
						"role":  "model",
						"parts": []map[string]any{{"text": `{"summary":"ok","suggestion":"read","encouragement":"yay"}`}},
					},
					"finishReason": "STOP",
				},
			},
			"usageMetadata": map[string]any{
				"promptTokenCount":     30,
				"candidatesTokenCount": 12,
				"totalTokenCount":      42,
			},
		})
	}))
	t.Cleanup(server.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-flash",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := p.Generate(context.Background(), Request{
		System:   "You are a friendly goal mentor.",
		Messages: []Message{{Role: RoleUser, Content: "Summarize this week."}},
		Schema: &Schema{
			Name: "advice",
			Definition: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"summary":       map[string]any{"type": "string"},
					"suggestion":    map[string]any{"type": "string"},
					"encouragement": map[string]any{"type": "string"},
				},
				"required": []any{"summary", "suggestion", "encouragement"},
			},
		},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotPath, "gemini-2.5-flash:generateContent") {
		t.Errorf("path = %q, want the generateContent endpoint", gotPath)
	}
	if resp.Usage.InputTokens != 30 || resp.Usage.OutputTokens != 12 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Errorf("stop reason = %q, want end", resp.StopReason)
	}
}

func TestGeminiProvider_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	t.Cleanup(server.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-flash",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	var rlErr *ErrRateLimit
	if !errors.As(err, &rlErr) {
		t.Fatalf("expected ErrRateLimit, got %T: %v", err, err)
	}
}

func TestMapGeminiError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		rateLimit   bool
		unavailable bool
	}{
		{"429", genai.APIError{Code: http.StatusTooManyRequests}, true, false},
		{"wrapped 429", fmt.Errorf("generate: %w", genai.APIError{Code: http.StatusTooManyRequests}), true, false},
		{"503", genai.APIError{Code: http.StatusServiceUnavailable}, false, true},
		{"400", genai.APIError{Code: http.StatusBadRequest}, false, false},
		{"network", errors.New("connection refused"), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapGeminiError(tt.err)
			var rl *ErrRateLimit
			if errors.As(got, &rl) != tt.rateLimit {
				t.Errorf("rate limit = %v, want %v (%v)", !tt.rateLimit, tt.rateLimit, got)
			}
			var pu *ErrProviderUnavailable
			if errors.As(got, &pu) != tt.unavailable {
				t.Errorf("unavailable = %v, want %v (%v)", !tt.unavailable, tt.unavailable, got)
			}
			if got.Error() == "" || !strings.Contains(got.Error(), tt.err.Error()) {
				t.Errorf("mapped error %q lost %q", got, tt.err)
			}
		})
	}
}
