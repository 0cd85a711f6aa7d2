package llm

import (
	"context"
	"errors"
	"testing"
)

func TestMockProvider_ReplaysScript(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: adviceJSON, Usage: Usage{InputTokens: 120, OutputTokens: 40, TotalTokens: 160}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("quota")}},
	)
	ctx := WithPurpose(context.Background(), PurposeMentor)

	resp, err := mock.Generate(ctx, mentorRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != string(adviceJSON) || resp.Usage.TotalTokens != 160 {
		t.Errorf("response = %+v", resp)
	}
	if resp.StopReason != StopEnd || resp.Model != ProviderMock {
		t.Errorf("stop = %q, model = %q", resp.StopReason, resp.Model)
	}

	_, err = mock.Generate(ctx, mentorRequest())
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T", err)
	}

	// An exhausted script looks like an unreachable provider.
	_, err = mock.Generate(context.Background(), mentorRequest())
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", err)
	}
	if unavail.Error() != "LLM provider unavailable" {
		t.Errorf("error = %q", unavail.Error())
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider()
	mock.AddResponse(MockResponse{Content: adviceJSON})

	req := mentorRequest()
	_, _ = mock.Generate(WithPurpose(context.Background(), PurposeMentor), req)
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 2 {
		t.Fatalf("calls = %d, want 2", mock.CallCount())
	}
	first := mock.Calls[0]
	if first.Purpose != PurposeMentor || first.System != req.System || first.Schema.Name != "advice-fixture" {
		t.Errorf("first call = %+v", first)
	}
	if mock.Calls[1].Purpose != PurposeUnknown {
		t.Errorf("unlabelled purpose = %q", mock.Calls[1].Purpose)
	}
}

func TestSingleTurn(t *testing.T) {
	req := SingleTurn("sys", "How was my week?", nil)
	if req.System != "sys" || len(req.Messages) != 1 || req.Messages[0].Role != RoleUser {
		t.Fatalf("request = %+v", req)
	}
	if req.Schema != nil || req.MaxTokens != 0 {
		t.Errorf("unexpected defaults: %+v", req)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeUnknown {
		t.Fatalf("purpose = %q, want %q", p, PurposeUnknown)
	}
	if p := PurposeFrom(WithPurpose(ctx, "")); p != PurposeUnknown {
		t.Errorf("empty purpose = %q, want %q", p, PurposeUnknown)
	}
	if p := PurposeFrom(WithPurpose(ctx, PurposeMentor)); p != PurposeMentor {
		t.Errorf("purpose = %q, want %q", p, PurposeMentor)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&ErrRateLimit{Err: errors.New("quota")}, "rate limited: quota"},
		{&ErrRateLimit{RetryAfter: 2e9, Err: errors.New("quota")}, "rate limited, retry after 2s: quota"},
		{&ErrInvalidResponse{Err: errors.New("missing summary")}, "invalid LLM response: missing summary"},
		{&ErrProviderUnavailable{Err: errors.New("dial tcp")}, "LLM provider unavailable: dial tcp"},
		{&ErrMaxTokensExceeded{}, "LLM response truncated at max tokens"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"gemini without key", Config{Provider: ProviderGemini}, true},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "g-test"}}, false},
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openrouter with key", Config{Provider: ProviderOpenRouter, OpenRouter: OpenRouterConfig{APIKey: "sk-or"}}, false},
		{"mock needs no key", Config{Provider: ProviderMock}, false},
		{"unknown provider", Config{Provider: "ollama"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
