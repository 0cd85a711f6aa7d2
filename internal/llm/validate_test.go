package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateResponse_Advice(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"complete", string(adviceJSON), false},
		{"empty strings are still strings", `{"summary":"","suggestion":"","encouragement":""}`, false},
		{"missing encouragement", `{"summary":"s","suggestion":"t"}`, true},
		{"extra field", `{"summary":"s","suggestion":"t","encouragement":"e","score":3}`, true},
		{"number instead of text", `{"summary":1,"suggestion":"t","encouragement":"e"}`, true},
		{"bare string", `"keep going!"`, true},
		{"malformed", `{summary: "s"}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(adviceSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got %T: %v", err, err)
			}
			if string(inv.Content) != tt.raw {
				t.Errorf("content = %s, want the raw reply", inv.Content)
			}
		})
	}
}

func TestValidateResponse_NilSchemaAcceptsText(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`Keep practicing!`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NestedGoalPlan(t *testing.T) {
	valid := json.RawMessage(`{"week":{"days_left":4},"activities":[{"name":"Piano","sessions":1,"mood":"steady"},{"name":"Reading","sessions":0}]}`)
	if err := validateResponse(goalPlanSchema(), valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	bad := map[string]string{
		"days left out of range": `{"week":{"days_left":9},"activities":[]}`,
		"sessions as text":       `{"week":{"days_left":4},"activities":[{"name":"Piano","sessions":"one"}]}`,
		"unknown mood":           `{"week":{"days_left":4},"activities":[{"name":"Piano","sessions":1,"mood":"lazy"}]}`,
		"activity without name":  `{"week":{"days_left":4},"activities":[{"sessions":1}]}`,
	}
	for name, raw := range bad {
		if err := validateResponse(goalPlanSchema(), json.RawMessage(raw)); err == nil {
			t.Errorf("%s: expected a validation error", name)
		}
	}
}

func TestValidateResponse_CompiledOncePerName(t *testing.T) {
	s := adviceSchema()
	if err := validateResponse(s, adviceJSON); err != nil {
		t.Fatalf("first validation: %v", err)
	}
	first, ok := compiled.Load(s.Name)
	if !ok {
		t.Fatal("schema not cached after validation")
	}
	if err := validateResponse(adviceSchema(), adviceJSON); err != nil {
		t.Fatalf("second validation: %v", err)
	}
	again, _ := compiled.Load(s.Name)
	if first != again {
		t.Error("schema compiled twice")
	}
}
