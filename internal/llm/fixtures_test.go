package llm

import "encoding/json"

// adviceSchema has the shape of the mentor's weekly advice reply.
func adviceSchema() *Schema {
	return &Schema{
		Name:        "advice-fixture",
		Description: "Weekly progress summary, a suggestion for today and an encouragement",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"summary":       map[string]any{"type": "string"},
				"suggestion":    map[string]any{"type": "string"},
				"encouragement": map[string]any{"type": "string"},
			},
			"required":             []any{"summary", "suggestion", "encouragement"},
			"additionalProperties": false,
		},
	}
}

// goalPlanSchema nests objects and arrays the way a per-activity goal
// breakdown would.
func goalPlanSchema() *Schema {
	return &Schema{
		Name:        "goal-plan-fixture",
		Description: "Sessions still needed per activity",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"week": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"days_left": map[string]any{"type": "integer", "minimum": 0, "maximum": 7},
					},
					"required": []any{"days_left"},
				},
				"activities": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"name":     map[string]any{"type": "string"},
							"sessions": map[string]any{"type": "integer", "minimum": 0},
							"mood":     map[string]any{"type": "string", "enum": []any{"easy", "steady", "push"}},
						},
						"required": []any{"name", "sessions"},
					},
				},
			},
			"required": []any{"week", "activities"},
		},
	}
}

var adviceJSON = json.RawMessage(`{"summary":"Two piano sessions so far this week.","suggestion":"Read for 20 minutes today.","encouragement":"Great job! 🌟"}`)

func mentorRequest() Request {
	req := SingleTurn("You are a friendly mentor for a child.", "Piano: 2 of 3 sessions done, 4 days left.", adviceSchema())
	req.MaxTokens = 500
	req.Temperature = 0.7
	return req
}
