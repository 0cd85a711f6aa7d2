package mentor

import "github.com/abhisek/kidtimer/internal/llm"

// AdviceSchema defines the JSON schema for weekly goal advice.
var AdviceSchema = &llm.Schema{
	Name:        "mentor-advice",
	Description: "Weekly goal progress summary, today's suggestion and an encouragement for a child",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Summary of this week's progress (1-2 sentences)",
			},
			"suggestion": map[string]any{
				"type":        "string",
				"description": "Concrete suggestion for today naming 1-2 activities, considering the days left",
			},
			"encouragement": map[string]any{
				"type":        "string",
				"description": "One encouraging sentence, emoji allowed",
			},
		},
		"required":             []any{"summary", "suggestion", "encouragement"},
		"additionalProperties": false,
	},
}
