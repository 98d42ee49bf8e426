package tutor

import "github.com/kenroads/ntsabuddy/internal/llm"

// QuizSchema is the structured output contract for quiz generation. The
// root is an object because strict JSON schema modes reject array roots.
var QuizSchema = &llm.Schema{
	Name:        "ntsa-quiz",
	Description: "Multiple-choice questions on Kenyan driving rules",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question shown to the learner",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    2,
							"description": "Short answer options",
						},
						"correctAnswerIndex": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"description": "Zero-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One sentence explaining the correct answer",
						},
					},
					"required":             []any{"question", "options", "correctAnswerIndex", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
