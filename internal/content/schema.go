package content

import "github.com/abhisek/tutorloop/internal/llm"

// TurnSchema is the JSON schema for one generated lesson turn. Every field
// is required so the schema also works in OpenAI strict mode: phases
// without a question send an empty options array and an empty
// correct_answer_id.
var TurnSchema = &llm.Schema{
	Name:        "tutor-turn",
	Description: "One turn of a short tutoring lesson: the phase, the learner-facing screen and, for questions, the correct option",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"phase": map[string]any{
				"type":        "string",
				"enum":        []any{"intro", "teach", "ask", "evaluate", "report", "completed", "paused"},
				"description": "The phase this turn belongs to, copied from the request",
			},
			"state": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"questionIndex": map[string]any{"type": "integer", "minimum": 0},
					"score":         map[string]any{"type": "integer", "minimum": 0},
				},
				"required":             []any{"questionIndex", "score"},
				"additionalProperties": false,
				"description":          "The session state, copied from the request",
			},
			"interface": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "Short heading for the screen",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "Main text. For questions, the question itself",
					},
					"instructions": map[string]any{
						"type":        "string",
						"description": "One line telling the learner what to do next",
					},
					"input_type": map[string]any{
						"type":        "string",
						"enum":        []any{"continue", "multiple_choice", "text", "none"},
						"description": "multiple_choice for questions, continue to move on, text while paused, none when finished",
					},
					"options": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"id":    map[string]any{"type": "string"},
								"label": map[string]any{"type": "string"},
							},
							"required":             []any{"id", "label"},
							"additionalProperties": false,
						},
						"description": "3 or 4 answer options for questions. Empty array otherwise.",
					},
					"progress": map[string]any{
						"type":        "integer",
						"minimum":     0,
						"maximum":     100,
						"description": "Lesson progress percentage, copied from the request",
					},
				},
				"required":             []any{"title", "content", "instructions", "input_type", "options", "progress"},
				"additionalProperties": false,
			},
			"correct_answer_id": map[string]any{
				"type":        "string",
				"description": "The id of the correct option for questions. Empty string otherwise.",
			},
		},
		"required":             []any{"phase", "state", "interface", "correct_answer_id"},
		"additionalProperties": false,
	},
}
