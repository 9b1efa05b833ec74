package chat

import "github.com/jammy0903/C-ode-to-you-sub001/internal/llm"

// HintSchema defines the JSON schema for structured hint responses.
var HintSchema = &llm.Schema{
	Name:        "code-hint",
	Description: "A nudge toward the next step without revealing the solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint": map[string]any{
				"type":        "string",
				"description": "One or two sentences naming what is blocking the learner right now",
			},
			"next_step": map[string]any{
				"type":        "string",
				"description": "A concrete action the learner can take immediately",
			},
			"confidence": map[string]any{
				"type":        "number",
				"minimum":     0.0,
				"maximum":     1.0,
				"description": "How sure the tutor is that the hint addresses the actual blocker",
			},
		},
		"required":             []any{"hint", "next_step", "confidence"},
		"additionalProperties": false,
	},
}
