package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func hintSchema() *Schema {
	return &Schema{
		Name:        "code-hint",
		Description: "A tutoring hint for a code draft",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"hint":   map[string]any{"type": "string"},
				"passes": map[string]any{"type": "integer", "minimum": 0},
				"level":  map[string]any{"type": "string", "enum": []any{"gentle", "direct", "solution"}},
			},
			"required": []any{"hint", "level"},
		},
	}
}

func TestValidateResponse_Accepts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"all fields", `{"hint":"Check the loop bound.","passes":3,"level":"gentle"}`},
		{"optional field omitted", `{"hint":"Initialize sum before the loop.","level":"direct"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateResponse(hintSchema(), json.RawMessage(tt.raw)); err != nil {
				t.Fatalf("validateResponse: %v", err)
			}
		})
	}
}

func TestValidateResponse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing required field", `{"hint":"Check the loop bound."}`},
		{"wrong type", `{"hint":"Check the loop bound.","passes":"three","level":"gentle"}`},
		{"value outside enum", `{"hint":"Just use memcpy.","level":"spoiler"}`},
		{"malformed JSON", `{not json}`},
		{"empty response", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(hintSchema(), json.RawMessage(tt.raw))
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("error = %T (%v), want *ErrInvalidResponse", err, err)
			}
		})
	}
}

func TestValidateResponse_NilSchemaPassesAnything(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("validateResponse: %v", err)
	}
}

func TestValidateResponse_NestedObjects(t *testing.T) {
	schema := &Schema{
		Name:        "review-notes",
		Description: "Line comments on a draft",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"draft": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"language": map[string]any{"type": "string"},
					},
					"required": []any{"language"},
				},
				"lines": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "integer"},
				},
			},
			"required": []any{"draft", "lines"},
		},
	}

	valid := json.RawMessage(`{"draft":{"language":"c"},"lines":[12,14,15]}`)
	if err := validateResponse(schema, valid); err != nil {
		t.Fatalf("validateResponse: %v", err)
	}

	invalid := json.RawMessage(`{"draft":{"language":"c"},"lines":["not","ints"]}`)
	if err := validateResponse(schema, invalid); err == nil {
		t.Fatal("expected an error for wrong array item type")
	}
}
