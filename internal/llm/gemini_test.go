package llm

import (
	"testing"
)

func TestGeminiAliases(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.name, geminiAliases); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint":   map[string]any{"type": "string"},
			"passes": map[string]any{"type": "integer"},
			"level":  map[string]any{"type": "string", "enum": []any{"gentle", "direct", "solution"}},
			"lines": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
		},
		"required": []any{"hint", "level"},
	}

	schema := geminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("type = %s, want OBJECT", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("got %d properties, want 4", len(schema.Properties))
	}
	if schema.Properties["hint"].Type != "STRING" {
		t.Errorf("hint type = %s, want STRING", schema.Properties["hint"].Type)
	}
	if schema.Properties["passes"].Type != "INTEGER" {
		t.Errorf("passes type = %s, want INTEGER", schema.Properties["passes"].Type)
	}
	if len(schema.Properties["level"].Enum) != 3 {
		t.Errorf("got %d enum values, want 3", len(schema.Properties["level"].Enum))
	}
	if schema.Properties["lines"].Type != "ARRAY" {
		t.Errorf("lines type = %s, want ARRAY", schema.Properties["lines"].Type)
	}
	if schema.Properties["lines"].Items.Type != "INTEGER" {
		t.Errorf("lines items type = %s, want INTEGER", schema.Properties["lines"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("got %d required fields, want 2", len(schema.Required))
	}
}
