package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{"type": "string", "description": "topic name"},
			"level": map[string]any{"type": "string", "enum": []string{"easy", "medium", "hard"}},
			"cards": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
			"odd": map[string]any{"type": "tuple"},
		},
		"required": []any{"topic", "cards"},
	})

	if s.Type != genai.TypeObject {
		t.Fatalf("Type = %s, want OBJECT", s.Type)
	}
	if got := s.Properties["topic"]; got.Type != genai.TypeString || got.Description != "topic name" {
		t.Errorf("topic = %+v", got)
	}
	if got := s.Properties["level"].Enum; len(got) != 3 {
		t.Errorf("level enum = %v, want 3 values from a []string", got)
	}
	if got := s.Properties["cards"]; got.Type != genai.TypeArray || got.Items.Type != genai.TypeInteger {
		t.Errorf("cards = %+v", got)
	}
	if got := s.Properties["odd"].Type; got != genai.TypeString {
		t.Errorf("unknown type mapped to %s, want STRING", got)
	}
	if len(s.Required) != 2 {
		t.Errorf("Required = %v", s.Required)
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		provider, in, want string
	}{
		{ProviderGemini, "gemini-flash", "gemini-2.0-flash"},
		{ProviderGemini, "gemini-2.5-pro", "gemini-2.5-pro"},
		{ProviderAnthropic, "claude-sonnet", "claude-sonnet-4-20250514"},
		{ProviderOpenAI, "gpt-4o-mini", "gpt-4o-mini"},
		{ProviderOpenRouter, "gemini-flash", "gemini-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.provider, tt.in); got != tt.want {
			t.Errorf("resolveModel(%s, %q) = %q, want %q", tt.provider, tt.in, got, tt.want)
		}
	}
}
