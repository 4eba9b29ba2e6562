package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campaign-forge-api/internal/infrastructure/llm"
)

func TestParseModelRef(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ModelRef
	}{
		{
			name:  "compound identifier",
			input: "openai/gpt-4o",
			want:  ModelRef{Provider: llm.ProviderOpenAI, Model: "gpt-4o"},
		},
		{
			name:  "bare model name",
			input: "gpt-4o",
			want:  ModelRef{Model: "gpt-4o"},
		},
		{
			name:  "unknown prefix kept as model name",
			input: "foo/bar",
			want:  ModelRef{Model: "foo/bar"},
		},
		{
			name:  "model containing slash splits at first separator only",
			input: "local/library/llama3:8b",
			want:  ModelRef{Provider: llm.ProviderLocal, Model: "library/llama3:8b"},
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  gemini/gemini-1.5-pro  ",
			want:  ModelRef{Provider: llm.ProviderGemini, Model: "gemini-1.5-pro"},
		},
		{
			name:  "empty input",
			input: "",
			want:  ModelRef{},
		},
		{
			name:  "leading slash is not a compound form",
			input: "/gpt-4o",
			want:  ModelRef{Model: "/gpt-4o"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseModelRef(tt.input))
		})
	}
}

func TestModelRefString(t *testing.T) {
	assert.Equal(t, "openai/gpt-4o", ModelRef{Provider: llm.ProviderOpenAI, Model: "gpt-4o"}.String())
	assert.Equal(t, "gpt-4o", ModelRef{Model: "gpt-4o"}.String())
	assert.Equal(t, "openai", ModelRef{Provider: llm.ProviderOpenAI}.String())
	assert.Equal(t, "", ModelRef{}.String())
}

func TestModelRefIsZero(t *testing.T) {
	assert.True(t, ModelRef{}.IsZero())
	assert.False(t, ModelRef{Model: "gpt-4o"}.IsZero())
	assert.False(t, ModelRef{Provider: llm.ProviderOpenAI}.IsZero())
}
