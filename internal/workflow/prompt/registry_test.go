package prompt

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// promptVars 每个模板的完整变量集，用于渲染冒烟
var promptVars = map[PromptID]map[string]any{
	PromptCampaignConceptV1: {
		"user_prompt": "a lighthouse haunted by its keeper",
	},
	PromptTocDisplayV1: {
		"concept": "A haunted lighthouse on a stormy coast.",
	},
	PromptTocHomebreweryV1: {
		"concept": "The Keeper's Light\nThe Drowned Cellar",
	},
	PromptSectionContentV1: {
		"campaign_concept": "A haunted lighthouse on a stormy coast.",
		"existing_summary": "The Keeper's Light",
		"creation_prompt":  "(none)",
		"section_title":    "The Drowned Cellar",
		"section_type":     "location",
	},
	PromptSectionTitlesV1: {
		"concept": "A haunted lighthouse on a stormy coast.",
		"count":   5,
	},
	PromptCharacterChatV1: {
		"character_name":  "Old Maren",
		"character_notes": "Former lighthouse keeper, speaks in riddles.",
		"memory_context":  "(nothing yet)",
		"user_message":    "What happened here?",
	},
	PromptMemorySummaryV1: {
		"previous_summary": "(none)",
		"transcript":       "User: Hello\nCharacter: Well met.",
	},
}

func TestRegistryRendersAllTemplates(t *testing.T) {
	r := NewRegistry()

	for id, vars := range promptVars {
		t.Run(string(id), func(t *testing.T) {
			tpl, err := r.ChatTemplate(id)
			require.NoError(t, err)

			msgs, err := tpl.Format(context.Background(), vars)
			require.NoError(t, err)
			require.Len(t, msgs, 2)

			assert.Equal(t, schema.System, msgs[0].Role)
			assert.Equal(t, schema.User, msgs[1].Role)
			assert.NotEmpty(t, msgs[0].Content)
			assert.NotEmpty(t, msgs[1].Content)
		})
	}
}

func TestRegistryCachesTemplates(t *testing.T) {
	r := NewRegistry()

	first, err := r.ChatTemplate(PromptTocDisplayV1)
	require.NoError(t, err)
	second, err := r.ChatTemplate(PromptTocDisplayV1)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestRegistryUnknownPrompt(t *testing.T) {
	r := NewRegistry()
	_, err := r.ChatTemplate(PromptID("does_not_exist"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown prompt id")
}

func TestRegistryNilReceiver(t *testing.T) {
	var r *Registry
	_, err := r.ChatTemplate(PromptTocDisplayV1)
	require.Error(t, err)
}
