package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-forge-api/internal/config"
	"campaign-forge-api/internal/infrastructure/llm"
	workflowprompt "campaign-forge-api/internal/workflow/prompt"
	apperrors "campaign-forge-api/pkg/errors"
)

// newUnavailableService 构建一个没有任何可用供应商的服务，
// 输入校验之后的调用在解析阶段失败，不触达网络。
func newUnavailableService() *Service {
	registry := llm.NewRegistry(&config.Config{})
	resolver := NewResolver(registry, nil, nil, nil)
	return NewService(resolver, workflowprompt.NewRegistry(), nil, registry, 0)
}

func TestServiceInputValidation(t *testing.T) {
	s := newUnavailableService()
	ctx := context.Background()

	_, err := s.GenerateText(ctx, "   ", GenerateHints{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	_, err = s.GenerateConcept(ctx, "", GenerateHints{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	_, err = s.GenerateToc(ctx, "", GenerateHints{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	_, err = s.GenerateTitles(ctx, "a concept", 0, GenerateHints{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	_, err = s.GenerateSectionContent(ctx, SectionContentInput{
		CampaignConcept: "a concept",
		ExistingSummary: "Goblin Camp",
		CreationPrompt:  "grim tone",
		SectionType:     "location",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	_, err = s.GenerateHomebreweryToc(ctx, "", GenerateHints{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	_, err = s.SummarizeMemory(ctx, "prev", "", GenerateHints{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	_, err = s.GenerateCharacterResponse(ctx, CharacterChatInput{UserMessage: ""})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	_, err = s.GenerateCharacterResponse(ctx, CharacterChatInput{UserMessage: "hi"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestServiceNoProviderAvailable(t *testing.T) {
	s := newUnavailableService()

	_, err := s.GenerateText(context.Background(), "Write a hook.", GenerateHints{})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeServiceUnavailable))
}

func TestServiceExplicitUnknownProvider(t *testing.T) {
	s := newUnavailableService()

	_, err := s.GenerateText(context.Background(), "Write a hook.", GenerateHints{Provider: "foo"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}
