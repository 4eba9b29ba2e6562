package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"campaign-forge-api/internal/domain/entity"
	"campaign-forge-api/internal/domain/service"
	"campaign-forge-api/internal/infrastructure/llm"
	rediscache "campaign-forge-api/internal/infrastructure/persistence/redis"
	workflowprompt "campaign-forge-api/internal/workflow/prompt"
	apperrors "campaign-forge-api/pkg/errors"
	"campaign-forge-api/pkg/logger"
)

// 业务操作标识，随调用进入指标与用量流水
const (
	OpGenerateText           = "generate_text"
	OpGenerateConcept        = "generate_concept"
	OpGenerateToc            = "generate_toc"
	OpGenerateTitles         = "generate_titles"
	OpGenerateSectionContent = "generate_section_content"
	OpGenerateHomebreweryToc = "generate_homebrewery_toc"
	OpCharacterChat          = "character_chat"
	OpMemorySummary          = "memory_summary"
)

// GenerateHints 调用方可携带的模型提示与归属信息
type GenerateHints struct {
	// Provider 显式供应商，最高优先级
	Provider string
	// Model 模型标识，可为复合形式
	Model string
	// EntityPreference 所属实体保存的复合偏好
	EntityPreference string
	// UserID 发起用户
	UserID string

	Temperature *float32
	MaxTokens   *int
}

// GenerateOutput 单次生成结果
type GenerateOutput struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Service 生成服务
//
// 所有供应商共用这一份实现：模板渲染、参数归一、错误归一与
// 指标标记都在这里完成，后端只负责传输。
type Service struct {
	resolver *Resolver
	prompts  *workflowprompt.Registry
	cache    *rediscache.Cache
	registry *llm.Registry
	// catalogTTL 模型目录缓存时长
	catalogTTL time.Duration
}

// NewService 创建生成服务
func NewService(resolver *Resolver, prompts *workflowprompt.Registry, cache *rediscache.Cache, registry *llm.Registry, catalogTTL time.Duration) *Service {
	if catalogTTL <= 0 {
		catalogTTL = 10 * time.Minute
	}
	return &Service{
		resolver:   resolver,
		prompts:    prompts,
		cache:      cache,
		registry:   registry,
		catalogTTL: catalogTTL,
	}
}

// HealthCheck 探测当前兜底供应商是否可用
func (s *Service) HealthCheck(ctx context.Context) error {
	res, err := s.resolver.Resolve(ctx, ResolveInput{})
	if err != nil {
		return err
	}
	if err := res.Backend.HealthCheck(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.CodeServiceUnavailable,
			"provider "+string(res.Provider)+" health check failed")
	}
	return nil
}

// GenerateText 自由文本生成，prompt 原样作为用户消息
func (s *Service) GenerateText(ctx context.Context, promptText string, hints GenerateHints) (*GenerateOutput, error) {
	promptText = strings.TrimSpace(promptText)
	if promptText == "" {
		return nil, apperrors.ErrValidationFailed.WithDetail("prompt is required")
	}

	msgs := []*schema.Message{schema.UserMessage(promptText)}
	return s.generate(ctx, OpGenerateText, msgs, hints)
}

// GenerateConcept 生成战役概念
func (s *Service) GenerateConcept(ctx context.Context, userPrompt string, hints GenerateHints) (*GenerateOutput, error) {
	userPrompt = strings.TrimSpace(userPrompt)
	if userPrompt == "" {
		return nil, apperrors.ErrValidationFailed.WithDetail("prompt is required")
	}

	msgs, err := s.formatTemplate(ctx, workflowprompt.PromptCampaignConceptV1, map[string]any{
		"user_prompt": userPrompt,
	})
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, OpGenerateConcept, msgs, hints)
}

// TocOutput 目录生成结果，Entries 为解析后的条目
type TocOutput struct {
	Raw     string     `json:"raw"`
	Entries []TocEntry `json:"entries"`
}

// GenerateToc 为战役概念生成目录并解析
func (s *Service) GenerateToc(ctx context.Context, concept string, hints GenerateHints) (*TocOutput, error) {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return nil, apperrors.ErrValidationFailed.WithDetail("concept is required")
	}

	msgs, err := s.formatTemplate(ctx, workflowprompt.PromptTocDisplayV1, map[string]any{
		"concept": concept,
	})
	if err != nil {
		return nil, err
	}

	out, err := s.generate(ctx, OpGenerateToc, msgs, hints)
	if err != nil {
		return nil, err
	}

	entries := ParseToc(out.Text)
	for i := range entries {
		entries[i].Type = InferSectionType(entries[i].Title, entries[i].Type)
	}
	return &TocOutput{Raw: out.Text, Entries: entries}, nil
}

// GenerateTitles 生成指定数量的章节标题
//
// 模型多给则截断，少给则以 "Untitled Section N" 补齐，保证数量恒等。
func (s *Service) GenerateTitles(ctx context.Context, concept string, count int, hints GenerateHints) ([]string, error) {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return nil, apperrors.ErrValidationFailed.WithDetail("concept is required")
	}
	if count <= 0 {
		return nil, apperrors.ErrValidationFailed.WithDetail("count must be positive")
	}

	msgs, err := s.formatTemplate(ctx, workflowprompt.PromptSectionTitlesV1, map[string]any{
		"concept": concept,
		"count":   count,
	})
	if err != nil {
		return nil, err
	}

	out, err := s.generate(ctx, OpGenerateTitles, msgs, hints)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, count)
	for _, line := range strings.Split(out.Text, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		if line == "" {
			continue
		}
		titles = append(titles, line)
		if len(titles) == count {
			break
		}
	}
	for len(titles) < count {
		titles = append(titles, fmt.Sprintf("Untitled Section %d", len(titles)+1))
	}
	return titles, nil
}

// SectionContentInput 章节正文生成的输入
type SectionContentInput struct {
	CampaignConcept string
	// ExistingSummary 既有章节的纯文本摘要，可为空
	ExistingSummary string
	// CreationPrompt 调用方附加的创作指示，与类型化指令合并，可为空
	CreationPrompt string
	SectionTitle   string
	SectionType    string

	Hints GenerateHints
}

// GenerateSectionContent 按章节类型生成正文
func (s *Service) GenerateSectionContent(ctx context.Context, in SectionContentInput) (*GenerateOutput, error) {
	title := strings.TrimSpace(in.SectionTitle)
	if title == "" {
		return nil, apperrors.ErrValidationFailed.WithDetail("section title is required")
	}
	sectionType := in.SectionType
	if sectionType == "" {
		sectionType = entity.SectionTypeGeneric
	}

	existingSummary := strings.TrimSpace(in.ExistingSummary)
	if existingSummary == "" {
		existingSummary = "(none)"
	}
	creationPrompt := strings.TrimSpace(in.CreationPrompt)
	if creationPrompt == "" {
		creationPrompt = "(none)"
	}

	msgs, err := s.formatTemplate(ctx, workflowprompt.PromptSectionContentV1, map[string]any{
		"campaign_concept": strings.TrimSpace(in.CampaignConcept),
		"existing_summary": existingSummary,
		"creation_prompt":  creationPrompt,
		"section_title":    title,
		"section_type":     sectionType,
	})
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, OpGenerateSectionContent, msgs, in.Hints)
}

// GenerateHomebreweryToc 生成 Homebrewery 风格目录
//
// summary 为既有章节标题的纯文本汇总，由导出方准备。
func (s *Service) GenerateHomebreweryToc(ctx context.Context, summary string, hints GenerateHints) (*GenerateOutput, error) {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, apperrors.ErrValidationFailed.WithDetail("section summary is required")
	}

	msgs, err := s.formatTemplate(ctx, workflowprompt.PromptTocHomebreweryV1, map[string]any{
		"concept": summary,
	})
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, OpGenerateHomebreweryToc, msgs, hints)
}

// CharacterChatInput 角色扮演回复的生成输入
type CharacterChatInput struct {
	CharacterName string
	// CharacterNotes 角色设定笔记
	CharacterNotes string
	// MemoryContext 既有记忆摘要，可为空
	MemoryContext string
	// History 短期逐字上下文，按时间顺序
	History []entity.MessageEntry
	// UserMessage 本轮用户消息
	UserMessage string

	Hints GenerateHints
}

// GenerateCharacterResponse 生成角色扮演回复
func (s *Service) GenerateCharacterResponse(ctx context.Context, in CharacterChatInput) (*GenerateOutput, error) {
	if strings.TrimSpace(in.UserMessage) == "" {
		return nil, apperrors.ErrValidationFailed.WithDetail("message is required")
	}
	if strings.TrimSpace(in.CharacterName) == "" {
		return nil, apperrors.ErrValidationFailed.WithDetail("character name is required")
	}

	memory := strings.TrimSpace(in.MemoryContext)
	if memory == "" {
		memory = "(nothing yet)"
	}

	msgs, err := s.formatTemplate(ctx, workflowprompt.PromptCharacterChatV1, map[string]any{
		"character_name":  in.CharacterName,
		"character_notes": strings.TrimSpace(in.CharacterNotes),
		"memory_context":  memory,
		"user_message":    strings.TrimSpace(in.UserMessage),
	})
	if err != nil {
		return nil, err
	}

	// 历史消息插在 system 与本轮用户消息之间
	if len(msgs) >= 2 && len(in.History) > 0 {
		spliced := make([]*schema.Message, 0, len(msgs)+len(in.History))
		spliced = append(spliced, msgs[:len(msgs)-1]...)
		for _, m := range in.History {
			switch m.Speaker {
			case entity.SpeakerCharacter:
				spliced = append(spliced, schema.AssistantMessage(m.Text, nil))
			default:
				spliced = append(spliced, schema.UserMessage(m.Text))
			}
		}
		spliced = append(spliced, msgs[len(msgs)-1])
		msgs = spliced
	}

	return s.generate(ctx, OpCharacterChat, msgs, in.Hints)
}

// SummarizeMemory 压缩对话片段为记忆摘要
func (s *Service) SummarizeMemory(ctx context.Context, previousSummary, transcript string, hints GenerateHints) (*GenerateOutput, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, apperrors.ErrValidationFailed.WithDetail("transcript is required")
	}
	if strings.TrimSpace(previousSummary) == "" {
		previousSummary = "(none)"
	}

	msgs, err := s.formatTemplate(ctx, workflowprompt.PromptMemorySummaryV1, map[string]any{
		"previous_summary": previousSummary,
		"transcript":       transcript,
	})
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, OpMemorySummary, msgs, hints)
}

// ListModels 汇总全部可用供应商的模型目录
//
// 目录经 Redis 缓存，单个供应商枚举失败时落到其静态兜底列表，
// 整个操作尽力而为，从不因单一供应商失败而报错。
func (s *Service) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	var all []llm.ModelInfo
	for _, p := range s.registry.FallbackChain() {
		if !s.registry.Configured(p) {
			continue
		}
		models, err := s.providerModels(ctx, p)
		if err != nil {
			logger.Warn(ctx, "failed to list models", "provider", string(p), "error", err.Error())
			continue
		}
		all = append(all, models...)
	}
	return all, nil
}

func (s *Service) providerModels(ctx context.Context, p llm.Provider) ([]llm.ModelInfo, error) {
	loader := func() (interface{}, error) {
		backend, err := s.registry.Backend(ctx, p)
		if err != nil {
			return nil, err
		}
		return backend.ListModels(ctx)
	}

	if s.cache == nil {
		backend, err := s.registry.Backend(ctx, p)
		if err != nil {
			return nil, err
		}
		return backend.ListModels(ctx)
	}

	raw, err := s.cache.GetOrLoadSafe(ctx, rediscache.BuildModelCatalogKey(string(p)), s.catalogTTL, loader)
	if err != nil {
		return nil, err
	}

	var models []llm.ModelInfo
	if err := json.Unmarshal(raw, &models); err != nil {
		return nil, err
	}
	return models, nil
}

// formatTemplate 渲染提示词模板，模板缺失映射为专属错误码
func (s *Service) formatTemplate(ctx context.Context, id workflowprompt.PromptID, vars map[string]any) ([]*schema.Message, error) {
	tpl, err := s.prompts.ChatTemplate(id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePromptTemplateMissing,
			"prompt template unavailable: "+string(id))
	}

	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeGenerationFailed,
			"failed to render prompt template "+string(id))
	}
	return msgs, nil
}

// generate 解析供应商、执行调用并做输出归一
func (s *Service) generate(ctx context.Context, operation string, msgs []*schema.Message, hints GenerateHints) (*GenerateOutput, error) {
	res, err := s.resolver.Resolve(ctx, ResolveInput{
		ExplicitProvider: hints.Provider,
		RequestModel:     hints.Model,
		EntityPreference: hints.EntityPreference,
		UserID:           hints.UserID,
	})
	if err != nil {
		return nil, err
	}

	ctx = service.WithOperation(ctx, operation)
	ctx = service.WithProvider(ctx, string(res.Provider))
	ctx = service.WithUserID(ctx, hints.UserID)

	msg, err := res.Backend.Generate(ctx, msgs, buildModelOptions(res.Model, hints)...)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, apperrors.CodeLLMProviderError,
			"provider "+string(res.Provider)+" call failed")
	}

	content := ""
	if msg != nil {
		content = strings.TrimSpace(msg.Content)
	}
	if content == "" {
		return nil, apperrors.ErrGenerationFailed.WithDetail(
			"provider " + string(res.Provider) + " returned empty content")
	}

	return &GenerateOutput{
		Text:     content,
		Provider: string(res.Provider),
		Model:    res.Model,
	}, nil
}

// buildModelOptions 组装调用级模型参数，温度收敛到 [0,1]
func buildModelOptions(modelName string, hints GenerateHints) []model.Option {
	opts := make([]model.Option, 0, 3)

	if hints.Temperature != nil {
		t := *hints.Temperature
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		opts = append(opts, model.WithTemperature(t))
	}
	if hints.MaxTokens != nil && *hints.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(*hints.MaxTokens))
	}
	if strings.TrimSpace(modelName) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(modelName)))
	}
	return opts
}
