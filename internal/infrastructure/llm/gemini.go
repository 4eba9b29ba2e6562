package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"campaign-forge-api/internal/config"
	"campaign-forge-api/internal/domain/service"
	"campaign-forge-api/pkg/metrics"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// geminiModelEndpoint Gemini 模型目录的 REST 端点
const geminiModelEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiBackend 基于 Google genai SDK 的聊天后端
//
// Gemini 没有多轮消息级别的角色协议兼容层，这里将系统提示与
// 对话消息拼接为单个文本 prompt 后提交。
type GeminiBackend struct {
	client  *genai.Client
	cfg     config.ProviderConfig
	apiKey  string
	httpCli *http.Client
}

// NewGeminiBackend 创建 Gemini 后端
func NewGeminiBackend(ctx context.Context, cfg config.ProviderConfig, apiKey string) (*GeminiBackend, error) {
	if apiKey == "" {
		apiKey = cfg.APIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GeminiBackend{
		client:  client,
		cfg:     cfg,
		apiKey:  apiKey,
		httpCli: &http.Client{Timeout: timeout},
	}, nil
}

// Provider 实现 ChatBackend
func (b *GeminiBackend) Provider() Provider {
	return ProviderGemini
}

// Generate 实现 ChatBackend
//
// 支持 WithModel 覆盖目标模型；温度与最大 token 数在 SDK 支持的
// 范围内透传，其余选项忽略。
func (b *GeminiBackend) Generate(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	modelName := b.cfg.Model
	common := model.GetCommonOptions(&model.Options{}, opts...)
	if common.Model != nil && *common.Model != "" {
		modelName = *common.Model
	}

	prompt := flattenMessages(messages)
	if prompt == "" {
		return nil, fmt.Errorf("gemini: empty prompt")
	}

	genCfg := &genai.GenerateContentConfig{}
	if common.Temperature != nil {
		genCfg.Temperature = common.Temperature
	}
	if common.MaxTokens != nil {
		genCfg.MaxOutputTokens = int32(*common.MaxTokens)
	}

	// Gemini 不经过 Eino 回调链，调用指标在此直接上报
	operation := service.OperationFromContext(ctx)
	start := time.Now()
	record := func(status string) {
		metrics.LLMCallTotal.WithLabelValues(operation, string(ProviderGemini), modelName, status).Inc()
		metrics.LLMCallDuration.WithLabelValues(operation, string(ProviderGemini), modelName).Observe(time.Since(start).Seconds())
	}

	resp, err := b.client.Models.GenerateContent(ctx, modelName, genai.Text(prompt), genCfg)
	if err != nil {
		record("error")
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		record("error")
		return nil, fmt.Errorf("gemini: no content generated")
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		record("error")
		return nil, fmt.Errorf("gemini: empty content in response")
	}
	if cand.FinishReason == genai.FinishReasonSafety {
		record("error")
		return nil, fmt.Errorf("gemini: content blocked by safety filters")
	}

	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if part == nil {
			continue
		}
		text.WriteString(part.Text)
	}

	record("success")
	return &schema.Message{
		Role:    schema.Assistant,
		Content: text.String(),
	}, nil
}

// geminiModelListResponse Gemini 模型目录响应体
type geminiModelListResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels 实现 ChatBackend
func (b *GeminiBackend) ListModels(ctx context.Context) ([]ModelInfo, error) {
	models, err := b.fetchModels(ctx)
	if err == nil && len(models) > 0 {
		return models, nil
	}

	if len(b.cfg.FallbackModels) == 0 {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("gemini returned empty model list")
	}

	fallback := make([]ModelInfo, 0, len(b.cfg.FallbackModels))
	for _, id := range b.cfg.FallbackModels {
		fallback = append(fallback, ModelInfo{ID: id, Provider: string(ProviderGemini)})
	}
	return fallback, nil
}

// HealthCheck 实现 ChatBackend
func (b *GeminiBackend) HealthCheck(ctx context.Context) error {
	_, err := b.fetchModels(ctx)
	return err
}

func (b *GeminiBackend) fetchModels(ctx context.Context) ([]ModelInfo, error) {
	endpoint := geminiModelEndpoint
	if b.cfg.BaseURL != "" {
		endpoint = strings.TrimSuffix(b.cfg.BaseURL, "/") + "/models"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?key="+b.apiKey, nil)
	if err != nil {
		return nil, err
	}

	resp, err := b.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list gemini models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini model list returned status %d", resp.StatusCode)
	}

	var body geminiModelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode gemini model list: %w", err)
	}

	models := make([]ModelInfo, 0, len(body.Models))
	for _, m := range body.Models {
		models = append(models, ModelInfo{
			ID:       strings.TrimPrefix(m.Name, "models/"),
			Provider: string(ProviderGemini),
		})
	}
	return models, nil
}

// flattenMessages 将消息序列拼接为单个文本 prompt
func flattenMessages(messages []*schema.Message) string {
	var sb strings.Builder
	for _, msg := range messages {
		if msg == nil || msg.Content == "" {
			continue
		}
		switch msg.Role {
		case schema.System:
			sb.WriteString(msg.Content)
		case schema.User:
			sb.WriteString("User: ")
			sb.WriteString(msg.Content)
		case schema.Assistant:
			sb.WriteString("Assistant: ")
			sb.WriteString(msg.Content)
		default:
			sb.WriteString(msg.Content)
		}
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String())
}
