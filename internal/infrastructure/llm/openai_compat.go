package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"campaign-forge-api/internal/config"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// OpenAICompatBackend 基于 OpenAI 兼容协议的聊天后端
//
// openai、llama、deepseek 与 local（Ollama 等自托管网关）共用本实现，
// 仅 BaseURL、默认模型与凭证不同。
type OpenAICompatBackend struct {
	provider  Provider
	cfg       config.ProviderConfig
	chatModel model.BaseChatModel
	httpCli   *http.Client
}

// NewOpenAICompatBackend 创建 OpenAI 兼容后端
//
// apiKey 为已解析的最终凭证（可能来自用户覆盖），空串表示沿用配置值。
func NewOpenAICompatBackend(ctx context.Context, provider Provider, cfg config.ProviderConfig, apiKey string) (*OpenAICompatBackend, error) {
	if apiKey == "" {
		apiKey = cfg.APIKey
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      apiKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTokens:   &cfg.MaxTokens,
		Temperature: ptrFloat32(float32(cfg.Temperature)),
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model for %s: %w", provider, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	b := &OpenAICompatBackend{
		provider:  provider,
		cfg:       cfg,
		chatModel: chatModel,
		httpCli:   &http.Client{Timeout: timeout},
	}
	b.cfg.APIKey = apiKey
	return b, nil
}

// Provider 实现 ChatBackend
func (b *OpenAICompatBackend) Provider() Provider {
	return b.provider
}

// Generate 实现 ChatBackend
func (b *OpenAICompatBackend) Generate(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return b.chatModel.Generate(ctx, messages, opts...)
}

// modelListResponse OpenAI /models 响应体
type modelListResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels 实现 ChatBackend，枚举失败时回退到配置的静态列表
func (b *OpenAICompatBackend) ListModels(ctx context.Context) ([]ModelInfo, error) {
	models, err := b.fetchModels(ctx)
	if err == nil && len(models) > 0 {
		return models, nil
	}

	if len(b.cfg.FallbackModels) == 0 {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("provider %s returned empty model list", b.provider)
	}

	fallback := make([]ModelInfo, 0, len(b.cfg.FallbackModels))
	for _, id := range b.cfg.FallbackModels {
		fallback = append(fallback, ModelInfo{ID: id, Provider: string(b.provider)})
	}
	return fallback, nil
}

// HealthCheck 实现 ChatBackend
func (b *OpenAICompatBackend) HealthCheck(ctx context.Context) error {
	_, err := b.fetchModels(ctx)
	return err
}

func (b *OpenAICompatBackend) fetchModels(ctx context.Context) ([]ModelInfo, error) {
	base := strings.TrimSuffix(b.cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("provider %s has no base_url configured", b.provider)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/models", nil)
	if err != nil {
		return nil, err
	}
	if b.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	}

	resp, err := b.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list models from %s: %w", b.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider %s model list returned status %d", b.provider, resp.StatusCode)
	}

	var body modelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode model list from %s: %w", b.provider, err)
	}

	models := make([]ModelInfo, 0, len(body.Data))
	for _, m := range body.Data {
		models = append(models, ModelInfo{ID: m.ID, Provider: string(b.provider)})
	}
	return models, nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}
