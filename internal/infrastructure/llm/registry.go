package llm

import (
	"context"
	"fmt"
	"sync"

	"campaign-forge-api/internal/config"
)

// Registry 供应商后端注册表
//
// 在启动时根据配置构建，运行期只读。默认凭证的后端惰性创建并缓存，
// 携带用户覆盖凭证的后端每次按需创建，不进入缓存。
type Registry struct {
	cfg      *config.LLMConfig
	chain    []Provider
	backends map[Provider]ChatBackend
	mu       sync.RWMutex
}

// NewRegistry 创建供应商注册表
func NewRegistry(cfg *config.Config) *Registry {
	chain := make([]Provider, 0, len(cfg.LLM.FallbackChain))
	for _, name := range cfg.LLM.FallbackChain {
		if p, ok := ParseProvider(name); ok {
			chain = append(chain, p)
		}
	}
	if len(chain) == 0 {
		chain = AllProviders()
	}

	return &Registry{
		cfg:      &cfg.LLM,
		chain:    chain,
		backends: make(map[Provider]ChatBackend),
	}
}

// FallbackChain 返回系统级兜底探测顺序
func (r *Registry) FallbackChain() []Provider {
	return r.chain
}

// Known 判断供应商是否出现在配置中
func (r *Registry) Known(p Provider) bool {
	_, ok := r.cfg.Providers[string(p)]
	return ok
}

// Configured 判断供应商是否持有可用凭证
//
// local 供应商不要求 API key，配置了 base_url 即视为可用。
func (r *Registry) Configured(p Provider) bool {
	cfg, ok := r.cfg.Providers[string(p)]
	if !ok {
		return false
	}
	if p == ProviderLocal {
		return cfg.BaseURL != ""
	}
	return !IsPlaceholderKey(cfg.APIKey)
}

// ProviderConfig 返回供应商配置
func (r *Registry) ProviderConfig(p Provider) (config.ProviderConfig, bool) {
	cfg, ok := r.cfg.Providers[string(p)]
	return cfg, ok
}

// Backend 返回使用默认凭证的后端，惰性创建并缓存
func (r *Registry) Backend(ctx context.Context, p Provider) (ChatBackend, error) {
	r.mu.RLock()
	b, ok := r.backends[p]
	r.mu.RUnlock()
	if ok {
		return b, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// 再次检查防止竞态
	if b, ok = r.backends[p]; ok {
		return b, nil
	}

	b, err := r.newBackend(ctx, p, "")
	if err != nil {
		return nil, err
	}
	r.backends[p] = b
	return b, nil
}

// BackendWithKey 返回使用覆盖凭证的后端，不缓存
func (r *Registry) BackendWithKey(ctx context.Context, p Provider, apiKey string) (ChatBackend, error) {
	if apiKey == "" {
		return r.Backend(ctx, p)
	}
	return r.newBackend(ctx, p, apiKey)
}

func (r *Registry) newBackend(ctx context.Context, p Provider, apiKey string) (ChatBackend, error) {
	cfg, ok := r.cfg.Providers[string(p)]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", p)
	}

	if p == ProviderGemini {
		return NewGeminiBackend(ctx, cfg, apiKey)
	}
	return NewOpenAICompatBackend(ctx, p, cfg, apiKey)
}
