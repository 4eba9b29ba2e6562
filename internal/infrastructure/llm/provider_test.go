package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campaign-forge-api/internal/config"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input string
		want  Provider
		ok    bool
	}{
		{input: "openai", want: ProviderOpenAI, ok: true},
		{input: "OpenAI", want: ProviderOpenAI, ok: true},
		{input: "  gemini  ", want: ProviderGemini, ok: true},
		{input: "llama", want: ProviderLlama, ok: true},
		{input: "deepseek", want: ProviderDeepSeek, ok: true},
		{input: "local", want: ProviderLocal, ok: true},
		{input: "anthropic", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		p, ok := ParseProvider(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, p, "input %q", tt.input)
	}
}

func TestIsPlaceholderKey(t *testing.T) {
	assert.True(t, IsPlaceholderKey(""))
	assert.True(t, IsPlaceholderKey("   "))
	assert.True(t, IsPlaceholderKey("your_openai_api_key"))
	assert.True(t, IsPlaceholderKey("YOUR_KEY_HERE"))
	assert.True(t, IsPlaceholderKey("changeme"))
	assert.True(t, IsPlaceholderKey("CHANGEME-now"))
	assert.False(t, IsPlaceholderKey("sk-proj-abc123"))
}

func TestRegistryKnownAndConfigured(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"openai": {APIKey: "sk-real"},
		"gemini": {APIKey: "your_gemini_key"},
		"local":  {BaseURL: "http://localhost:11434/v1"},
		"llama":  {},
	}
	r := NewRegistry(cfg)

	assert.True(t, r.Known(ProviderOpenAI))
	assert.True(t, r.Known(ProviderGemini))
	assert.False(t, r.Known(ProviderDeepSeek))

	assert.True(t, r.Configured(ProviderOpenAI))
	// 占位凭证不算已配置
	assert.False(t, r.Configured(ProviderGemini))
	// local 不要求 API key，配置了 base_url 即可用
	assert.True(t, r.Configured(ProviderLocal))
	assert.False(t, r.Configured(ProviderLlama))
	assert.False(t, r.Configured(ProviderDeepSeek))
}

func TestRegistryFallbackChain(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.FallbackChain = []string{"gemini", "openai", "bogus"}
	r := NewRegistry(cfg)

	// 未知标识被剔除，顺序保持配置原样
	assert.Equal(t, []Provider{ProviderGemini, ProviderOpenAI}, r.FallbackChain())
}

func TestRegistryFallbackChainDefaultsToAllProviders(t *testing.T) {
	cfg := &config.Config{}
	r := NewRegistry(cfg)
	assert.Equal(t, AllProviders(), r.FallbackChain())
}

func TestRegistryProviderConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"openai": {Model: "gpt-4o", MaxTokens: 2048},
	}
	r := NewRegistry(cfg)

	pc, ok := r.ProviderConfig(ProviderOpenAI)
	assert.True(t, ok)
	assert.Equal(t, "gpt-4o", pc.Model)

	_, ok = r.ProviderConfig(ProviderGemini)
	assert.False(t, ok)
}
