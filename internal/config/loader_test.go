package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaultsProviderFallbackModels(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	// 每个供应商都带静态兜底模型列表，枚举失败时目录不至于为空
	for _, provider := range []string{"openai", "gemini", "llama", "deepseek", "local"} {
		models := v.GetStringSlice("llm.providers." + provider + ".fallback_models")
		assert.NotEmpty(t, models, provider)
	}

	assert.Contains(t, v.GetStringSlice("llm.providers.gemini.fallback_models"), "gemini-2.0-flash")
	assert.Contains(t, v.GetStringSlice("llm.providers.local.fallback_models"), "llama3")
}

func TestSetDefaultsFallbackChain(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	chain := v.GetStringSlice("llm.fallback_chain")
	require.Equal(t, []string{"openai", "local", "gemini", "llama", "deepseek"}, chain)
	assert.Equal(t, "gpt-4o-mini", v.GetString("llm.providers.openai.model"))
}
