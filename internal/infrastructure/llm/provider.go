package llm

import "strings"

// Provider LLM 供应商标识
type Provider string

const (
	ProviderOpenAI   Provider = "openai"
	ProviderLocal    Provider = "local"
	ProviderGemini   Provider = "gemini"
	ProviderLlama    Provider = "llama"
	ProviderDeepSeek Provider = "deepseek"
)

// AllProviders 返回全部已知供应商，顺序与系统回退链一致
func AllProviders() []Provider {
	return []Provider{ProviderOpenAI, ProviderLocal, ProviderGemini, ProviderLlama, ProviderDeepSeek}
}

// ParseProvider 解析供应商标识，未知标识返回 false
func ParseProvider(s string) (Provider, bool) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderOpenAI:
		return ProviderOpenAI, true
	case ProviderLocal:
		return ProviderLocal, true
	case ProviderGemini:
		return ProviderGemini, true
	case ProviderLlama:
		return ProviderLlama, true
	case ProviderDeepSeek:
		return ProviderDeepSeek, true
	}
	return "", false
}

// placeholderPrefixes 视为未配置的占位凭证前缀
var placeholderPrefixes = []string{"your_", "changeme"}

// IsPlaceholderKey 判断凭证是否为占位值
func IsPlaceholderKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return true
	}
	for _, p := range placeholderPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
