package generation

import (
	"strings"

	"campaign-forge-api/internal/infrastructure/llm"
)

// ModelRef 模型引用，支持复合标识 "<provider>/<model>"
//
// 仅裸模型名时 Provider 为空；模型名本身可包含 "/"（只在第一个分隔符处切分）。
type ModelRef struct {
	Provider llm.Provider
	Model    string
}

// IsZero 判断引用是否为空
func (r ModelRef) IsZero() bool {
	return r.Provider == "" && r.Model == ""
}

// String 还原为复合标识
func (r ModelRef) String() string {
	if r.Provider == "" {
		return r.Model
	}
	if r.Model == "" {
		return string(r.Provider)
	}
	return string(r.Provider) + "/" + r.Model
}

// ParseModelRef 解析模型引用
//
// 前缀不是已知供应商时整串视为模型名，交给当前选定供应商处理。
func ParseModelRef(s string) ModelRef {
	s = strings.TrimSpace(s)
	if s == "" {
		return ModelRef{}
	}

	if idx := strings.Index(s, "/"); idx > 0 {
		if p, ok := llm.ParseProvider(s[:idx]); ok {
			return ModelRef{Provider: p, Model: strings.TrimSpace(s[idx+1:])}
		}
	}
	return ModelRef{Model: s}
}
