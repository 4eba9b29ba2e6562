package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyOperation llmCtxKey = "llm_operation"
	llmCtxKeyProvider  llmCtxKey = "llm_provider"
	llmCtxKeyUserID    llmCtxKey = "llm_user_id"
)

// WithOperation 标记本次 LLM 调用所属的业务操作（generate_text/generate_toc/...）
func WithOperation(ctx context.Context, operation string) context.Context {
	if ctx == nil {
		return nil
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyOperation, op)
}

// WithProvider 标记本次 LLM 调用选定的提供商
func WithProvider(ctx context.Context, provider string) context.Context {
	if ctx == nil {
		return nil
	}
	p := strings.TrimSpace(provider)
	if p == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyProvider, p)
}

// WithUserID 标记本次 LLM 调用的发起用户
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		return nil
	}
	id := strings.TrimSpace(userID)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyUserID, id)
}

// OperationFromContext 读取业务操作标记，缺省 "unknown"
func OperationFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if v, ok := ctx.Value(llmCtxKeyOperation).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// ProviderFromContext 读取提供商标记，缺省 "unknown"
func ProviderFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if v, ok := ctx.Value(llmCtxKeyProvider).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// UserIDFromContext 读取用户标记，可为空
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(llmCtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// LLMUsageInput 一次 LLM 调用的用量流水
type LLMUsageInput struct {
	UserID           string
	Provider         string
	Model            string
	Operation        string
	PromptTokens     int
	CompletionTokens int
	DurationMs       int
}
