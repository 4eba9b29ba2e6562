package llm

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ModelInfo 供应商模型目录条目
type ModelInfo struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

// ChatBackend 聊天补全后端的统一端口
//
// 所有供应商适配器（OpenAI 兼容、Gemini）都实现该接口，
// 上层生成服务只依赖本端口，不感知具体供应商协议。
type ChatBackend interface {
	// Provider 返回后端所属供应商标识
	Provider() Provider

	// Generate 执行一次聊天补全，opts 可覆盖模型、温度、最大 token 数
	Generate(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.Message, error)

	// ListModels 返回供应商可用模型目录，上游不可达时回退到静态列表
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// HealthCheck 探测供应商是否可达
	HealthCheck(ctx context.Context) error
}
