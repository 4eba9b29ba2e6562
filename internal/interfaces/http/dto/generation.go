// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"campaign-forge-api/internal/application/generation"
	"campaign-forge-api/internal/infrastructure/llm"
)

// GenerateTextRequest 自由文本生成请求
type GenerateTextRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	ModelHints
}

// GenerateConceptRequest 战役概念生成请求
type GenerateConceptRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	ModelHints
}

// GenerationResponse 单次生成响应
type GenerationResponse struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// ToGenerationResponse 将生成结果转换为 DTO
func ToGenerationResponse(out *generation.GenerateOutput) *GenerationResponse {
	if out == nil {
		return nil
	}
	return &GenerationResponse{
		Text:     out.Text,
		Provider: out.Provider,
		Model:    out.Model,
	}
}

// ModelInfoDTO 模型目录条目
type ModelInfoDTO struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

// ModelListResponse 模型目录响应
type ModelListResponse struct {
	Models []ModelInfoDTO `json:"models"`
}

// ToModelListResponse 将聚合目录转换为 DTO
func ToModelListResponse(models []llm.ModelInfo) *ModelListResponse {
	out := make([]ModelInfoDTO, 0, len(models))
	for _, m := range models {
		out = append(out, ModelInfoDTO{ID: m.ID, Provider: string(m.Provider)})
	}
	return &ModelListResponse{Models: out}
}
