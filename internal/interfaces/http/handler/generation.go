// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"campaign-forge-api/internal/application/generation"
	"campaign-forge-api/internal/interfaces/http/dto"
)

// GenerationHandler 通用生成处理器
type GenerationHandler struct {
	gen *generation.Service
}

// NewGenerationHandler 创建通用生成处理器
func NewGenerationHandler(gen *generation.Service) *GenerationHandler {
	return &GenerationHandler{gen: gen}
}

// GenerateText 自由文本生成
func (h *GenerationHandler) GenerateText(c *gin.Context) {
	var req dto.GenerateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	out, err := h.gen.GenerateText(c.Request.Context(), req.Prompt, buildHints(c, req.ModelHints, ""))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, dto.ToGenerationResponse(out))
}

// GenerateConcept 战役概念生成
func (h *GenerationHandler) GenerateConcept(c *gin.Context) {
	var req dto.GenerateConceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	out, err := h.gen.GenerateConcept(c.Request.Context(), req.Prompt, buildHints(c, req.ModelHints, ""))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, dto.ToGenerationResponse(out))
}

// ListModels 聚合各供应商的模型目录
func (h *GenerationHandler) ListModels(c *gin.Context) {
	models, err := h.gen.ListModels(c.Request.Context())
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, dto.ToModelListResponse(models))
}
