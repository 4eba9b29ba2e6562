// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"campaign-forge-api/internal/application/generation"
	"campaign-forge-api/internal/interfaces/http/dto"
)

// currentUserID 从认证中间件注入的上下文取当前用户
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// buildHints 将请求级模型覆盖项与归属信息组装为生成提示
func buildHints(c *gin.Context, h dto.ModelHints, entityPreference string) generation.GenerateHints {
	return generation.GenerateHints{
		Provider:         h.Provider,
		Model:            h.Model,
		EntityPreference: entityPreference,
		UserID:           currentUserID(c),
		Temperature:      h.Temperature,
		MaxTokens:        h.MaxTokens,
	}
}
