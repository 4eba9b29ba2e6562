// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"campaign-forge-api/internal/domain/repository"
)

// BindPage 从查询参数解析分页，越界值交由 Pagination 归一
func BindPage(c *gin.Context) repository.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return repository.NewPagination(page, pageSize)
}

// ModelHints 请求携带的模型覆盖项，多数生成类请求内嵌本结构
type ModelHints struct {
	// Provider 显式供应商标识，填写后绝不回退到其它供应商
	Provider string `json:"provider,omitempty"`
	// Model 模型标识，允许 "<provider>/<model>" 复合形式
	Model       string   `json:"model,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}
