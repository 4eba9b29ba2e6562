// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"campaign-forge-api/internal/application/chat"
	"campaign-forge-api/internal/interfaces/http/dto"
)

// ChatHandler 角色对话处理器
type ChatHandler struct {
	chat *chat.Service
}

// NewChatHandler 创建角色对话处理器
func NewChatHandler(chatSvc *chat.Service) *ChatHandler {
	return &ChatHandler{chat: chatSvc}
}

// Chat 与战役角色进行一轮对话
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	out, err := h.chat.Chat(c.Request.Context(), chat.ChatInput{
		CharacterID: c.Param("id"),
		UserID:      currentUserID(c),
		Message:     req.Message,
		Provider:    req.Provider,
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, dto.ToChatResponse(out))
}
