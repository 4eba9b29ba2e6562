// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"campaign-forge-api/internal/application/chat"
	"campaign-forge-api/internal/domain/entity"
)

// ChatRequest 角色对话请求
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
	ModelHints
}

// ChatResponse 角色对话响应
type ChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
}

// ToChatResponse 将对话结果转换为 DTO
func ToChatResponse(out *chat.ChatOutput) *ChatResponse {
	if out == nil {
		return nil
	}
	return &ChatResponse{
		ConversationID: out.ConversationID,
		Reply:          out.Reply,
		Provider:       out.Provider,
		Model:          out.Model,
	}
}

// CreateCharacterRequest 创建角色请求
type CreateCharacterRequest struct {
	Name  string `json:"name" binding:"required,max=128"`
	Notes string `json:"notes,omitempty"`
}

// CharacterResponse 角色响应
type CharacterResponse struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	Name       string    `json:"name"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToCharacterResponse 将领域实体转换为 DTO
func ToCharacterResponse(ch *entity.Character) *CharacterResponse {
	if ch == nil {
		return nil
	}
	return &CharacterResponse{
		ID:         ch.ID,
		CampaignID: ch.CampaignID,
		Name:       ch.Name,
		Notes:      ch.Notes,
		CreatedAt:  ch.CreatedAt,
		UpdatedAt:  ch.UpdatedAt,
	}
}

// ToCharacterListResponse 将角色列表转换为 DTO
func ToCharacterListResponse(chars []*entity.Character) []*CharacterResponse {
	out := make([]*CharacterResponse, 0, len(chars))
	for _, ch := range chars {
		out = append(out, ToCharacterResponse(ch))
	}
	return out
}
