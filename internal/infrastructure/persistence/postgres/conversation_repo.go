// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"campaign-forge-api/internal/domain/entity"
)

// ConversationRepository 对话仓储实现
type ConversationRepository struct {
	client *Client
}

// NewConversationRepository 创建对话仓储
func NewConversationRepository(client *Client) *ConversationRepository {
	return &ConversationRepository{client: client}
}

// Create 创建对话记录
func (r *ConversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	ctx, span := tracer.Start(ctx, "postgres.ConversationRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client).Create(conversation).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// GetByPair 按 (character_id, user_id) 获取对话
func (r *ConversationRepository) GetByPair(ctx context.Context, characterID, userID string) (*entity.Conversation, error) {
	ctx, span := tracer.Start(ctx, "postgres.ConversationRepository.GetByPair")
	defer span.End()

	var conversation entity.Conversation
	if err := getDB(ctx, r.client).
		First(&conversation, "character_id = ? AND user_id = ?", characterID, userID).Error; err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &conversation, nil
}

// Update 更新对话消息与摘要
func (r *ConversationRepository) Update(ctx context.Context, conversation *entity.Conversation) error {
	ctx, span := tracer.Start(ctx, "postgres.ConversationRepository.Update")
	defer span.End()

	if err := getDB(ctx, r.client).Model(conversation).
		Select("messages", "memory_summary", "updated_at").
		Updates(conversation).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update conversation: %w", err)
	}
	return nil
}
