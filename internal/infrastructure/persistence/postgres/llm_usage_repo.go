// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"campaign-forge-api/internal/domain/entity"
	"campaign-forge-api/internal/domain/repository"
)

// LLMUsageEventRepository LLM 用量事件仓储实现
type LLMUsageEventRepository struct {
	client *Client
}

// NewLLMUsageEventRepository 创建 LLM 用量事件仓储
func NewLLMUsageEventRepository(client *Client) *LLMUsageEventRepository {
	return &LLMUsageEventRepository{client: client}
}

// Create 写入一条用量事件
func (r *LLMUsageEventRepository) Create(ctx context.Context, event *entity.LLMUsageEvent) error {
	ctx, span := tracer.Start(ctx, "postgres.LLMUsageEventRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client).Create(event).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create llm usage event: %w", err)
	}
	return nil
}

// ListByUser 按用户分页列出用量事件
func (r *LLMUsageEventRepository) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.LLMUsageEvent], error) {
	ctx, span := tracer.Start(ctx, "postgres.LLMUsageEventRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client).Model(&entity.LLMUsageEvent{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count llm usage events: %w", err)
	}

	var events []*entity.LLMUsageEvent
	if err := db.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&events).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list llm usage events: %w", err)
	}

	return repository.NewPagedResult(events, total, pagination), nil
}
