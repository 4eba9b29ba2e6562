// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"campaign-forge-api/internal/domain/entity"
	"campaign-forge-api/internal/domain/repository"
)

// CampaignRepository 战役仓储实现
type CampaignRepository struct {
	client *Client
}

// NewCampaignRepository 创建战役仓储
func NewCampaignRepository(client *Client) *CampaignRepository {
	return &CampaignRepository{client: client}
}

// Create 创建战役
func (r *CampaignRepository) Create(ctx context.Context, campaign *entity.Campaign) error {
	ctx, span := tracer.Start(ctx, "postgres.CampaignRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client).Create(campaign).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取战役
func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*entity.Campaign, error) {
	ctx, span := tracer.Start(ctx, "postgres.CampaignRepository.GetByID")
	defer span.End()

	var campaign entity.Campaign
	if err := getDB(ctx, r.client).First(&campaign, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &campaign, nil
}

// Update 更新战役
func (r *CampaignRepository) Update(ctx context.Context, campaign *entity.Campaign) error {
	ctx, span := tracer.Start(ctx, "postgres.CampaignRepository.Update")
	defer span.End()

	if err := getDB(ctx, r.client).Model(campaign).
		Select("title", "concept", "model_preference", "updated_at").
		Updates(campaign).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	return nil
}

// Delete 删除战役
func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.CampaignRepository.Delete")
	defer span.End()

	if err := getDB(ctx, r.client).Delete(&entity.Campaign{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

// ListByUser 按用户分页列出战役
func (r *CampaignRepository) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Campaign], error) {
	ctx, span := tracer.Start(ctx, "postgres.CampaignRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client).Model(&entity.Campaign{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count campaigns: %w", err)
	}

	var campaigns []*entity.Campaign
	if err := db.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&campaigns).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	return repository.NewPagedResult(campaigns, total, pagination), nil
}
