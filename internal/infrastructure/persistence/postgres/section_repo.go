// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"campaign-forge-api/internal/domain/entity"
)

// SectionRepository 章节仓储实现
type SectionRepository struct {
	client *Client
}

// NewSectionRepository 创建章节仓储
func NewSectionRepository(client *Client) *SectionRepository {
	return &SectionRepository{client: client}
}

// Create 创建章节
func (r *SectionRepository) Create(ctx context.Context, section *entity.Section) error {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client).Create(section).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create section: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取章节
func (r *SectionRepository) GetByID(ctx context.Context, id string) (*entity.Section, error) {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.GetByID")
	defer span.End()

	var section entity.Section
	if err := getDB(ctx, r.client).First(&section, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &section, nil
}

// Update 更新章节
func (r *SectionRepository) Update(ctx context.Context, section *entity.Section) error {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.Update")
	defer span.End()

	if err := getDB(ctx, r.client).Model(section).
		Select("title", "content", "sort_order", "type", "updated_at").
		Updates(section).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update section: %w", err)
	}
	return nil
}

// DeleteByCampaign 删除战役的全部章节
func (r *SectionRepository) DeleteByCampaign(ctx context.Context, campaignID string) error {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.DeleteByCampaign")
	defer span.End()

	if err := getDB(ctx, r.client).Delete(&entity.Section{}, "campaign_id = ?", campaignID).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete sections: %w", err)
	}
	return nil
}

// ListByCampaign 按排序号列出战役章节
func (r *SectionRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*entity.Section, error) {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.ListByCampaign")
	defer span.End()

	var sections []*entity.Section
	if err := getDB(ctx, r.client).
		Where("campaign_id = ?", campaignID).
		Order("sort_order ASC").
		Find(&sections).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	return sections, nil
}
