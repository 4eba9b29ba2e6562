// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"campaign-forge-api/internal/domain/entity"
)

type CampaignRepository interface {
	Create(ctx context.Context, campaign *entity.Campaign) error
	GetByID(ctx context.Context, id string) (*entity.Campaign, error)
	Update(ctx context.Context, campaign *entity.Campaign) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.Campaign], error)
}

type SectionRepository interface {
	Create(ctx context.Context, section *entity.Section) error
	GetByID(ctx context.Context, id string) (*entity.Section, error)
	Update(ctx context.Context, section *entity.Section) error
	// DeleteByCampaign 删除战役的全部章节（种子化的 replace-all 语义）
	DeleteByCampaign(ctx context.Context, campaignID string) error
	ListByCampaign(ctx context.Context, campaignID string) ([]*entity.Section, error)
}

type CharacterRepository interface {
	Create(ctx context.Context, character *entity.Character) error
	GetByID(ctx context.Context, id string) (*entity.Character, error)
	Update(ctx context.Context, character *entity.Character) error
	Delete(ctx context.Context, id string) error
	ListByCampaign(ctx context.Context, campaignID string) ([]*entity.Character, error)
}
