// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"campaign-forge-api/internal/domain/entity"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	// GetByPair 按 (character_id, user_id) 取对话；不存在时返回 gorm.ErrRecordNotFound
	GetByPair(ctx context.Context, characterID, userID string) (*entity.Conversation, error)
	Update(ctx context.Context, conversation *entity.Conversation) error
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type ProviderCredentialRepository interface {
	Upsert(ctx context.Context, credential *entity.ProviderCredential) error
	// GetByUserAndProvider 不存在时返回 gorm.ErrRecordNotFound
	GetByUserAndProvider(ctx context.Context, userID, provider string) (*entity.ProviderCredential, error)
	Delete(ctx context.Context, userID, provider string) error
}

type LLMUsageEventRepository interface {
	Create(ctx context.Context, event *entity.LLMUsageEvent) error
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.LLMUsageEvent], error)
}
