// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"campaign-forge-api/internal/domain/entity"
)

// ProviderCredentialRepository 用户凭证仓储实现
type ProviderCredentialRepository struct {
	client *Client
}

// NewProviderCredentialRepository 创建用户凭证仓储
func NewProviderCredentialRepository(client *Client) *ProviderCredentialRepository {
	return &ProviderCredentialRepository{client: client}
}

// Upsert 写入或覆盖 (user_id, provider) 对应的凭证
func (r *ProviderCredentialRepository) Upsert(ctx context.Context, credential *entity.ProviderCredential) error {
	ctx, span := tracer.Start(ctx, "postgres.ProviderCredentialRepository.Upsert")
	defer span.End()

	if err := getDB(ctx, r.client).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{"encrypted_key", "updated_at"}),
	}).Create(credential).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert provider credential: %w", err)
	}
	return nil
}

// GetByUserAndProvider 获取用户在指定供应商的凭证
func (r *ProviderCredentialRepository) GetByUserAndProvider(ctx context.Context, userID, provider string) (*entity.ProviderCredential, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProviderCredentialRepository.GetByUserAndProvider")
	defer span.End()

	var credential entity.ProviderCredential
	if err := getDB(ctx, r.client).
		First(&credential, "user_id = ? AND provider = ?", userID, provider).Error; err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &credential, nil
}

// Delete 删除用户在指定供应商的凭证
func (r *ProviderCredentialRepository) Delete(ctx context.Context, userID, provider string) error {
	ctx, span := tracer.Start(ctx, "postgres.ProviderCredentialRepository.Delete")
	defer span.End()

	if err := getDB(ctx, r.client).
		Delete(&entity.ProviderCredential{}, "user_id = ? AND provider = ?", userID, provider).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete provider credential: %w", err)
	}
	return nil
}
