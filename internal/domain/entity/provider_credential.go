// Package entity 定义领域实体
package entity

import (
	"time"
)

// ProviderCredential 用户级加密 API 凭证，(user_id, provider) 唯一
type ProviderCredential struct {
	ID       string `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID   string `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_provider_credentials_pair"`
	Provider string `json:"provider" gorm:"type:varchar(32);not null;uniqueIndex:idx_provider_credentials_pair"`
	// EncryptedKey AES-GCM 密文（hex 编码，nonce 前置）
	EncryptedKey string    `json:"-" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (ProviderCredential) TableName() string {
	return "provider_credentials"
}
