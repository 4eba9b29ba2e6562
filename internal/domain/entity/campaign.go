// Package entity 定义领域实体
package entity

import (
	"time"
)

// Campaign 跑团战役实体
type Campaign struct {
	ID     string `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID string `json:"user_id" gorm:"type:uuid;index;not null"`
	Title  string `json:"title" gorm:"type:varchar(255);not null"`
	// Concept 战役核心概念，由 LLM 生成后可手工修订
	Concept string `json:"concept,omitempty" gorm:"type:text"`
	// ModelPreference 战役级默认模型，复合标识 "<provider>/<model>"，可为空
	ModelPreference string    `json:"model_preference,omitempty" gorm:"type:varchar(128)"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Sections []Section `json:"sections,omitempty" gorm:"foreignKey:CampaignID"`
}

// TableName 指定表名
func (Campaign) TableName() string {
	return "campaigns"
}

// NewCampaign 创建新战役
func NewCampaign(userID, title string) *Campaign {
	now := time.Now()
	return &Campaign{
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
