// Package entity 定义领域实体
package entity

import (
	"time"
)

// Character 战役角色实体，作为对话人格来源
type Character struct {
	ID         string `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CampaignID string `json:"campaign_id" gorm:"type:uuid;index;not null"`
	Name       string `json:"name" gorm:"type:varchar(128);not null"`
	// Notes 角色设定笔记，拼入人格化 system 指令
	Notes     string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Character) TableName() string {
	return "characters"
}

// NewCharacter 创建新角色
func NewCharacter(campaignID, name, notes string) *Character {
	now := time.Now()
	return &Character{
		CampaignID: campaignID,
		Name:       name,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
