// Package entity 定义领域实体
package entity

import (
	"time"
)

// 已知章节类型，推断时按从具体到泛化的顺序匹配
const (
	SectionTypeMonster     = "monster"
	SectionTypeCharacter   = "character"
	SectionTypeNPC         = "npc"
	SectionTypeLocation    = "location"
	SectionTypeItem        = "item"
	SectionTypeQuest       = "quest"
	SectionTypeChapter     = "chapter"
	SectionTypeNote        = "note"
	SectionTypeWorldDetail = "world_detail"
	SectionTypeGeneric     = "generic"
	SectionTypeUnknown     = "unknown"
)

// Section 战役章节实体，由 TOC 种子化产生
type Section struct {
	ID         string `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CampaignID string `json:"campaign_id" gorm:"type:uuid;index;not null"`
	Title      string `json:"title" gorm:"type:varchar(255);not null"`
	Content    string `json:"content,omitempty" gorm:"type:text"`
	// SortOrder 按 TOC 顺序分配的零基序号
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	Type      string    `json:"type" gorm:"type:varchar(32);not null;default:'generic'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Section) TableName() string {
	return "sections"
}

// NewSection 创建新章节
func NewSection(campaignID, title, content string, sortOrder int, sectionType string) *Section {
	now := time.Now()
	if sectionType == "" {
		sectionType = SectionTypeGeneric
	}
	return &Section{
		CampaignID: campaignID,
		Title:      title,
		Content:    content,
		SortOrder:  sortOrder,
		Type:       sectionType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
