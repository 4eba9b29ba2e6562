// Package entity 定义领域实体
package entity

import (
	"time"
)

// 消息发言方
const (
	SpeakerUser      = "user"
	SpeakerCharacter = "character"
)

// MessageEntry 单条对话消息，追加后不再修改
type MessageEntry struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation 对话记录，(character_id, user_id) 唯一
// Messages 只增不删；MemorySummary 由摘要步骤刷新
type Conversation struct {
	ID          string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CharacterID string         `json:"character_id" gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair"`
	UserID      string         `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair"`
	Messages    []MessageEntry `json:"messages" gorm:"type:jsonb;serializer:json"`
	// MemorySummary 较早轮次的 LLM 压缩摘要，可为空
	MemorySummary string    `json:"memory_summary,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Conversation) TableName() string {
	return "conversations"
}

// NewConversation 创建空对话记录
func NewConversation(characterID, userID string) *Conversation {
	now := time.Now()
	return &Conversation{
		CharacterID: characterID,
		UserID:      userID,
		Messages:    []MessageEntry{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Append 追加一条消息
func (c *Conversation) Append(speaker, text string) {
	c.Messages = append(c.Messages, MessageEntry{
		Speaker:   speaker,
		Text:      text,
		Timestamp: time.Now(),
	})
	c.UpdatedAt = time.Now()
}

// Window 返回最近 n 条消息（n <= 0 时返回全部）
func (c *Conversation) Window(n int) []MessageEntry {
	if n <= 0 || len(c.Messages) <= n {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-n:]
}
