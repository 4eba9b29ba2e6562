// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"campaign-forge-api/internal/application/generation"
	"campaign-forge-api/internal/domain/entity"
)

// CreateCampaignRequest 创建战役请求
type CreateCampaignRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	// Concept 可直接提交既有概念，留空则后续由概念生成接口补全
	Concept         string `json:"concept,omitempty"`
	ModelPreference string `json:"model_preference,omitempty"`
}

// UpdateCampaignRequest 更新战役请求
type UpdateCampaignRequest struct {
	Title           *string `json:"title,omitempty"`
	Concept         *string `json:"concept,omitempty"`
	ModelPreference *string `json:"model_preference,omitempty"`
}

// CampaignResponse 战役响应
type CampaignResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Concept         string    `json:"concept,omitempty"`
	ModelPreference string    `json:"model_preference,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToCampaignResponse 将领域实体转换为 DTO
func ToCampaignResponse(c *entity.Campaign) *CampaignResponse {
	if c == nil {
		return nil
	}
	return &CampaignResponse{
		ID:              c.ID,
		Title:           c.Title,
		Concept:         c.Concept,
		ModelPreference: c.ModelPreference,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// ToCampaignListResponse 将战役列表转换为 DTO
func ToCampaignListResponse(campaigns []*entity.Campaign) []*CampaignResponse {
	out := make([]*CampaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, ToCampaignResponse(c))
	}
	return out
}

// TocEntryDTO 目录条目
type TocEntryDTO struct {
	Title string `json:"title" binding:"required"`
	Type  string `json:"type,omitempty"`
}

// GenerateTocRequest 目录生成请求
type GenerateTocRequest struct {
	ModelHints
}

// TocResponse 目录生成响应
type TocResponse struct {
	Raw      string        `json:"raw"`
	Entries  []TocEntryDTO `json:"entries"`
	Provider string        `json:"provider,omitempty"`
	Model    string        `json:"model,omitempty"`
}

// ToTocEntries 将目录条目 DTO 转换为领域形式
func ToTocEntries(entries []TocEntryDTO) []generation.TocEntry {
	out := make([]generation.TocEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, generation.TocEntry{Title: e.Title, Type: e.Type})
	}
	return out
}

// FromTocEntries 将领域目录条目转换为 DTO
func FromTocEntries(entries []generation.TocEntry) []TocEntryDTO {
	out := make([]TocEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, TocEntryDTO{Title: e.Title, Type: e.Type})
	}
	return out
}

// SeedRequest 种子化请求
type SeedRequest struct {
	Entries []TocEntryDTO `json:"entries" binding:"required,min=1,dive"`
	// AutoPopulate 为 true 时逐条调用 LLM 填充内容，否则写入占位文本
	AutoPopulate bool `json:"auto_populate"`
	// CreationPrompt 附加的创作指示，随每个条目透传给生成层
	CreationPrompt string `json:"creation_prompt"`
	ModelHints
}

// GenerateTitlesRequest 章节标题生成请求
type GenerateTitlesRequest struct {
	Count int `json:"count" binding:"required,min=1,max=50"`
	ModelHints
}

// TitlesResponse 章节标题生成响应
type TitlesResponse struct {
	Titles []string `json:"titles"`
}

// GenerateHomebreweryTocRequest Homebrewery 目录生成请求
type GenerateHomebreweryTocRequest struct {
	ModelHints
}

// SectionResponse 章节响应
type SectionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	SortOrder int       `json:"sort_order"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToSectionResponse 将领域实体转换为 DTO
func ToSectionResponse(s *entity.Section) *SectionResponse {
	if s == nil {
		return nil
	}
	return &SectionResponse{
		ID:        s.ID,
		Title:     s.Title,
		Content:   s.Content,
		SortOrder: s.SortOrder,
		Type:      s.Type,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ToSectionListResponse 将章节列表转换为 DTO
func ToSectionListResponse(sections []*entity.Section) []*SectionResponse {
	out := make([]*SectionResponse, 0, len(sections))
	for _, s := range sections {
		out = append(out, ToSectionResponse(s))
	}
	return out
}
