// Package seeding 实现目录到章节的流式种子化管线
package seeding

import (
	"campaign-forge-api/internal/domain/entity"
)

// 流式事件类型
const (
	EventTypeSectionUpdate = "section_update"
	EventTypeError         = "error"
	EventTypeComplete      = "complete"
)

// SectionUpdateEvent 单个章节落库后的进度事件
type SectionUpdateEvent struct {
	EventType           string          `json:"event_type"`
	ProgressPercent     float64         `json:"progress_percent"`
	CurrentSectionTitle string          `json:"current_section_title"`
	SectionData         *entity.Section `json:"section_data"`
}

// ErrorEvent 单条目失败事件，批次继续执行
type ErrorEvent struct {
	EventType string `json:"event_type"`
	Message   string `json:"message"`
}

// CompleteEvent 批次终止事件
type CompleteEvent struct {
	EventType              string `json:"event_type"`
	Message                string `json:"message"`
	TotalSectionsProcessed int    `json:"total_sections_processed"`
}

// NewSectionUpdateEvent 构造进度事件
func NewSectionUpdateEvent(progress float64, title string, section *entity.Section) SectionUpdateEvent {
	return SectionUpdateEvent{
		EventType:           EventTypeSectionUpdate,
		ProgressPercent:     progress,
		CurrentSectionTitle: title,
		SectionData:         section,
	}
}

// NewErrorEvent 构造失败事件
func NewErrorEvent(message string) ErrorEvent {
	return ErrorEvent{EventType: EventTypeError, Message: message}
}

// NewCompleteEvent 构造终止事件
func NewCompleteEvent(message string, processed int) CompleteEvent {
	return CompleteEvent{
		EventType:              EventTypeComplete,
		Message:                message,
		TotalSectionsProcessed: processed,
	}
}

// Sink 事件下游，由 SSE 端点或测试实现
//
// Send 返回错误视为调用方已断开，管线停止推进且从不重试。
type Sink interface {
	Send(event any) error
}
