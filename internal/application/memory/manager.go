// Package memory 管理角色对话的历史与记忆摘要
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	"campaign-forge-api/internal/application/generation"
	"campaign-forge-api/internal/config"
	"campaign-forge-api/internal/domain/entity"
	"campaign-forge-api/internal/domain/repository"
	"campaign-forge-api/pkg/logger"
	"campaign-forge-api/pkg/metrics"
)

// ContextWindow 构建上下文的结果
type ContextWindow struct {
	// MemorySummary 既有记忆摘要，可为空
	MemorySummary string
	// History 最近的逐字消息，按时间顺序
	History []entity.MessageEntry
}

// Manager 对话记忆管理器
//
// 每个 (character, user) 对话持有独立互斥锁：同一对话的读改写
// 串行执行，不同对话互不阻塞。消息只增不删，摘要按长度阈值刷新。
type Manager struct {
	convRepo repository.ConversationRepository
	gen      *generation.Service
	cfg      config.MemoryConfig

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager 创建记忆管理器
func NewManager(convRepo repository.ConversationRepository, gen *generation.Service, cfg config.MemoryConfig) *Manager {
	return &Manager{
		convRepo: convRepo,
		gen:      gen,
		cfg:      cfg,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Lock 锁定一个对话，返回解锁函数
func (m *Manager) Lock(characterID, userID string) func() {
	key := characterID + ":" + userID

	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// GetOrCreate 取出或创建 (character, user) 的对话记录，幂等
func (m *Manager) GetOrCreate(ctx context.Context, characterID, userID string) (*entity.Conversation, error) {
	conv, err := m.convRepo.GetByPair(ctx, characterID, userID)
	if err == nil {
		return conv, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	conv = entity.NewConversation(characterID, userID)
	if createErr := m.convRepo.Create(ctx, conv); createErr != nil {
		// 并发创建撞唯一索引时读回已有记录
		if existing, getErr := m.convRepo.GetByPair(ctx, characterID, userID); getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create conversation: %w", createErr)
	}
	return conv, nil
}

// AppendTurn 追加一条消息并落库
func (m *Manager) AppendTurn(ctx context.Context, conv *entity.Conversation, speaker, text string) error {
	conv.Append(speaker, text)
	if err := m.convRepo.Update(ctx, conv); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}
	metrics.ConversationTurnsTotal.Inc()
	return nil
}

// BuildContext 构建生成用上下文：记忆摘要加最近窗口内的逐字消息
//
// 本轮用户消息由调用方单独携带并占一个窗口位，历史只取 window-1 条。
func (m *Manager) BuildContext(conv *entity.Conversation) ContextWindow {
	window := m.cfg.ContextWindow
	if window <= 0 {
		window = 10
	}
	keep := window - 1

	var history []entity.MessageEntry
	if keep > 0 {
		history = conv.Window(keep)
	}
	return ContextWindow{
		MemorySummary: conv.MemorySummary,
		History:       history,
	}
}

// MaybeSummarize 按长度阈值刷新记忆摘要
//
// 历史长度达到下限且恰为间隔的整数倍时触发，压缩除最近几条外的
// 全部消息。任何失败只记日志，从不影响外层对话轮。
func (m *Manager) MaybeSummarize(ctx context.Context, conv *entity.Conversation, hints generation.GenerateHints) {
	minMessages := m.cfg.MinMessages
	if minMessages <= 0 {
		minMessages = 30
	}
	interval := m.cfg.SummaryInterval
	if interval <= 0 {
		interval = 20
	}
	recentExclude := m.cfg.RecentExclude
	if recentExclude <= 0 {
		recentExclude = 5
	}

	count := len(conv.Messages)
	if count < minMessages || count%interval != 0 {
		return
	}

	transcript := formatTranscript(conv.Messages[:count-recentExclude])
	out, err := m.gen.SummarizeMemory(ctx, conv.MemorySummary, transcript, hints)
	if err != nil {
		metrics.MemorySummarizationsTotal.WithLabelValues("error").Inc()
		logger.Warn(ctx, "memory summarization failed",
			"conversation_id", conv.ID, "message_count", count, "error", err.Error())
		return
	}

	conv.MemorySummary = out.Text
	if err := m.convRepo.Update(ctx, conv); err != nil {
		metrics.MemorySummarizationsTotal.WithLabelValues("error").Inc()
		logger.Warn(ctx, "failed to persist memory summary",
			"conversation_id", conv.ID, "error", err.Error())
		return
	}

	metrics.MemorySummarizationsTotal.WithLabelValues("success").Inc()
	logger.Info(ctx, "memory summary refreshed",
		"conversation_id", conv.ID, "message_count", count)
}

// formatTranscript 将消息序列渲染为摘要用转写文本
func formatTranscript(messages []entity.MessageEntry) string {
	var sb strings.Builder
	for _, msg := range messages {
		switch msg.Speaker {
		case entity.SpeakerCharacter:
			sb.WriteString("Character: ")
		default:
			sb.WriteString("User: ")
		}
		sb.WriteString(msg.Text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
