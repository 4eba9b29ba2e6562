package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"campaign-forge-api/internal/application/generation"
	"campaign-forge-api/internal/config"
	"campaign-forge-api/internal/domain/entity"
	"campaign-forge-api/internal/infrastructure/llm"
	workflowprompt "campaign-forge-api/internal/workflow/prompt"
)

type fakeConversationRepo struct {
	conversations map[string]*entity.Conversation
	createErr     error
	updateErr     error
	updates       int
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[string]*entity.Conversation)}
}

func pairKey(characterID, userID string) string {
	return characterID + ":" + userID
}

func (f *fakeConversationRepo) Create(ctx context.Context, conv *entity.Conversation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.conversations[pairKey(conv.CharacterID, conv.UserID)] = conv
	return nil
}

func (f *fakeConversationRepo) GetByPair(ctx context.Context, characterID, userID string) (*entity.Conversation, error) {
	conv, ok := f.conversations[pairKey(characterID, userID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return conv, nil
}

func (f *fakeConversationRepo) Update(ctx context.Context, conv *entity.Conversation) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	f.conversations[pairKey(conv.CharacterID, conv.UserID)] = conv
	return nil
}

// unavailableGenerationService 构建一个没有任何可用供应商的生成服务，
// 摘要调用在解析供应商阶段即失败，不触达网络。
func unavailableGenerationService() *generation.Service {
	cfg := &config.Config{}
	registry := llm.NewRegistry(cfg)
	resolver := generation.NewResolver(registry, nil, nil, nil)
	return generation.NewService(resolver, workflowprompt.NewRegistry(), nil, registry, 0)
}

func testMemoryConfig() config.MemoryConfig {
	return config.MemoryConfig{
		ContextWindow:   10,
		MinMessages:     30,
		SummaryInterval: 20,
		RecentExclude:   5,
	}
}

func TestGetOrCreateCreatesThenReturnsExisting(t *testing.T) {
	repo := newFakeConversationRepo()
	m := NewManager(repo, nil, testMemoryConfig())

	conv, err := m.GetOrCreate(context.Background(), "char-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.Equal(t, "char-1", conv.CharacterID)
	assert.Equal(t, "user-1", conv.UserID)
	assert.Empty(t, conv.Messages)

	again, err := m.GetOrCreate(context.Background(), "char-1", "user-1")
	require.NoError(t, err)
	assert.Same(t, conv, again)
}

func TestGetOrCreateCreateFailurePropagates(t *testing.T) {
	repo := newFakeConversationRepo()
	repo.createErr = errors.New("db down")
	m := NewManager(repo, nil, testMemoryConfig())

	// Create 失败且读不回记录时向上传播
	_, err := m.GetOrCreate(context.Background(), "char-1", "user-1")
	require.Error(t, err)
}

// racingConversationRepo 首次 GetByPair 未命中，Create 失败后读回已有记录
type racingConversationRepo struct {
	existing *entity.Conversation
	gets     int
}

func (r *racingConversationRepo) Create(ctx context.Context, conv *entity.Conversation) error {
	return errors.New("duplicate key value violates unique constraint")
}

func (r *racingConversationRepo) GetByPair(ctx context.Context, characterID, userID string) (*entity.Conversation, error) {
	r.gets++
	if r.gets == 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.existing, nil
}

func (r *racingConversationRepo) Update(ctx context.Context, conv *entity.Conversation) error {
	return nil
}

func TestGetOrCreateConcurrentCreateReadsBack(t *testing.T) {
	existing := entity.NewConversation("char-1", "user-1")
	repo := &racingConversationRepo{existing: existing}
	m := NewManager(repo, nil, testMemoryConfig())

	conv, err := m.GetOrCreate(context.Background(), "char-1", "user-1")
	require.NoError(t, err)
	assert.Same(t, existing, conv)
	assert.Equal(t, 2, repo.gets)
}

func TestAppendTurn(t *testing.T) {
	repo := newFakeConversationRepo()
	m := NewManager(repo, nil, testMemoryConfig())

	conv := entity.NewConversation("char-1", "user-1")
	require.NoError(t, m.AppendTurn(context.Background(), conv, entity.SpeakerUser, "hello"))
	require.NoError(t, m.AppendTurn(context.Background(), conv, entity.SpeakerCharacter, "well met"))

	require.Len(t, conv.Messages, 2)
	assert.Equal(t, entity.SpeakerUser, conv.Messages[0].Speaker)
	assert.Equal(t, "well met", conv.Messages[1].Text)
	assert.Equal(t, 2, repo.updates)
}

func TestAppendTurnUpdateFailure(t *testing.T) {
	repo := newFakeConversationRepo()
	repo.updateErr = errors.New("db down")
	m := NewManager(repo, nil, testMemoryConfig())

	conv := entity.NewConversation("char-1", "user-1")
	err := m.AppendTurn(context.Background(), conv, entity.SpeakerUser, "hello")
	require.Error(t, err)
}

func TestBuildContextWindow(t *testing.T) {
	m := NewManager(newFakeConversationRepo(), nil, testMemoryConfig())

	conv := entity.NewConversation("char-1", "user-1")
	conv.MemorySummary = "They met at the tavern."
	for i := 0; i < 25; i++ {
		conv.Append(entity.SpeakerUser, fmt.Sprintf("msg %d", i))
	}

	// 本轮用户消息另行携带，历史只留 window-1 条
	window := m.BuildContext(conv)
	assert.Equal(t, "They met at the tavern.", window.MemorySummary)
	require.Len(t, window.History, 9)
	assert.Equal(t, "msg 16", window.History[0].Text)
	assert.Equal(t, "msg 24", window.History[8].Text)
}

func TestBuildContextWindowOfOne(t *testing.T) {
	cfg := testMemoryConfig()
	cfg.ContextWindow = 1
	m := NewManager(newFakeConversationRepo(), nil, cfg)

	conv := entity.NewConversation("char-1", "user-1")
	for i := 0; i < 5; i++ {
		conv.Append(entity.SpeakerUser, "msg")
	}

	// 窗口只容得下本轮消息时历史为空
	window := m.BuildContext(conv)
	assert.Empty(t, window.History)
}

func TestMaybeSummarizeBelowThresholdDoesNothing(t *testing.T) {
	repo := newFakeConversationRepo()
	// gen 为 nil：未达阈值时绝不触达生成服务
	m := NewManager(repo, nil, testMemoryConfig())

	conv := entity.NewConversation("char-1", "user-1")
	for i := 0; i < 29; i++ {
		conv.Append(entity.SpeakerUser, "msg")
	}
	m.MaybeSummarize(context.Background(), conv, generation.GenerateHints{})
	assert.Zero(t, repo.updates)
}

func TestMaybeSummarizeOffIntervalDoesNothing(t *testing.T) {
	repo := newFakeConversationRepo()
	m := NewManager(repo, nil, testMemoryConfig())

	conv := entity.NewConversation("char-1", "user-1")
	for i := 0; i < 35; i++ {
		conv.Append(entity.SpeakerUser, "msg")
	}
	// 35 >= 30 但不是 20 的整数倍
	m.MaybeSummarize(context.Background(), conv, generation.GenerateHints{})
	assert.Zero(t, repo.updates)
}

func TestMaybeSummarizeFailureNeverPropagates(t *testing.T) {
	repo := newFakeConversationRepo()
	m := NewManager(repo, unavailableGenerationService(), testMemoryConfig())

	conv := entity.NewConversation("char-1", "user-1")
	for i := 0; i < 40; i++ {
		conv.Append(entity.SpeakerUser, "msg")
	}

	// 40 >= 30 且为 20 的整数倍：触发摘要，但生成失败只记日志
	m.MaybeSummarize(context.Background(), conv, generation.GenerateHints{})
	assert.Empty(t, conv.MemorySummary)
	assert.Zero(t, repo.updates)
}

func TestFormatTranscript(t *testing.T) {
	messages := []entity.MessageEntry{
		{Speaker: entity.SpeakerUser, Text: "Who are you?"},
		{Speaker: entity.SpeakerCharacter, Text: "A humble merchant."},
	}
	got := formatTranscript(messages)
	assert.Equal(t, "User: Who are you?\nCharacter: A humble merchant.", got)
}

func TestLockSerializesSameConversation(t *testing.T) {
	m := NewManager(newFakeConversationRepo(), nil, testMemoryConfig())

	unlock := m.Lock("char-1", "user-1")
	done := make(chan struct{})
	go func() {
		u := m.Lock("char-1", "user-1")
		u()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second lock acquired while first still held")
	default:
	}

	unlock()
	<-done
}
