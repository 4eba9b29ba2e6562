package seeding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-forge-api/internal/application/generation"
	"campaign-forge-api/internal/config"
	"campaign-forge-api/internal/domain/entity"
	"campaign-forge-api/internal/infrastructure/llm"
	workflowprompt "campaign-forge-api/internal/workflow/prompt"
)

type fakeSectionRepo struct {
	deletedCampaigns []string
	created          []*entity.Section
	// failCreateTitles 命中这些标题的 Create 调用返回错误
	failCreateTitles map[string]bool
	deleteErr        error
}

func (f *fakeSectionRepo) Create(ctx context.Context, section *entity.Section) error {
	if f.failCreateTitles[section.Title] {
		return errors.New("insert failed")
	}
	f.created = append(f.created, section)
	return nil
}

func (f *fakeSectionRepo) GetByID(ctx context.Context, id string) (*entity.Section, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeSectionRepo) Update(ctx context.Context, section *entity.Section) error {
	return errors.New("not implemented")
}

func (f *fakeSectionRepo) DeleteByCampaign(ctx context.Context, campaignID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedCampaigns = append(f.deletedCampaigns, campaignID)
	return nil
}

func (f *fakeSectionRepo) ListByCampaign(ctx context.Context, campaignID string) ([]*entity.Section, error) {
	return f.created, nil
}

type recordingSink struct {
	events []any
	// failAfter 第 n 次 Send 之后的调用全部失败，0 表示从不失败
	failAfter int
	sends     int
}

func (s *recordingSink) Send(event any) error {
	s.sends++
	if s.failAfter > 0 && s.sends > s.failAfter {
		return errors.New("client disconnected")
	}
	s.events = append(s.events, event)
	return nil
}

func testCampaign() *entity.Campaign {
	return &entity.Campaign{ID: "camp-1", UserID: "user-1", Concept: "A haunted mountain pass."}
}

func placeholderEntries() []generation.TocEntry {
	return []generation.TocEntry{
		{Title: "Goblin Camp", Type: "location"},
		{Title: "NPCs of the Pass", Type: "unknown"},
		{Title: "The Shattered Crown", Type: ""},
	}
}

func TestPipelineRunPlaceholderBatch(t *testing.T) {
	repo := &fakeSectionRepo{}
	sink := &recordingSink{}
	// AutoPopulate 为 false 时不触达生成服务与解析器
	p := NewPipeline(repo, nil, nil)

	err := p.Run(context.Background(), RunInput{
		Campaign: testCampaign(),
		Entries:  placeholderEntries(),
	}, sink)
	require.NoError(t, err)

	// replace-all 语义：先清空再落库
	assert.Equal(t, []string{"camp-1"}, repo.deletedCampaigns)
	require.Len(t, repo.created, 3)

	for i, section := range repo.created {
		assert.Equal(t, "camp-1", section.CampaignID)
		assert.Equal(t, i, section.SortOrder)
		assert.Equal(t, fmt.Sprintf("Content for %q has not been written yet.", section.Title), section.Content)
	}
	assert.Equal(t, entity.SectionTypeLocation, repo.created[0].Type)
	assert.Equal(t, entity.SectionTypeNPC, repo.created[1].Type)
	assert.Equal(t, entity.SectionTypeGeneric, repo.created[2].Type)

	// 每条目一个进度事件，最后一个完成事件
	require.Len(t, sink.events, 4)

	first, ok := sink.events[0].(SectionUpdateEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeSectionUpdate, first.EventType)
	assert.Equal(t, "Goblin Camp", first.CurrentSectionTitle)
	assert.InDelta(t, 33.33, first.ProgressPercent, 0.01)

	last, ok := sink.events[2].(SectionUpdateEvent)
	require.True(t, ok)
	assert.InDelta(t, 100.0, last.ProgressPercent, 0.001)

	complete, ok := sink.events[3].(CompleteEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeComplete, complete.EventType)
	assert.Equal(t, 3, complete.TotalSectionsProcessed)
	assert.Equal(t, "seeding finished, 3 sections processed", complete.Message)
}

func TestPipelineRunPersistFailureContinuesBatch(t *testing.T) {
	repo := &fakeSectionRepo{failCreateTitles: map[string]bool{"NPCs of the Pass": true}}
	sink := &recordingSink{}
	p := NewPipeline(repo, nil, nil)

	err := p.Run(context.Background(), RunInput{
		Campaign: testCampaign(),
		Entries:  placeholderEntries(),
	}, sink)
	require.NoError(t, err)

	// 落库失败的条目只产生一条 error 事件，批次继续
	require.Len(t, repo.created, 2)
	require.Len(t, sink.events, 4)

	errEvent, ok := sink.events[1].(ErrorEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeError, errEvent.EventType)
	assert.Contains(t, errEvent.Message, "NPCs of the Pass")

	complete, ok := sink.events[3].(CompleteEvent)
	require.True(t, ok)
	assert.Equal(t, 2, complete.TotalSectionsProcessed)
}

func TestPipelineRunSinkFailureAborts(t *testing.T) {
	repo := &fakeSectionRepo{}
	// 第一条进度事件之后的 Send 全部失败
	sink := &recordingSink{failAfter: 1}
	p := NewPipeline(repo, nil, nil)

	err := p.Run(context.Background(), RunInput{
		Campaign: testCampaign(),
		Entries:  placeholderEntries(),
	}, sink)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event stream closed after 2/3 sections")
}

func TestPipelineRunDeleteFailure(t *testing.T) {
	repo := &fakeSectionRepo{deleteErr: errors.New("db down")}
	sink := &recordingSink{}
	p := NewPipeline(repo, nil, nil)

	err := p.Run(context.Background(), RunInput{
		Campaign: testCampaign(),
		Entries:  placeholderEntries(),
	}, sink)
	require.Error(t, err)

	require.Len(t, sink.events, 1)
	errEvent, ok := sink.events[0].(ErrorEvent)
	require.True(t, ok)
	assert.Contains(t, errEvent.Message, "failed to clear existing sections")
	assert.Empty(t, repo.created)
}

func TestPipelineRunNilCampaign(t *testing.T) {
	p := NewPipeline(&fakeSectionRepo{}, nil, nil)
	err := p.Run(context.Background(), RunInput{}, &recordingSink{})
	require.Error(t, err)
}

// newLiveTestPipeline 在给定 base URL 上搭建完整的解析与生成栈，
// 仅配置 local 供应商，不需要 API key。
func newLiveTestPipeline(repo *fakeSectionRepo, baseURL string) *Pipeline {
	cfg := &config.Config{}
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"local": {
			BaseURL: baseURL,
			Model:   "test-model",
			Timeout: 5 * time.Second,
		},
	}
	cfg.LLM.FallbackChain = []string{"local"}

	registry := llm.NewRegistry(cfg)
	resolver := generation.NewResolver(registry, nil, nil, nil)
	gen := generation.NewService(resolver, workflowprompt.NewRegistry(), nil, registry, 0)
	return NewPipeline(repo, gen, resolver)
}

func TestPipelineRunGenerationFailureIsolated(t *testing.T) {
	var calls int
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))

		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"chatcmpl-%d","object":"chat.completion","created":1,"model":"test-model",`+
			`"choices":[{"index":0,"message":{"role":"assistant","content":"Generated body for call %d."},"finish_reason":"stop"}],`+
			`"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`, calls, calls)
	}))
	defer srv.Close()

	repo := &fakeSectionRepo{}
	sink := &recordingSink{}
	p := newLiveTestPipeline(repo, srv.URL)

	err := p.Run(context.Background(), RunInput{
		Campaign:       testCampaign(),
		Entries:        placeholderEntries(),
		AutoPopulate:   true,
		CreationPrompt: "keep the tone grim",
	}, sink)
	require.NoError(t, err)

	// 三个条目都触达上游，第二次调用失败
	assert.Equal(t, 3, calls)

	// 失败条目落占位内容，批次不中止
	require.Len(t, repo.created, 3)
	assert.Equal(t, "Generated body for call 1.", repo.created[0].Content)
	assert.Equal(t, `Content for "NPCs of the Pass" has not been written yet.`, repo.created[1].Content)
	assert.Equal(t, "Generated body for call 3.", repo.created[2].Content)

	// 每条目一个进度事件，失败条目额外一条 error 事件，最后完成事件
	require.Len(t, sink.events, 5)
	var updates, errs int
	for _, e := range sink.events[:4] {
		switch ev := e.(type) {
		case SectionUpdateEvent:
			updates++
		case ErrorEvent:
			errs++
			assert.Contains(t, ev.Message, "NPCs of the Pass")
		}
	}
	assert.Equal(t, 3, updates)
	assert.Equal(t, 1, errs)

	complete, ok := sink.events[4].(CompleteEvent)
	require.True(t, ok)
	assert.Equal(t, 3, complete.TotalSectionsProcessed)

	// 创作指示与既有章节摘要进入提示词
	require.Len(t, bodies, 3)
	assert.Contains(t, bodies[0], "keep the tone grim")
	assert.Contains(t, bodies[2], "Goblin Camp")
}

func TestPipelineRunEmptyEntries(t *testing.T) {
	repo := &fakeSectionRepo{}
	sink := &recordingSink{}
	p := NewPipeline(repo, nil, nil)

	err := p.Run(context.Background(), RunInput{Campaign: testCampaign()}, sink)
	require.NoError(t, err)

	// 仍然执行清空并推送完成事件
	assert.Equal(t, []string{"camp-1"}, repo.deletedCampaigns)
	require.Len(t, sink.events, 1)
	complete, ok := sink.events[0].(CompleteEvent)
	require.True(t, ok)
	assert.Equal(t, 0, complete.TotalSectionsProcessed)
}
