// Package chat 编排角色扮演对话轮
package chat

import (
	"context"

	"gorm.io/gorm"

	"campaign-forge-api/internal/application/generation"
	"campaign-forge-api/internal/application/memory"
	"campaign-forge-api/internal/domain/entity"
	"campaign-forge-api/internal/domain/repository"
	apperrors "campaign-forge-api/pkg/errors"
	"campaign-forge-api/pkg/logger"
)

// ChatInput 一轮角色对话的输入
type ChatInput struct {
	CharacterID string
	UserID      string
	Message     string

	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int
}

// ChatOutput 一轮角色对话的结果
type ChatOutput struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
}

// Service 对话编排服务
//
// 一轮对话的完整流程：锁定对话、构建上下文、生成回复、
// 追加双方消息、按阈值刷新摘要。
type Service struct {
	characterRepo repository.CharacterRepository
	campaignRepo  repository.CampaignRepository
	manager       *memory.Manager
	gen           *generation.Service
	txMgr         repository.Transactor
}

// NewService 创建对话编排服务
func NewService(
	characterRepo repository.CharacterRepository,
	campaignRepo repository.CampaignRepository,
	manager *memory.Manager,
	gen *generation.Service,
	txMgr repository.Transactor,
) *Service {
	return &Service{
		characterRepo: characterRepo,
		campaignRepo:  campaignRepo,
		manager:       manager,
		gen:           gen,
		txMgr:         txMgr,
	}
}

// Chat 执行一轮角色对话
func (s *Service) Chat(ctx context.Context, in ChatInput) (*ChatOutput, error) {
	character, err := s.characterRepo.GetByID(ctx, in.CharacterID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.New(apperrors.CodeCharacterNotFound, "character not found")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load character")
	}

	hints := generation.GenerateHints{
		Provider:         in.Provider,
		Model:            in.Model,
		UserID:           in.UserID,
		Temperature:      in.Temperature,
		MaxTokens:        in.MaxTokens,
		EntityPreference: s.campaignPreference(ctx, character.CampaignID),
	}

	unlock := s.manager.Lock(in.CharacterID, in.UserID)
	defer unlock()

	conv, err := s.manager.GetOrCreate(ctx, in.CharacterID, in.UserID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load conversation")
	}

	window := s.manager.BuildContext(conv)

	out, err := s.gen.GenerateCharacterResponse(ctx, generation.CharacterChatInput{
		CharacterName:  character.Name,
		CharacterNotes: character.Notes,
		MemoryContext:  window.MemorySummary,
		History:        window.History,
		UserMessage:    in.Message,
		Hints:          hints,
	})
	if err != nil {
		return nil, err
	}

	// 两条消息要么都入库，要么都不入，避免半截对话
	err = s.txMgr.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.manager.AppendTurn(txCtx, conv, entity.SpeakerUser, in.Message); err != nil {
			return err
		}
		return s.manager.AppendTurn(txCtx, conv, entity.SpeakerCharacter, out.Text)
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to persist conversation turns")
	}

	s.manager.MaybeSummarize(ctx, conv, hints)

	return &ChatOutput{
		ConversationID: conv.ID,
		Reply:          out.Text,
		Provider:       out.Provider,
		Model:          out.Model,
	}, nil
}

// campaignPreference 读取角色所属战役的模型偏好，失败按无偏好处理
func (s *Service) campaignPreference(ctx context.Context, campaignID string) string {
	if campaignID == "" {
		return ""
	}
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Warn(ctx, "failed to load campaign preference",
				"campaign_id", campaignID, "error", err.Error())
		}
		return ""
	}
	return campaign.ModelPreference
}
