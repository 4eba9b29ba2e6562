// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campaign-forge-api/internal/application/generation"
	"campaign-forge-api/internal/domain/entity"
	"campaign-forge-api/internal/domain/repository"
	"campaign-forge-api/internal/interfaces/http/dto"
	"campaign-forge-api/pkg/logger"
)

// CampaignHandler 战役处理器
type CampaignHandler struct {
	campaignRepo  repository.CampaignRepository
	sectionRepo   repository.SectionRepository
	characterRepo repository.CharacterRepository
	gen           *generation.Service
}

// NewCampaignHandler 创建战役处理器
func NewCampaignHandler(
	campaignRepo repository.CampaignRepository,
	sectionRepo repository.SectionRepository,
	characterRepo repository.CharacterRepository,
	gen *generation.Service,
) *CampaignHandler {
	return &CampaignHandler{
		campaignRepo:  campaignRepo,
		sectionRepo:   sectionRepo,
		characterRepo: characterRepo,
		gen:           gen,
	}
}

// loadOwned 加载战役并校验归属；失败时已写出响应
func (h *CampaignHandler) loadOwned(c *gin.Context) (*entity.Campaign, bool) {
	campaign, err := h.campaignRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dto.NotFound(c, "campaign not found")
			return nil, false
		}
		logger.Error(c.Request.Context(), "failed to load campaign", err, "campaign_id", c.Param("id"))
		dto.InternalError(c, "failed to load campaign")
		return nil, false
	}
	if campaign.UserID != currentUserID(c) {
		// 归属校验失败与不存在同样返回 404，避免暴露资源存在性
		dto.NotFound(c, "campaign not found")
		return nil, false
	}
	return campaign, true
}

// Create 创建战役
func (h *CampaignHandler) Create(c *gin.Context) {
	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	campaign := entity.NewCampaign(currentUserID(c), req.Title)
	campaign.Concept = req.Concept
	campaign.ModelPreference = req.ModelPreference

	if err := h.campaignRepo.Create(c.Request.Context(), campaign); err != nil {
		logger.Error(c.Request.Context(), "failed to create campaign", err)
		dto.InternalError(c, "failed to create campaign")
		return
	}
	dto.Created(c, dto.ToCampaignResponse(campaign))
}

// Get 获取战役详情
func (h *CampaignHandler) Get(c *gin.Context) {
	campaign, ok := h.loadOwned(c)
	if !ok {
		return
	}
	dto.Success(c, dto.ToCampaignResponse(campaign))
}

// List 分页列出当前用户的战役
func (h *CampaignHandler) List(c *gin.Context) {
	page := dto.BindPage(c)
	result, err := h.campaignRepo.ListByUser(c.Request.Context(), currentUserID(c), page)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list campaigns", err)
		dto.InternalError(c, "failed to list campaigns")
		return
	}
	dto.SuccessWithPage(c, dto.ToCampaignListResponse(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Update 更新战役
func (h *CampaignHandler) Update(c *gin.Context) {
	campaign, ok := h.loadOwned(c)
	if !ok {
		return
	}

	var req dto.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if req.Title != nil {
		campaign.Title = *req.Title
	}
	if req.Concept != nil {
		campaign.Concept = *req.Concept
	}
	if req.ModelPreference != nil {
		campaign.ModelPreference = *req.ModelPreference
	}

	if err := h.campaignRepo.Update(c.Request.Context(), campaign); err != nil {
		logger.Error(c.Request.Context(), "failed to update campaign", err, "campaign_id", campaign.ID)
		dto.InternalError(c, "failed to update campaign")
		return
	}
	dto.Success(c, dto.ToCampaignResponse(campaign))
}

// Delete 删除战役
func (h *CampaignHandler) Delete(c *gin.Context) {
	campaign, ok := h.loadOwned(c)
	if !ok {
		return
	}
	if err := h.campaignRepo.Delete(c.Request.Context(), campaign.ID); err != nil {
		logger.Error(c.Request.Context(), "failed to delete campaign", err, "campaign_id", campaign.ID)
		dto.InternalError(c, "failed to delete campaign")
		return
	}
	dto.NoContent(c)
}

// ListSections 按目录顺序列出战役章节
func (h *CampaignHandler) ListSections(c *gin.Context) {
	campaign, ok := h.loadOwned(c)
	if !ok {
		return
	}
	sections, err := h.sectionRepo.ListByCampaign(c.Request.Context(), campaign.ID)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list sections", err, "campaign_id", campaign.ID)
		dto.InternalError(c, "failed to list sections")
		return
	}
	dto.Success(c, dto.ToSectionListResponse(sections))
}

// GenerateToc 基于战役概念生成并解析目录
func (h *CampaignHandler) GenerateToc(c *gin.Context) {
	campaign, ok := h.loadOwned(c)
	if !ok {
		return
	}
	if campaign.Concept == "" {
		dto.BadRequest(c, "campaign has no concept yet")
		return
	}

	var req dto.GenerateTocRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	out, err := h.gen.GenerateToc(c.Request.Context(), campaign.Concept,
		buildHints(c, req.ModelHints, campaign.ModelPreference))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, &dto.TocResponse{
		Raw:     out.Raw,
		Entries: dto.FromTocEntries(out.Entries),
	})
}

// GenerateTitles 生成指定数量的章节标题
func (h *CampaignHandler) GenerateTitles(c *gin.Context) {
	campaign, ok := h.loadOwned(c)
	if !ok {
		return
	}
	if campaign.Concept == "" {
		dto.BadRequest(c, "campaign has no concept yet")
		return
	}

	var req dto.GenerateTitlesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	titles, err := h.gen.GenerateTitles(c.Request.Context(), campaign.Concept, req.Count,
		buildHints(c, req.ModelHints, campaign.ModelPreference))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, &dto.TitlesResponse{Titles: titles})
}

// GenerateHomebreweryToc 生成 Homebrewery 标记格式的目录
func (h *CampaignHandler) GenerateHomebreweryToc(c *gin.Context) {
	campaign, ok := h.loadOwned(c)
	if !ok {
		return
	}

	sections, err := h.sectionRepo.ListByCampaign(c.Request.Context(), campaign.ID)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list sections", err, "campaign_id", campaign.ID)
		dto.InternalError(c, "failed to list sections")
		return
	}
	summary := sectionTitleSummary(sections)
	if summary == "" {
		dto.BadRequest(c, "campaign has no sections yet")
		return
	}

	var req dto.GenerateHomebreweryTocRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	out, err := h.gen.GenerateHomebreweryToc(c.Request.Context(), summary,
		buildHints(c, req.ModelHints, campaign.ModelPreference))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, dto.ToGenerationResponse(out))
}

// CreateCharacter 在战役下创建角色
func (h *CampaignHandler) CreateCharacter(c *gin.Context) {
	campaign, ok := h.loadOwned(c)
	if !ok {
		return
	}

	var req dto.CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	character := entity.NewCharacter(campaign.ID, req.Name, req.Notes)
	if err := h.characterRepo.Create(c.Request.Context(), character); err != nil {
		logger.Error(c.Request.Context(), "failed to create character", err, "campaign_id", campaign.ID)
		dto.InternalError(c, "failed to create character")
		return
	}
	dto.Created(c, dto.ToCharacterResponse(character))
}

// ListCharacters 列出战役下的角色
func (h *CampaignHandler) ListCharacters(c *gin.Context) {
	campaign, ok := h.loadOwned(c)
	if !ok {
		return
	}
	characters, err := h.characterRepo.ListByCampaign(c.Request.Context(), campaign.ID)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list characters", err, "campaign_id", campaign.ID)
		dto.InternalError(c, "failed to list characters")
		return
	}
	dto.Success(c, dto.ToCharacterListResponse(characters))
}

// sectionTitleSummary 将章节标题拼成纯文本摘要，作为目录生成的输入
func sectionTitleSummary(sections []*entity.Section) string {
	titles := make([]string, 0, len(sections))
	for _, s := range sections {
		if s == nil || strings.TrimSpace(s.Title) == "" {
			continue
		}
		titles = append(titles, strings.TrimSpace(s.Title))
	}
	return strings.Join(titles, "\n")
}
