// Package handler 提供 HTTP 请求处理器
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"campaign-forge-api/internal/application/seeding"
	"campaign-forge-api/internal/interfaces/http/dto"
	"campaign-forge-api/pkg/logger"
)

// SeedHandler 章节种子化处理器，以 SSE 推送进度
type SeedHandler struct {
	campaign *CampaignHandler
	pipeline *seeding.Pipeline
}

// NewSeedHandler 创建种子化处理器
func NewSeedHandler(campaign *CampaignHandler, pipeline *seeding.Pipeline) *SeedHandler {
	return &SeedHandler{
		campaign: campaign,
		pipeline: pipeline,
	}
}

// sseSink 把管线事件按 SSE data 帧写出，每条事件立即 flush。
// 写失败意味着客户端断开，错误原样返回给管线终止推进。
type sseSink struct {
	w       gin.ResponseWriter
	flusher http.Flusher
}

func newSSESink(c *gin.Context) (*sseSink, bool) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		return nil, false
	}
	return &sseSink{w: c.Writer, flusher: flusher}, true
}

// Send 实现 seeding.Sink
func (s *sseSink) Send(event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal sse event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Seed 运行种子化并流式推送进度事件
//
// 请求体校验失败走普通 JSON 错误，一旦切换到 SSE 模式后所有
// 问题都以事件形式传达，HTTP 状态保持 200。
func (h *SeedHandler) Seed(c *gin.Context) {
	campaign, ok := h.campaign.loadOwned(c)
	if !ok {
		return
	}

	var req dto.SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sink, ok := newSSESink(c)
	if !ok {
		dto.InternalError(c, "streaming not supported")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	in := seeding.RunInput{
		Campaign:       campaign,
		Entries:        dto.ToTocEntries(req.Entries),
		AutoPopulate:   req.AutoPopulate,
		CreationPrompt: req.CreationPrompt,
		Hints:          buildHints(c, req.ModelHints, campaign.ModelPreference),
	}

	if err := h.pipeline.Run(c.Request.Context(), in, sink); err != nil {
		// 此时响应流已不可用，只能记录
		logger.Warn(c.Request.Context(), "seeding run aborted",
			"campaign_id", campaign.ID, "error", err.Error())
	}
}
