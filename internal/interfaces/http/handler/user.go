// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campaign-forge-api/internal/domain/entity"
	"campaign-forge-api/internal/domain/repository"
	"campaign-forge-api/internal/infrastructure/crypto"
	"campaign-forge-api/internal/infrastructure/llm"
	"campaign-forge-api/internal/interfaces/http/dto"
	"campaign-forge-api/pkg/logger"
)

// UserHandler 用户资料与凭证处理器
type UserHandler struct {
	userRepo  repository.UserRepository
	credRepo  repository.ProviderCredentialRepository
	usageRepo repository.LLMUsageEventRepository
	cipher    *crypto.CredentialCipher
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	userRepo repository.UserRepository,
	credRepo repository.ProviderCredentialRepository,
	usageRepo repository.LLMUsageEventRepository,
	cipher *crypto.CredentialCipher,
) *UserHandler {
	return &UserHandler{
		userRepo:  userRepo,
		credRepo:  credRepo,
		usageRepo: usageRepo,
		cipher:    cipher,
	}
}

// Me 返回当前用户资料
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userRepo.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dto.NotFound(c, "user not found")
			return
		}
		logger.Error(c.Request.Context(), "failed to load user", err)
		dto.InternalError(c, "failed to load user")
		return
	}
	dto.Success(c, dto.ToAuthUserDTO(user))
}

// UpdatePreference 更新用户级模型偏好
func (h *UserHandler) UpdatePreference(c *gin.Context) {
	var req dto.UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dto.NotFound(c, "user not found")
			return
		}
		logger.Error(c.Request.Context(), "failed to load user", err)
		dto.InternalError(c, "failed to update preference")
		return
	}

	user.ModelPreference = req.ModelPreference
	if err := h.userRepo.Update(c.Request.Context(), user); err != nil {
		logger.Error(c.Request.Context(), "failed to update preference", err)
		dto.InternalError(c, "failed to update preference")
		return
	}
	dto.Success(c, dto.ToAuthUserDTO(user))
}

// UpsertCredential 保存用户级供应商 API 密钥，密文落库
func (h *UserHandler) UpsertCredential(c *gin.Context) {
	provider, ok := llm.ParseProvider(c.Param("provider"))
	if !ok {
		dto.BadRequest(c, "unknown provider: "+c.Param("provider"))
		return
	}

	var req dto.UpsertCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	encrypted, err := h.cipher.Encrypt(req.APIKey)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to encrypt credential", err, "provider", string(provider))
		dto.InternalError(c, "failed to store credential")
		return
	}

	cred := &entity.ProviderCredential{
		UserID:       currentUserID(c),
		Provider:     string(provider),
		EncryptedKey: encrypted,
	}
	if err := h.credRepo.Upsert(c.Request.Context(), cred); err != nil {
		logger.Error(c.Request.Context(), "failed to upsert credential", err, "provider", string(provider))
		dto.InternalError(c, "failed to store credential")
		return
	}
	dto.Success(c, &dto.CredentialResponse{Provider: string(provider), Stored: true})
}

// DeleteCredential 删除用户级供应商凭证
func (h *UserHandler) DeleteCredential(c *gin.Context) {
	provider, ok := llm.ParseProvider(c.Param("provider"))
	if !ok {
		dto.BadRequest(c, "unknown provider: "+c.Param("provider"))
		return
	}

	if err := h.credRepo.Delete(c.Request.Context(), currentUserID(c), string(provider)); err != nil {
		logger.Error(c.Request.Context(), "failed to delete credential", err, "provider", string(provider))
		dto.InternalError(c, "failed to delete credential")
		return
	}
	dto.NoContent(c)
}

// ListUsage 分页列出当前用户的 LLM 用量流水
func (h *UserHandler) ListUsage(c *gin.Context) {
	page := dto.BindPage(c)
	result, err := h.usageRepo.ListByUser(c.Request.Context(), currentUserID(c), page)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list usage events", err)
		dto.InternalError(c, "failed to list usage events")
		return
	}
	dto.SuccessWithPage(c, result.Items,
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}
