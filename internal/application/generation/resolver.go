package generation

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"campaign-forge-api/internal/domain/repository"
	"campaign-forge-api/internal/infrastructure/crypto"
	"campaign-forge-api/internal/infrastructure/llm"
	apperrors "campaign-forge-api/pkg/errors"
	"campaign-forge-api/pkg/logger"
)

// ResolveInput 一次请求可携带的全部模型提示，按优先级消化
type ResolveInput struct {
	// ExplicitProvider 请求顶层的 provider 字段，最高优先级
	ExplicitProvider string
	// RequestModel 请求的模型标识，可为复合形式 "<provider>/<model>"
	RequestModel string
	// EntityPreference 所属实体（战役）保存的复合模型偏好
	EntityPreference string
	// UserID 发起用户，用于用户级偏好与凭证覆盖；可为空
	UserID string
}

// Resolution 解析结果，Backend 已按最终凭证构建完成
type Resolution struct {
	Provider llm.Provider
	Model    string
	Backend  llm.ChatBackend
	// UsedUserCredential 本次调用是否使用了用户级凭证覆盖
	UsedUserCredential bool
}

// Resolver 供应商解析器
//
// 按固定优先级从请求、实体偏好、用户偏好与系统兜底链中选出
// (provider, model) 并构建后端。显式指定的供应商从不被悄悄替换，
// 不可用时整个操作以 ServiceUnavailable 终止。
type Resolver struct {
	registry *llm.Registry
	credRepo repository.ProviderCredentialRepository
	userRepo repository.UserRepository
	cipher   *crypto.CredentialCipher
}

// NewResolver 创建供应商解析器
func NewResolver(
	registry *llm.Registry,
	credRepo repository.ProviderCredentialRepository,
	userRepo repository.UserRepository,
	cipher *crypto.CredentialCipher,
) *Resolver {
	return &Resolver{
		registry: registry,
		credRepo: credRepo,
		userRepo: userRepo,
		cipher:   cipher,
	}
}

// Resolve 选定供应商与模型并构建后端
func (r *Resolver) Resolve(ctx context.Context, in ResolveInput) (*Resolution, error) {
	provider, model, err := r.pickProviderAndModel(ctx, in)
	if err != nil {
		return nil, err
	}

	apiKey, override := r.userCredential(ctx, in.UserID, provider)

	if !r.registry.Configured(provider) && !override {
		return nil, apperrors.ErrServiceUnavailable.WithDetail(
			"provider " + string(provider) + " has no usable credential")
	}

	backend, err := r.registry.BackendWithKey(ctx, provider, apiKey)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavailable,
			"failed to initialize provider "+string(provider))
	}

	if model == "" {
		if cfg, ok := r.registry.ProviderConfig(provider); ok {
			model = cfg.Model
		}
	}

	return &Resolution{
		Provider:           provider,
		Model:              model,
		Backend:            backend,
		UsedUserCredential: override,
	}, nil
}

// pickProviderAndModel 按优先级链选定 (provider, model)
func (r *Resolver) pickProviderAndModel(ctx context.Context, in ResolveInput) (llm.Provider, string, error) {
	requestRef := ParseModelRef(in.RequestModel)

	// 1. 请求顶层的显式 provider 字段
	if explicit := strings.TrimSpace(in.ExplicitProvider); explicit != "" {
		p, ok := llm.ParseProvider(explicit)
		if !ok {
			return "", "", apperrors.ErrValidationFailed.WithDetail("unknown provider: " + explicit)
		}
		if !r.registry.Known(p) {
			return "", "", apperrors.ErrServiceUnavailable.WithDetail(
				"provider " + string(p) + " is not configured")
		}
		return p, requestRef.Model, nil
	}

	// 2. 请求模型标识中的复合 provider 前缀
	if requestRef.Provider != "" {
		if !r.registry.Known(requestRef.Provider) {
			return "", "", apperrors.ErrServiceUnavailable.WithDetail(
				"provider " + string(requestRef.Provider) + " is not configured")
		}
		return requestRef.Provider, requestRef.Model, nil
	}

	// 裸模型名由更低优先级来源或兜底链决定 provider
	bareModel := requestRef.Model

	// 3. 实体级保存的偏好
	if ref := ParseModelRef(in.EntityPreference); ref.Provider != "" {
		if !r.registry.Known(ref.Provider) {
			return "", "", apperrors.ErrServiceUnavailable.WithDetail(
				"provider " + string(ref.Provider) + " is not configured")
		}
		return ref.Provider, firstNonEmpty(bareModel, ref.Model), nil
	}

	// 4. 用户级偏好
	if ref := r.userPreference(ctx, in.UserID); ref.Provider != "" {
		if !r.registry.Known(ref.Provider) {
			return "", "", apperrors.ErrServiceUnavailable.WithDetail(
				"provider " + string(ref.Provider) + " is not configured")
		}
		return ref.Provider, firstNonEmpty(bareModel, ref.Model), nil
	}

	// 5. 系统兜底链：取第一个配置了有效凭证的供应商
	for _, p := range r.registry.FallbackChain() {
		if r.registry.Configured(p) {
			return p, bareModel, nil
		}
	}

	return "", "", apperrors.ErrServiceUnavailable
}

// userPreference 读取用户级模型偏好，读取失败按无偏好处理
func (r *Resolver) userPreference(ctx context.Context, userID string) ModelRef {
	if r.userRepo == nil || strings.TrimSpace(userID) == "" {
		return ModelRef{}
	}

	user, err := r.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Warn(ctx, "failed to load user preference", "user_id", userID, "error", err.Error())
		}
		return ModelRef{}
	}
	return ParseModelRef(user.ModelPreference)
}

// userCredential 解析用户级凭证覆盖
//
// 解密失败不致命：记录日志后按无覆盖处理，继续走系统凭证。
func (r *Resolver) userCredential(ctx context.Context, userID string, provider llm.Provider) (string, bool) {
	if r.credRepo == nil || r.cipher == nil || strings.TrimSpace(userID) == "" {
		return "", false
	}

	cred, err := r.credRepo.GetByUserAndProvider(ctx, userID, string(provider))
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Warn(ctx, "failed to load user credential",
				"user_id", userID, "provider", string(provider), "error", err.Error())
		}
		return "", false
	}

	apiKey, err := r.cipher.Decrypt(cred.EncryptedKey)
	if err != nil {
		logger.Warn(ctx, "failed to decrypt user credential, falling back to system credential",
			"user_id", userID, "provider", string(provider), "error", err.Error())
		return "", false
	}
	return apiKey, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
