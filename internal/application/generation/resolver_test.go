package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"campaign-forge-api/internal/config"
	"campaign-forge-api/internal/domain/entity"
	"campaign-forge-api/internal/infrastructure/crypto"
	"campaign-forge-api/internal/infrastructure/llm"
	apperrors "campaign-forge-api/pkg/errors"
)

type stubUserRepo struct {
	user *entity.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }

func (s *stubUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return false, nil
}

type stubCredentialRepo struct {
	credential *entity.ProviderCredential
}

func (s *stubCredentialRepo) Upsert(ctx context.Context, credential *entity.ProviderCredential) error {
	return nil
}

func (s *stubCredentialRepo) GetByUserAndProvider(ctx context.Context, userID, provider string) (*entity.ProviderCredential, error) {
	if s.credential == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.credential, nil
}

func (s *stubCredentialRepo) Delete(ctx context.Context, userID, provider string) error { return nil }

func newTestRegistry(providers map[string]config.ProviderConfig, chain []string) *llm.Registry {
	cfg := &config.Config{}
	cfg.LLM.Providers = providers
	cfg.LLM.FallbackChain = chain
	return llm.NewRegistry(cfg)
}

const testCipherKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestPickProviderAndModelExplicitProvider(t *testing.T) {
	registry := newTestRegistry(map[string]config.ProviderConfig{
		"openai": {APIKey: "sk-real", Model: "gpt-4o"},
	}, nil)
	r := NewResolver(registry, &stubCredentialRepo{}, &stubUserRepo{}, nil)

	provider, model, err := r.pickProviderAndModel(context.Background(), ResolveInput{
		ExplicitProvider: "openai",
		RequestModel:     "gpt-4o-mini",
	})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderOpenAI, provider)
	assert.Equal(t, "gpt-4o-mini", model)
}

func TestPickProviderAndModelUnknownExplicitProvider(t *testing.T) {
	registry := newTestRegistry(map[string]config.ProviderConfig{
		"openai": {APIKey: "sk-real"},
	}, nil)
	r := NewResolver(registry, &stubCredentialRepo{}, &stubUserRepo{}, nil)

	_, _, err := r.pickProviderAndModel(context.Background(), ResolveInput{
		ExplicitProvider: "foo",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestPickProviderAndModelExplicitProviderNotInConfig(t *testing.T) {
	registry := newTestRegistry(map[string]config.ProviderConfig{
		"openai": {APIKey: "sk-real"},
	}, nil)
	r := NewResolver(registry, &stubCredentialRepo{}, &stubUserRepo{}, nil)

	// 显式指定的供应商不可用时绝不换用其它供应商
	_, _, err := r.pickProviderAndModel(context.Background(), ResolveInput{
		ExplicitProvider: "gemini",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeServiceUnavailable))
}

func TestPickProviderAndModelCompoundModelBeatsPreferences(t *testing.T) {
	registry := newTestRegistry(map[string]config.ProviderConfig{
		"openai": {APIKey: "sk-real"},
		"gemini": {APIKey: "gm-real"},
	}, nil)
	userRepo := &stubUserRepo{user: &entity.User{ModelPreference: "openai/gpt-4o"}}
	r := NewResolver(registry, &stubCredentialRepo{}, userRepo, nil)

	provider, model, err := r.pickProviderAndModel(context.Background(), ResolveInput{
		RequestModel:     "gemini/gemini-1.5-pro",
		EntityPreference: "openai/gpt-4o",
		UserID:           "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, provider)
	assert.Equal(t, "gemini-1.5-pro", model)
}

func TestPickProviderAndModelCompoundProviderNotInConfig(t *testing.T) {
	registry := newTestRegistry(map[string]config.ProviderConfig{
		"openai": {APIKey: "sk-real"},
	}, nil)
	r := NewResolver(registry, &stubCredentialRepo{}, &stubUserRepo{}, nil)

	_, _, err := r.pickProviderAndModel(context.Background(), ResolveInput{
		RequestModel: "llama/llama3-70b",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeServiceUnavailable))
}

func TestPickProviderAndModelEntityPreferenceBeatsUserPreference(t *testing.T) {
	registry := newTestRegistry(map[string]config.ProviderConfig{
		"openai": {APIKey: "sk-real"},
		"gemini": {APIKey: "gm-real"},
	}, nil)
	userRepo := &stubUserRepo{user: &entity.User{ModelPreference: "gemini/gemini-1.5-pro"}}
	r := NewResolver(registry, &stubCredentialRepo{}, userRepo, nil)

	provider, model, err := r.pickProviderAndModel(context.Background(), ResolveInput{
		EntityPreference: "openai/gpt-4o",
		UserID:           "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderOpenAI, provider)
	assert.Equal(t, "gpt-4o", model)
}

func TestPickProviderAndModelBareModelKeptWithPreferenceProvider(t *testing.T) {
	registry := newTestRegistry(map[string]config.ProviderConfig{
		"openai": {APIKey: "sk-real", Model: "gpt-4o"},
	}, nil)
	r := NewResolver(registry, &stubCredentialRepo{}, &stubUserRepo{}, nil)

	// 裸模型名优先于偏好里携带的模型名
	provider, model, err := r.pickProviderAndModel(context.Background(), ResolveInput{
		RequestModel:     "gpt-4o-mini",
		EntityPreference: "openai/gpt-4o",
	})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderOpenAI, provider)
	assert.Equal(t, "gpt-4o-mini", model)
}

func TestPickProviderAndModelUserPreference(t *testing.T) {
	registry := newTestRegistry(map[string]config.ProviderConfig{
		"gemini": {APIKey: "gm-real"},
	}, nil)
	userRepo := &stubUserRepo{user: &entity.User{ModelPreference: "gemini/gemini-1.5-flash"}}
	r := NewResolver(registry, &stubCredentialRepo{}, userRepo, nil)

	provider, model, err := r.pickProviderAndModel(context.Background(), ResolveInput{
		UserID: "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, provider)
	assert.Equal(t, "gemini-1.5-flash", model)
}

func TestPickProviderAndModelFallbackChainSkipsPlaceholders(t *testing.T) {
	registry := newTestRegistry(map[string]config.ProviderConfig{
		"openai": {APIKey: "your_openai_api_key"},
		"gemini": {APIKey: "gm-real"},
	}, []string{"openai", "gemini"})
	r := NewResolver(registry, &stubCredentialRepo{}, &stubUserRepo{}, nil)

	provider, model, err := r.pickProviderAndModel(context.Background(), ResolveInput{})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, provider)
	assert.Empty(t, model)
}

func TestPickProviderAndModelFallbackChainAcceptsLocalWithBaseURL(t *testing.T) {
	registry := newTestRegistry(map[string]config.ProviderConfig{
		"openai": {APIKey: ""},
		"local":  {BaseURL: "http://localhost:11434/v1"},
	}, []string{"openai", "local"})
	r := NewResolver(registry, &stubCredentialRepo{}, &stubUserRepo{}, nil)

	provider, _, err := r.pickProviderAndModel(context.Background(), ResolveInput{})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderLocal, provider)
}

func TestPickProviderAndModelNothingConfigured(t *testing.T) {
	registry := newTestRegistry(map[string]config.ProviderConfig{
		"openai": {APIKey: "changeme"},
	}, []string{"openai"})
	r := NewResolver(registry, &stubCredentialRepo{}, &stubUserRepo{}, nil)

	_, _, err := r.pickProviderAndModel(context.Background(), ResolveInput{})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeServiceUnavailable))
}

func TestUserCredentialOverride(t *testing.T) {
	cipher, err := crypto.NewCredentialCipher(testCipherKey)
	require.NoError(t, err)

	encrypted, err := cipher.Encrypt("sk-user-override")
	require.NoError(t, err)

	registry := newTestRegistry(map[string]config.ProviderConfig{
		"openai": {APIKey: "sk-system"},
	}, nil)
	credRepo := &stubCredentialRepo{credential: &entity.ProviderCredential{
		UserID:       "user-1",
		Provider:     "openai",
		EncryptedKey: encrypted,
	}}
	r := NewResolver(registry, credRepo, &stubUserRepo{}, cipher)

	apiKey, override := r.userCredential(context.Background(), "user-1", llm.ProviderOpenAI)
	assert.True(t, override)
	assert.Equal(t, "sk-user-override", apiKey)
}

func TestUserCredentialDecryptFailureFallsThrough(t *testing.T) {
	cipher, err := crypto.NewCredentialCipher(testCipherKey)
	require.NoError(t, err)

	registry := newTestRegistry(map[string]config.ProviderConfig{
		"openai": {APIKey: "sk-system"},
	}, nil)
	credRepo := &stubCredentialRepo{credential: &entity.ProviderCredential{
		UserID:       "user-1",
		Provider:     "openai",
		EncryptedKey: "deadbeef",
	}}
	r := NewResolver(registry, credRepo, &stubUserRepo{}, cipher)

	// 解密失败按无覆盖处理，继续走系统凭证
	apiKey, override := r.userCredential(context.Background(), "user-1", llm.ProviderOpenAI)
	assert.False(t, override)
	assert.Empty(t, apiKey)
}

func TestUserCredentialAnonymousUser(t *testing.T) {
	cipher, err := crypto.NewCredentialCipher(testCipherKey)
	require.NoError(t, err)

	registry := newTestRegistry(nil, nil)
	r := NewResolver(registry, &stubCredentialRepo{}, &stubUserRepo{}, cipher)

	_, override := r.userCredential(context.Background(), "", llm.ProviderOpenAI)
	assert.False(t, override)
}
