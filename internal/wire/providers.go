// Package wire 提供依赖注入配置
package wire

import (
	"campaign-forge-api/internal/application/generation"
	"campaign-forge-api/internal/application/memory"
	"campaign-forge-api/internal/application/quota"
	"campaign-forge-api/internal/config"
	"campaign-forge-api/internal/domain/repository"
	"campaign-forge-api/internal/infrastructure/crypto"
	"campaign-forge-api/internal/infrastructure/llm"
	"campaign-forge-api/internal/infrastructure/persistence/postgres"
	"campaign-forge-api/internal/infrastructure/persistence/redis"
	"campaign-forge-api/internal/interfaces/http/router"
	workflowprompt "campaign-forge-api/internal/workflow/prompt"
)

// App 完整应用依赖容器
type App struct {
	Router *router.Router
	// UsageRecorder 暴露给入口，用于挂接 Eino 全局回调
	UsageRecorder *quota.LLMUsageRecorder
}

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient  *postgres.Client
	TxManager *postgres.TxManager
	UserRepo  *postgres.UserRepository
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideCredentialCipher 提供用户凭证加解密器
func ProvideCredentialCipher(cfg *config.Config) (*crypto.CredentialCipher, error) {
	return crypto.NewCredentialCipher(cfg.Security.Credential.EncryptionKey)
}

// ProvideJWTConfig 提供 JWT 配置
func ProvideJWTConfig(cfg *config.Config) config.JWTConfig {
	return cfg.Security.JWT
}

// ProvideGenerationService 提供生成服务，模型目录缓存时长取自配置
func ProvideGenerationService(
	resolver *generation.Resolver,
	prompts *workflowprompt.Registry,
	cache *redis.Cache,
	registry *llm.Registry,
	cfg *config.Config,
) *generation.Service {
	return generation.NewService(resolver, prompts, cache, registry, cfg.LLM.ModelListTTL)
}

// ProvideMemoryManager 提供会话记忆管理器
func ProvideMemoryManager(
	convRepo repository.ConversationRepository,
	gen *generation.Service,
	cfg *config.Config,
) *memory.Manager {
	return memory.NewManager(convRepo, gen, cfg.Memory)
}
