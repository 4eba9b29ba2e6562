//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"campaign-forge-api/internal/application/chat"
	"campaign-forge-api/internal/application/generation"
	"campaign-forge-api/internal/application/quota"
	"campaign-forge-api/internal/application/seeding"
	"campaign-forge-api/internal/config"
	"campaign-forge-api/internal/domain/repository"
	"campaign-forge-api/internal/infrastructure/llm"
	"campaign-forge-api/internal/infrastructure/persistence/postgres"
	"campaign-forge-api/internal/infrastructure/persistence/redis"
	"campaign-forge-api/internal/interfaces/http/handler"
	"campaign-forge-api/internal/interfaces/http/router"
	workflowprompt "campaign-forge-api/internal/workflow/prompt"
)

// InitializeApp 初始化整个应用
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		LLMSet,
		ApplicationSet,
		RouterSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		ProvidePostgresClient,
		postgres.NewTxManager,
		postgres.NewUserRepository,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// RepoSet PostgreSQL 提供者与接口绑定集合
var RepoSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewCampaignRepository,
	postgres.NewSectionRepository,
	postgres.NewCharacterRepository,
	postgres.NewConversationRepository,
	postgres.NewUserRepository,
	postgres.NewProviderCredentialRepository,
	postgres.NewLLMUsageEventRepository,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.CampaignRepository), new(*postgres.CampaignRepository)),
	wire.Bind(new(repository.SectionRepository), new(*postgres.SectionRepository)),
	wire.Bind(new(repository.CharacterRepository), new(*postgres.CharacterRepository)),
	wire.Bind(new(repository.ConversationRepository), new(*postgres.ConversationRepository)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.ProviderCredentialRepository), new(*postgres.ProviderCredentialRepository)),
	wire.Bind(new(repository.LLMUsageEventRepository), new(*postgres.LLMUsageEventRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
)

// LLMSet LLM 供应商与凭证提供者集合
var LLMSet = wire.NewSet(
	llm.NewRegistry,
	ProvideCredentialCipher,
	workflowprompt.NewRegistry,
)

// ApplicationSet 应用服务提供者集合
var ApplicationSet = wire.NewSet(
	quota.NewLLMUsageRecorder,
	generation.NewResolver,
	ProvideGenerationService,
	seeding.NewPipeline,
	ProvideMemoryManager,
	chat.NewService,
)

// RouterSet 路由与处理器提供者集合
var RouterSet = wire.NewSet(
	ProvideJWTConfig,
	handler.NewHealthHandler,
	handler.NewAuthHandler,
	handler.NewGenerationHandler,
	handler.NewCampaignHandler,
	handler.NewSeedHandler,
	handler.NewChatHandler,
	handler.NewUserHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
