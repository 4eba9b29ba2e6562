// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// 认证管理
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	// 通用生成
	generate := v1.Group("/generate")
	{
		generate.POST("/text", h.Generation.GenerateText)
		generate.POST("/concept", h.Generation.GenerateConcept)
	}

	// 模型目录
	v1.GET("/models", h.Generation.ListModels)

	// 战役管理
	campaigns := v1.Group("/campaigns")
	{
		campaigns.GET("", h.Campaign.List)
		campaigns.POST("", h.Campaign.Create)
		campaigns.GET("/:id", h.Campaign.Get)
		campaigns.PUT("/:id", h.Campaign.Update)
		campaigns.DELETE("/:id", h.Campaign.Delete)

		// 目录与章节
		campaigns.POST("/:id/toc", h.Campaign.GenerateToc)
		campaigns.POST("/:id/seed", h.Seed.Seed)
		campaigns.GET("/:id/sections", h.Campaign.ListSections)
		campaigns.POST("/:id/titles", h.Campaign.GenerateTitles)
		campaigns.POST("/:id/homebrewery-toc", h.Campaign.GenerateHomebreweryToc)

		// 战役下的角色
		campaigns.GET("/:id/characters", h.Campaign.ListCharacters)
		campaigns.POST("/:id/characters", h.Campaign.CreateCharacter)
	}

	// 角色对话
	characters := v1.Group("/characters")
	{
		characters.POST("/:id/chat", h.Chat.Chat)
	}

	// 用户资料与凭证
	users := v1.Group("/users")
	{
		users.GET("/me", h.User.Me)
		users.PUT("/me/preference", h.User.UpdatePreference)
		users.PUT("/me/credentials/:provider", h.User.UpsertCredential)
		users.DELETE("/me/credentials/:provider", h.User.DeleteCredential)
		users.GET("/me/usage", h.User.ListUsage)
	}
}
