// Package main 数据库初始化与管理员播种
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"campaign-forge-api/internal/config"
	"campaign-forge-api/internal/domain/entity"
	"campaign-forge-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层（仅 PostgreSQL）
	dataLayer, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 3. 迁移全部表结构
	fmt.Println("Running migrations...")
	err = dataLayer.PgClient.DB().AutoMigrate(
		&entity.User{},
		&entity.Campaign{},
		&entity.Section{},
		&entity.Character{},
		&entity.Conversation{},
		&entity.ProviderCredential{},
		&entity.LLMUsageEvent{},
	)
	if err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	fmt.Println("Migrations complete.")

	// 4. 创建首个管理员
	adminUsername := os.Getenv("BOOTSTRAP_ADMIN_USERNAME")
	if adminUsername == "" {
		adminUsername = "admin"
	}
	adminEmail := os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@campaign-forge.local"
	}
	adminPassword := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123" // 生产环境请务必通过环境变量设置
	}

	exists, err := dataLayer.UserRepo.ExistsByUsername(ctx, adminUsername)
	if err != nil {
		log.Fatalf("failed to check admin existence: %v", err)
	}

	if !exists {
		fmt.Printf("Creating admin user: %s...\n", adminUsername)
		admin := entity.NewUser(adminUsername, adminEmail)
		admin.Role = entity.UserRoleAdmin
		if err := admin.SetPassword(adminPassword); err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}

		if err := dataLayer.UserRepo.Create(ctx, admin); err != nil {
			log.Fatalf("failed to create admin user: %v", err)
		}
		fmt.Println("Admin user created successfully.")
	} else {
		fmt.Printf("Admin user %s already exists.\n", adminUsername)
	}

	fmt.Println("Bootstrap complete.")
}
