package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"user-admin/internal/app"
	"user-admin/internal/core/config"
	"user-admin/internal/core/database"
	"user-admin/internal/core/logger"
	"user-admin/internal/domain"
)

func main() {
	var (
		cfgPath  = pflag.StringP("config", "c", os.Getenv("CONFIG_PATH"), "config file path")
		password = pflag.String("password", "", "placeholder password for seeded users (overrides seed.password)")
		token    = pflag.Bool("token", false, "print a JWT for admin@example.com after seeding")
	)
	pflag.Parse()

	_ = godotenv.Load()
	cfg := config.MustLoad(*cfgPath)
	if *password != "" {
		cfg.Seed.Password = *password
	}
	log, cleanup := logger.Build(app.LoggerOptions(cfg))
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	// 没开 automigrate 时这里补一次
	if !cfg.DB.AutoMigrate {
		if err := database.Migrate(a.DB); err != nil {
			log.Fatal("migrate failed", zap.Error(err))
		}
	}

	rep, err := a.Seeder.Seed(ctx)
	if err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	if err := a.Users.InvalidateList(ctx); err != nil {
		log.Warn("users cache bump failed", zap.Error(err))
	}
	fmt.Printf("roles created: %d, users created: %d, users skipped: %d\n",
		rep.RolesCreated, rep.UsersCreated, rep.UsersSkipped)

	if !*token {
		return
	}
	if a.JWT == nil {
		log.Fatal("jwt.secret is not configured")
	}
	admin, err := a.Users.FindByEmail(ctx, "admin@example.com")
	if err != nil {
		log.Fatal("find admin", zap.Error(err))
	}
	tok, err := a.JWT.IssueForUser(admin.ID, admin.RoleNames())
	if err != nil {
		log.Fatal("issue token", zap.Error(err))
	}
	if !admin.HasRole(domain.RoleAdmin) {
		log.Warn("admin@example.com has no admin role")
	}
	fmt.Println(tok)
}
