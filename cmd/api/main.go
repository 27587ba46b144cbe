package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"user-admin/internal/app"
	"user-admin/internal/core/config"
	"user-admin/internal/core/logger"
	"user-admin/internal/core/server"
	"user-admin/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.Build(app.LoggerOptions(cfg))
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	if cfg.Seed.OnStart {
		if _, err := a.Seeder.Seed(ctx); err != nil {
			log.Fatal("seed failed", zap.Error(err))
		}
		if err := a.Users.InvalidateList(ctx); err != nil {
			log.Warn("users cache bump failed", zap.Error(err))
		}
	}

	// 路由（JSON 接口）
	r := router.NewAPIEngine(a.RouterOptions(), a.Registry())

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	baseURL := server.HumanURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("users", baseURL+"/users?page=1"),
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
		zap.Bool("auth", cfg.Auth.Enabled),
		zap.Bool("cache", a.Cache != nil),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("user api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("user api stopped gracefully")
}
