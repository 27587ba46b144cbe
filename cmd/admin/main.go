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

	"user-admin/internal/app"
	"user-admin/internal/core/config"
	"user-admin/internal/core/logger"
	"user-admin/internal/core/server"
	"user-admin/internal/transport/http/handler"
	"user-admin/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.Build(app.LoggerOptions(cfg))
	defer cleanup()

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	// 路由（管理页）
	r, err := router.NewAdminEngine(a.RouterOptions(), a.Registry())
	if err != nil {
		log.Fatal("templates", zap.Error(err))
	}

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	baseURL := server.HumanURL(cfg.App.Admin.Host, cfg.App.Admin.Port)
	log.Info("dashboard starting",
		zap.String("addr", addr),
		zap.String("open", baseURL+handler.DashboardPath),
		zap.String("health", baseURL+"/health"),
		zap.Bool("auth", cfg.Auth.Enabled),
	)

	// 异步启动；失败立即退出
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("dashboard start FAILED", zap.Error(err))
		}
	}()

	// 关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("dashboard stopped")
}
