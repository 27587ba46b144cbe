// Package app 按配置组装依赖：DB、缓存、仓储、service、JWT、路由选项
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"user-admin/internal/core/auth"
	"user-admin/internal/core/cache"
	"user-admin/internal/core/config"
	"user-admin/internal/core/database"
	"user-admin/internal/core/logger"
	"user-admin/internal/repo"
	"user-admin/internal/service"
	"user-admin/internal/transport/http/handler"
	"user-admin/internal/transport/http/router"
)

type App struct {
	Cfg    *config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	Cache  *cache.Cache // redis.addr 为空时为 nil
	JWT    *auth.JWTer
	Users  *service.UserService
	Seeder *service.Seeder

	closers []func()
}

// New 打开 DB、按需迁移、连接 redis；调用方负责 Close
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	a := &App{Cfg: cfg, Log: l}

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		LogWriter:          logger.ToWriter(l.Named("gorm"), zapcore.WarnLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("db open (%s %s): %w", cfg.DB.Driver, database.MaskDSN(cfg.DB.DSN), err)
	}
	a.DB = db
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver), zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	var listCache service.ListCache
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := c.Ping(ctx); err != nil {
			// 缓存不可用不影响启动，直接走 DB
			l.Warn("redis unavailable, list cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
		} else {
			a.Cache, listCache = c, c
			a.closers = append(a.closers, func() { _ = c.Close() })
		}
	}

	if cfg.JWT.Secret != "" {
		a.JWT = auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.AccessTokenTTLMin)*time.Minute)
	}

	users, roles := repo.NewUserRepo(db), repo.NewRoleRepo(db)
	a.Users = service.NewUserService(users, roles, service.Options{
		PerPage:  cfg.Users.PerPage,
		CacheTTL: time.Duration(cfg.Users.CacheTTLSec) * time.Second,
		Cache:    listCache,
		Logger:   l.Named("users"),
	})
	a.Seeder = service.NewSeeder(users, roles, cfg.Seed.Password, l.Named("seed"))
	return a, nil
}

// Close 逆序释放
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// RouterOptions 鉴权关闭时不挂 JWT 中间件
func (a *App) RouterOptions() router.Options {
	o := router.Options{
		Log:           a.Log.Named("http"),
		CORSOrigins:   a.Cfg.App.CORSOrigins,
		RateRPS:       a.Cfg.Limits.RPS,
		RateBurst:     a.Cfg.Limits.Burst,
		PerIPRPS:      a.Cfg.Limits.PerIPRPS,
		PerIPBurst:    a.Cfg.Limits.PerIPBurst,
		MaxConcurrent: a.Cfg.Limits.MaxConcurrent,
		MaxBodyBytes:  a.Cfg.Limits.MaxBodyBytes,
		Timeout:       time.Duration(a.Cfg.Limits.TimeoutSec) * time.Second,
	}
	if a.Cfg.Auth.Enabled {
		o.JWT = a.JWT
		o.RequireRole = a.Cfg.Auth.Role
	}
	return o
}

// Registry 用户模块同时提供 JSON 接口和管理页
func (a *App) Registry() *router.Registry {
	return router.NewRegistry(
		handler.NewUserHandler(a.Users, a.Log.Named("users")),
		handler.NewUserPages(a.Users, a.Log.Named("dashboard")),
	)
}

// LoggerOptions 由配置生成 logger.Options
func LoggerOptions(cfg *config.Config) logger.Options {
	return logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.Rotate.Enable,
			Filename:   cfg.Log.Rotate.Filename,
			MaxSizeMB:  cfg.Log.Rotate.MaxSizeMB,
			MaxBackups: cfg.Log.Rotate.MaxBackups,
			MaxAgeDays: cfg.Log.Rotate.MaxAgeDays,
			Compress:   cfg.Log.Rotate.Compress,
		},
	}
}
