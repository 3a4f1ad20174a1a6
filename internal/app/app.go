// Package app 组装两个入口共用的依赖
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ads-online/internal/core/auth"
	"ads-online/internal/core/cache"
	"ads-online/internal/core/config"
	"ads-online/internal/core/database"
	"ads-online/internal/repo"
	"ads-online/internal/service"
	"ads-online/internal/transport/http/handler"
	"ads-online/internal/transport/http/router"
)

type App struct {
	DB       *gorm.DB
	Cache    *cache.Cache // 未配置 redis 时为 nil
	JWT      *auth.JWTer
	Accounts *service.AccountService
	Registry *router.Registry
	log      *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", database.MaskDSN(cfg.DB.DSN), err)
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver), zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, repo.Models()...); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		log.Info("automigrate done")
	}

	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		c.EvictDelay = time.Duration(cfg.Redis.EvictDelayMs) * time.Millisecond
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			// 缓存不可用不阻塞启动，读请求直接回源
			log.Warn("redis unavailable, image cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
			c = nil
		} else {
			log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	store := repo.NewStore(db)
	images := service.NewImageService(store.Images, c, time.Duration(cfg.Redis.ImageTTLSec)*time.Second, cfg.Image.MaxSizeBytes, log)
	authz := service.NewAuthorizer(store.Ads, store.Comments, log)
	ads := service.NewAdService(store.Repos, store, images, log)
	comments := service.NewCommentService(store.Ads, store.Comments, log)
	users := service.NewUserService(store.Repos, store, images, log)
	accounts := service.NewAccountService(store.Users, jwter, cfg.Auth.AllowRoleSelection, log)

	reg := (&router.Registry{}).Register(
		handler.NewAuthHandler(accounts),
		handler.NewAdHandler(ads, authz),
		handler.NewCommentHandler(comments, authz),
		handler.NewImageHandler(images),
		handler.NewUserHandler(users),
		handler.NewAdminHandler(users),
	)

	return &App{DB: db, Cache: c, JWT: jwter, Accounts: accounts, Registry: reg, log: log}, nil
}

// Deps 引擎依赖（含 DB 探活）
func (a *App) Deps(cfg *config.Config) router.Deps {
	return router.Deps{
		Log:     a.log,
		Limits:  cfg.Limits,
		Origins: cfg.CORS.AllowOrigins,
		Auth:    a.Accounts,
		JWT:     a.JWT,
		Health:  a.ping,
	}
}

func (a *App) ping() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func (a *App) Close() {
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
