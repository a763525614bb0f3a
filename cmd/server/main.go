package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/qs3c/demostar_server/config"
	"github.com/qs3c/demostar_server/internal/api"
	"github.com/qs3c/demostar_server/internal/api/handler"
	"github.com/qs3c/demostar_server/internal/database"
	"github.com/qs3c/demostar_server/internal/pkg/cache"
	"github.com/qs3c/demostar_server/internal/pkg/cron"
	"github.com/qs3c/demostar_server/internal/pkg/log"
	"github.com/qs3c/demostar_server/internal/pkg/oss"
	"github.com/qs3c/demostar_server/internal/repository"
	"github.com/qs3c/demostar_server/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrate := flag.Bool("migrate", false, "run schema migration before serving")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.Log)
	defer log.L.Sync()

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.L.Fatal("failed to connect database", zap.Error(err))
	}
	log.L.Info("database connected")

	if *migrate {
		if err := database.AutoMigrate(db); err != nil {
			log.L.Fatal("failed to migrate database", zap.Error(err))
		}
		log.L.Info("database migrated")
	}

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.L.Fatal("failed to connect redis", zap.Error(err))
	}
	log.L.Info("redis connected")

	// 媒体地址解析，未配置 OSS 时原样返回库中地址
	var media service.MediaResolver
	if cfg.OSS.Endpoint != "" && cfg.OSS.BucketName != "" {
		ossClient, err := oss.NewClient(&cfg.OSS)
		if err != nil {
			log.L.Fatal("failed to init oss client", zap.Error(err))
		}
		media = ossClient
	}

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	actorRepo := repository.NewActorRepository(db)
	demoStarRepo := repository.NewDemoStarRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	// 初始化 Service
	cacheProvider := cache.NewProvider(rdb, "demostar")
	portfolioService := service.NewPortfolioService(actorRepo, demoStarRepo, likeRepo, userRepo, cacheProvider, media, cfg)
	imageService := service.NewImageService(actorRepo, portfolioService)
	demoStarService := service.NewDemoStarService(demoStarRepo, likeRepo, userRepo, media, cfg.Recommend)

	// 初始化 Handler
	demoStarHandler := handler.NewDemoStarHandler(demoStarService)
	portfolioHandler := handler.NewPortfolioHandler(portfolioService, imageService, cfg.Listing)

	// 初始化 Router
	engine := api.NewRouter(demoStarHandler, portfolioHandler, cfg).Setup()

	// 缓存预热
	var cronService *cron.Service
	if cfg.Warmer.Enabled {
		cronService = cron.NewService(portfolioService, time.Duration(cfg.Warmer.IntervalSeconds)*time.Second)
		cronService.Start()
	}

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	go func() {
		log.L.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.L.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.L.Info("shutting down")

	if cronService != nil {
		cronService.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.L.Error("server shutdown failed", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		log.L.Warn("redis close failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
