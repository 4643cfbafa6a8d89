package main

import (
	"context"

	"anonworld/internal/config"
	"anonworld/internal/handler"
	"anonworld/internal/middleware"
	"anonworld/internal/pkg"
	"anonworld/internal/repository/mysql"
	"anonworld/internal/repository/redis"
	"anonworld/internal/router"
	"anonworld/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		log.Fatal("connect mysql", zap.Error(err))
	}
	if cfg.AutoMigrate {
		// 自动建表（开发阶段 OK）
		if err := mysql.AutoMigrate(mysql.DB); err != nil {
			log.Fatal("auto migrate", zap.Error(err))
		}
	}

	// 连接redis
	if err := redis.Init(context.Background(), cfg); err != nil {
		log.Fatal("connect redis", zap.Error(err))
	}
	defer func() { _ = redis.Close() }()

	var events service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		if err != nil {
			log.Fatal("create kafka producer", zap.Error(err))
		}
		defer func() { _ = producer.Close() }()
		events = producer
	} else {
		log.Info("kafka brokers not configured, community events disabled")
	}

	tokens, err := pkg.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	if err != nil {
		log.Fatal("jwt secrets", zap.Error(err))
	}
	authSvc := service.NewAuthService(tokens, redis.NewSessionRepository(redis.Client))

	h := router.Handlers{
		Community:  handler.NewCommunityHandler(service.NewCommunityService(mysql.NewCommunityRepository(mysql.DB), events, log)),
		Credential: handler.NewCredentialHandler(service.NewCredentialService()),
		Auth:       handler.NewAuthHandler(authSvc),
	}

	// Gin
	r := router.InitRouter(h, middleware.AuthMiddleware(authSvc))
	log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Error("http server stopped", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
