// token 为运营人员签发 access/refresh token，并写入 redis 登录态
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"anonworld/internal/config"
	"anonworld/internal/pkg"
	"anonworld/internal/repository/redis"
	"anonworld/internal/service"

	"go.uber.org/zap"
)

func main() {
	operatorID := flag.Uint64("operator", 0, "operator id")
	flag.Parse()

	log := zap.Must(zap.NewDevelopment())
	defer func() { _ = log.Sync() }()

	if *operatorID == 0 {
		log.Fatal("-operator is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	tokens, err := pkg.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	if err != nil {
		log.Fatal("jwt secrets", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redis.Init(ctx, cfg); err != nil {
		log.Fatal("connect redis", zap.Error(err))
	}
	defer func() { _ = redis.Close() }()

	pair, err := service.NewAuthService(tokens, redis.NewSessionRepository(redis.Client)).Issue(ctx, *operatorID)
	if err != nil {
		log.Fatal("issue token", zap.Error(err))
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pair); err != nil {
		log.Fatal("write token", zap.Error(err))
	}
}
