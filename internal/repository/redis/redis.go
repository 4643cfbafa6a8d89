package redis

import (
	"context"
	"time"

	"anonworld/internal/config"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
)

// Options 根据配置生成客户端参数，超时沿用固定值
func Options(cfg *config.Config) *redis.Options {
	return &redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisPoolSize / 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	}
}

// Init 初始化全局客户端并 Ping 一次，失败时不保留客户端
func Init(ctx context.Context, cfg *config.Config) error {
	c := redis.NewClient(Options(cfg))
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return err
	}
	Client = c
	return nil
}

// Close 程序退出时调用
func Close() error {
	if Client == nil {
		return nil
	}
	return Client.Close()
}
