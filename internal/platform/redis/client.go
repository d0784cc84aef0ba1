package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"photo-timeline-server/internal/config"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const defaultPrefix = "photo_timeline"

// NewClient 按配置创建 Redis 客户端；未启用或不可用时返回 nil，调用方降级为内存模式。
func NewClient(cfg config.RedisConfig) *goredis.Client {
	if !cfg.Enabled {
		return nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		logrus.Warnf("⚠️ Redis 不可用，降级为内存模式: %v", err)
		return nil
	}

	logrus.Infof("✅ Redis 已连接: %s (db=%d)", cfg.Addr, cfg.DB)
	return client
}

// Key 基于前缀拼接 Redis 键名，例如 photo_timeline:rate:media:1.2.3.4。
func Key(prefix string, parts ...string) string {
	if prefix == "" {
		prefix = defaultPrefix
	}
	if len(parts) == 0 {
		return prefix
	}
	return prefix + ":" + strings.Join(parts, ":")
}

// Close 关闭 Redis 客户端连接，nil 客户端直接返回。
func Close(client *goredis.Client) error {
	if client == nil {
		return nil
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("close redis failed: %w", err)
	}
	return nil
}
