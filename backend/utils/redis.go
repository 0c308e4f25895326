package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"quizserver/backend/config"

	"github.com/redis/go-redis/v9"
)

const redisPingAttempts = 5

// InitRedis возвращает nil, nil если REDIS_ADDR не задан: кэш рейтинга выключен
func InitRedis(ctx context.Context, cfg *config.Config, logger *log.Logger) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		logger.Println("REDIS_ADDR not set, leaderboard cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	var err error
	for i := 1; i <= redisPingAttempts; i++ {
		if err = client.Ping(ctx).Err(); err == nil {
			break
		}
		logger.Printf("Waiting for Redis... (%d/%d)", i, redisPingAttempts)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis after %d attempts: %w", redisPingAttempts, err)
	}

	logger.Printf("Connected to Redis at %s", cfg.RedisAddr)
	return client, nil
}
