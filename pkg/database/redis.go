package database

import (
	"context"
	"fmt"
	"log"
	"skillbloom_backend/internal/config"

	"github.com/go-redis/redis/v8"
)

// RedisClient 初始化成功后由 app 赋值，连接失败时保持 nil
var RedisClient *redis.Client

func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     50,
		MinIdleConns: 5,
	})

	ctx := context.Background()
	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}

	log.Println("Redis connection established")
	return rdb, nil
}
