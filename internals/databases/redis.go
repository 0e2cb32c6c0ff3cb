package database

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"pendidikanku_backend/internals/configs"
)

var Redis *redis.Client

// ConnectRedis: REDIS_ADDR kosong atau ping gagal → nil (cache bank soal dimatikan).
func ConnectRedis() *redis.Client {
	addr := strings.TrimSpace(configs.GetEnv("REDIS_ADDR"))
	if addr == "" {
		log.Println("⚠️ REDIS_ADDR kosong, cache bank soal nonaktif")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: configs.GetEnv("REDIS_PASSWORD"),
		DB:       configs.GetEnvInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis ping gagal (%v), cache bank soal nonaktif", err)
		_ = rdb.Close()
		return nil
	}

	Redis = rdb
	log.Printf("✅ Redis connected (%s)", addr)
	return rdb
}
