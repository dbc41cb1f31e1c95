package config

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// OpenRedis returns nil when no REDIS_HOST is configured; callers treat a nil
// client as "caching disabled".
func OpenRedis(cfg Config) *redis.Client {
	if cfg.RedisHost == "" {
		return nil
	}
	addr := cfg.RedisHost + ":" + cfg.RedisPort
	logrus.WithFields(logrus.Fields{"addr": addr, "db": cfg.RedisDB}).Debug("redis: connecting")
	return redis.NewClient(&redis.Options{Addr: addr, Password: cfg.RedisPass, DB: cfg.RedisDB})
}
