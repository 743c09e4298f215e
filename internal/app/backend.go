package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/newtab/internal/config"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/redis"
	redisstore "github.com/MrSnakeDoc/newtab/internal/store/redis"
	"github.com/MrSnakeDoc/newtab/internal/store/sqlite"
)

// redisBackend owns its client so closing the backend closes the connection pool.
type redisBackend struct {
	*redisstore.Backend
	client *goredis.Client
}

func (b redisBackend) Close() error {
	return b.client.Close()
}

// OpenBackend opens the storage backend named kind. Redis is dialled with
// backoff and fails once cfg.RedisConnectTimeout is spent.
func OpenBackend(ctx context.Context, cfg *config.Config, kind string, log logger.Logger) (kv.Backend, error) {
	switch kind {
	case config.StorageMemory:
		log.Warn("using in-memory storage, data is lost on restart",
			logger.Int("quota_bytes", cfg.MemoryQuota))
		return kv.NewMemoryBackend(cfg.MemoryQuota), nil

	case config.StorageSQLite:
		log.Info("opening sqlite storage", logger.String("path", cfg.SQLitePath))
		b, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return b, nil

	case config.StorageRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return redisBackend{Backend: redisstore.NewBackend(client), client: client}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
