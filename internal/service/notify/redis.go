package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kapu/polyglot-connect-go/internal/constants"
	"github.com/kapu/polyglot-connect-go/internal/util"
	"github.com/kapu/polyglot-connect-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Channel  string
}

// RedisPublisher announces catalog readiness to other processes with a single
// PUBLISH. Nothing is stored in Redis.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger

	once sync.Once
	err  error
}

func NewRedisPublisher(cfg RedisConfig, logger *zap.Logger) (*RedisPublisher, error) {
	logger = util.OrNop(logger)
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.RedisConfig.PingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewSourceError("failed to connect to Redis", "redis", "ping", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
		zap.String("channel", cfg.Channel),
	)

	return NewRedisPublisherWithClient(client, cfg.Channel, logger), nil
}

// NewRedisPublisherWithClient wraps an existing client.
func NewRedisPublisherWithClient(client *redis.Client, channel string, logger *zap.Logger) *RedisPublisher {
	if channel == "" {
		channel = constants.RedisConfig.ReadyChannel
	}
	return &RedisPublisher{
		client:  client,
		channel: channel,
		logger:  util.OrNop(logger),
	}
}

// CatalogReady publishes once; repeated calls return the first outcome.
func (p *RedisPublisher) CatalogReady(ctx context.Context) error {
	p.once.Do(func() {
		receivers, err := p.client.Publish(ctx, p.channel, constants.RedisConfig.ReadyMessage).Result()
		if err != nil {
			p.logger.Error("Catalog ready publish failed", zap.String("channel", p.channel), zap.Error(err))
			p.err = errors.NewSourceError("publish failed", "redis", "publish", err)
			return
		}
		p.logger.Info("Catalog ready published",
			zap.String("channel", p.channel),
			zap.Int64("receivers", receivers),
		)
	})
	return p.err
}

func (p *RedisPublisher) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
