package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/wholesale-cart-engine/config"
	appErrors "github.com/aaravmahajanofficial/wholesale-cart-engine/errors"
	"github.com/aaravmahajanofficial/wholesale-cart-engine/models"
	"github.com/redis/go-redis/v9"
)

type redisStorage struct {
	client *redis.Client
	key    string
	cfg    *config.StorageConfig
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {

	redisURL := cfg.RedisConnect.GetDSN()
	slog.Info("Connecting to Redis", slog.String("host", cfg.RedisConnect.Host), slog.String("port", cfg.RedisConnect.Port))

	// Parse the Redis URL
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Error("Failed to parse Redis URL", slog.Any("error", err))
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test the connection
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("Failed to connect to Redis", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("✅ Successfully connected to Redis")
	return client, nil
}

// NewRedisStorage keeps the cart as a JSON value under "<prefix>:<ownerID>",
// where ownerID is the host application's stable device or account id.
func NewRedisStorage(client *redis.Client, ownerID string, cfg *config.StorageConfig) Storage {
	return &redisStorage{
		client: client,
		key:    Key(cfg.KeyPrefix, ownerID),
		cfg:    cfg,
	}
}

func (r *redisStorage) Load(ctx context.Context) (*models.Cart, bool, error) {
	opCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	data, err := r.client.Get(opCtx, r.key).Bytes()
	if err != nil {

		if err == redis.Nil {
			return nil, false, nil
		}

		return nil, false, appErrors.StorageError("Failed to load cart").WithError(err)
	}

	cart := &models.Cart{}
	if err := json.Unmarshal(data, cart); err != nil {
		return nil, false, appErrors.StorageError("Failed to unmarshal stored cart").WithError(err)
	}

	return cart, true, nil
}

func (r *redisStorage) Save(ctx context.Context, cart *models.Cart) error {
	opCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	data, err := json.Marshal(cart)
	if err != nil {
		return appErrors.StorageError("Failed to marshal cart").WithError(err)
	}

	if err := r.client.Set(opCtx, r.key, data, r.cfg.TTL).Err(); err != nil {
		return appErrors.StorageError("Failed to save cart").WithError(err)
	}

	return nil
}

func (r *redisStorage) Clear(ctx context.Context) error {
	opCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.Del(opCtx, r.key).Err(); err != nil {
		return appErrors.StorageError("Failed to clear cart").WithError(err)
	}

	return nil
}

func (r *redisStorage) Close() error {
	return r.client.Close()
}

func (r *redisStorage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := r.cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return context.WithTimeout(ctx, timeout)
}
