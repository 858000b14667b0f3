package redis

import (
	"context"
	"encoding/json"
	"time"

	"troffee-auctioneer/internal/config"
	"troffee-auctioneer/internal/domain/vehicle"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewClient creates a new Redis client based on configuration
func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MaxRetries:   3,
	})
}

// PingRedis tests the Redis connection
func PingRedis(client *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return client.Ping(ctx).Err()
}

// VehicleCache is a best-effort read cache for admitted vehicles. Vehicles
// are immutable after admission, so entries never need invalidation. All
// cache failures are logged and swallowed; the repository stays the source
// of truth.
type VehicleCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

type VehicleCacheParams struct {
	Client *redis.Client
	TTL    time.Duration
	Logger zerolog.Logger
}

// NewVehicleCache creates a new vehicle cache
func NewVehicleCache(params VehicleCacheParams) *VehicleCache {
	ttl := params.TTL
	if ttl == 0 {
		ttl = time.Hour
	}
	return &VehicleCache{
		client: params.Client,
		ttl:    ttl,
		logger: params.Logger.With().Str("component", "vehicle_cache").Logger(),
	}
}

func (c *VehicleCache) key(id uuid.UUID) string {
	return "vehicle:" + id.String()
}

// Get retrieves a cached vehicle; a miss or any cache failure reports false
func (c *VehicleCache) Get(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, bool) {
	payload, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Str("vehicle_id", id.String()).Msg("Cache read failed")
		}
		return nil, false
	}

	var v vehicle.Vehicle
	if err := json.Unmarshal(payload, &v); err != nil {
		c.logger.Warn().Err(err).Str("vehicle_id", id.String()).Msg("Cache entry corrupt, ignoring")
		return nil, false
	}

	return &v, true
}

// Set stores a vehicle in the cache
func (c *VehicleCache) Set(ctx context.Context, v *vehicle.Vehicle) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn().Err(err).Str("vehicle_id", v.ID.String()).Msg("Cache marshal failed")
		return
	}

	if err := c.client.Set(ctx, c.key(v.ID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("vehicle_id", v.ID.String()).Msg("Cache write failed")
	}
}
