package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"pump-backend/internal/config"
)

// Current fuel price cache keys
const priceKeyFmt = "price:%d:%s" // station_id, fuel_type

var client *redis.Client

// Init initializes the Redis connection. On failure the client stays nil
// and every cache call degrades to a miss; the service keeps working
// without Redis.
func Init(cfg *config.Config) error {
	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

func priceKey(stationID int, fuelType string) string {
	return fmt.Sprintf(priceKeyFmt, stationID, fuelType)
}

// GetCachedPrice returns the cached current price for (station, fuel).
func GetCachedPrice(ctx context.Context, stationID int, fuelType string) (float64, bool) {
	if client == nil {
		return 0, false
	}
	val, err := client.Get(ctx, priceKey(stationID, fuelType)).Result()
	if err != nil {
		return 0, false
	}
	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// CachePrice caches the current price for 1 hour. Price updates always
// invalidate first, so the TTL only bounds staleness after a missed
// invalidation.
func CachePrice(ctx context.Context, stationID int, fuelType string, price float64) {
	if client == nil {
		return
	}
	client.Set(ctx, priceKey(stationID, fuelType), strconv.FormatFloat(price, 'f', -1, 64), time.Hour)
}

// InvalidatePrice removes the cached price. Called on every price update
// and deactivation.
func InvalidatePrice(ctx context.Context, stationID int, fuelType string) {
	if client == nil {
		return
	}
	client.Del(ctx, priceKey(stationID, fuelType))
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
