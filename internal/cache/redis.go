package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// Active-OSP-status cache keys
const (
	ospActiveKeyFmt = "osp:active:%s"
	ospActiveTTL    = 5 * time.Minute
)

var client *redis.Client

// Init initializes the Redis connection
func Init() error {
	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis" // fallback to service name
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
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

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// ActiveStatusKey builds a stable cache key for a batch of job card ids.
// The id set is sorted before hashing so request order does not matter.
func ActiveStatusKey(jobCardIDs []int64) string {
	ids := make([]int64, len(jobCardIDs))
	copy(ids, jobCardIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	h := sha256.New()
	for _, id := range ids {
		fmt.Fprintf(h, "%d:", id)
	}
	return fmt.Sprintf(ospActiveKeyFmt, hex.EncodeToString(h.Sum(nil))[:32])
}

// GetCachedActiveStatus returns a cached active-status payload if available
func GetCachedActiveStatus(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheActiveStatus caches an active-status payload for 5 minutes
func CacheActiveStatus(ctx context.Context, key string, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ospActiveTTL)
}

// InvalidateOSPCaches clears all active-status caches.
// Called when: ReceiveLot, SendToVendor (status sets change)
func InvalidateOSPCaches(ctx context.Context) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, "osp:active:*").Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
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
