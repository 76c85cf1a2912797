package data

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	noncePrefix = "nonce:"
	sweepPrefix = "swept:"

	// StreamEvents carries governance lifecycle notices to downstream
	// consumers (discord bot, dashboards).
	StreamEvents = "daogov.events"
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

func SetNonce(ctx context.Context, rdb *redis.Client, addr, nonce string) error {
	return rdb.Set(ctx, noncePrefix+addr, nonce, 5*time.Minute).Err()
}

func GetNonce(ctx context.Context, rdb *redis.Client, addr string) (string, error) {
	return rdb.Get(ctx, noncePrefix+addr).Result()
}

func ConfirmNonce(ctx context.Context, rdb *redis.Client, addr string) error {
	return rdb.Set(ctx, noncePrefix+addr, "CONFIRMED", 5*time.Minute).Err()
}

func GetAndDelNonce(ctx context.Context, rdb *redis.Client, addr string) (string, error) {
	return rdb.GetDel(ctx, noncePrefix+addr).Result()
}

func PublishEvent(ctx context.Context, rdb *redis.Client, payload map[string]interface{}) error {
	_, err := rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamEvents,
		Values: payload,
	}).Result()
	return err
}

// ClaimSweep reports whether this proposal's voting-ended notice is still
// unsent, claiming it atomically so restarts and extra replicas never
// publish twice.
func ClaimSweep(ctx context.Context, rdb *redis.Client, proposalID uint64) (bool, error) {
	key := sweepPrefix + strconv.FormatUint(proposalID, 10)
	return rdb.SetNX(ctx, key, "1", 0).Result()
}
