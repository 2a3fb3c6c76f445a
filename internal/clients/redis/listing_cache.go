package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
)

// ListingCache stores serialized grouped-listing projections and fans
// out invalidations to every running instance so their SSE clients can
// refresh. A nil ListingCache is valid everywhere: callers fall back to
// direct DB reads.
type ListingCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Invalidate(ctx context.Context, channel string) error
	StartInvalidationListener(ctx context.Context, onInvalidate func(channel string)) error
	Close() error
}

type listingCache struct {
	log     *logger.Logger
	rdb     *goredis.Client
	pubChan string
}

func NewListingCache(log *logger.Logger) (ListingCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_INVALIDATION_CHANNEL"))
	if ch == "" {
		ch = "listing_invalidation"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &listingCache{
		log:     log.With("service", "RedisListingCache"),
		rdb:     rdb,
		pubChan: ch,
	}, nil
}

func (lc *listingCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := lc.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A stale or incompatible payload behaves like a miss.
		lc.log.Warn("Cached listing payload unreadable, treating as miss", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (lc *listingCache) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal listing for %s: %w", key, err)
	}
	if err := lc.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate drops every cached page for the channel and notifies all
// instances.
func (lc *listingCache) Invalidate(ctx context.Context, channel string) error {
	pattern := channel + ":*"
	iter := lc.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := lc.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			lc.log.Warn("Failed to delete cached listing key", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %s: %w", pattern, err)
	}
	if err := lc.rdb.Publish(ctx, lc.pubChan, channel).Err(); err != nil {
		return fmt.Errorf("redis publish invalidation %s: %w", channel, err)
	}
	return nil
}

func (lc *listingCache) StartInvalidationListener(ctx context.Context, onInvalidate func(channel string)) error {
	sub := lc.rdb.Subscribe(ctx, lc.pubChan)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe %s: %w", lc.pubChan, err)
	}
	go func() {
		defer func() { _ = sub.Close() }()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if onInvalidate != nil {
					onInvalidate(msg.Payload)
				}
			}
		}
	}()
	return nil
}

func (lc *listingCache) Close() error {
	return lc.rdb.Close()
}
